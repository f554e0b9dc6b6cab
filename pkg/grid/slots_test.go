package grid

import (
	"errors"
	"testing"
)

// mini 4x4 layout used across the slot tests:
//
//	C A T #
//	O . . .
//	W . # .
//	# . . .
var miniRows = []string{
	"CAT#",
	"O...",
	"W.#.",
	"#...",
}

func mustGrid(t *testing.T, rows []string) *Grid {
	t.Helper()
	g, err := FromStrings(rows)
	if err != nil {
		t.Fatalf("FromStrings(%v): %v", rows, err)
	}
	return g
}

func TestNumberingRowMajor(t *testing.T) {
	g := mustGrid(t, miniRows)
	numbers := Numbering(g)

	// 1 at (0,0) starts both CAT across and COW down, sharing one number
	expected := map[Coord]int{
		{Row: 0, Col: 0}: 1,
		{Row: 0, Col: 1}: 2,
		{Row: 0, Col: 2}: 3,
		{Row: 1, Col: 0}: 4,
		{Row: 1, Col: 3}: 5,
		{Row: 2, Col: 0}: 6,
		{Row: 3, Col: 1}: 7,
	}
	if len(numbers) != len(expected) {
		t.Fatalf("got %d numbered cells, want %d: %v", len(numbers), len(expected), numbers)
	}
	for coord, want := range expected {
		if got := numbers[coord]; got != want {
			t.Errorf("number at (%d,%d) = %d, want %d", coord.Row, coord.Col, got, want)
		}
	}
}

func TestExtractSlots(t *testing.T) {
	g := mustGrid(t, miniRows)
	slots := ExtractSlots(g)

	// across slots first in row-major order, then down slots column-major;
	// length-2 runs are extracted too, for the validator
	expected := []Slot{
		{Number: 1, Direction: Across, Row: 0, Col: 0, Length: 3, Pattern: "CAT"},
		{Number: 4, Direction: Across, Row: 1, Col: 0, Length: 4, Pattern: "O___"},
		{Number: 6, Direction: Across, Row: 2, Col: 0, Length: 2, Pattern: "W_"},
		{Number: 7, Direction: Across, Row: 3, Col: 1, Length: 3, Pattern: "___"},
		{Number: 1, Direction: Down, Row: 0, Col: 0, Length: 3, Pattern: "COW"},
		{Number: 2, Direction: Down, Row: 0, Col: 1, Length: 4, Pattern: "A___"},
		{Number: 3, Direction: Down, Row: 0, Col: 2, Length: 2, Pattern: "T_"},
		{Number: 5, Direction: Down, Row: 1, Col: 3, Length: 3, Pattern: "___"},
	}

	if len(slots) != len(expected) {
		t.Fatalf("got %d slots, want %d: %+v", len(slots), len(expected), slots)
	}
	for i, want := range expected {
		if slots[i] != want {
			t.Errorf("slot[%d] = %+v, want %+v", i, slots[i], want)
		}
	}
}

func TestExtractSlotsEmptyGrid(t *testing.T) {
	g := mustGrid(t, nil)
	if slots := ExtractSlots(g); len(slots) != 0 {
		t.Errorf("empty grid produced %d slots", len(slots))
	}
}

func TestExtractSlotsAllBlack(t *testing.T) {
	g := mustGrid(t, []string{"###", "###"})
	if slots := ExtractSlots(g); len(slots) != 0 {
		t.Errorf("all-black grid produced %d slots", len(slots))
	}
}

func TestSlotPatternMatchesCells(t *testing.T) {
	g := mustGrid(t, miniRows)
	for _, s := range ExtractSlots(g) {
		if len(s.Pattern) != s.Length {
			t.Errorf("slot %d-%s: pattern %q does not cover length %d", s.Number, s.Direction, s.Pattern, s.Length)
		}
		for i := 0; i < s.Length; i++ {
			c := s.CellAt(i)
			cell := g.At(c.Row, c.Col)
			want := byte(Wildcard)
			if cell.Letter != 0 {
				want = cell.Letter
			}
			if s.Pattern[i] != want {
				t.Errorf("slot %d-%s pos %d: pattern byte %q, cell %q", s.Number, s.Direction, i, s.Pattern[i], want)
			}
		}
	}
}

func TestFindSlot(t *testing.T) {
	g := mustGrid(t, miniRows)

	s, ok := FindSlot(g, 0, 0, Down)
	if !ok {
		t.Fatal("FindSlot(0,0,down) not found")
	}
	if s.Pattern != "COW" {
		t.Errorf("FindSlot(0,0,down).Pattern = %q, want COW", s.Pattern)
	}

	// (1,1) is inside slots but starts none
	if _, ok := FindSlot(g, 1, 1, Across); ok {
		t.Error("FindSlot(1,1,across) should not resolve: cell is not a slot origin")
	}
}

func TestSlotComplete(t *testing.T) {
	cases := []struct {
		pattern  string
		complete bool
	}{
		{"CAT", true},
		{"C_T", false},
		{"___", false},
	}
	for _, tc := range cases {
		s := Slot{Pattern: tc.pattern}
		if got := s.Complete(); got != tc.complete {
			t.Errorf("Complete(%q) = %v, want %v", tc.pattern, got, tc.complete)
		}
	}
}

func TestPerpendicular(t *testing.T) {
	if Across.Perpendicular() != Down || Down.Perpendicular() != Across {
		t.Error("Perpendicular is not an involution over across/down")
	}
}

func TestFromStringsRagged(t *testing.T) {
	if _, err := FromStrings([]string{"ABC", "AB"}); err == nil {
		t.Error("ragged rows should fail")
	}
}

func TestFromStringsRejectsNonLetters(t *testing.T) {
	// digits and punctuation would become cells no word can ever match
	for _, rows := range [][]string{
		{"A1C"},
		{"A?C"},
		{"AB,"},
		{"CAT", "0..", "..."},
	} {
		if _, err := FromStrings(rows); !errors.Is(err, ErrInvalidShape) {
			t.Errorf("FromStrings(%v) err = %v, want ErrInvalidShape", rows, err)
		}
	}
}

func TestNewRejectsNonLetterCells(t *testing.T) {
	cells := [][]Cell{{{Letter: 'A'}, {Letter: '3'}, {}}}
	if _, err := New(cells); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("New with non-letter cell err = %v, want ErrInvalidShape", err)
	}
}
