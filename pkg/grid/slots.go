package grid

// Direction of a slot in the grid.
type Direction string

const (
	Across Direction = "across"
	Down   Direction = "down"
)

// Perpendicular returns the crossing direction.
func (d Direction) Perpendicular() Direction {
	if d == Across {
		return Down
	}
	return Across
}

// Wildcard marks an empty cell inside a slot pattern.
const Wildcard = '_'

// MinSlotLength is the shortest run that counts as a fillable word.
// Runs of 2 are still extracted (the validator flags them); runs of 1
// are never slots.
const MinSlotLength = 3

// Slot is a maximal run of white cells in one direction.
type Slot struct {
	Number    int       `msgpack:"number" json:"number"`
	Direction Direction `msgpack:"direction" json:"direction"`
	Row       int       `msgpack:"row" json:"row"`
	Col       int       `msgpack:"col" json:"col"`
	Length    int       `msgpack:"length" json:"length"`
	Pattern   string    `msgpack:"pattern" json:"pattern"`
}

// Numbering assigns clue numbers in row-major scan order. A cell gets the
// next number if it starts an across run, a down run, or both; a cell
// starting both shares one number between them.
func Numbering(g *Grid) map[Coord]int {
	numbers := make(map[Coord]int)
	next := 1
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			if g.IsBlack(row, col) {
				continue
			}
			if startsAcross(g, row, col) || startsDown(g, row, col) {
				numbers[Coord{Row: row, Col: col}] = next
				next++
			}
		}
	}
	return numbers
}

func startsAcross(g *Grid, row, col int) bool {
	return (col == 0 || g.IsBlack(row, col-1)) &&
		col < g.cols-1 && !g.IsBlack(row, col+1)
}

func startsDown(g *Grid, row, col int) bool {
	return (row == 0 || g.IsBlack(row-1, col)) &&
		row < g.rows-1 && !g.IsBlack(row+1, col)
}

// ExtractSlots returns every slot of length >= 2 with its clue number and
// current pattern: across slots in row-major order first, then down slots
// column-major. Matching and analysis only consume slots of length >= 3;
// length-2 runs are extracted so the validator can report them.
func ExtractSlots(g *Grid) []Slot {
	numbers := Numbering(g)
	var slots []Slot

	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; {
			if g.IsBlack(row, col) {
				col++
				continue
			}
			start := col
			pattern := make([]byte, 0, g.cols)
			for col < g.cols && !g.IsBlack(row, col) {
				pattern = append(pattern, patternByte(g.At(row, col)))
				col++
			}
			if len(pattern) >= 2 {
				slots = append(slots, Slot{
					Number:    numbers[Coord{Row: row, Col: start}],
					Direction: Across,
					Row:       row,
					Col:       start,
					Length:    len(pattern),
					Pattern:   string(pattern),
				})
			}
		}
	}

	for col := 0; col < g.cols; col++ {
		for row := 0; row < g.rows; {
			if g.IsBlack(row, col) {
				row++
				continue
			}
			start := row
			pattern := make([]byte, 0, g.rows)
			for row < g.rows && !g.IsBlack(row, col) {
				pattern = append(pattern, patternByte(g.At(row, col)))
				row++
			}
			if len(pattern) >= 2 {
				slots = append(slots, Slot{
					Number:    numbers[Coord{Row: start, Col: col}],
					Direction: Down,
					Row:       start,
					Col:       col,
					Length:    len(pattern),
					Pattern:   string(pattern),
				})
			}
		}
	}

	return slots
}

// FindSlot resolves a slot reference by origin cell and direction. The
// second return is false when no extracted slot starts at that cell in
// that direction.
func FindSlot(g *Grid, row, col int, dir Direction) (Slot, bool) {
	for _, s := range ExtractSlots(g) {
		if s.Row == row && s.Col == col && s.Direction == dir {
			return s, true
		}
	}
	return Slot{}, false
}

// CellAt returns the coordinate of position i inside the slot.
func (s Slot) CellAt(i int) Coord {
	if s.Direction == Across {
		return Coord{Row: s.Row, Col: s.Col + i}
	}
	return Coord{Row: s.Row + i, Col: s.Col}
}

// Complete reports whether the slot has no empty cells left.
func (s Slot) Complete() bool {
	for i := 0; i < len(s.Pattern); i++ {
		if s.Pattern[i] == Wildcard {
			return false
		}
	}
	return true
}

func patternByte(c Cell) byte {
	if c.Letter == 0 {
		return Wildcard
	}
	return c.Letter
}
