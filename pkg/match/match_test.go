package match

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/crossforge/crossforge/pkg/corpus"
)

func newTestMatcher(t testing.TB, words ...string) (*Matcher, *corpus.MemStore) {
	t.Helper()
	store := corpus.NewMemStore()
	ctx := context.Background()
	for _, w := range words {
		if _, err := store.AddWord(ctx, corpus.Word{Word: w, Score: 50}); err != nil {
			t.Fatalf("seeding %q: %v", w, err)
		}
	}
	return New(store, corpus.NewIndex(store)), store
}

func TestMatches(t *testing.T) {
	cases := []struct {
		word    string
		pattern string
		want    bool
	}{
		{"PIANO", "P_A_O", true},
		{"PLANO", "P_A_O", true},
		{"PESTO", "P_A_O", false},
		{"PIANO", "_____", true},
		{"PIANO", "PIANO", true},
		{"PIANO", "PIAN_", true},
		{"PIAN", "P_A_O", false}, // length mismatch
		{"PIANOS", "P_A_O", false},
		{"CAT", "C_T", true},
		{"CUT", "C_T", true},
		{"COG", "C_T", false},
	}
	for _, tc := range cases {
		if got := Matches(tc.word, tc.pattern); got != tc.want {
			t.Errorf("Matches(%q, %q) = %v, want %v", tc.word, tc.pattern, got, tc.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	p, err := Normalize("  p_a_o ")
	if err != nil {
		t.Fatal(err)
	}
	if p != "P_A_O" {
		t.Errorf("Normalize = %q, want P_A_O", p)
	}

	for _, short := range []string{"", "A", "A_", "__"} {
		if _, err := Normalize(short); !errors.Is(err, ErrPatternTooShort) {
			t.Errorf("Normalize(%q) err = %v, want ErrPatternTooShort", short, err)
		}
	}
}

func TestCount(t *testing.T) {
	matcher, _ := newTestMatcher(t, "PIANO", "PLANO", "PESTO", "CAT", "COT", "CUT")
	ctx := context.Background()

	cases := []struct {
		pattern string
		want    int
	}{
		{"P_A_O", 2}, // PIANO, PLANO but not PESTO
		{"P___O", 3},
		{"_____", 3}, // all five-letter words
		{"C_T", 3},
		{"___", 3},
		{"Z____", 0},
		{"PIANO", 1},
		{"p_a_o", 2}, // lowercase input normalizes
	}
	for _, tc := range cases {
		got, err := matcher.Count(ctx, tc.pattern)
		if err != nil {
			t.Fatalf("Count(%q): %v", tc.pattern, err)
		}
		if got != tc.want {
			t.Errorf("Count(%q) = %d, want %d", tc.pattern, got, tc.want)
		}
	}
}

func TestCountFastPathsAgree(t *testing.T) {
	// the all-wildcard and single-literal fast paths must agree with a
	// plain scan over the same corpus
	matcher, store := newTestMatcher(t, "PIANO", "PLANO", "PLATO", "CAT", "COT")
	ctx := context.Background()

	words3, err := store.WordsOfLength(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	allWild, err := matcher.Count(ctx, "___")
	if err != nil {
		t.Fatal(err)
	}
	if allWild != len(words3) {
		t.Errorf("Count(___) = %d, want store count %d", allWild, len(words3))
	}

	single, err := matcher.Count(ctx, "C__")
	if err != nil {
		t.Fatal(err)
	}
	scan := 0
	for _, w := range words3 {
		if Matches(w.Word, "C__") {
			scan++
		}
	}
	if single != scan {
		t.Errorf("Count(C__) = %d via index, scan says %d", single, scan)
	}
}

func TestCountWordsBeyondIndexedLength(t *testing.T) {
	// the crossing index only covers standard grid lengths; words longer
	// than that must still count the same on every path
	long := "ELECTROENCEPHALOGRAPHS" // 22 letters
	if len(long) <= corpus.MaxWordLength {
		t.Fatalf("test word is only %d letters", len(long))
	}
	matcher, _ := newTestMatcher(t, long)
	ctx := context.Background()

	cases := []struct {
		pattern string
		want    int
	}{
		{"E" + strings.Repeat("_", len(long)-1), 1}, // single literal
		{strings.Repeat("_", len(long)), 1},         // all wildcards
		{"EL" + strings.Repeat("_", len(long)-2), 1},
		{"Z" + strings.Repeat("_", len(long)-1), 0},
	}
	for _, tc := range cases {
		got, err := matcher.Count(ctx, tc.pattern)
		if err != nil {
			t.Fatalf("Count(%q): %v", tc.pattern, err)
		}
		if got != tc.want {
			t.Errorf("Count(%q) = %d, want %d", tc.pattern, got, tc.want)
		}
	}
}

func TestCountCanceledContext(t *testing.T) {
	matcher, _ := newTestMatcher(t, "PIANO", "PLANO")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// multi-literal pattern forces the scanning path
	if _, err := matcher.Count(ctx, "P_A_O"); !errors.Is(err, context.Canceled) {
		t.Errorf("Count on canceled ctx err = %v, want context.Canceled", err)
	}
}

func TestSuggest(t *testing.T) {
	matcher, store := newTestMatcher(t, "PIANO", "PLANO", "PESTO")
	ctx := context.Background()

	w, err := store.WordByText(ctx, "PIANO")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.AddClue(ctx, corpus.Clue{WordID: w.ID, Text: "Keyboard instrument"}); err != nil {
		t.Fatal(err)
	}

	suggestions, err := matcher.Suggest(ctx, "P_A_O", 0, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(suggestions) != 2 {
		t.Fatalf("got %d suggestions, want 2", len(suggestions))
	}
	// corpus insertion order, not score order
	if suggestions[0].Word.Word != "PIANO" || suggestions[1].Word.Word != "PLANO" {
		t.Errorf("suggestions out of corpus order: %q, %q", suggestions[0].Word.Word, suggestions[1].Word.Word)
	}
	if len(suggestions[0].Clues) != 1 || suggestions[0].Clues[0].Text != "Keyboard instrument" {
		t.Errorf("PIANO clues = %+v", suggestions[0].Clues)
	}
}

func TestSuggestLimit(t *testing.T) {
	matcher, _ := newTestMatcher(t, "CAT", "COT", "CUT")
	suggestions, err := matcher.Suggest(context.Background(), "C_T", 2, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(suggestions) != 2 {
		t.Errorf("got %d suggestions, want limit 2", len(suggestions))
	}
}

func TestSuggestSourceFilter(t *testing.T) {
	store := corpus.NewMemStore()
	ctx := context.Background()
	seeds := []corpus.Word{
		{Word: "CAT", Sources: []string{"jones"}},
		{Word: "COT", Sources: []string{"broda"}},
		{Word: "CUT", Sources: []string{"jones", "broda"}},
	}
	for _, w := range seeds {
		if _, err := store.AddWord(ctx, w); err != nil {
			t.Fatal(err)
		}
	}
	matcher := New(store, corpus.NewIndex(store))

	suggestions, err := matcher.Suggest(ctx, "C_T", 0, "jones")
	if err != nil {
		t.Fatal(err)
	}
	if len(suggestions) != 2 {
		t.Fatalf("got %d jones suggestions, want 2", len(suggestions))
	}
	for _, s := range suggestions {
		if !s.Word.HasSource("jones") {
			t.Errorf("%q leaked through the source filter", s.Word.Word)
		}
	}
}

func BenchmarkCount(b *testing.B) {
	words := make([]string, 0, 26*26)
	for a := byte('A'); a <= 'Z'; a++ {
		for c := byte('A'); c <= 'Z'; c++ {
			words = append(words, fmt.Sprintf("%cA%cOS", a, c))
		}
	}
	matcher, _ := newTestMatcher(b, words...)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := matcher.Count(ctx, "_A_OS"); err != nil {
			b.Fatal(err)
		}
	}
}
