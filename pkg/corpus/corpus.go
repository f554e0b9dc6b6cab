// Package corpus holds the word store the matching and analysis layers
// query, plus the derived in-memory indices built over it.
//
// The store owns all persistence and mutation. The rest of the system
// only ever reads from it and reacts to mutations by invalidating the
// derived caches (see Index).
package corpus

import (
	"context"
	"errors"
	"sort"
	"strings"
)

var (
	// ErrUnavailable wraps every underlying store failure; callers do
	// not retry, retry policy belongs to the store.
	ErrUnavailable = errors.New("corpus: store unavailable")
	// ErrNotFound is returned for lookups of missing words or clues.
	ErrNotFound = errors.New("corpus: not found")
	// ErrExists is returned when creating a word that is already stored.
	ErrExists = errors.New("corpus: word already exists")
)

// MaxWordLength bounds the word lengths the crossing index ingests. 21
// is the largest standard crossword dimension. The store accepts longer
// words; lookups beyond this length must not consult the crossing index
// and fall back to scanning instead.
const MaxWordLength = 21

// Word is a corpus entry. Word is uppercase letters only; Display keeps
// the natural casing and spacing from the source list.
type Word struct {
	ID       int64
	Word     string
	Display  string
	Length   int
	Score    int
	IsPhrase bool
	Sources  []string
}

// HasSource reports whether the word carries the given origin tag.
func (w Word) HasSource(source string) bool {
	for _, s := range w.Sources {
		if s == source {
			return true
		}
	}
	return false
}

// Clue is one clue attached to a word.
type Clue struct {
	ID         int64
	WordID     int64
	Text       string
	Difficulty int
	Tags       string
}

// Store is the read surface the core consumes.
type Store interface {
	// WordsOfLength returns all words of exactly the given length, in
	// the store's stable iteration order.
	WordsOfLength(ctx context.Context, length int) ([]Word, error)
	// WordByID looks a word up by id.
	WordByID(ctx context.Context, id int64) (Word, error)
	// CluesOf returns the clues of a word, ordered by id.
	CluesOf(ctx context.Context, wordID int64) ([]Clue, error)
	// CountOfLength counts words of exactly the given length.
	CountOfLength(ctx context.Context, length int) (int, error)
}

// Mutable is the full store surface, including the mutations owned by
// the store. After any mutation the caller must invalidate derived
// indices built over the store.
type Mutable interface {
	Store

	WordByText(ctx context.Context, word string) (Word, error)
	AddWord(ctx context.Context, w Word) (Word, error)
	UpdateWord(ctx context.Context, w Word) error
	DeleteWord(ctx context.Context, id int64) error
	AddClue(ctx context.Context, c Clue) (Clue, error)
	DeleteClue(ctx context.Context, wordID, clueID int64) error
	Count(ctx context.Context) (int, error)
}

// NormalizeWord strips a raw entry down to its uppercase letters, the
// form the matcher compares against.
func NormalizeWord(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range strings.ToUpper(raw) {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte(byte(r))
		}
	}
	return b.String()
}

// JoinSources renders a source set in the stored comma form.
func JoinSources(sources []string) string {
	if len(sources) == 0 {
		return ""
	}
	sorted := append([]string(nil), sources...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

// SplitSources parses the stored comma form back into a set.
func SplitSources(joined string) []string {
	if joined == "" {
		return nil
	}
	parts := strings.Split(joined, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
