// Package match implements wildcard pattern matching against the word
// corpus.
//
// A pattern is a fixed-length string of uppercase letters and '_'
// wildcards. A word matches iff it has exactly the pattern's length and
// agrees with every literal position. This is anchored exact-length
// matching, not substring search.
package match

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/crossforge/crossforge/pkg/corpus"
	"github.com/crossforge/crossforge/pkg/grid"
)

// ErrPatternTooShort is returned for patterns shorter than the minimum
// slot length. Slots below that length are never matchable.
var ErrPatternTooShort = errors.New("match: pattern shorter than minimum slot length")

// Suggestion is one candidate word for a pattern, with its clues.
// Ephemeral: constructed per query, never persisted.
type Suggestion struct {
	Word  corpus.Word
	Clues []corpus.Clue
}

// Matcher answers pattern queries using the corpus store and its derived
// index for the fast paths. Matching is a pure read; Matchers are safe
// for concurrent use.
type Matcher struct {
	store corpus.Store
	index *corpus.Index
}

// New wires a matcher over a store and its index.
func New(store corpus.Store, index *corpus.Index) *Matcher {
	return &Matcher{store: store, index: index}
}

// Normalize uppercases and trims a raw pattern and checks its length.
func Normalize(pattern string) (string, error) {
	p := strings.ToUpper(strings.TrimSpace(pattern))
	if len(p) < grid.MinSlotLength {
		return "", fmt.Errorf("%w: %q", ErrPatternTooShort, pattern)
	}
	return p, nil
}

// Matches reports whether word fits pattern. Both must already be
// normalized uppercase.
func Matches(word, pattern string) bool {
	if len(word) != len(pattern) {
		return false
	}
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != grid.Wildcard && pattern[i] != word[i] {
			return false
		}
	}
	return true
}

// literalAt returns the position and letter of the single literal in
// pattern, or ok=false when the pattern has zero or several literals.
func literalAt(pattern string) (pos int, letter byte, ok bool) {
	pos = -1
	for i := 0; i < len(pattern); i++ {
		if pattern[i] == grid.Wildcard {
			continue
		}
		if pos >= 0 {
			return 0, 0, false
		}
		pos, letter = i, pattern[i]
	}
	if pos < 0 {
		return 0, 0, false
	}
	return pos, letter, true
}

func allWildcards(pattern string) bool {
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != grid.Wildcard {
			return false
		}
	}
	return true
}

// Count returns how many corpus words fit the pattern.
//
// An all-wildcard pattern is answered from the length-count cache and a
// single-literal pattern from the crossing index, both without touching
// word rows. Everything else scans the words of that length; the scan
// honors ctx cancellation. Patterns longer than the crossing index
// covers also scan, so every path agrees on the count.
func (m *Matcher) Count(ctx context.Context, pattern string) (int, error) {
	p, err := Normalize(pattern)
	if err != nil {
		return 0, err
	}

	if allWildcards(p) {
		return m.index.LengthCount(ctx, len(p))
	}
	if pos, letter, ok := literalAt(p); ok && len(p) <= corpus.MaxWordLength {
		return m.index.CrossingCount(ctx, len(p), pos, letter)
	}

	words, err := m.store.WordsOfLength(ctx, len(p))
	if err != nil {
		return 0, err
	}
	count := 0
	for i, w := range words {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		if Matches(w.Word, p) {
			count++
		}
	}
	return count, nil
}

// Suggest returns up to limit candidate words matching the pattern, in
// corpus iteration order (not score order; see the crossing-aware path
// in pkg/analyze for ranked results). A non-empty source keeps only
// words carrying that origin tag. Each suggestion carries the word's
// clues.
func (m *Matcher) Suggest(ctx context.Context, pattern string, limit int, source string) ([]Suggestion, error) {
	p, err := Normalize(pattern)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}

	words, err := m.store.WordsOfLength(ctx, len(p))
	if err != nil {
		return nil, err
	}

	var suggestions []Suggestion
	for i, w := range words {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if !Matches(w.Word, p) {
			continue
		}
		if source != "" && !w.HasSource(source) {
			continue
		}
		clues, err := m.store.CluesOf(ctx, w.ID)
		if err != nil {
			log.Warnf("Loading clues for %q: %v", w.Word, err)
			clues = nil
		}
		suggestions = append(suggestions, Suggestion{Word: w, Clues: clues})
		if len(suggestions) >= limit {
			break
		}
	}
	return suggestions, nil
}
