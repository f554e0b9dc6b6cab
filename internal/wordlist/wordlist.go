// Package wordlist parses the seed word lists (jones, broda, cnex),
// normalizes their scores to a shared 0-100 scale and merges them into
// corpus entries.
package wordlist

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/crossforge/crossforge/pkg/corpus"
)

// Entry is one merged word candidate before import.
type Entry struct {
	Word     string // uppercase letters only
	Display  string // natural casing and spacing
	Score    int    // normalized 0-100
	Sources  map[string]bool
	IsPhrase bool
}

func newEntry(word, display string, score int, source string, isPhrase bool) Entry {
	return Entry{
		Word:     word,
		Display:  display,
		Score:    score,
		Sources:  map[string]bool{source: true},
		IsPhrase: isPhrase,
	}
}

// NormalizeJonesScore maps jones 1-50 onto 2-100.
func NormalizeJonesScore(score int) int {
	return min(100, max(0, score*2))
}

// NormalizeBrodaScore maps broda 38-80 linearly onto 45-100.
func NormalizeBrodaScore(score int) int {
	if score <= 38 {
		return 45
	}
	if score >= 80 {
		return 100
	}
	return (score-38)*55/42 + 45
}

// NormalizeCNEXScore maps cnex 5-90 linearly onto 5-100.
func NormalizeCNEXScore(score int) int {
	if score <= 5 {
		return 5
	}
	if score >= 90 {
		return 100
	}
	return (score-5)*95/85 + 5
}

// ParseJones reads the jones list: "display;score" lines, mixed case,
// phrases contain spaces.
func ParseJones(r io.Reader) (map[string]Entry, error) {
	words := make(map[string]Entry)
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || !strings.Contains(line, ";") {
			continue
		}
		sep := strings.LastIndex(line, ";")
		display := strings.TrimSpace(line[:sep])
		score, err := strconv.Atoi(strings.TrimSpace(line[sep+1:]))
		if err != nil {
			log.Warnf("jones line %d: bad score: %v", lineNum, err)
			continue
		}
		word := corpus.NormalizeWord(display)
		if word == "" || word != strings.ToUpper(strings.ReplaceAll(display, " ", "")) {
			// non-alphabetic entries are skipped
			continue
		}
		keepBest(words, newEntry(word, display, NormalizeJonesScore(score), "jones", strings.Contains(display, " ")))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read jones list: %w", err)
	}
	return words, nil
}

// ParseBroda reads the broda CSV: word,score rows with an optional
// header.
func ParseBroda(r io.Reader) (map[string]Entry, error) {
	words := make(map[string]Entry)
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	lineNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read broda list: %w", err)
		}
		lineNum++
		if len(row) < 2 {
			continue
		}
		if lineNum == 1 && strings.EqualFold(strings.TrimSpace(row[0]), "word") {
			continue
		}
		display := strings.TrimSpace(row[0])
		score, err := strconv.Atoi(strings.TrimSpace(row[1]))
		if err != nil {
			log.Warnf("broda line %d: bad score: %v", lineNum, err)
			continue
		}
		word := corpus.NormalizeWord(display)
		if word == "" {
			continue
		}
		isPhrase := strings.Contains(display, " ") || strings.Contains(display, "-")
		keepBest(words, newEntry(word, display, NormalizeBrodaScore(score), "broda", isPhrase))
	}
	return words, nil
}

// ParseCNEX reads the cnex list: "WORD;score" lines, all caps, no
// phrase markers.
func ParseCNEX(r io.Reader) (map[string]Entry, error) {
	words := make(map[string]Entry)
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || !strings.Contains(line, ";") {
			continue
		}
		sep := strings.LastIndex(line, ";")
		raw := strings.TrimSpace(line[:sep])
		score, err := strconv.Atoi(strings.TrimSpace(line[sep+1:]))
		if err != nil {
			log.Warnf("cnex line %d: bad score: %v", lineNum, err)
			continue
		}
		word := corpus.NormalizeWord(raw)
		if len(word) < 2 {
			continue
		}
		keepBest(words, newEntry(word, raw, NormalizeCNEXScore(score), "cnex", false))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read cnex list: %w", err)
	}
	return words, nil
}

// keepBest stores the entry unless one with a higher score already
// exists for the same word.
func keepBest(words map[string]Entry, entry Entry) {
	if existing, ok := words[entry.Word]; ok && existing.Score >= entry.Score {
		return
	}
	words[entry.Word] = entry
}

// Merge combines multiple parsed lists: highest normalized score wins,
// sources union, and jones/broda displays (natural casing) are preferred
// over cnex's all-caps form.
func Merge(lists ...map[string]Entry) map[string]Entry {
	merged := make(map[string]Entry)
	for _, list := range lists {
		for word, entry := range list {
			existing, ok := merged[word]
			if !ok {
				merged[word] = entry
				continue
			}

			combined := Entry{
				Word:     word,
				Display:  existing.Display,
				Score:    max(existing.Score, entry.Score),
				Sources:  unionSources(existing.Sources, entry.Sources),
				IsPhrase: existing.IsPhrase,
			}
			if hasNaturalDisplay(entry) && (!hasNaturalDisplay(existing) || entry.Score >= existing.Score) {
				combined.Display = entry.Display
				combined.IsPhrase = entry.IsPhrase
			}
			merged[word] = combined
		}
	}
	return merged
}

func hasNaturalDisplay(e Entry) bool {
	return e.Sources["jones"] || e.Sources["broda"]
}

func unionSources(a, b map[string]bool) map[string]bool {
	out := make(map[string]bool, len(a)+len(b))
	for s := range a {
		out[s] = true
	}
	for s := range b {
		out[s] = true
	}
	return out
}

// TitleCase renders an all-caps cnex-only display in a readable form.
func TitleCase(word string) string {
	if len(word) <= 1 {
		return strings.ToUpper(word)
	}
	return strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
}

// SourceList flattens a source set into the corpus form.
func SourceList(sources map[string]bool) []string {
	out := make([]string, 0, len(sources))
	for s := range sources {
		out = append(out, s)
	}
	return out
}
