package wordlist

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/crossforge/crossforge/pkg/corpus"
)

// Stats reports the outcome of an import run.
type Stats struct {
	Inserted int
	Updated  int
	Skipped  int
}

// userSource marks words the constructor added by hand; imports never
// overwrite them.
const userSource = "user"

// ImportEntries writes merged entries into the store. Existing words are
// updated only when the incoming score is higher and the stored word is
// not user-owned; otherwise the incoming sources are still unioned in.
// Callers must invalidate derived indices afterwards.
func ImportEntries(ctx context.Context, store corpus.Mutable, entries map[string]Entry) (Stats, error) {
	var stats Stats
	for _, entry := range entries {
		display := entry.Display
		if strings.ToUpper(display) == display && entry.Sources["cnex"] && !hasNaturalDisplay(entry) {
			display = TitleCase(display)
		}

		existing, err := store.WordByText(ctx, entry.Word)
		switch {
		case errors.Is(err, corpus.ErrNotFound):
			_, err := store.AddWord(ctx, corpus.Word{
				Word:     entry.Word,
				Display:  display,
				Score:    entry.Score,
				Sources:  SourceList(entry.Sources),
				IsPhrase: entry.IsPhrase || strings.Contains(display, " "),
			})
			if err != nil {
				return stats, fmt.Errorf("import %q: %w", entry.Word, err)
			}
			stats.Inserted++
		case err != nil:
			return stats, fmt.Errorf("import %q: %w", entry.Word, err)
		case existing.HasSource(userSource):
			stats.Skipped++
		case entry.Score > existing.Score:
			existing.Display = display
			existing.Score = entry.Score
			existing.Sources = SourceList(unionSources(sourcesSet(existing.Sources), entry.Sources))
			existing.IsPhrase = entry.IsPhrase || strings.Contains(display, " ")
			if err := store.UpdateWord(ctx, existing); err != nil {
				return stats, fmt.Errorf("import %q: %w", entry.Word, err)
			}
			stats.Updated++
		default:
			existing.Sources = SourceList(unionSources(sourcesSet(existing.Sources), entry.Sources))
			if err := store.UpdateWord(ctx, existing); err != nil {
				return stats, fmt.Errorf("import %q: %w", entry.Word, err)
			}
			stats.Skipped++
		}
	}
	return stats, nil
}

func sourcesSet(sources []string) map[string]bool {
	set := make(map[string]bool, len(sources))
	for _, s := range sources {
		set[s] = true
	}
	return set
}

// ImportSeedDir parses whichever seed lists exist under dir (jones.txt,
// broda.csv, cnex.txt), merges them and imports the result.
func ImportSeedDir(ctx context.Context, store corpus.Mutable, dir string) (Stats, error) {
	var lists []map[string]Entry

	parsers := []struct {
		file  string
		parse func(io.Reader) (map[string]Entry, error)
	}{
		{"jones.txt", ParseJones},
		{"broda.csv", ParseBroda},
		{"cnex.txt", ParseCNEX},
	}

	for _, p := range parsers {
		path := filepath.Join(dir, p.file)
		f, err := os.Open(path)
		if err != nil {
			log.Warnf("Seed list %s not found, skipping", path)
			continue
		}
		list, err := p.parse(f)
		f.Close()
		if err != nil {
			return Stats{}, fmt.Errorf("parse %s: %w", path, err)
		}
		log.Infof("Parsed %s: %d words", p.file, len(list))
		lists = append(lists, list)
	}

	if len(lists) == 0 {
		return Stats{}, fmt.Errorf("no seed lists found in %s", dir)
	}

	merged := Merge(lists...)
	log.Infof("Merged seed lists: %d unique words", len(merged))
	return ImportEntries(ctx, store, merged)
}

// ImportCSV bulk-imports "word,clue,difficulty,tags" rows: new words are
// created with the user source, and clues are attached to new and
// existing words alike. Returns per-row errors rather than aborting,
// capped at ten.
func ImportCSV(ctx context.Context, store corpus.Mutable, r io.Reader) (Stats, []string, error) {
	var stats Stats
	var rowErrs []string

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, rowErrs, fmt.Errorf("read csv: %w", err)
		}
		rowNum++
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		if rowNum == 1 {
			if head := strings.ToLower(strings.TrimSpace(row[0])); head == "word" || head == "answer" {
				continue
			}
		}

		word := corpus.NormalizeWord(row[0])
		if word == "" || word != strings.ToUpper(strings.TrimSpace(row[0])) {
			rowErrs = appendRowErr(rowErrs, fmt.Sprintf("row %d: invalid word %q", rowNum, row[0]))
			stats.Skipped++
			continue
		}

		target, err := store.WordByText(ctx, word)
		if errors.Is(err, corpus.ErrNotFound) {
			target, err = store.AddWord(ctx, corpus.Word{
				Word:    word,
				Display: strings.TrimSpace(row[0]),
				Sources: []string{userSource},
			})
			if err == nil {
				stats.Inserted++
			}
		}
		if err != nil {
			rowErrs = appendRowErr(rowErrs, fmt.Sprintf("row %d: %v", rowNum, err))
			stats.Skipped++
			continue
		}

		if len(row) > 1 && strings.TrimSpace(row[1]) != "" {
			clue := corpus.Clue{WordID: target.ID, Text: strings.TrimSpace(row[1]), Difficulty: 3}
			if len(row) > 2 && strings.TrimSpace(row[2]) != "" {
				if d, err := strconv.Atoi(strings.TrimSpace(row[2])); err == nil {
					clue.Difficulty = d
				}
			}
			if len(row) > 3 {
				clue.Tags = strings.TrimSpace(row[3])
			}
			if _, err := store.AddClue(ctx, clue); err != nil {
				rowErrs = appendRowErr(rowErrs, fmt.Sprintf("row %d: %v", rowNum, err))
				stats.Skipped++
				continue
			}
		}
	}

	return stats, rowErrs, nil
}

func appendRowErr(errs []string, msg string) []string {
	if len(errs) >= 10 {
		return errs
	}
	return append(errs, msg)
}
