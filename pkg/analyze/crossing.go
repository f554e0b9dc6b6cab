package analyze

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/crossforge/crossforge/pkg/grid"
	"github.com/crossforge/crossforge/pkg/match"
)

// ErrUnknownSlot is returned when a slot reference does not correspond
// to any extractable slot of the supplied grid.
var ErrUnknownSlot = errors.New("analyze: unknown slot reference")

// CrossingScore is a candidate's bottleneck: the minimum fill count over
// its analyzed crossings. Unconstrained marks candidates with no
// analyzable crossing at all (e.g. a single-row grid); it ranks above
// every real count.
type CrossingScore struct {
	Count         int  `msgpack:"count" json:"count"`
	Unconstrained bool `msgpack:"unconstrained,omitempty" json:"unconstrained,omitempty"`
}

// Better reports whether s outranks o: unconstrained beats any count,
// otherwise higher counts win.
func (s CrossingScore) Better(o CrossingScore) bool {
	if s.Unconstrained != o.Unconstrained {
		return s.Unconstrained
	}
	return s.Count > o.Count
}

// tighten folds one crossing fill count into the running bottleneck.
func (s CrossingScore) tighten(fillCount int) CrossingScore {
	if s.Unconstrained || fillCount < s.Count {
		return CrossingScore{Count: fillCount}
	}
	return s
}

// unconstrained is the starting score before any crossing is analyzed.
func unconstrained() CrossingScore {
	return CrossingScore{Unconstrained: true}
}

// CrossingDetail is one analyzed intersection of a candidate word.
type CrossingDetail struct {
	Position  int            `msgpack:"position" json:"position"`
	Direction grid.Direction `msgpack:"direction" json:"direction"`
	Length    int            `msgpack:"length" json:"length"`
	FillCount int            `msgpack:"fill_count" json:"fill_count"`
}

// RankedSuggestion is a candidate word annotated with its bottleneck
// score and per-position crossing stats.
type RankedSuggestion struct {
	match.Suggestion
	Score   CrossingScore
	Details []CrossingDetail
}

// crossingSlot locates the perpendicular slot through (row, col) by
// scanning outward to the nearest black cell or edge. Crossings shorter
// than the minimum slot length are skipped (ok=false).
type crossing struct {
	row, col  int // origin of the crossing slot
	length    int
	posInSlot int // index of (row, col) within the crossing slot
	direction grid.Direction
}

func crossingSlot(g *grid.Grid, row, col int, slotDir grid.Direction) (crossing, bool) {
	if slotDir == grid.Across {
		startRow := row
		for startRow > 0 && !g.IsBlack(startRow-1, col) {
			startRow--
		}
		endRow := row
		for endRow < g.Rows()-1 && !g.IsBlack(endRow+1, col) {
			endRow++
		}
		length := endRow - startRow + 1
		if length < grid.MinSlotLength {
			return crossing{}, false
		}
		return crossing{row: startRow, col: col, length: length, posInSlot: row - startRow, direction: grid.Down}, true
	}

	startCol := col
	for startCol > 0 && !g.IsBlack(row, startCol-1) {
		startCol--
	}
	endCol := col
	for endCol < g.Cols()-1 && !g.IsBlack(row, endCol+1) {
		endCol++
	}
	length := endCol - startCol + 1
	if length < grid.MinSlotLength {
		return crossing{}, false
	}
	return crossing{row: row, col: startCol, length: length, posInSlot: col - startCol, direction: grid.Across}, true
}

// crossingPattern builds the crossing slot's pattern with the
// candidate's letter substituted at the intersection.
func crossingPattern(g *grid.Grid, c crossing, letter byte) string {
	pattern := make([]byte, c.length)
	for i := 0; i < c.length; i++ {
		if i == c.posInSlot {
			pattern[i] = letter
			continue
		}
		var cell grid.Cell
		if c.direction == grid.Down {
			cell = g.At(c.row+i, c.col)
		} else {
			cell = g.At(c.row, c.col+i)
		}
		if cell.Letter == 0 {
			pattern[i] = grid.Wildcard
		} else {
			pattern[i] = cell.Letter
		}
	}
	return string(pattern)
}

// analyzeCrossings computes a candidate's bottleneck over every letter
// position. The matcher's Count already takes the crossing-index fast
// path when the substituted letter is the pattern's only literal.
func (a *Analyzer) analyzeCrossings(ctx context.Context, g *grid.Grid, word string, slot grid.Slot) (CrossingScore, []CrossingDetail, error) {
	score := unconstrained()
	var details []CrossingDetail

	for i := 0; i < len(word); i++ {
		cell := slot.CellAt(i)
		if !g.InBounds(cell.Row, cell.Col) {
			continue
		}
		cross, ok := crossingSlot(g, cell.Row, cell.Col, slot.Direction)
		if !ok {
			continue
		}
		pattern := crossingPattern(g, cross, word[i])
		fillCount, err := a.matcher.Count(ctx, pattern)
		if err != nil {
			return CrossingScore{}, nil, err
		}
		details = append(details, CrossingDetail{
			Position:  i,
			Direction: cross.direction,
			Length:    cross.length,
			FillCount: fillCount,
		})
		score = score.tighten(fillCount)
	}

	return score, details, nil
}

// SuggestWithCrossings retrieves candidates for the slot starting at
// (row, col) in the given direction and ranks them by crossing
// bottleneck, descending, with the candidate's own corpus score breaking
// ties. Each entry carries its per-position crossing details.
func (a *Analyzer) SuggestWithCrossings(ctx context.Context, g *grid.Grid, row, col int, dir grid.Direction, limit int) ([]RankedSuggestion, error) {
	slot, ok := grid.FindSlot(g, row, col, dir)
	if !ok || slot.Length < grid.MinSlotLength {
		return nil, fmt.Errorf("%w: %s at (%d,%d)", ErrUnknownSlot, dir, row, col)
	}
	if limit <= 0 {
		limit = 30
	}

	candidates, err := a.matcher.Suggest(ctx, slot.Pattern, limit, "")
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	ranked := make([]RankedSuggestion, 0, len(candidates))
	for _, candidate := range candidates {
		score, details, err := a.analyzeCrossings(ctx, g, candidate.Word.Word, slot)
		if err != nil {
			return nil, err
		}
		ranked = append(ranked, RankedSuggestion{Suggestion: candidate, Score: score, Details: details})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score.Better(ranked[j].Score)
		}
		return ranked[i].Word.Score > ranked[j].Word.Score
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}
