// Package analyze classifies slot fill difficulty and ranks candidate
// words by their weakest crossing.
package analyze

import (
	"context"

	"github.com/crossforge/crossforge/pkg/corpus"
	"github.com/crossforge/crossforge/pkg/grid"
	"github.com/crossforge/crossforge/pkg/match"
)

// Severity buckets how many corpus words can still fill a slot.
type Severity string

const (
	SeverityGood   Severity = "good"
	SeverityOkay   Severity = "okay"
	SeverityTight  Severity = "tight"
	SeverityDanger Severity = "danger"
)

// Fill-count thresholds for the severity buckets.
const (
	goodThreshold  = 100
	okayThreshold  = 20
	tightThreshold = 5
)

// SeverityFor buckets a fill count. A complete slot (no wildcards left)
// never falls through to the thresholds: it is good when the word exists
// in the corpus at all, danger otherwise.
func SeverityFor(fillCount int, complete bool) Severity {
	if complete {
		if fillCount >= 1 {
			return SeverityGood
		}
		return SeverityDanger
	}
	switch {
	case fillCount >= goodThreshold:
		return SeverityGood
	case fillCount >= okayThreshold:
		return SeverityOkay
	case fillCount >= tightThreshold:
		return SeverityTight
	default:
		return SeverityDanger
	}
}

// SlotFill is one slot's fillability verdict.
type SlotFill struct {
	Number    int            `msgpack:"number" json:"number"`
	Direction grid.Direction `msgpack:"direction" json:"direction"`
	Row       int            `msgpack:"row" json:"row"`
	Col       int            `msgpack:"col" json:"col"`
	Length    int            `msgpack:"length" json:"length"`
	FillCount int            `msgpack:"fill_count" json:"fill_count"`
	Severity  Severity       `msgpack:"severity" json:"severity"`
}

// FillReport covers every slot of a grid plus a per-severity summary.
type FillReport struct {
	Slots   []SlotFill       `msgpack:"slots" json:"slots"`
	Summary map[Severity]int `msgpack:"summary" json:"summary"`
}

// Analyzer runs fillability and crossing analysis over a corpus.
type Analyzer struct {
	store   corpus.Store
	index   *corpus.Index
	matcher *match.Matcher
}

// New wires an analyzer.
func New(store corpus.Store, index *corpus.Index, matcher *match.Matcher) *Analyzer {
	return &Analyzer{store: store, index: index, matcher: matcher}
}

// Fillability counts the candidates for every slot of length >= 3 and
// buckets each by severity.
func (a *Analyzer) Fillability(ctx context.Context, g *grid.Grid) (FillReport, error) {
	report := FillReport{
		Summary: map[Severity]int{
			SeverityGood: 0, SeverityOkay: 0, SeverityTight: 0, SeverityDanger: 0,
		},
	}

	for _, slot := range grid.ExtractSlots(g) {
		if slot.Length < grid.MinSlotLength {
			continue
		}
		fillCount, err := a.matcher.Count(ctx, slot.Pattern)
		if err != nil {
			return FillReport{}, err
		}
		severity := SeverityFor(fillCount, slot.Complete())
		report.Slots = append(report.Slots, SlotFill{
			Number:    slot.Number,
			Direction: slot.Direction,
			Row:       slot.Row,
			Col:       slot.Col,
			Length:    slot.Length,
			FillCount: fillCount,
			Severity:  severity,
		})
		report.Summary[severity]++
	}

	return report, nil
}
