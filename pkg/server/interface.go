/*
Package server implements msgpack IPC for the crossword construction core.

The server reads a stream of msgpack-encoded request maps from stdin and
writes one msgpack response per request to stdout. Each request carries an
ID field that is echoed back, a command string, and the parameters that
command needs.

A suggestion request looks like:

	{"id": "req_001", "cmd": "suggest", "p": "P_A_O", "l": 10}

and the response carries matches with their clues and timing info:

	{"id": "req_001", "suggestions": [...], "count": 2, "t": 3}

Grid-based commands (slots, validate, fillability, crossings) send the grid
as one string per row: '#' for a black square, '.' or '_' for an empty white
square, a letter for a filled one.

Supported commands: slots, validate, fillability, suggest, crossings,
invalidate, health. All semantics live in pkg/grid, pkg/match and
pkg/analyze; the server only shapes wire messages.

msgpack keeps messages compact and cheap to parse compared to JSON, which
matters when editor clients re-run fillability on every grid edit.
*/
package server

import (
	"github.com/crossforge/crossforge/pkg/analyze"
	"github.com/crossforge/crossforge/pkg/grid"
)

// Request is an incoming IPC message.
type Request struct {
	ID        string   `msgpack:"id"`
	Command   string   `msgpack:"cmd"`
	Grid      []string `msgpack:"grid,omitempty"`
	Pattern   string   `msgpack:"p,omitempty"`
	Row       int      `msgpack:"row,omitempty"`
	Col       int      `msgpack:"col,omitempty"`
	Direction string   `msgpack:"dir,omitempty"`
	Limit     int      `msgpack:"l,omitempty"`
	Symmetry  *bool    `msgpack:"sym,omitempty"`
	Source    string   `msgpack:"src,omitempty"`
}

// StatusResponse acknowledges commands with no payload (invalidate, health)
// and signals readiness at startup.
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
}

// ErrorResponse reports a failed request.
type ErrorResponse struct {
	ID    string `msgpack:"id,omitempty"`
	Error string `msgpack:"error"`
	Code  int    `msgpack:"code"`
}

// SlotsResponse lists the extracted slots with their clue numbers.
type SlotsResponse struct {
	ID        string      `msgpack:"id"`
	Slots     []grid.Slot `msgpack:"slots"`
	Count     int         `msgpack:"count"`
	TimeTaken int64       `msgpack:"t"`
}

// ValidateResponse carries the validation report.
type ValidateResponse struct {
	ID        string      `msgpack:"id"`
	Report    grid.Report `msgpack:"report"`
	TimeTaken int64       `msgpack:"t"`
}

// FillabilityResponse carries per-slot fill counts and the severity summary.
type FillabilityResponse struct {
	ID        string             `msgpack:"id"`
	Report    analyze.FillReport `msgpack:"report"`
	TimeTaken int64              `msgpack:"t"`
}

// WireClue is a clue attached to a suggestion.
type WireClue struct {
	Text       string `msgpack:"text"`
	Difficulty int    `msgpack:"difficulty"`
}

// WireSuggestion is one candidate word on the wire.
type WireSuggestion struct {
	Word     string     `msgpack:"word"`
	Display  string     `msgpack:"display"`
	Score    int        `msgpack:"score"`
	IsPhrase bool       `msgpack:"is_phrase,omitempty"`
	Clues    []WireClue `msgpack:"clues,omitempty"`
}

// SuggestResponse answers a pattern suggestion request. Total is the full
// match count for the pattern; Count is how many suggestions were returned.
type SuggestResponse struct {
	ID          string           `msgpack:"id"`
	Pattern     string           `msgpack:"pattern"`
	Suggestions []WireSuggestion `msgpack:"suggestions"`
	Count       int              `msgpack:"count"`
	Total       int              `msgpack:"total"`
	TimeTaken   int64            `msgpack:"t"`
}

// WireRanked is a suggestion with its crossing analysis.
type WireRanked struct {
	WireSuggestion
	CrossingScore analyze.CrossingScore    `msgpack:"crossing_score"`
	Crossings     []analyze.CrossingDetail `msgpack:"crossings"`
}

// CrossingsResponse answers a crossing-aware suggestion request.
type CrossingsResponse struct {
	ID          string       `msgpack:"id"`
	Slot        grid.Slot    `msgpack:"slot"`
	Suggestions []WireRanked `msgpack:"suggestions"`
	Count       int          `msgpack:"count"`
	TimeTaken   int64        `msgpack:"t"`
}
