package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/crossforge/crossforge/internal/logger"
	"github.com/crossforge/crossforge/pkg/analyze"
	"github.com/crossforge/crossforge/pkg/corpus"
	"github.com/crossforge/crossforge/pkg/grid"
	"github.com/crossforge/crossforge/pkg/match"
)

// Server handles the IPC for grid analysis and word suggestions.
type Server struct {
	store    corpus.Store
	index    *corpus.Index
	matcher  *match.Matcher
	analyzer *analyze.Analyzer

	decoder *msgpack.Decoder
	encoder *msgpack.Encoder
	log     *log.Logger

	maxLimit    int
	maxGridSize int
}

// NewServer creates a server using stdin/stdout for IPC.
func NewServer(store corpus.Store, index *corpus.Index, maxLimit, maxGridSize int) *Server {
	s := &Server{
		store:       store,
		index:       index,
		matcher:     match.New(store, index),
		log:         logger.New("ipc"),
		maxLimit:    maxLimit,
		maxGridSize: maxGridSize,
	}
	s.analyzer = analyze.New(store, index, s.matcher)
	s.decoder = msgpack.NewDecoder(os.Stdin)
	s.encoder = msgpack.NewEncoder(os.Stdout)
	return s
}

// SetIO redirects the msgpack streams, used by tests.
func (s *Server) SetIO(r io.Reader, w io.Writer) {
	s.decoder = msgpack.NewDecoder(r)
	s.encoder = msgpack.NewEncoder(w)
}

// Start begins listening for IPC requests. It returns nil when the client
// closes stdin.
func (s *Server) Start() error {
	s.log.Debug("Starting server")

	s.send(StatusResponse{Status: "ready"})

	for {
		var request Request
		if err := s.decoder.Decode(&request); err != nil {
			if err == io.EOF {
				return nil
			}
			s.log.Errorf("Decoding request: %v", err)
			s.sendError("", "Invalid msgpack request", 400)
			continue
		}
		s.handleRequest(request)
	}
}

func (s *Server) handleRequest(request Request) {
	ctx := context.Background()

	switch request.Command {
	case "slots":
		s.handleSlots(request)
	case "validate":
		s.handleValidate(request)
	case "fillability":
		s.handleFillability(ctx, request)
	case "suggest":
		s.handleSuggest(ctx, request)
	case "crossings":
		s.handleCrossings(ctx, request)
	case "invalidate":
		s.index.InvalidateAll()
		s.send(StatusResponse{ID: request.ID, Status: "ok"})
	case "health":
		s.send(StatusResponse{ID: request.ID, Status: "ok"})
	default:
		s.sendError(request.ID, fmt.Sprintf("Unknown command: %s", request.Command), 400)
	}
}

func (s *Server) send(response any) {
	if err := s.encoder.Encode(response); err != nil {
		s.log.Errorf("Encoding response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	s.send(ErrorResponse{ID: id, Error: message, Code: code})
}

// sendFailure maps domain errors onto wire codes.
func (s *Server) sendFailure(id string, err error) {
	switch {
	case errors.Is(err, corpus.ErrUnavailable):
		s.sendError(id, "Corpus unavailable", 503)
	case errors.Is(err, match.ErrPatternTooShort), errors.Is(err, grid.ErrInvalidShape):
		s.sendError(id, err.Error(), 400)
	case errors.Is(err, analyze.ErrUnknownSlot):
		s.sendError(id, err.Error(), 404)
	default:
		s.sendError(id, "Internal server error", 500)
		s.log.Errorf("Request %s: %v", id, err)
	}
}

// parseGrid builds a grid from the wire rows and bounds its size.
func (s *Server) parseGrid(request Request) (*grid.Grid, bool) {
	if len(request.Grid) == 0 {
		s.sendError(request.ID, "Missing 'grid' parameter", 400)
		return nil, false
	}
	if len(request.Grid) > s.maxGridSize || len(request.Grid[0]) > s.maxGridSize {
		s.sendError(request.ID, fmt.Sprintf("Grid exceeds maximum size of %d", s.maxGridSize), 400)
		return nil, false
	}
	g, err := grid.FromStrings(request.Grid)
	if err != nil {
		s.sendError(request.ID, err.Error(), 400)
		return nil, false
	}
	return g, true
}

func (s *Server) clampLimit(limit, fallback int) int {
	if limit < 1 {
		return fallback
	}
	if limit > s.maxLimit {
		return s.maxLimit
	}
	return limit
}

func (s *Server) handleSlots(request Request) {
	g, ok := s.parseGrid(request)
	if !ok {
		return
	}

	start := time.Now()
	slots := grid.ExtractSlots(g)

	s.send(SlotsResponse{
		ID:        request.ID,
		Slots:     slots,
		Count:     len(slots),
		TimeTaken: time.Since(start).Milliseconds(),
	})
}

func (s *Server) handleValidate(request Request) {
	g, ok := s.parseGrid(request)
	if !ok {
		return
	}

	// symmetry checking defaults on, matching standard construction
	symmetry := true
	if request.Symmetry != nil {
		symmetry = *request.Symmetry
	}

	start := time.Now()
	report := grid.Validate(g, symmetry)

	s.send(ValidateResponse{
		ID:        request.ID,
		Report:    report,
		TimeTaken: time.Since(start).Milliseconds(),
	})
}

func (s *Server) handleFillability(ctx context.Context, request Request) {
	g, ok := s.parseGrid(request)
	if !ok {
		return
	}

	start := time.Now()
	report, err := s.analyzer.Fillability(ctx, g)
	if err != nil {
		s.sendFailure(request.ID, err)
		return
	}

	s.send(FillabilityResponse{
		ID:        request.ID,
		Report:    report,
		TimeTaken: time.Since(start).Milliseconds(),
	})
}

func (s *Server) handleSuggest(ctx context.Context, request Request) {
	if request.Pattern == "" {
		s.sendError(request.ID, "Missing 'p' parameter", 400)
		return
	}

	pattern, err := match.Normalize(request.Pattern)
	if err != nil {
		s.sendFailure(request.ID, err)
		return
	}
	limit := s.clampLimit(request.Limit, 20)

	start := time.Now()
	total, err := s.matcher.Count(ctx, pattern)
	if err != nil {
		s.sendFailure(request.ID, err)
		return
	}
	suggestions, err := s.matcher.Suggest(ctx, pattern, limit, request.Source)
	if err != nil {
		s.sendFailure(request.ID, err)
		return
	}

	s.send(SuggestResponse{
		ID:          request.ID,
		Pattern:     pattern,
		Suggestions: wireSuggestions(suggestions),
		Count:       len(suggestions),
		Total:       total,
		TimeTaken:   time.Since(start).Milliseconds(),
	})
}

func (s *Server) handleCrossings(ctx context.Context, request Request) {
	g, ok := s.parseGrid(request)
	if !ok {
		return
	}

	dir := grid.Direction(request.Direction)
	if dir != grid.Across && dir != grid.Down {
		s.sendError(request.ID, "Direction must be 'across' or 'down'", 400)
		return
	}
	limit := s.clampLimit(request.Limit, 30)

	start := time.Now()
	ranked, err := s.analyzer.SuggestWithCrossings(ctx, g, request.Row, request.Col, dir, limit)
	if err != nil {
		s.sendFailure(request.ID, err)
		return
	}

	slot, _ := grid.FindSlot(g, request.Row, request.Col, dir)
	wire := make([]WireRanked, len(ranked))
	for i, r := range ranked {
		wire[i] = WireRanked{
			WireSuggestion: wireSuggestion(r.Suggestion),
			CrossingScore:  r.Score,
			Crossings:      r.Details,
		}
	}

	s.send(CrossingsResponse{
		ID:          request.ID,
		Slot:        slot,
		Suggestions: wire,
		Count:       len(wire),
		TimeTaken:   time.Since(start).Milliseconds(),
	})
}

func wireSuggestion(sug match.Suggestion) WireSuggestion {
	clues := make([]WireClue, len(sug.Clues))
	for i, c := range sug.Clues {
		clues[i] = WireClue{Text: c.Text, Difficulty: c.Difficulty}
	}
	return WireSuggestion{
		Word:     sug.Word.Word,
		Display:  sug.Word.Display,
		Score:    sug.Word.Score,
		IsPhrase: sug.Word.IsPhrase,
		Clues:    clues,
	}
}

func wireSuggestions(sugs []match.Suggestion) []WireSuggestion {
	out := make([]WireSuggestion, len(sugs))
	for i, sug := range sugs {
		out[i] = wireSuggestion(sug)
	}
	return out
}
