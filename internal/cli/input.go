// Package cli handles cmd line input for DBG and trying patterns against
// the corpus without a client attached.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/crossforge/crossforge/internal/utils"
	"github.com/crossforge/crossforge/pkg/match"
)

// InputHandler reads fill patterns from stdin and prints the matching
// words with their scores. Underscores mark open cells, so "P_A_O" asks
// for five letter words with P, A and O pinned.
type InputHandler struct {
	matcher      *match.Matcher
	suggestLimit int
	source       string
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(matcher *match.Matcher, limit int, source string) *InputHandler {
	return &InputHandler{
		matcher:      matcher,
		suggestLimit: limit,
		source:       source,
	}
}

// Start begins the interface loop. It prompts for a pattern, reads a line
// from stdin and hands it to handleInput. The loop terminates when stdin
// closes or a read fails.
func (h *InputHandler) Start() error {
	log.Print("CrossForge CLI")
	reader := bufio.NewReader(os.Stdin)
	log.Print("type a pattern like C_T or ____S and press Enter (Ctrl+C to exit):")

	for {
		log.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		h.handleInput(line)
	}
}

// handleInput counts and lists matches for a single pattern.
func (h *InputHandler) handleInput(raw string) {
	pattern, err := match.Normalize(raw)
	if err != nil {
		log.Errorf("Bad pattern %q: %v", raw, err)
		return
	}

	ctx := context.Background()
	start := time.Now()

	total, err := h.matcher.Count(ctx, pattern)
	if err != nil {
		log.Errorf("Counting matches for '%s': %v", pattern, err)
		return
	}
	suggestions, err := h.matcher.Suggest(ctx, pattern, h.suggestLimit, h.source)
	if err != nil {
		log.Errorf("Fetching suggestions for '%s': %v", pattern, err)
		return
	}

	elapsed := time.Since(start)
	log.Debugf("Took [ %v ] for pattern '%s'", elapsed, pattern)

	if total == 0 {
		log.Warnf("No matches found for pattern: '%s'", pattern)
		return
	}

	log.Printf("Found %s matches for pattern '%s':", utils.FormatWithCommas(total), pattern)
	for i, s := range suggestions {
		clWord := fmt.Sprintf("\033[38;5;75m%s\033[0m", s.Word.Display)
		log.Printf("%2d. %-40s (score: %3d)", i+1, clWord, s.Word.Score)
		for _, clue := range s.Clues {
			log.Printf("      · %s", clue.Text)
		}
	}
	if total > len(suggestions) {
		log.Printf("    ... and %s more", utils.FormatWithCommas(total-len(suggestions)))
	}
}
