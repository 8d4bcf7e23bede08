// Package narration turns a resolved turn into prose through an LLM. The
// narrator never changes state; when it fails the fact lines themselves
// become the narrative.
package narration

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/mazmorra/internal/config"
	"github.com/cory-johannsen/mazmorra/internal/game/character"
	"github.com/cory-johannsen/mazmorra/internal/game/session"
	"github.com/cory-johannsen/mazmorra/internal/game/world"
)

// ErrEmptyNarration is returned when a provider answers with no text.
var ErrEmptyNarration = errors.New("narration: empty response")

// ErrorNarrative is the in-fiction message shown when a request fails
// outside the game rules.
const ErrorNarrative = "El abismo consume tus palabras... (Error del narrador)"

// Request is the grounding a narrator receives for one turn.
type Request struct {
	Players   []*character.Player
	Room      *world.Room
	Flags     []string
	FactLines []string
	History   []session.Message
}

// Narrator renders a turn as prose.
type Narrator interface {
	// Narrate returns prose that must not contradict req.FactLines.
	Narrate(ctx context.Context, req Request) (string, error)
}

// Fallback joins fact lines into the narrative used when a narrator fails.
func Fallback(facts []string) string {
	return strings.Join(facts, "\n")
}

// Narrate asks n for prose and falls back to the fact lines on any error or
// empty answer. fellBack reports whether the fallback was used.
//
// Postcondition: text is never empty when req.FactLines is non-empty.
func Narrate(ctx context.Context, n Narrator, req Request, logger *zap.Logger) (text string, fellBack bool) {
	if n == nil {
		return Fallback(req.FactLines), false
	}
	out, err := n.Narrate(ctx, req)
	if err == nil && strings.TrimSpace(out) == "" {
		err = ErrEmptyNarration
	}
	if err != nil {
		logger.Warn("narration failed, using fact lines", zap.Error(err))
		return Fallback(req.FactLines), true
	}
	return strings.TrimSpace(out), false
}

// Static narrates by returning the fact lines verbatim.
type Static struct{}

// Narrate joins the fact lines.
func (Static) Narrate(_ context.Context, req Request) (string, error) {
	return Fallback(req.FactLines), nil
}

// New builds the narrator selected by cfg.Provider.
//
// Precondition: cfg must have passed config validation.
func New(cfg config.NarratorConfig) (Narrator, error) {
	switch cfg.Provider {
	case "", "none":
		return Static{}, nil
	case "anthropic":
		return NewAnthropic(cfg), nil
	case "openai":
		return NewOpenAI(cfg), nil
	default:
		return nil, fmt.Errorf("narration: unknown provider %q", cfg.Provider)
	}
}
