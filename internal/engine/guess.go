package engine

import (
	"context"
	"strings"

	"github.com/mvg01/liargame/internal/game"
	"github.com/mvg01/liargame/internal/models"
	"github.com/mvg01/liargame/internal/observability"
	"github.com/mvg01/liargame/internal/prompts"
	"github.com/mvg01/liargame/internal/sse"
)

// ResolveGuess judges the impostor's keyword guess and ends the game
func (e *Engine) ResolveGuess(ctx context.Context, id, guess string) (*models.GuessResult, error) {
	return e.guess(ctx, "engine.ResolveGuess", id, func(*models.Session) string { return guess })
}

// ImpostorGuess lets the impostor agent make its own guess from the category
// and the conversation. A failed collaborator call counts as an empty guess.
func (e *Engine) ImpostorGuess(ctx context.Context, id string) (*models.GuessResult, error) {
	return e.guess(ctx, "engine.ImpostorGuess", id, func(s *models.Session) string {
		text, err := e.complete(ctx, prompts.Guess(s))
		if err != nil {
			e.logger.Warn("impostor guess failed", "session_id", id, "error", err)
			return ""
		}
		return cleanGuess(text)
	})
}

func (e *Engine) guess(ctx context.Context, op, id string, pick func(*models.Session) string) (*models.GuessResult, error) {
	ctx, span := e.startSpan(ctx, op, id)
	defer span.End()

	unlock, err := e.locker.Lock(ctx, id)
	if err != nil {
		return nil, fail(span, err)
	}
	defer unlock()

	s, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, fail(span, err)
	}
	// checked before pick so the collaborator is never asked out of phase
	if err := game.RequirePhase(s, "resolve guess", models.PhaseImpostorRebuttal); err != nil {
		return nil, fail(span, err)
	}

	result, err := game.ResolveGuess(s, pick(s))
	if err != nil {
		return nil, fail(span, err)
	}
	if err := e.save(ctx, s); err != nil {
		return nil, fail(span, err)
	}
	unlock()

	observability.RecordGameFinished(string(result.Winner))
	e.logger.Info("guess resolved",
		"session_id", id,
		"correct", result.Correct,
		"winner", result.Winner,
	)
	e.events.Publish(id, sse.EventGuess, result)
	return result, nil
}

// cleanGuess keeps the first line of a model answer without quotes or
// trailing punctuation; matching itself stays exact
func cleanGuess(text string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
	return strings.Trim(strings.TrimSpace(line), `"'.!`)
}
