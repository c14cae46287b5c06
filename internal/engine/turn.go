package engine

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/mvg01/liargame/internal/game"
	"github.com/mvg01/liargame/internal/models"
	"github.com/mvg01/liargame/internal/observability"
	"github.com/mvg01/liargame/internal/prompts"
	"github.com/mvg01/liargame/internal/sse"
)

// TakeTurn plays the current speaker's turn. humanMessage must be given
// exactly when the human is the speaker. An agent whose collaborator call
// fails still takes its turn with the degraded placeholder.
func (e *Engine) TakeTurn(ctx context.Context, id, humanMessage string) (*models.TurnResult, error) {
	ctx, span := e.startSpan(ctx, "engine.TakeTurn", id)
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
	speaker, err := game.CheckTurn(s, humanMessage)
	if err != nil {
		return nil, fail(span, err)
	}
	span.SetAttributes(attribute.String("turn.speaker", speaker))

	msg := models.Message{Speaker: speaker, Content: humanMessage}
	if speaker != models.HumanID {
		text, err := e.complete(ctx, prompts.Dialogue(s, speaker, e.window))
		if err != nil {
			e.logger.Warn("agent turn degraded",
				"session_id", id,
				"speaker", speaker,
				"error", err,
			)
			text = game.DegradedReply
			msg.Degraded = true
		}
		msg.Content = text
	}

	game.RecordTurn(s, msg)
	if err := e.save(ctx, s); err != nil {
		return nil, fail(span, err)
	}
	unlock()

	result := &models.TurnResult{
		Speaker:       speaker,
		Content:       msg.Content,
		NextSpeaker:   game.CurrentSpeaker(s),
		TurnIndex:     s.CurrentTurnIndex,
		Round:         game.Round(s),
		RoundComplete: game.RoundComplete(s),
		Degraded:      msg.Degraded,
	}

	kind, status := "agent", "ok"
	if speaker == models.HumanID {
		kind = "human"
	}
	if msg.Degraded {
		status = "degraded"
	}
	observability.RecordTurn(kind, status)
	e.logger.Debug("turn taken",
		"session_id", id,
		"phase", s.Phase,
		"speaker", speaker,
		"turn_index", s.CurrentTurnIndex,
	)

	// s is a private copy, so commentary can be produced without the lock
	if e.narrator {
		ev := prompts.EventTurnAnnounce
		if result.RoundComplete {
			ev = prompts.EventRoundEnd
		}
		result.Commentary = e.narrate(ctx, s, ev)
	}

	e.events.Publish(id, sse.EventTurn, result)
	return result, nil
}
