package engine

import (
	"context"

	"github.com/mvg01/liargame/internal/models"
	"github.com/mvg01/liargame/internal/prompts"
	"github.com/mvg01/liargame/internal/sse"
)

// NarrationEvent is published with every host comment
type NarrationEvent struct {
	Event prompts.Event `json:"event"`
	Text  string        `json:"text"`
}

// Narrate produces host commentary for a session event. It only reads the
// session and falls back to a fixed line when the collaborator fails.
func (e *Engine) Narrate(ctx context.Context, id string, ev prompts.Event) (string, error) {
	ctx, span := e.startSpan(ctx, "engine.Narrate", id)
	defer span.End()

	s, err := e.store.Get(ctx, id)
	if err != nil {
		return "", fail(span, err)
	}
	return e.narrate(ctx, s, ev), nil
}

func (e *Engine) narrate(ctx context.Context, s *models.Session, ev prompts.Event) string {
	text, err := e.complete(ctx, prompts.Narration(ev, s))
	if err != nil {
		e.logger.Debug("narration fell back", "session_id", s.ID, "event", ev, "error", err)
		text = prompts.FallbackNarration(ev, s)
	}
	e.events.Publish(s.ID, sse.EventNarration, NarrationEvent{Event: ev, Text: text})
	return text
}
