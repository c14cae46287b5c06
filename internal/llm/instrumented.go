package llm

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/mvg01/liargame/internal/observability"
)

// Instrumented records a span and Prometheus metrics for every call
type Instrumented struct {
	next Completer
}

// NewInstrumented wraps next with tracing and metrics
func NewInstrumented(next Completer) *Instrumented {
	return &Instrumented{next: next}
}

func (i *Instrumented) Name() string { return i.next.Name() }

func (i *Instrumented) Complete(ctx context.Context, req Request) (string, error) {
	provider := i.next.Name()
	ctx, span := observability.StartSpan(ctx, "llm."+provider+".complete",
		attribute.String("llm.provider", provider),
		attribute.String("llm.purpose", string(req.Purpose)),
		attribute.Int("llm.messages", len(req.Messages)),
	)
	defer span.End()

	start := time.Now()
	text, err := i.next.Complete(ctx, req)
	duration := time.Since(start)

	status := "ok"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.SetAttributes(
		attribute.Int64("llm.duration_ms", duration.Milliseconds()),
		attribute.Bool("llm.success", err == nil),
	)
	observability.RecordCollaboratorCall(provider, string(req.Purpose), status, duration)

	return text, err
}
