package llm

import (
	"context"

	"golang.org/x/time/rate"
)

// Limited throttles calls to the wrapped completer with a token bucket
type Limited struct {
	next    Completer
	limiter *rate.Limiter
}

// NewLimited wraps next; a non-positive rps disables limiting
func NewLimited(next Completer, rps float64, burst int) Completer {
	if rps <= 0 {
		return next
	}
	if burst < 1 {
		burst = 1
	}
	return &Limited{next: next, limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

func (l *Limited) Name() string { return l.next.Name() }

func (l *Limited) Complete(ctx context.Context, req Request) (string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return "", wrap(l.next.Name(), req.Purpose, err)
	}
	return l.next.Complete(ctx, req)
}
