package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Expirer is implemented by stores that need an external sweep to expire idle sessions
type Expirer interface {
	DeleteIdleSince(ctx context.Context, cutoff time.Time) (int, error)
}

// Sweeper periodically drops sessions idle for longer than the TTL
type Sweeper struct {
	cron   *cron.Cron
	store  Expirer
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger
}

// NewSweeper schedules sweeps using a cron spec such as "@every 5m"
func NewSweeper(store Expirer, ttl time.Duration, schedule string, logger *slog.Logger) (*Sweeper, error) {
	s := &Sweeper{
		cron:   cron.New(),
		store:  store,
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}
	if _, err := s.cron.AddFunc(schedule, func() { s.Sweep(context.Background()) }); err != nil {
		return nil, err
	}
	return s, nil
}

// Start begins running scheduled sweeps in the background
func (s *Sweeper) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for a running sweep to finish
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

// Sweep removes idle sessions once and returns the number removed
func (s *Sweeper) Sweep(ctx context.Context) int {
	n, err := s.store.DeleteIdleSince(ctx, s.now().Add(-s.ttl))
	if err != nil {
		s.logger.Warn("session sweep failed", "error", err)
		return 0
	}
	if n > 0 {
		s.logger.Info("expired idle sessions", "count", n, "ttl", s.ttl)
	}
	return n
}
