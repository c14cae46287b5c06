package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mvg01/liargame/internal/config"
	"github.com/mvg01/liargame/internal/llm"
	"github.com/mvg01/liargame/internal/store"
)

// loadConfig reads and validates the configuration named by the global flags
func loadConfig(mutate func(*config.Config)) (*config.Config, error) {
	cfg, err := config.Load(cfgFile, envFile)
	if err != nil {
		return nil, err
	}
	if mutate != nil {
		mutate(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// buildCompleter creates the configured collaborator, rate limited and instrumented
func buildCompleter(ctx context.Context, cfg config.LLMConfig) (llm.Completer, error) {
	var base llm.Completer
	switch cfg.Provider {
	case "openai":
		base = llm.NewOpenAI(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Sampling)
	case "gemini":
		g, err := llm.NewGemini(ctx, cfg.APIKey, cfg.Model, cfg.Sampling)
		if err != nil {
			return nil, err
		}
		base = g
	case "offline":
		base = llm.Offline{}
	default:
		return nil, fmt.Errorf("unknown llm provider: %q", cfg.Provider)
	}
	return llm.NewInstrumented(llm.NewLimited(base, cfg.RequestsPerSecond, cfg.Burst)), nil
}

// backend bundles a session store with its locker and optional sweeper
type backend struct {
	store   store.Store
	locker  store.Locker
	sweeper *store.Sweeper
}

func (b *backend) Close() error {
	if b.sweeper != nil {
		b.sweeper.Stop()
	}
	return b.store.Close()
}

// lockLease returns a Redis lock lease long enough to cover the slowest locked
// operation. The lease is never renewed; a locked operation makes at most one
// round of collaborator calls (votes run in parallel), each bounded by
// callTimeout, with rate limiter waits counted inside that bound.
func lockLease(configured, callTimeout time.Duration) time.Duration {
	floor := 2*callTimeout + 10*time.Second
	if configured < floor {
		return floor
	}
	return configured
}

// buildBackend creates the configured store. Idle expiry uses key TTLs on
// Redis and a cron sweep in memory.
func buildBackend(cfg config.StoreConfig, callTimeout time.Duration, logger *slog.Logger) (*backend, error) {
	switch cfg.Backend {
	case "memory":
		mem := store.NewMemoryStore()
		b := &backend{store: mem, locker: store.NewKeyedMutex()}
		if cfg.SessionTTL > 0 {
			sw, err := store.NewSweeper(mem, cfg.SessionTTL, cfg.SweepSchedule, logger)
			if err != nil {
				return nil, fmt.Errorf("invalid sweep schedule %q: %w", cfg.SweepSchedule, err)
			}
			sw.Start()
			b.sweeper = sw
		}
		return b, nil
	case "redis":
		rs, err := store.NewRedisStore(store.RedisConfig{
			Addr:       cfg.RedisAddr,
			Password:   cfg.RedisPassword,
			DB:         cfg.RedisDB,
			Prefix:     cfg.RedisPrefix,
			SessionTTL: cfg.SessionTTL,
		})
		if err != nil {
			return nil, err
		}
		return &backend{store: rs, locker: store.NewRedisLocker(rs, lockLease(cfg.LockLease, callTimeout))}, nil
	default:
		return nil, fmt.Errorf("unknown store backend: %q", cfg.Backend)
	}
}
