package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mvg01/liargame/internal/engine"
	"github.com/mvg01/liargame/internal/handlers"
	"github.com/mvg01/liargame/internal/observability"
	"github.com/mvg01/liargame/internal/sse"
	"github.com/mvg01/liargame/internal/topics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP game server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}

	logger := observability.NewLogger(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)
	observability.InitMetrics()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfig{
		Exporter:     cfg.Tracing.Exporter,
		OTLPEndpoint: cfg.Tracing.Endpoint,
		OTLPInsecure: cfg.Tracing.Insecure,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("tracing shutdown", "error", err)
		}
	}()

	completer, err := buildCompleter(ctx, cfg.LLM)
	if err != nil {
		return err
	}
	be, err := buildBackend(cfg.Store, cfg.LLM.CallTimeout, logger)
	if err != nil {
		return err
	}
	defer be.Close()

	catalog, err := topics.Load(cfg.Game.TopicsFile)
	if err != nil {
		return err
	}

	hub := sse.NewHub(logger)
	eng := engine.New(be.store, be.locker, completer, catalog, engine.Options{
		HistoryWindow: cfg.Game.MaxHistoryLength,
		CallTimeout:   cfg.LLM.CallTimeout,
		Narrator:      cfg.Game.Narrator,
		Logger:        logger,
		Publisher:     hub,
	})

	app := &handlers.Context{
		Engine:    eng,
		Hub:       hub,
		Logger:    logger,
		PublicURL: cfg.Server.PublicURL,
	}
	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           app.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Both goroutines end once the server stops: a listen failure cancels
	// gctx, which triggers the shutdown path.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting",
			"addr", srv.Addr,
			"provider", completer.Name(),
			"store", cfg.Store.Backend,
			"narrator", cfg.Game.Narrator,
		)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
