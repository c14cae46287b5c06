// Package handlers exposes the game engine over JSON HTTP with a
// server-sent-event stream per session.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/mvg01/liargame/internal/engine"
	"github.com/mvg01/liargame/internal/observability"
	"github.com/mvg01/liargame/internal/sse"
)

// Context holds shared application dependencies
type Context struct {
	Engine    *engine.Engine
	Hub       *sse.Hub
	Logger    *slog.Logger
	PublicURL string // base URL used in share links, e.g. https://liar.example.com
}

// Routes builds the HTTP handler tree
func (ctx *Context) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", instrument("/", http.HandlerFunc(ctx.HandleIndex)))
	mux.Handle("/start", instrument("/start", http.HandlerFunc(ctx.HandleStart)))
	mux.Handle("/talk", instrument("/talk", http.HandlerFunc(ctx.HandleTalk)))
	mux.Handle("/vote", instrument("/vote", http.HandlerFunc(ctx.HandleVote)))
	mux.Handle("/liar-guess", instrument("/liar-guess", http.HandlerFunc(ctx.HandleLiarGuess)))
	mux.Handle("/status/", instrument("/status", http.HandlerFunc(ctx.HandleStatus)))
	// SSE streams are long-lived, so they are not timed
	mux.HandleFunc("/sessions/", ctx.HandleSessionMux)
	mux.Handle("/metrics", observability.MetricsHandler())
	mux.HandleFunc("/healthz", HandleHealth)
	return mux
}

// HandleIndex lists the API
func (ctx *Context) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "liargame",
		"endpoints": []string{
			"POST /start",
			"POST /talk",
			"POST /vote",
			"POST /liar-guess",
			"GET /status/{session_id}",
			"GET /sessions/{session_id}/events",
			"GET /sessions/{session_id}/narration?event=",
			"GET /sessions/{session_id}/qr",
		},
	})
}

// HandleHealth reports liveness
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
