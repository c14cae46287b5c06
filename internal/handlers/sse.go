package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/mvg01/liargame/internal/prompts"
	"github.com/mvg01/liargame/internal/sse"
)

// HandleSessionMux routes /sessions/{id}/{events|narration|qr}
func (ctx *Context) HandleSessionMux(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/sessions/"), "/"), "/")
	if len(parts) != 2 || parts[0] == "" {
		http.Error(w, "Invalid URL", http.StatusBadRequest)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := parts[0]
	switch parts[1] {
	case "events":
		ctx.HandleEvents(w, r, sessionID)
	case "narration":
		instrument("/sessions/narration", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx.handleNarration(w, r, sessionID)
		})).ServeHTTP(w, r)
	case "qr":
		instrument("/sessions/qr", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx.HandleQR(w, r, sessionID)
		})).ServeHTTP(w, r)
	default:
		http.NotFound(w, r)
	}
}

// HandleEvents streams a session's events as Server-Sent Events, starting
// with a status snapshot
func (ctx *Context) HandleEvents(w http.ResponseWriter, r *http.Request, sessionID string) {
	st, err := ctx.Engine.Status(r.Context(), sessionID)
	if err != nil {
		ctx.writeError(w, r, err)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	// Set headers for SSE
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable buffering in nginx/proxies

	client, unsubscribe := ctx.Hub.Subscribe(sessionID)
	defer unsubscribe()
	ctx.Logger.Debug("SSE client connected", "session_id", sessionID, "clients", ctx.Hub.ClientCount(sessionID))

	data, err := json.Marshal(st)
	if err != nil {
		ctx.Logger.Error("encode status", "session_id", sessionID, "error", err)
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", sse.EventStatus, data)
	flusher.Flush()

	// Listen for updates
	reqCtx := r.Context()
	for {
		select {
		case <-reqCtx.Done():
			ctx.Logger.Debug("SSE client disconnected", "session_id", sessionID)
			return
		case msg := <-client:
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Event, msg.Data)
			flusher.Flush()
		}
	}
}

func (ctx *Context) handleNarration(w http.ResponseWriter, r *http.Request, sessionID string) {
	ev, ok := prompts.ParseEvent(r.URL.Query().Get("event"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "event must be game_start, turn_announce or round_end"})
		return
	}
	text, err := ctx.Engine.Narrate(r.Context(), sessionID, ev)
	if err != nil {
		ctx.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"event": string(ev), "text": text})
}
