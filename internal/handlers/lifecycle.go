package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/mvg01/liargame/internal/models"
	"github.com/mvg01/liargame/internal/prompts"
)

type startRequest struct {
	SessionID string `json:"session_id"`
	Keyword   string `json:"keyword"`
	Category  string `json:"category"`
}

type startResponse struct {
	*models.Status
	Commentary string `json:"commentary,omitempty"`
}

// HandleStart creates a session. A missing session_id is generated.
func (ctx *Context) HandleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.New().String()
	}

	s, err := ctx.Engine.CreateSession(r.Context(), req.SessionID, req.Keyword, req.Category)
	if err != nil {
		ctx.writeError(w, r, err)
		return
	}
	ctx.Logger.Info("game started", "session_id", s.ID)

	resp := startResponse{}
	if resp.Status, err = ctx.Engine.Status(r.Context(), s.ID); err != nil {
		ctx.writeError(w, r, err)
		return
	}
	if ctx.Engine.NarratorEnabled() {
		resp.Commentary, _ = ctx.Engine.Narrate(r.Context(), s.ID, prompts.EventGameStart)
	}
	writeJSON(w, http.StatusCreated, resp)
}
