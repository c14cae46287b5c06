package handlers

import (
	"net/http"
	"strings"
)

// HandleStatus returns the full session snapshot
func (ctx *Context) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sessionID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/status/"), "/")
	if sessionID == "" || strings.Contains(sessionID, "/") {
		http.Error(w, "Invalid URL", http.StatusBadRequest)
		return
	}

	st, err := ctx.Engine.Status(r.Context(), sessionID)
	if err != nil {
		ctx.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
