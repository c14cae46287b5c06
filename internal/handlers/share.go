package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"
)

const qrSize = 256

// ShareURL is the status link encoded in a session's QR code
func (ctx *Context) ShareURL(r *http.Request, sessionID string) string {
	base := strings.TrimRight(ctx.PublicURL, "/")
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		base = scheme + "://" + r.Host
	}
	return base + "/status/" + url.PathEscape(sessionID)
}

// HandleQR serves a PNG QR code linking to the session's status
func (ctx *Context) HandleQR(w http.ResponseWriter, r *http.Request, sessionID string) {
	if _, err := ctx.Engine.GetSession(r.Context(), sessionID); err != nil {
		ctx.writeError(w, r, err)
		return
	}

	png, err := qrcode.Encode(ctx.ShareURL(r, sessionID), qrcode.Medium, qrSize)
	if err != nil {
		ctx.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
