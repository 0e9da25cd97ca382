package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
)

// Handler carries the cross-cutting HTTP concerns: CORS, health, the
// catch-all 404 and panic recovery.
type Handler struct {
	allowedOrigins []string
	logger         *slog.Logger
}

// New creates a Handler. allowedOrigins is the CORS allow-list in order of
// preference; an empty list allows any origin.
func New(allowedOrigins []string, logger *slog.Logger) *Handler {
	return &Handler{allowedOrigins: allowedOrigins, logger: logger}
}

// allowOrigin echoes origin when it is allow-listed, otherwise falls back to
// the first configured origin, or "*" when none are configured.
func (h *Handler) allowOrigin(origin string) string {
	if origin != "" && slices.Contains(h.allowedOrigins, origin) {
		return origin
	}
	if len(h.allowedOrigins) > 0 {
		return h.allowedOrigins[0]
	}
	return "*"
}

// CORS sets the CORS headers on every response and answers preflight
// requests with 204.
func (h *Handler) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", h.allowOrigin(r.Header.Get("Origin")))
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Add("Vary", "Origin")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// NotFound answers every unmatched route.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Not found")
}

// errorResponse is the body of every non-2xx JSON response.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
