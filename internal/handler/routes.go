package handler

import (
	"log/slog"
	"net/http"
)

// NewRouter wires the routes and the middleware chain. The "/" catch-all
// makes unmatched methods on known paths fall through to 404 rather than 405.
func NewRouter(h *Handler, contact *ContactHandler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /contact", contact.Submit)
	mux.HandleFunc("GET /submissions", contact.ListSubmissions)
	mux.HandleFunc("/health", h.Health)
	mux.HandleFunc("/", h.NotFound)

	return RequestLogger(logger)(SecurityHeaders(h.CORS(h.Recover(mux))))
}
