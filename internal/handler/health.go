package handler

import (
	"net/http"
	"time"

	"github.com/hyperflash/contact-api/internal/service"
)

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Health handles /health for any method. It does not touch the store.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(service.TimestampLayout),
	})
}
