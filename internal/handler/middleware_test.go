package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hyperflash/contact-api/internal/logging"
)

// ---------------------------------------------------------------------------
// SecurityHeaders
// ---------------------------------------------------------------------------

func TestSecurityHeaders_SetsAllHeaders(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	SecurityHeaders(inner).ServeHTTP(rec, req)

	headers := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"Referrer-Policy":         "strict-origin-when-cross-origin",
		"Content-Security-Policy": "default-src 'none'; frame-ancestors 'none'",
	}
	for name, want := range headers {
		got := rec.Header().Get(name)
		if got != want {
			t.Errorf("%s: want %q, got %q", name, want, got)
		}
	}
}

// ---------------------------------------------------------------------------
// Recover
// ---------------------------------------------------------------------------

func TestRecover_PanicBecomes500(t *testing.T) {
	var logs bytes.Buffer
	h := New(nil, logging.New(&logs, "INFO"))
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("secret detail")
	})

	rec := httptest.NewRecorder()
	h.Recover(inner).ServeHTTP(rec, httptest.NewRequest("POST", "/contact", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "secret detail") {
		t.Error("panic value leaked to client")
	}
	if got := decodeError(t, rec); got != "Internal server error" {
		t.Errorf("unexpected error %q", got)
	}
	if !strings.Contains(logs.String(), "secret detail") {
		t.Errorf("expected panic to be logged, got %s", logs.String())
	}
}

func TestRecover_PassesThrough(t *testing.T) {
	h := newTestHandler()
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	h.Recover(inner).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusTeapot {
		t.Errorf("expected 418, got %d", rec.Code)
	}
}

// ---------------------------------------------------------------------------
// RequestLogger
// ---------------------------------------------------------------------------

func TestRequestLogger_AssignsRequestID(t *testing.T) {
	var logs bytes.Buffer
	mw := RequestLogger(logging.New(&logs, "INFO"))
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	rec := httptest.NewRecorder()
	mw(inner).ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	id := rec.Header().Get("X-Request-ID")
	if len(id) != 36 {
		t.Errorf("expected generated uuid request id, got %q", id)
	}
	out := logs.String()
	if !strings.Contains(out, id) || !strings.Contains(out, `"status":201`) {
		t.Errorf("expected request log with id and status, got %s", out)
	}
}

func TestRequestLogger_KeepsClientRequestID(t *testing.T) {
	mw := RequestLogger(logging.Discard())
	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	mw(http.NotFoundHandler()).ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("expected abc-123, got %q", got)
	}
}
