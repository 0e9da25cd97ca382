package mail

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

type capturedRequest struct {
	method        string
	authorization string
	contentType   string
	body          map[string]any
}

// newCaptureServer records the last request and answers with status.
func newCaptureServer(t *testing.T, status int, captured *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.method = r.Method
		captured.authorization = r.Header.Get("Authorization")
		captured.contentType = r.Header.Get("Content-Type")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &captured.body)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"message":"response"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

var testMessage = Message{Subject: "[Agent] New contact from Ana", Text: "text body", HTML: "<p>html</p>"}

// ---------------------------------------------------------------------------
// NewSender
// ---------------------------------------------------------------------------

func TestNewSender_SelectsProvider(t *testing.T) {
	tests := []struct {
		provider string
		want     string
	}{
		{"zeptomail", ProviderZeptoMail},
		{"ZeptoMail", ProviderZeptoMail},
		{" zeptomail ", ProviderZeptoMail},
		{"resend", ProviderResend},
		{"", ProviderResend},
		{"sendgrid", ProviderResend},
	}
	for _, tt := range tests {
		if got := NewSender(Config{Provider: tt.provider}).Name(); got != tt.want {
			t.Errorf("NewSender(%q).Name() = %q, want %q", tt.provider, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// Resend
// ---------------------------------------------------------------------------

func TestResendClient_Send(t *testing.T) {
	var got capturedRequest
	srv := newCaptureServer(t, http.StatusOK, &got)

	s := NewSender(Config{
		Provider:     "resend",
		ResendAPIKey: "re_test",
		FromName:     "Contact Bot",
		FromEmail:    "bot@example.com",
		To:           "owner@example.com",
	}).(*ResendClient)
	s.Endpoint = srv.URL

	if err := s.Send(context.Background(), testMessage); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.method != http.MethodPost {
		t.Errorf("expected POST, got %s", got.method)
	}
	if got.authorization != "Bearer re_test" {
		t.Errorf("unexpected Authorization %q", got.authorization)
	}
	if got.contentType != "application/json" {
		t.Errorf("unexpected Content-Type %q", got.contentType)
	}
	if got.body["from"] != "Contact Bot <bot@example.com>" {
		t.Errorf("unexpected from %v", got.body["from"])
	}
	to, _ := got.body["to"].([]any)
	if len(to) != 1 || to[0] != "owner@example.com" {
		t.Errorf("unexpected to %v", got.body["to"])
	}
	if got.body["subject"] != testMessage.Subject || got.body["text"] != "text body" || got.body["html"] != "<p>html</p>" {
		t.Errorf("unexpected body %v", got.body)
	}
}

func TestResendClient_NonSuccessStatus(t *testing.T) {
	var got capturedRequest
	srv := newCaptureServer(t, http.StatusUnprocessableEntity, &got)

	s := NewSender(Config{ResendAPIKey: "re_test"}).(*ResendClient)
	s.Endpoint = srv.URL

	err := s.Send(context.Background(), testMessage)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusUnprocessableEntity || statusErr.Provider != ProviderResend {
		t.Errorf("unexpected status error %+v", statusErr)
	}
}

func TestResendClient_NotConfigured(t *testing.T) {
	s := NewSender(Config{Provider: "resend"})
	if err := s.Send(context.Background(), testMessage); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestResendClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	s := NewSender(Config{ResendAPIKey: "re_test"}).(*ResendClient)
	s.Endpoint = srv.URL
	if err := s.Send(context.Background(), testMessage); err == nil {
		t.Error("expected transport error")
	}
}

// ---------------------------------------------------------------------------
// ZeptoMail
// ---------------------------------------------------------------------------

func TestZeptoMailClient_Send(t *testing.T) {
	var got capturedRequest
	srv := newCaptureServer(t, http.StatusCreated, &got)

	s := NewSender(Config{
		Provider:        "zeptomail",
		ZeptoMailAPIKey: "zk_test",
		FromName:        "Contact Bot",
		FromEmail:       "bot@example.com",
		To:              "owner@example.com",
	}).(*ZeptoMailClient)
	s.Endpoint = srv.URL

	if err := s.Send(context.Background(), testMessage); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.authorization != "Zoho-enczapikey zk_test" {
		t.Errorf("unexpected Authorization %q", got.authorization)
	}
	from, _ := got.body["from"].(map[string]any)
	if from["address"] != "bot@example.com" || from["name"] != "Contact Bot" {
		t.Errorf("unexpected from %v", got.body["from"])
	}
	to, _ := got.body["to"].([]any)
	if len(to) != 1 {
		t.Fatalf("expected one recipient, got %v", got.body["to"])
	}
	recipient, _ := to[0].(map[string]any)
	addr, _ := recipient["email_address"].(map[string]any)
	if addr["address"] != "owner@example.com" || addr["name"] != "Notification" {
		t.Errorf("unexpected recipient %v", recipient)
	}
	if got.body["textbody"] != "text body" || got.body["htmlbody"] != "<p>html</p>" || got.body["subject"] != testMessage.Subject {
		t.Errorf("unexpected body %v", got.body)
	}
}

func TestZeptoMailClient_NonSuccessStatus(t *testing.T) {
	var got capturedRequest
	srv := newCaptureServer(t, http.StatusUnauthorized, &got)

	s := NewSender(Config{Provider: "zeptomail", ZeptoMailAPIKey: "bad"}).(*ZeptoMailClient)
	s.Endpoint = srv.URL

	var statusErr *StatusError
	if err := s.Send(context.Background(), testMessage); !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if statusErr.Body != `{"message":"response"}` {
		t.Errorf("expected response body captured, got %q", statusErr.Body)
	}
}

func TestZeptoMailClient_NotConfigured(t *testing.T) {
	s := NewSender(Config{Provider: "zeptomail", ResendAPIKey: "re_only"})
	if err := s.Send(context.Background(), testMessage); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}
