// Package mail sends transactional email through third-party HTTP APIs.
// Uses raw HTTP calls (no SDK); each provider is a Sender.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Provider names accepted by NewSender.
const (
	ProviderResend    = "resend"
	ProviderZeptoMail = "zeptomail"
)

// Message is a rendered email. Recipients and sender come from the Sender's
// configuration.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

// Sender delivers a Message through one provider.
type Sender interface {
	// Name returns the provider identifier.
	Name() string
	// Send performs a single delivery attempt. A nil error means the
	// provider accepted the message.
	Send(ctx context.Context, msg Message) error
}

// Config configures the provider selected by NewSender.
type Config struct {
	Provider        string
	ResendAPIKey    string
	ZeptoMailAPIKey string
	FromName        string
	FromEmail       string
	To              string

	// HTTPClient defaults to a client with a 15 second timeout.
	HTTPClient *http.Client
}

// ErrNotConfigured is returned when the provider has no API key.
var ErrNotConfigured = errors.New("mail: provider not configured")

// StatusError reports a non-2xx response from a provider.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s error %d: %s", e.Provider, e.StatusCode, e.Body)
}

// NewSender returns the Sender for cfg.Provider. "zeptomail" selects
// ZeptoMail; every other value, including empty, selects Resend.
func NewSender(cfg Config) Sender {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ProviderZeptoMail:
		return &ZeptoMailClient{
			APIKey:     cfg.ZeptoMailAPIKey,
			FromName:   cfg.FromName,
			FromEmail:  cfg.FromEmail,
			To:         cfg.To,
			Endpoint:   ZeptoMailEndpoint,
			httpClient: client,
		}
	default:
		return &ResendClient{
			APIKey:     cfg.ResendAPIKey,
			FromName:   cfg.FromName,
			FromEmail:  cfg.FromEmail,
			To:         cfg.To,
			Endpoint:   ResendEndpoint,
			httpClient: client,
		}
	}
}

// maxErrorBody bounds how much of a failed response is kept in StatusError.
const maxErrorBody = 2048

// postJSON POSTs payload to endpoint with the given Authorization header and
// returns a *StatusError for any non-2xx status.
func postJSON(ctx context.Context, client *http.Client, provider, endpoint, authorization string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", authorization)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Provider: provider, StatusCode: resp.StatusCode, Body: string(raw)}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
