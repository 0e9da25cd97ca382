package mail

import (
	"context"
	"net/http"
)

// ResendEndpoint is the Resend send-email API.
const ResendEndpoint = "https://api.resend.com/emails"

// ResendClient sends through Resend with bearer-token authentication.
type ResendClient struct {
	APIKey    string
	FromName  string
	FromEmail string
	To        string
	Endpoint  string

	httpClient *http.Client
}

// resendPayload is the JSON body of POST /emails.
type resendPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
	HTML    string   `json:"html"`
}

func (c *ResendClient) Name() string { return ProviderResend }

func (c *ResendClient) Send(ctx context.Context, msg Message) error {
	if c.APIKey == "" {
		return ErrNotConfigured
	}
	payload := resendPayload{
		From:    c.FromName + " <" + c.FromEmail + ">",
		To:      []string{c.To},
		Subject: msg.Subject,
		Text:    msg.Text,
		HTML:    msg.HTML,
	}
	return postJSON(ctx, c.httpClient, ProviderResend, c.Endpoint, "Bearer "+c.APIKey, payload)
}
