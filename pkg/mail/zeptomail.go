package mail

import (
	"context"
	"net/http"
)

// ZeptoMailEndpoint is the ZeptoMail single-send API.
const ZeptoMailEndpoint = "https://api.zeptomail.com/v1.1/email/"

// ZeptoMailClient sends through ZeptoMail with its Zoho-enczapikey scheme.
type ZeptoMailClient struct {
	APIKey    string
	FromName  string
	FromEmail string
	To        string
	Endpoint  string

	httpClient *http.Client
}

type zeptoAddress struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

type zeptoRecipient struct {
	EmailAddress zeptoAddress `json:"email_address"`
}

// zeptoPayload is the JSON body of POST /v1.1/email.
type zeptoPayload struct {
	From     zeptoAddress     `json:"from"`
	To       []zeptoRecipient `json:"to"`
	Subject  string           `json:"subject"`
	TextBody string           `json:"textbody"`
	HTMLBody string           `json:"htmlbody"`
}

func (c *ZeptoMailClient) Name() string { return ProviderZeptoMail }

func (c *ZeptoMailClient) Send(ctx context.Context, msg Message) error {
	if c.APIKey == "" {
		return ErrNotConfigured
	}
	payload := zeptoPayload{
		From: zeptoAddress{Address: c.FromEmail, Name: c.FromName},
		To: []zeptoRecipient{
			{EmailAddress: zeptoAddress{Address: c.To, Name: "Notification"}},
		},
		Subject:  msg.Subject,
		TextBody: msg.Text,
		HTMLBody: msg.HTML,
	}
	return postJSON(ctx, c.httpClient, ProviderZeptoMail, c.Endpoint, "Zoho-enczapikey "+c.APIKey, payload)
}
