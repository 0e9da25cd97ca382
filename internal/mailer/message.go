// Package mailer turns a stored submission into a notification email and
// hands it to the configured provider.
package mailer

import (
	"strings"

	"github.com/hyperflash/contact-api/internal/model"
	"github.com/hyperflash/contact-api/internal/sanitize"
	"github.com/hyperflash/contact-api/pkg/mail"
)

// Branding holds the site-specific strings used in notifications.
type Branding struct {
	SiteName      string // "New contact form submission from <SiteName>"
	SiteHost      string // footer of the text body
	SubjectPrefix string // e.g. "[Agent]"
}

const emailStyle = `body{font-family:-apple-system,BlinkMacSystemFont,sans-serif;line-height:1.6;color:#1a1a1a}` +
	`.container{max-width:600px;margin:0 auto;padding:20px}` +
	`.header{background:linear-gradient(135deg,#f97316,#ea580c);color:white;padding:24px;border-radius:12px 12px 0 0}` +
	`.header h1{margin:0;font-size:20px}` +
	`.content{background:#fff;padding:24px;border:1px solid #e5e7eb;border-top:none}` +
	`.field{margin-bottom:16px}` +
	`.field-label{font-size:12px;text-transform:uppercase;letter-spacing:0.05em;color:#6b7280;margin-bottom:4px}` +
	`.field-value{font-size:16px;color:#1a1a1a}` +
	`.message-box{background:#f9fafb;padding:16px;border-radius:8px;margin:16px 0;white-space:pre-wrap}` +
	`.metadata{background:#f3f4f6;padding:16px;border-radius:0 0 12px 12px;font-size:12px;color:#6b7280}` +
	`.metadata-item{margin-bottom:4px}` +
	`a{color:#f97316}`

// BuildMessage renders the notification for submission s stored under id.
// The text body is plain; every value in the HTML body is escaped on its own.
func BuildMessage(b Branding, s *model.Submission, id string) mail.Message {
	return mail.Message{
		Subject: b.SubjectPrefix + " New contact from " + s.Name,
		Text:    buildText(b, s, id),
		HTML:    buildHTML(s, id),
	}
}

func buildText(b Branding, s *model.Submission, id string) string {
	return strings.Join([]string{
		"New contact form submission from " + b.SiteName,
		"",
		"---",
		"Name: " + s.Name,
		"Email: " + s.Email,
		"---",
		"",
		"Message:",
		s.Message,
		"",
		"---",
		"Metadata:",
		"- Submission ID: " + id,
		"- Timestamp: " + s.Timestamp,
		"- IP: " + s.IP,
		"- Country: " + s.Country,
		"",
		"---",
		"This email was sent from " + b.SiteHost,
	}, "\n")
}

func buildHTML(s *model.Submission, id string) string {
	esc := sanitize.EscapeHTML
	var sb strings.Builder
	sb.WriteString(`<!DOCTYPE html><html><head><style>`)
	sb.WriteString(emailStyle)
	sb.WriteString(`</style></head><body><div class="container">`)
	sb.WriteString(`<div class="header"><h1>New Contact Form Submission</h1></div>`)
	sb.WriteString(`<div class="content">`)
	sb.WriteString(`<div class="field"><div class="field-label">From</div><div class="field-value">`)
	sb.WriteString(esc(s.Name))
	sb.WriteString(`</div></div>`)
	sb.WriteString(`<div class="field"><div class="field-label">Email</div><div class="field-value"><a href="mailto:`)
	sb.WriteString(esc(s.Email))
	sb.WriteString(`">`)
	sb.WriteString(esc(s.Email))
	sb.WriteString(`</a></div></div>`)
	sb.WriteString(`<div class="field"><div class="field-label">Message</div><div class="message-box">`)
	sb.WriteString(esc(s.Message))
	sb.WriteString(`</div></div></div>`)
	sb.WriteString(`<div class="metadata">`)
	writeMeta(&sb, "ID", esc(id))
	writeMeta(&sb, "Time", esc(s.Timestamp))
	writeMeta(&sb, "Location", esc(s.Country))
	writeMeta(&sb, "IP", esc(s.IP))
	sb.WriteString(`</div></div></body></html>`)
	return sb.String()
}

func writeMeta(sb *strings.Builder, label, value string) {
	sb.WriteString(`<div class="metadata-item"><strong>`)
	sb.WriteString(label)
	sb.WriteString(`:</strong> `)
	sb.WriteString(value)
	sb.WriteString(`</div>`)
}
