package mailer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hyperflash/contact-api/internal/logging"
	"github.com/hyperflash/contact-api/internal/model"
	"github.com/hyperflash/contact-api/pkg/mail"
)

// ---------------------------------------------------------------------------
// mockSender
// ---------------------------------------------------------------------------

type mockSender struct {
	sendFunc func(ctx context.Context, msg mail.Message) error
	sent     []mail.Message
}

func (m *mockSender) Name() string { return "mock" }

func (m *mockSender) Send(ctx context.Context, msg mail.Message) error {
	m.sent = append(m.sent, msg)
	if m.sendFunc != nil {
		return m.sendFunc(ctx, msg)
	}
	return nil
}

var testBranding = Branding{
	SiteName:      "Agent Dashboard",
	SiteHost:      "agent.hyperflash.uk",
	SubjectPrefix: "[Agent]",
}

func testSubmission() *model.Submission {
	return &model.Submission{
		Name:      `Ana "A" O'Neil`,
		Email:     "ana@example.com",
		Message:   "Hello & welcome\nsecond line",
		Timestamp: "2026-10-15T09:30:00.000Z",
		IP:        "203.0.113.7",
		Country:   "PT",
		UserAgent: "Mozilla/5.0",
	}
}

// ---------------------------------------------------------------------------
// BuildMessage
// ---------------------------------------------------------------------------

func TestBuildMessage_Subject(t *testing.T) {
	msg := BuildMessage(testBranding, testSubmission(), "1-abc")
	if msg.Subject != `[Agent] New contact from Ana "A" O'Neil` {
		t.Errorf("unexpected subject %q", msg.Subject)
	}
}

func TestBuildMessage_TextBody(t *testing.T) {
	msg := BuildMessage(testBranding, testSubmission(), "1700000000000-abc1234")

	want := strings.Join([]string{
		"New contact form submission from Agent Dashboard",
		"",
		"---",
		`Name: Ana "A" O'Neil`,
		"Email: ana@example.com",
		"---",
		"",
		"Message:",
		"Hello & welcome\nsecond line",
		"",
		"---",
		"Metadata:",
		"- Submission ID: 1700000000000-abc1234",
		"- Timestamp: 2026-10-15T09:30:00.000Z",
		"- IP: 203.0.113.7",
		"- Country: PT",
		"",
		"---",
		"This email was sent from agent.hyperflash.uk",
	}, "\n")
	if msg.Text != want {
		t.Errorf("unexpected text body:\n%s\nwant:\n%s", msg.Text, want)
	}
}

func TestBuildMessage_HTMLEscapesFields(t *testing.T) {
	msg := BuildMessage(testBranding, testSubmission(), "1-abc")

	wantFragments := []string{
		"<!DOCTYPE html>",
		`<div class="field-value">Ana &quot;A&quot; O&#039;Neil</div>`,
		`<a href="mailto:ana@example.com">ana@example.com</a>`,
		`<div class="message-box">Hello &amp; welcome<br>second line</div>`,
		`<strong>ID:</strong> 1-abc`,
		`<strong>Location:</strong> PT`,
		`<strong>IP:</strong> 203.0.113.7`,
	}
	for _, f := range wantFragments {
		if !strings.Contains(msg.HTML, f) {
			t.Errorf("expected HTML to contain %q", f)
		}
	}
	if strings.Contains(msg.HTML, `"A"`) {
		t.Error("expected quotes in name to be escaped")
	}
}

func TestBuildMessage_HTMLEscapesMetadata(t *testing.T) {
	s := testSubmission()
	s.Country = "<x>"
	msg := BuildMessage(testBranding, s, "1-abc")
	if strings.Contains(msg.HTML, "<x>") {
		t.Error("expected metadata to be escaped")
	}
}

// ---------------------------------------------------------------------------
// Dispatch
// ---------------------------------------------------------------------------

func TestDispatch_Success(t *testing.T) {
	sender := &mockSender{}
	d := NewDispatcher(sender, testBranding, logging.Discard())

	if ok := d.Dispatch(context.Background(), testSubmission(), "1-abc"); !ok {
		t.Error("expected Dispatch to report success")
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected exactly one send, got %d", len(sender.sent))
	}
	if !strings.Contains(sender.sent[0].Text, "- Submission ID: 1-abc") {
		t.Error("expected built message to be sent")
	}
}

func TestDispatch_FailureIsNotRetried(t *testing.T) {
	sender := &mockSender{
		sendFunc: func(ctx context.Context, msg mail.Message) error {
			return &mail.StatusError{Provider: "mock", StatusCode: 500, Body: "down"}
		},
	}
	d := NewDispatcher(sender, testBranding, logging.Discard())

	if ok := d.Dispatch(context.Background(), testSubmission(), "1-abc"); ok {
		t.Error("expected Dispatch to report failure")
	}
	if len(sender.sent) != 1 {
		t.Errorf("expected exactly one attempt, got %d", len(sender.sent))
	}
}

func TestDispatch_NotConfigured(t *testing.T) {
	sender := &mockSender{
		sendFunc: func(ctx context.Context, msg mail.Message) error {
			return mail.ErrNotConfigured
		},
	}
	d := NewDispatcher(sender, testBranding, logging.Discard())
	if d.Dispatch(context.Background(), testSubmission(), "1-abc") {
		t.Error("expected false when provider is not configured")
	}
}

func TestDispatch_RecoversPanic(t *testing.T) {
	sender := &mockSender{
		sendFunc: func(ctx context.Context, msg mail.Message) error {
			panic(errors.New("nil map"))
		},
	}
	d := NewDispatcher(sender, testBranding, logging.Discard())
	if d.Dispatch(context.Background(), testSubmission(), "1-abc") {
		t.Error("expected false after panic")
	}
}
