package mailer

import (
	"context"
	"log/slog"
	"time"

	"github.com/hyperflash/contact-api/internal/model"
	"github.com/hyperflash/contact-api/pkg/mail"
)

// Dispatcher sends submission notifications. Delivery is best-effort: one
// attempt, failures are logged and reported only as false.
type Dispatcher struct {
	sender   mail.Sender
	branding Branding
	logger   *slog.Logger
}

// NewDispatcher creates a Dispatcher that sends through sender.
func NewDispatcher(sender mail.Sender, branding Branding, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{sender: sender, branding: branding, logger: logger}
}

// Dispatch builds and sends the notification for s and reports whether the
// provider accepted it. It never returns an error and never retries.
func (d *Dispatcher) Dispatch(ctx context.Context, s *model.Submission, id string) (sent bool) {
	defer func() {
		if rec := recover(); rec != nil {
			d.logger.Error("notification email panicked",
				slog.String("provider", d.sender.Name()),
				slog.String("id", id),
				slog.Any("panic", rec))
			sent = false
		}
	}()

	start := time.Now()
	msg := BuildMessage(d.branding, s, id)

	if err := d.sender.Send(ctx, msg); err != nil {
		d.logger.Error("notification email failed",
			slog.String("provider", d.sender.Name()),
			slog.String("id", id),
			slog.String("error", err.Error()))
		return false
	}

	d.logger.Info("notification email sent",
		slog.String("provider", d.sender.Name()),
		slog.String("id", id),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	return true
}
