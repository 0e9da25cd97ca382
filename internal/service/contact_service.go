package service

import (
	"context"

	"github.com/hyperflash/contact-api/internal/model"
)

// SubmitResult is the outcome of a successful submission.
type SubmitResult struct {
	ID        string
	EmailSent bool
}

// ContactService defines the business logic for contact form submissions.
type ContactService interface {
	// Submit stores a sanitized submission and then sends the notification
	// email. Only a storage failure is an error; a failed email is reported
	// through SubmitResult.EmailSent. s.Timestamp is set by the implementation.
	Submit(ctx context.Context, s *model.Submission) (*SubmitResult, error)

	// List returns the most recent submissions, newest first.
	List(ctx context.Context, limit int) (*model.SubmissionPage, error)
}

// Notifier sends the notification for a stored submission.
type Notifier interface {
	Dispatch(ctx context.Context, s *model.Submission, id string) bool
}
