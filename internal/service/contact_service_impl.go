package service

import (
	"context"
	"time"

	"github.com/hyperflash/contact-api/internal/model"
	"github.com/hyperflash/contact-api/internal/repository"
)

// TimestampLayout is ISO-8601 in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// contactServiceImpl is the production implementation of ContactService.
type contactServiceImpl struct {
	repo     repository.SubmissionRepository
	notifier Notifier
	now      func() time.Time
}

// NewContactService creates a ContactService that stores through repo and
// notifies through notifier.
func NewContactService(repo repository.SubmissionRepository, notifier Notifier) ContactService {
	return &contactServiceImpl{repo: repo, notifier: notifier, now: time.Now}
}

// Submit stamps the creation time, persists the submission and then attempts
// the notification exactly once.
func (s *contactServiceImpl) Submit(ctx context.Context, sub *model.Submission) (*SubmitResult, error) {
	sub.Timestamp = s.now().UTC().Format(TimestampLayout)

	id, err := s.repo.Record(ctx, sub)
	if err != nil {
		return nil, err
	}

	sent := s.notifier.Dispatch(ctx, sub, id)
	return &SubmitResult{ID: id, EmailSent: sent}, nil
}

// List caps limit at repository.MaxListLimit.
func (s *contactServiceImpl) List(ctx context.Context, limit int) (*model.SubmissionPage, error) {
	return s.repo.List(ctx, min(limit, repository.MaxListLimit))
}
