package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hyperflash/contact-api/internal/model"
	"github.com/hyperflash/contact-api/internal/storage"
)

// Key layout and limits of the submission store.
const (
	SubmissionKeyPrefix = "submission:"
	IndexKey            = "submissions:list"
	SubmissionTTL       = 90 * 24 * time.Hour
	MaxIndexLength      = 1000
	MaxListLimit        = 100
)

// SubmissionRepository persists contact submissions and lists the most
// recent ones.
type SubmissionRepository interface {
	// Record stores s, adds it to the recency index and returns its new ID.
	Record(ctx context.Context, s *model.Submission) (string, error)

	// List returns up to min(limit, MaxListLimit) submissions, newest first.
	List(ctx context.Context, limit int) (*model.SubmissionPage, error)

	// Get looks a submission up by ID. Returns ErrNotFound when it is absent
	// or expired.
	Get(ctx context.Context, id string) (*model.Submission, error)
}

// KVSubmissionRepository implements SubmissionRepository on a key-value store.
//
// Each submission lives under "submission:<id>" with a 90-day TTL. The
// "submissions:list" key holds a JSON array of IDs, newest first, capped at
// MaxIndexLength and never expiring. The index is updated with a plain
// read-modify-write: two concurrent Records can each read the same index and
// the later write drops the other's ID. The record itself is never lost, only
// its visibility in List.
type KVSubmissionRepository struct {
	store     storage.Store
	logger    *slog.Logger
	now       func() time.Time
	newSuffix func() string
}

// NewKVSubmissionRepository creates a repository on top of store.
func NewKVSubmissionRepository(store storage.Store, logger *slog.Logger) *KVSubmissionRepository {
	return &KVSubmissionRepository{
		store:     store,
		logger:    logger,
		now:       time.Now,
		newSuffix: randomSuffix,
	}
}

var _ SubmissionRepository = (*KVSubmissionRepository)(nil)

// randomSuffix returns 7 lowercase hex characters taken from a v4 UUID.
func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:7]
}

// NewSubmissionID builds "<unix-millis>-<suffix>". The result is URL-safe and
// unique enough for a low-volume form, not under heavy concurrency.
func NewSubmissionID(now time.Time, suffix string) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), suffix)
}

func submissionKey(id string) string {
	return SubmissionKeyPrefix + id
}

// Record writes the submission first and the index second. If the index
// update fails the submission stays readable through Get but is missing from
// List; this is logged and not reported to the caller.
func (r *KVSubmissionRepository) Record(ctx context.Context, s *model.Submission) (string, error) {
	id := NewSubmissionID(r.now(), r.newSuffix())

	stored := *s
	stored.ID = ""
	body, err := json.Marshal(&stored)
	if err != nil {
		return "", fmt.Errorf("marshal submission: %w", err)
	}
	if err := r.store.Put(ctx, submissionKey(id), string(body), SubmissionTTL); err != nil {
		return "", fmt.Errorf("store submission: %w", err)
	}
	s.ID = id

	if err := r.prependToIndex(ctx, id); err != nil {
		r.logger.Warn("submission stored but index update failed",
			slog.String("id", id),
			slog.String("error", err.Error()))
	}
	return id, nil
}

func (r *KVSubmissionRepository) prependToIndex(ctx context.Context, id string) error {
	ids, err := r.readIndex(ctx)
	if err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &syntaxErr) && !errors.As(err, &typeErr) {
			return err
		}
		// An unreadable index would block every future submission; start over.
		r.logger.Error("index is corrupt, resetting", slog.String("error", err.Error()))
		ids = nil
	}

	next := make([]string, 0, min(len(ids)+1, MaxIndexLength))
	next = append(next, id)
	next = append(next, ids...)
	if len(next) > MaxIndexLength {
		next = next[:MaxIndexLength]
	}

	body, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}
	if err := r.store.Put(ctx, IndexKey, string(body), 0); err != nil {
		return fmt.Errorf("store index: %w", err)
	}
	return nil
}

// readIndex returns the IDs in the index; an absent index is empty.
func (r *KVSubmissionRepository) readIndex(ctx context.Context) ([]string, error) {
	raw, err := r.store.Get(ctx, IndexKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("decode index: %w", err)
	}
	return ids, nil
}

// List resolves the first min(limit, MaxListLimit) IDs of the index. IDs
// whose record has expired or cannot be decoded are skipped, so the page may
// hold fewer items than requested. Total is always the index length.
func (r *KVSubmissionRepository) List(ctx context.Context, limit int) (*model.SubmissionPage, error) {
	ids, err := r.readIndex(ctx)
	if err != nil {
		return nil, err
	}

	limit = max(0, min(limit, MaxListLimit))
	if limit > len(ids) {
		limit = len(ids)
	}

	items := make([]*model.Submission, 0, limit)
	for _, id := range ids[:limit] {
		s, err := r.Get(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		var decodeErr *decodeError
		if errors.As(err, &decodeErr) {
			r.logger.Warn("skipping unreadable submission",
				slog.String("id", id),
				slog.String("error", err.Error()))
			continue
		}
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}

	return &model.SubmissionPage{Items: items, Total: len(ids)}, nil
}

// decodeError marks a stored record that is not valid JSON.
type decodeError struct {
	id  string
	err error
}

func (e *decodeError) Error() string {
	return fmt.Sprintf("decode submission %s: %v", e.id, e.err)
}

func (e *decodeError) Unwrap() error { return e.err }

func (r *KVSubmissionRepository) Get(ctx context.Context, id string) (*model.Submission, error) {
	raw, err := r.store.Get(ctx, submissionKey(id))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read submission %s: %w", id, err)
	}
	var s model.Submission
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, &decodeError{id: id, err: err}
	}
	s.ID = id
	return &s, nil
}
