package video

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"clipstream/internal/infrastructure/metrics"
	"clipstream/utils/videoid"
)

// Repository defines the record store operations needed by the service.
// Implementations must serialize mutations against each other and must not
// acknowledge a mutation that failed to persist.
type Repository interface {
	Create(ctx context.Context, rec *VideoRecord) error
	Get(ctx context.Context, id string) (*VideoRecord, error)
	List(ctx context.Context) ([]*VideoRecord, error)
	IncrementLike(ctx context.Context, id string) (*VideoRecord, error)
	AppendComment(ctx context.Context, id string, comment Comment) (*VideoRecord, error)
	Delete(ctx context.Context, id string) (*VideoRecord, error)
}

// Service orchestrates video metadata operations on top of a Repository.
type Service struct {
	repo Repository
	log  zerolog.Logger
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("component", "video-service").Logger(),
	}
}

// Create validates and stores a new record. Comments start empty and the
// like count at zero regardless of caller input.
func (s *Service) Create(ctx context.Context, params CreateParams) (*VideoRecord, error) {
	if strings.TrimSpace(params.Title) == "" {
		return nil, ErrEmptyTitle
	}

	rec := &VideoRecord{
		ID:                params.ID,
		Title:             params.Title,
		Description:       params.Description,
		Tags:              params.Tags,
		VideoFilename:     params.VideoFilename,
		ThumbnailFilename: params.ThumbnailFilename,
		LikeCount:         0,
		Comments:          []Comment{},
	}

	if err := s.observe(ctx, "create", func(ctx context.Context) error {
		return s.repo.Create(ctx, rec)
	}); err != nil {
		return nil, err
	}

	s.log.Info().Str("id", rec.ID).Str("title", rec.Title).Msg("video record created")
	return rec, nil
}

// Get returns the record for id.
func (s *Service) Get(ctx context.Context, id string) (*VideoRecord, error) {
	return s.repo.Get(ctx, id)
}

// List returns all records in creation order. The result is never nil so it
// always marshals as a JSON array.
func (s *Service) List(ctx context.Context) ([]*VideoRecord, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []*VideoRecord{}
	}
	return records, nil
}

// Like atomically increments the like count and returns the updated record.
func (s *Service) Like(ctx context.Context, id string) (*VideoRecord, error) {
	var rec *VideoRecord
	err := s.observe(ctx, "like", func(ctx context.Context) error {
		var opErr error
		rec, opErr = s.repo.IncrementLike(ctx, id)
		return opErr
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Comment appends a comment with a store-assigned id and timestamp and
// returns the updated record.
func (s *Service) Comment(ctx context.Context, id, text string) (*VideoRecord, error) {
	comment := Comment{
		ID:        videoid.NewComment(),
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}

	var rec *VideoRecord
	err := s.observe(ctx, "comment", func(ctx context.Context) error {
		var opErr error
		rec, opErr = s.repo.AppendComment(ctx, id, comment)
		return opErr
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Delete removes the record permanently and returns it.
func (s *Service) Delete(ctx context.Context, id string) (*VideoRecord, error) {
	var rec *VideoRecord
	err := s.observe(ctx, "delete", func(ctx context.Context) error {
		var opErr error
		rec, opErr = s.repo.Delete(ctx, id)
		return opErr
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("id", id).Msg("video record deleted")
	return rec, nil
}

func (s *Service) observe(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordStoreOp(op, status, time.Since(start).Seconds())
	return err
}
