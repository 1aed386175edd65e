package video_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"clipstream/internal/domain/video"
)

// MockRepository is a func-field mock of video.Repository.
type MockRepository struct {
	CreateFunc        func(ctx context.Context, rec *video.VideoRecord) error
	GetFunc           func(ctx context.Context, id string) (*video.VideoRecord, error)
	ListFunc          func(ctx context.Context) ([]*video.VideoRecord, error)
	IncrementLikeFunc func(ctx context.Context, id string) (*video.VideoRecord, error)
	AppendCommentFunc func(ctx context.Context, id string, comment video.Comment) (*video.VideoRecord, error)
	DeleteFunc        func(ctx context.Context, id string) (*video.VideoRecord, error)
}

func (m *MockRepository) Create(ctx context.Context, rec *video.VideoRecord) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, rec)
	}
	return nil
}

func (m *MockRepository) Get(ctx context.Context, id string) (*video.VideoRecord, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, video.ErrNotFound
}

func (m *MockRepository) List(ctx context.Context) ([]*video.VideoRecord, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockRepository) IncrementLike(ctx context.Context, id string) (*video.VideoRecord, error) {
	if m.IncrementLikeFunc != nil {
		return m.IncrementLikeFunc(ctx, id)
	}
	return nil, video.ErrNotFound
}

func (m *MockRepository) AppendComment(ctx context.Context, id string, comment video.Comment) (*video.VideoRecord, error) {
	if m.AppendCommentFunc != nil {
		return m.AppendCommentFunc(ctx, id, comment)
	}
	return nil, video.ErrNotFound
}

func (m *MockRepository) Delete(ctx context.Context, id string) (*video.VideoRecord, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil, video.ErrNotFound
}

func newService(repo video.Repository) *video.Service {
	return video.NewService(repo, zerolog.Nop())
}

func TestService_CreateValidation(t *testing.T) {
	tests := []struct {
		name  string
		title string
	}{
		{"empty title", ""},
		{"whitespace title", "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repoCalled := false
			repo := &MockRepository{
				CreateFunc: func(ctx context.Context, rec *video.VideoRecord) error {
					repoCalled = true
					return nil
				},
			}

			_, err := newService(repo).Create(context.Background(), video.CreateParams{ID: "vid_1", Title: tt.title})
			if !errors.Is(err, video.ErrEmptyTitle) {
				t.Fatalf("Create() error = %v, want ErrEmptyTitle", err)
			}
			if repoCalled {
				t.Error("Create() hit the repository despite failing validation")
			}
		})
	}
}

func TestService_CreateInitializesSocialFields(t *testing.T) {
	var stored *video.VideoRecord
	repo := &MockRepository{
		CreateFunc: func(ctx context.Context, rec *video.VideoRecord) error {
			stored = rec
			return nil
		},
	}

	rec, err := newService(repo).Create(context.Background(), video.CreateParams{
		ID:                "vid_1",
		Title:             "Intro",
		VideoFilename:     "vid_1.mp4",
		ThumbnailFilename: "vid_1.png",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if rec.LikeCount != 0 {
		t.Errorf("LikeCount = %d, want 0", rec.LikeCount)
	}
	if rec.Comments == nil || len(rec.Comments) != 0 {
		t.Errorf("Comments = %v, want empty non-nil slice", rec.Comments)
	}
	if stored != rec {
		t.Error("stored record differs from returned record")
	}
}

func TestService_CreateDuplicatePropagates(t *testing.T) {
	repo := &MockRepository{
		CreateFunc: func(ctx context.Context, rec *video.VideoRecord) error {
			return video.ErrDuplicateID
		},
	}

	_, err := newService(repo).Create(context.Background(), video.CreateParams{ID: "vid_1", Title: "t"})
	if !errors.Is(err, video.ErrDuplicateID) {
		t.Fatalf("Create() error = %v, want ErrDuplicateID", err)
	}
}

func TestService_CommentAssignsIDAndTimestamp(t *testing.T) {
	var appended video.Comment
	repo := &MockRepository{
		AppendCommentFunc: func(ctx context.Context, id string, comment video.Comment) (*video.VideoRecord, error) {
			appended = comment
			return &video.VideoRecord{ID: id, Comments: []video.Comment{comment}}, nil
		},
	}

	before := time.Now().UTC()
	_, err := newService(repo).Comment(context.Background(), "vid_1", "nice clip")
	if err != nil {
		t.Fatalf("Comment() error = %v", err)
	}

	if !strings.HasPrefix(appended.ID, "cmt_") {
		t.Errorf("comment id = %q, want cmt_ prefix", appended.ID)
	}
	if appended.Text != "nice clip" {
		t.Errorf("comment text = %q, want %q", appended.Text, "nice clip")
	}
	if appended.CreatedAt.Before(before) || appended.CreatedAt.After(time.Now().UTC()) {
		t.Errorf("comment timestamp %v outside call window", appended.CreatedAt)
	}
}

func TestService_CommentIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	repo := &MockRepository{
		AppendCommentFunc: func(ctx context.Context, id string, comment video.Comment) (*video.VideoRecord, error) {
			return &video.VideoRecord{ID: id}, nil
		},
	}

	svc := newService(repo)
	for i := 0; i < 1000; i++ {
		var captured video.Comment
		repo.AppendCommentFunc = func(ctx context.Context, id string, comment video.Comment) (*video.VideoRecord, error) {
			captured = comment
			return &video.VideoRecord{ID: id}, nil
		}
		if _, err := svc.Comment(context.Background(), "vid_1", "x"); err != nil {
			t.Fatalf("Comment() error = %v", err)
		}
		if seen[captured.ID] {
			t.Fatalf("duplicate comment id %q", captured.ID)
		}
		seen[captured.ID] = true
	}
}

func TestService_LikeNotFound(t *testing.T) {
	_, err := newService(&MockRepository{}).Like(context.Background(), "vid_nope")
	if !errors.Is(err, video.ErrNotFound) {
		t.Fatalf("Like() error = %v, want ErrNotFound", err)
	}
}

func TestService_ListNeverNil(t *testing.T) {
	repo := &MockRepository{
		ListFunc: func(ctx context.Context) ([]*video.VideoRecord, error) {
			return nil, nil
		},
	}

	records, err := newService(repo).List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if records == nil {
		t.Fatal("List() = nil, want empty slice")
	}
}
