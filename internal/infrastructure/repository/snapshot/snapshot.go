package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"clipstream/internal/domain/video"
)

// Store is a file-backed record store. The full collection lives in memory
// and is serialized as a single JSON document on every mutation. A mutex
// serializes the read-modify-persist cycle; the in-memory state is swapped
// only after the snapshot has been renamed into place, so a failed persist
// leaves memory and disk on the same pre-mutation state.
type Store struct {
	mu      sync.RWMutex
	path    string
	records []*video.VideoRecord
	log     zerolog.Logger
}

// New loads an existing snapshot from path (absent or empty file means an
// empty collection) and returns the store.
func New(path string, log zerolog.Logger) (*Store, error) {
	s := &Store{
		path: path,
		log:  log.With().Str("component", "snapshot-store").Logger(),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read snapshot %s: %w", path, err)
		}
		s.records = []*video.VideoRecord{}
		return s, nil
	}

	if len(data) == 0 {
		s.records = []*video.VideoRecord{}
		return s, nil
	}

	if err := json.Unmarshal(data, &s.records); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}

	s.log.Info().Int("records", len(s.records)).Str("path", path).Msg("snapshot loaded")
	return s, nil
}

// Create appends a new record and persists the collection.
func (s *Store) Create(ctx context.Context, rec *video.VideoRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(rec.ID) >= 0 {
		return video.ErrDuplicateID
	}

	next := append(s.cloneAll(), rec.Clone())
	if err := s.persist(next); err != nil {
		return err
	}
	s.records = next
	return nil
}

// Get returns a copy of the record for id.
func (s *Store) Get(ctx context.Context, id string) (*video.VideoRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, video.ErrNotFound
	}
	return s.records[i].Clone(), nil
}

// List returns copies of all records in creation order.
func (s *Store) List(ctx context.Context) ([]*video.VideoRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cloneAll(), nil
}

// IncrementLike bumps the like count by one and persists.
func (s *Store) IncrementLike(ctx context.Context, id string) (*video.VideoRecord, error) {
	return s.mutate(id, func(rec *video.VideoRecord) {
		rec.LikeCount++
	})
}

// AppendComment appends the comment and persists.
func (s *Store) AppendComment(ctx context.Context, id string, comment video.Comment) (*video.VideoRecord, error) {
	return s.mutate(id, func(rec *video.VideoRecord) {
		rec.Comments = append(rec.Comments, comment)
	})
}

// Delete removes the record, persists, and returns the removed record.
func (s *Store) Delete(ctx context.Context, id string) (*video.VideoRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, video.ErrNotFound
	}

	removed := s.records[i].Clone()
	next := s.cloneAll()
	next = append(next[:i], next[i+1:]...)
	if err := s.persist(next); err != nil {
		return nil, err
	}
	s.records = next
	return removed, nil
}

// mutate runs a single read-modify-persist cycle for one record.
func (s *Store) mutate(id string, apply func(*video.VideoRecord)) (*video.VideoRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, video.ErrNotFound
	}

	next := s.cloneAll()
	apply(next[i])
	if err := s.persist(next); err != nil {
		return nil, err
	}
	s.records = next
	return next[i].Clone(), nil
}

// indexOf must be called with the lock held.
func (s *Store) indexOf(id string) int {
	for i, rec := range s.records {
		if rec.ID == id {
			return i
		}
	}
	return -1
}

// cloneAll must be called with the lock held.
func (s *Store) cloneAll() []*video.VideoRecord {
	out := make([]*video.VideoRecord, len(s.records))
	for i, rec := range s.records {
		out[i] = rec.Clone()
	}
	return out
}

// persist writes the collection to a temp file and renames it over the
// snapshot path. The rename is the commit point.
func (s *Store) persist(records []*video.VideoRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode snapshot: %v", video.ErrPersistence, err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("%w: create temp snapshot: %v", video.ErrPersistence, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write snapshot: %v", video.ErrPersistence, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: sync snapshot: %v", video.ErrPersistence, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close snapshot: %v", video.ErrPersistence, err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: commit snapshot: %v", video.ErrPersistence, err)
	}
	return nil
}
