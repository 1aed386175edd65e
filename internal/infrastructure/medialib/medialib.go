package medialib

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"clipstream/internal/config"
)

// Kind selects which media directory a filename resolves against.
type Kind string

const (
	KindVideo     Kind = "video"
	KindThumbnail Kind = "thumbnail"
)

var errBadFilename = errors.New("invalid media filename")

// Library owns the two on-disk media directories and resolves
// (kind, filename) pairs to files inside them.
type Library struct {
	videoDir     string
	thumbnailDir string
	log          zerolog.Logger
}

// New creates the media directories if needed and returns the library.
func New(cfg *config.Config, log zerolog.Logger) (*Library, error) {
	lib := &Library{
		videoDir:     cfg.VideoDir,
		thumbnailDir: cfg.ThumbnailDir,
		log:          log.With().Str("component", "medialib").Logger(),
	}

	for _, dir := range []string{lib.videoDir, lib.thumbnailDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create media directory %s: %w", dir, err)
		}
	}

	lib.log.Info().
		Str("video_dir", lib.videoDir).
		Str("thumbnail_dir", lib.thumbnailDir).
		Msg("media library initialized")

	return lib, nil
}

func (l *Library) dir(kind Kind) string {
	if kind == KindThumbnail {
		return l.thumbnailDir
	}
	return l.videoDir
}

// Resolve maps a filename to its absolute path, rejecting anything that
// escapes the media directory.
func (l *Library) Resolve(kind Kind, filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		return "", errBadFilename
	}
	return filepath.Join(l.dir(kind), filename), nil
}

// Save streams the reader into a new media file and returns the byte count.
func (l *Library) Save(kind Kind, filename string, r io.Reader) (int64, error) {
	path, err := l.Resolve(kind, filename)
	if err != nil {
		return 0, err
	}

	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create media file: %w", err)
	}
	defer file.Close()

	written, err := io.Copy(file, r)
	if err != nil {
		return written, fmt.Errorf("write media file: %w", err)
	}

	l.log.Debug().
		Str("kind", string(kind)).
		Str("filename", filename).
		Int64("bytes", written).
		Msg("media file saved")

	return written, nil
}

// Open returns the media file and its stat info. A missing or invalid
// filename surfaces as fs.ErrNotExist so callers can map it to 404.
func (l *Library) Open(kind Kind, filename string) (*os.File, os.FileInfo, error) {
	path, err := l.Resolve(kind, filename)
	if err != nil {
		return nil, nil, os.ErrNotExist
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, nil, os.ErrNotExist
	}

	return file, info, nil
}

// Remove deletes a media file. Missing files are not an error.
func (l *Library) Remove(kind Kind, filename string) error {
	path, err := l.Resolve(kind, filename)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove media file: %w", err)
	}
	return nil
}
