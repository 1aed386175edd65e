package stream

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"clipstream/internal/infrastructure/medialib"
	"clipstream/internal/infrastructure/metrics"
)

const videoContentType = "video/mp4"

// Responder produces a single HTTP response streaming bytes from a backing
// media file. Videos are range-aware; thumbnails are always served in full.
type Responder struct {
	lib *medialib.Library
	log zerolog.Logger
}

func NewResponder(lib *medialib.Library, log zerolog.Logger) *Responder {
	return &Responder{
		lib: lib,
		log: log.With().Str("component", "stream-responder").Logger(),
	}
}

// Serve writes the full or partial content response for the given media
// file. It never touches the record store.
func (r *Responder) Serve(w http.ResponseWriter, req *http.Request, kind medialib.Kind, filename string) {
	file, info, err := r.lib.Open(kind, filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			r.notFound(w, kind)
			return
		}
		r.log.Error().Err(err).Str("filename", filename).Msg("open media file")
		http.Error(w, "internal error", http.StatusInternalServerError)
		metrics.RecordStream(string(kind), "error", 0)
		return
	}
	defer file.Close()

	size := info.Size()

	if kind == medialib.KindVideo {
		r.serveVideo(w, req, file, size, filename)
		return
	}
	r.serveThumbnail(w, file, size, filename)
}

func (r *Responder) serveVideo(w http.ResponseWriter, req *http.Request, file *os.File, size int64, filename string) {
	br, err := ResolveRange(req.Header.Get("Range"), size)
	if err != nil {
		w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", size))
		w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
		metrics.RecordStream(string(medialib.KindVideo), "unsatisfiable", 0)
		return
	}

	w.Header().Set("Content-Type", videoContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(br.Length, 10))

	if br.Partial {
		w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", br.Start, br.End, size))
		w.Header().Set("Accept-Ranges", "bytes")
		w.WriteHeader(http.StatusPartialContent)

		if _, err := file.Seek(br.Start, io.SeekStart); err != nil {
			r.abort(medialib.KindVideo, err, filename)
			return
		}
		r.copyWindow(w, medialib.KindVideo, io.LimitReader(file, br.Length), filename)
		return
	}

	w.WriteHeader(http.StatusOK)
	r.copyWindow(w, medialib.KindVideo, file, filename)
}

func (r *Responder) serveThumbnail(w http.ResponseWriter, file *os.File, size int64, filename string) {
	contentType := "application/octet-stream"
	if mtype, err := mimetype.DetectReader(file); err == nil {
		contentType = mtype.String()
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		r.abort(medialib.KindThumbnail, err, filename)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	w.WriteHeader(http.StatusOK)
	r.copyWindow(w, medialib.KindThumbnail, file, filename)
}

// copyWindow streams the byte window. Headers are committed by now, so a
// copy failure can only abort the connection.
func (r *Responder) copyWindow(w http.ResponseWriter, kind medialib.Kind, src io.Reader, filename string) {
	written, err := io.Copy(w, src)
	if err != nil {
		r.abort(kind, err, filename)
		return
	}
	metrics.RecordStream(string(kind), "success", written)
}

func (r *Responder) notFound(w http.ResponseWriter, kind medialib.Kind) {
	body := "Video not found"
	if kind == medialib.KindThumbnail {
		body = "Thumbnail not found"
	}
	http.Error(w, body, http.StatusNotFound)
	metrics.RecordStream(string(kind), "not_found", 0)
}

func (r *Responder) abort(kind medialib.Kind, err error, filename string) {
	r.log.Error().Err(err).Str("filename", filename).Msg("stream aborted")
	metrics.RecordStream(string(kind), "aborted", 0)
}
