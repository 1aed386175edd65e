package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"clipstream/internal/config"
	"clipstream/internal/domain/video"
	"clipstream/internal/infrastructure/medialib"
	"clipstream/internal/infrastructure/metrics"
	"clipstream/utils/videoid"
)

// VideoHandler exposes the video metadata endpoints.
type VideoHandler struct {
	cfg     *config.Config
	service *video.Service
	lib     *medialib.Library
	log     zerolog.Logger
}

func NewVideoHandler(cfg *config.Config, service *video.Service, lib *medialib.Library, log zerolog.Logger) *VideoHandler {
	return &VideoHandler{
		cfg:     cfg,
		service: service,
		lib:     lib,
		log:     log.With().Str("component", "video-handler").Logger(),
	}
}

// uploadMeta is the jsonData multipart field.
type uploadMeta struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Tags        json.RawMessage `json:"tags"`
}

type commentRequest struct {
	Comment string `json:"comment" binding:"required"`
}

// Upload godoc
// @Summary      Upload a video with thumbnail and metadata
// @Accept       multipart/form-data
// @Produce      json
// @Param        videoData      formData  file    true  "Video file"
// @Param        thumbnailData  formData  file    true  "Thumbnail file"
// @Param        jsonData       formData  string  true  "Metadata JSON (title, description, tags)"
// @Success      201  {object}  video.VideoRecord
// @Failure      400  {object}  map[string]string
// @Router       /upload/video [post]
func (h *VideoHandler) Upload(c *gin.Context) {
	videoFile, videoHeader, err := c.Request.FormFile("videoData")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Video and thumbnail required"})
		return
	}
	defer videoFile.Close()

	thumbFile, thumbHeader, err := c.Request.FormFile("thumbnailData")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Video and thumbnail required"})
		return
	}
	defer thumbFile.Close()

	var meta uploadMeta
	if raw := c.Request.FormValue("jsonData"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &meta); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid jsonData"})
			return
		}
	}
	if strings.TrimSpace(meta.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title Empty"})
		return
	}

	videoType, err := detectMediaType(videoFile)
	if err != nil || !strings.HasPrefix(videoType, "video/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "videoData must be a video file"})
		return
	}
	thumbType, err := detectMediaType(thumbFile)
	if err != nil || !strings.HasPrefix(thumbType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "thumbnailData must be an image file"})
		return
	}

	// One id joins the record and both media files on disk.
	id := videoid.NewVideo()
	videoName := mediaFilename(id, videoHeader.Filename)
	thumbName := mediaFilename(id, thumbHeader.Filename)

	videoBytes, ok := h.saveUpload(c, medialib.KindVideo, videoName, videoFile, videoHeader)
	if !ok {
		return
	}
	if _, ok := h.saveUpload(c, medialib.KindThumbnail, thumbName, thumbFile, thumbHeader); !ok {
		h.discardUpload(medialib.KindVideo, videoName)
		return
	}

	rec, err := h.service.Create(c.Request.Context(), video.CreateParams{
		ID:                id,
		Title:             meta.Title,
		Description:       meta.Description,
		Tags:              meta.Tags,
		VideoFilename:     videoName,
		ThumbnailFilename: thumbName,
	})
	if err != nil {
		h.discardUpload(medialib.KindVideo, videoName)
		h.discardUpload(medialib.KindThumbnail, thumbName)
		h.respondError(c, err, "upload failed")
		return
	}

	metrics.RecordUpload(videoType, "success", videoBytes)
	c.JSON(http.StatusCreated, rec)
}

// Like godoc
// @Summary      Increment the like count
// @Produce      json
// @Param        id  path  string  true  "Video id"
// @Success      200  {object}  video.VideoRecord
// @Failure      404  {object}  map[string]string
// @Router       /video/like/{id} [put]
func (h *VideoHandler) Like(c *gin.Context) {
	rec, err := h.service.Like(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "like failed")
		return
	}
	c.JSON(http.StatusOK, rec)
}

// Comment godoc
// @Summary      Append a comment
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "Video id"
// @Success      200  {object}  video.VideoRecord
// @Failure      404  {object}  map[string]string
// @Router       /video/{id}/comment [post]
func (h *VideoHandler) Comment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := h.service.Comment(c.Request.Context(), c.Param("id"), req.Comment)
	if err != nil {
		h.respondError(c, err, "comment failed")
		return
	}
	c.JSON(http.StatusOK, rec)
}

// List godoc
// @Summary      List all video records
// @Produce      json
// @Success      200  {array}  video.VideoRecord
// @Router       /video/list [get]
func (h *VideoHandler) List(c *gin.Context) {
	records, err := h.service.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "list failed")
		return
	}
	c.JSON(http.StatusOK, records)
}

// Detail godoc
// @Summary      Fetch one video record
// @Produce      json
// @Param        id  path  string  true  "Video id"
// @Success      200  {object}  video.VideoRecord
// @Failure      404  {object}  nil
// @Router       /video/detail/{id} [get]
func (h *VideoHandler) Detail(c *gin.Context) {
	rec, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, video.ErrNotFound) {
			c.JSON(http.StatusNotFound, nil)
			return
		}
		h.respondError(c, err, "detail failed")
		return
	}
	c.JSON(http.StatusOK, rec)
}

// Delete godoc
// @Summary      Delete a video record
// @Produce      json
// @Param        id  path  string  true  "Video id"
// @Success      200  {object}  video.VideoRecord
// @Failure      404  {object}  map[string]string
// @Router       /items/{id} [delete]
func (h *VideoHandler) Delete(c *gin.Context) {
	rec, err := h.service.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, video.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		h.respondError(c, err, "delete failed")
		return
	}

	if h.cfg.CleanupMediaOnDelete {
		// The record delete is already durable; file removal failures are
		// logged, not surfaced.
		h.discardUpload(medialib.KindVideo, rec.VideoFilename)
		h.discardUpload(medialib.KindThumbnail, rec.ThumbnailFilename)
	}

	c.JSON(http.StatusOK, rec)
}

// saveUpload streams one multipart file into the media library, enforcing
// the configured size limit.
func (h *VideoHandler) saveUpload(c *gin.Context, kind medialib.Kind, filename string, file multipart.File, header *multipart.FileHeader) (int64, bool) {
	limit := h.cfg.MaxUploadBytes
	written, err := h.lib.Save(kind, filename, io.LimitReader(file, limit+1))
	if err != nil {
		h.log.Error().Err(err).Str("filename", filename).Msg("save upload")
		h.discardUpload(kind, filename)
		metrics.RecordUpload(sniffContentType(header), "error", 0)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store file"})
		return 0, false
	}
	if written > limit {
		h.discardUpload(kind, filename)
		metrics.RecordUpload(sniffContentType(header), "too_large", 0)
		c.JSON(http.StatusBadRequest, gin.H{"error": "file exceeds max upload size"})
		return 0, false
	}
	return written, true
}

func (h *VideoHandler) discardUpload(kind medialib.Kind, filename string) {
	if err := h.lib.Remove(kind, filename); err != nil {
		h.log.Error().Err(err).Str("filename", filename).Msg("remove media file")
	}
}

func (h *VideoHandler) respondError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, video.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "video not found"})
	case errors.Is(err, video.ErrEmptyTitle), errors.Is(err, video.ErrDuplicateID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg(message)
		c.JSON(http.StatusInternalServerError, gin.H{"error": message})
	}
}

// mediaFilename keeps the uploader's extension on the shared record id.
func mediaFilename(id, original string) string {
	ext := strings.TrimPrefix(filepath.Ext(original), ".")
	if ext == "" {
		return id
	}
	return id + "." + ext
}

// sniffContentType resolves a label for upload metrics from the declared
// part header.
func sniffContentType(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// detectMediaType sniffs the content type from the file's leading bytes and
// rewinds the reader.
func detectMediaType(file multipart.File) (string, error) {
	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return mtype.String(), nil
}
