package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"clipstream/internal/domain/stream"
	"clipstream/internal/infrastructure/medialib"
)

// StreamHandler exposes the media streaming endpoints.
type StreamHandler struct {
	responder *stream.Responder
	log       zerolog.Logger
}

func NewStreamHandler(responder *stream.Responder, log zerolog.Logger) *StreamHandler {
	return &StreamHandler{
		responder: responder,
		log:       log.With().Str("component", "stream-handler").Logger(),
	}
}

// Watch godoc
// @Summary      Stream video bytes, range-aware
// @Produce      video/mp4
// @Param        id     path    string  true   "Video filename"
// @Param        Range  header  string  false  "bytes=<start>-[<end>]"
// @Success      200  "full content"
// @Success      206  "partial content"
// @Failure      404  "video not found"
// @Failure      416  "range not satisfiable"
// @Router       /video/watch/{id} [get]
func (h *StreamHandler) Watch(c *gin.Context) {
	h.responder.Serve(c.Writer, c.Request, medialib.KindVideo, c.Param("id"))
}

// Thumbnail godoc
// @Summary      Serve thumbnail bytes, full content only
// @Produce      octet-stream
// @Param        id  path  string  true  "Thumbnail filename"
// @Success      200  "binary data"
// @Failure      404  "thumbnail not found"
// @Router       /thumbnail/{id} [get]
func (h *StreamHandler) Thumbnail(c *gin.Context) {
	h.responder.Serve(c.Writer, c.Request, medialib.KindThumbnail, c.Param("id"))
}
