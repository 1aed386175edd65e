package handlers

import (
	"github.com/rs/zerolog"

	"clipstream/internal/config"
	"clipstream/internal/domain/stream"
	"clipstream/internal/domain/video"
	"clipstream/internal/infrastructure/medialib"
)

// Provider wires HTTP handlers.
type Provider struct {
	Video  *VideoHandler
	Stream *StreamHandler
}

func NewProvider(cfg *config.Config, service *video.Service, lib *medialib.Library, responder *stream.Responder, log zerolog.Logger) *Provider {
	return &Provider{
		Video:  NewVideoHandler(cfg, service, lib, log),
		Stream: NewStreamHandler(responder, log),
	}
}
