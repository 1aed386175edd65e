//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"

	"clipstream/internal/config"
	"clipstream/internal/domain/stream"
	"clipstream/internal/domain/video"
	"clipstream/internal/infrastructure/logger"
	"clipstream/internal/infrastructure/medialib"
	"clipstream/internal/interfaces/httpserver"
)

var videoSet = wire.NewSet(
	provideRecordStore,
	video.NewService,
	medialib.New,
	stream.NewResponder,
)

// BuildApplication assembles the service with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		videoSet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

// provideRecordStore creates the record store backend selected by config.
func provideRecordStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (video.Repository, error) {
	return buildRecordStore(ctx, cfg, log)
}
