package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"clipstream/internal/config"
	"clipstream/internal/domain/stream"
	"clipstream/internal/domain/video"
	"clipstream/internal/infrastructure/database"
	"clipstream/internal/infrastructure/logger"
	"clipstream/internal/infrastructure/medialib"
	"clipstream/internal/infrastructure/repository/postgres"
	"clipstream/internal/infrastructure/repository/snapshot"
	"clipstream/internal/interfaces/httpserver"
)

// @title Clipstream API
// @version 1.0
// @description Video hosting backend: range-aware streaming and a persisted video metadata store
// @BasePath /
type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := buildRecordStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize record store")
	}

	lib, err := medialib.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize media library")
	}

	service := video.NewService(store, log)
	responder := stream.NewResponder(lib, log)

	httpServer := httpserver.New(cfg, log, service, lib, responder)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

// buildRecordStore selects the configured record store backend.
func buildRecordStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (video.Repository, error) {
	if cfg.IsPostgresStore() {
		db, err := database.Connect(database.Config{
			DSN:             cfg.DBPostgresqlDSN,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			MaxOpenConns:    cfg.DBMaxOpenConns,
			ConnMaxLifetime: cfg.DBConnLifetime,
			LogLevel:        gormlogger.Warn,
		})
		if err != nil {
			return nil, err
		}
		if err := database.AutoMigrate(ctx, db, log); err != nil {
			return nil, err
		}
		return postgres.NewRepository(db), nil
	}

	return snapshot.New(cfg.SnapshotPath, log)
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
