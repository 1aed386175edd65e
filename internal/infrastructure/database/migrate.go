package database

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"clipstream/internal/infrastructure/database/entities"
)

// AutoMigrate applies database schema changes.
func AutoMigrate(ctx context.Context, db *gorm.DB, log zerolog.Logger) error {
	if err := db.WithContext(ctx).AutoMigrate(&entities.VideoRecord{}, &entities.Comment{}); err != nil {
		return err
	}
	log.Info().Msg("applied video record migrations")
	return nil
}
