package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"clipstream/internal/domain/video"
	"clipstream/internal/infrastructure/database/entities"
)

// Repository is the postgres-backed record store. Mutations run inside
// transactions so the read-modify-write cycle of each operation is atomic
// with respect to concurrent callers.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, rec *video.VideoRecord) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entities.VideoRecord{}).Where("id = ?", rec.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return video.ErrDuplicateID
		}
		return tx.Create(toEntity(rec)).Error
	})
	if err != nil {
		if errors.Is(err, video.ErrDuplicateID) {
			return err
		}
		return persistErr("create", err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (*video.VideoRecord, error) {
	return r.fetch(r.db.WithContext(ctx), id)
}

func (r *Repository) List(ctx context.Context) ([]*video.VideoRecord, error) {
	var rows []entities.VideoRecord
	err := r.db.WithContext(ctx).
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("seq") }).
		Order("position").
		Find(&rows).Error
	if err != nil {
		return nil, persistErr("list", err)
	}

	records := make([]*video.VideoRecord, len(rows))
	for i := range rows {
		records[i] = fromEntity(&rows[i])
	}
	return records, nil
}

func (r *Repository) IncrementLike(ctx context.Context, id string) (*video.VideoRecord, error) {
	var rec *video.VideoRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entities.VideoRecord{}).
			Where("id = ?", id).
			UpdateColumn("like_count", gorm.Expr("like_count + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return video.ErrNotFound
		}
		var err error
		rec, err = r.fetch(tx, id)
		return err
	})
	if err != nil {
		return nil, mapErr("like", err)
	}
	return rec, nil
}

func (r *Repository) AppendComment(ctx context.Context, id string, comment video.Comment) (*video.VideoRecord, error) {
	var rec *video.VideoRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entities.VideoRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return video.ErrNotFound
		}
		row := entities.Comment{
			ID:            comment.ID,
			VideoRecordID: id,
			Text:          comment.Text,
			CreatedAt:     comment.CreatedAt,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		var err error
		rec, err = r.fetch(tx, id)
		return err
	})
	if err != nil {
		return nil, mapErr("comment", err)
	}
	return rec, nil
}

func (r *Repository) Delete(ctx context.Context, id string) (*video.VideoRecord, error) {
	var rec *video.VideoRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		rec, err = r.fetch(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Where("video_record_id = ?", id).Delete(&entities.Comment{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entities.VideoRecord{}).Error
	})
	if err != nil {
		return nil, mapErr("delete", err)
	}
	return rec, nil
}

func (r *Repository) fetch(tx *gorm.DB, id string) (*video.VideoRecord, error) {
	var row entities.VideoRecord
	err := tx.
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("seq") }).
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, video.ErrNotFound
		}
		return nil, err
	}
	return fromEntity(&row), nil
}

func mapErr(op string, err error) error {
	if errors.Is(err, video.ErrNotFound) || errors.Is(err, video.ErrDuplicateID) {
		return err
	}
	return persistErr(op, err)
}

func persistErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", video.ErrPersistence, op, err)
}

func toEntity(rec *video.VideoRecord) *entities.VideoRecord {
	row := &entities.VideoRecord{
		ID:                rec.ID,
		Title:             rec.Title,
		Description:       rec.Description,
		VideoFilename:     rec.VideoFilename,
		ThumbnailFilename: rec.ThumbnailFilename,
		LikeCount:         rec.LikeCount,
	}
	if rec.Tags != nil {
		row.Tags = datatypes.JSON(rec.Tags)
	}
	for _, c := range rec.Comments {
		row.Comments = append(row.Comments, entities.Comment{
			ID:            c.ID,
			VideoRecordID: rec.ID,
			Text:          c.Text,
			CreatedAt:     c.CreatedAt,
		})
	}
	return row
}

func fromEntity(row *entities.VideoRecord) *video.VideoRecord {
	rec := &video.VideoRecord{
		ID:                row.ID,
		Title:             row.Title,
		Description:       row.Description,
		VideoFilename:     row.VideoFilename,
		ThumbnailFilename: row.ThumbnailFilename,
		LikeCount:         row.LikeCount,
		Comments:          make([]video.Comment, 0, len(row.Comments)),
	}
	if len(row.Tags) > 0 {
		rec.Tags = json.RawMessage(row.Tags)
	}
	for _, c := range row.Comments {
		rec.Comments = append(rec.Comments, video.Comment{
			ID:        c.ID,
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
		})
	}
	return rec
}
