package entities

import (
	"time"

	"gorm.io/datatypes"
)

// VideoRecord is the persisted form of one video's metadata.
type VideoRecord struct {
	ID                string         `gorm:"type:varchar(40);primaryKey"`
	Title             string         `gorm:"type:varchar(255);not null"`
	Description       string         `gorm:"type:text"`
	Tags              datatypes.JSON `gorm:"type:jsonb"`
	VideoFilename     string         `gorm:"type:varchar(255);not null"`
	ThumbnailFilename string         `gorm:"type:varchar(255);not null"`
	LikeCount         int64          `gorm:"not null;default:0"`
	Position          int64          `gorm:"uniqueIndex;autoIncrement"`
	Comments          []Comment      `gorm:"foreignKey:VideoRecordID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time      `gorm:"autoCreateTime"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime"`
}

func (VideoRecord) TableName() string {
	return "video_records"
}

// Comment is one comment row, ordered by Seq within its record.
type Comment struct {
	ID            string    `gorm:"type:varchar(40);primaryKey"`
	VideoRecordID string    `gorm:"type:varchar(40);index;not null"`
	Text          string    `gorm:"type:text;not null"`
	Seq           int64     `gorm:"uniqueIndex;autoIncrement"`
	CreatedAt     time.Time `gorm:"not null"`
}

func (Comment) TableName() string {
	return "video_comments"
}
