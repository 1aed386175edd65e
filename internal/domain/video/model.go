package video

import (
	"encoding/json"
	"time"
)

// VideoRecord is one video's metadata entry. The JSON field names are the
// wire contract consumed by existing clients and must not change.
type VideoRecord struct {
	ID                string          `json:"id"`
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	Tags              json.RawMessage `json:"tags"`
	VideoFilename     string          `json:"video"`
	ThumbnailFilename string          `json:"thumbnail"`
	LikeCount         int64           `json:"like"`
	Comments          []Comment       `json:"comment"`
}

// Comment is a child of a VideoRecord, append-only.
type Comment struct {
	ID        string    `json:"id"`
	Text      string    `json:"comment"`
	CreatedAt time.Time `json:"commentTime"`
}

// Clone returns a deep copy so callers can never alias store-owned state.
func (r *VideoRecord) Clone() *VideoRecord {
	out := *r
	if r.Tags != nil {
		out.Tags = append(json.RawMessage(nil), r.Tags...)
	}
	out.Comments = make([]Comment, len(r.Comments))
	copy(out.Comments, r.Comments)
	return &out
}

// CreateParams carries caller-supplied fields for a new record.
type CreateParams struct {
	ID                string
	Title             string
	Description       string
	Tags              json.RawMessage
	VideoFilename     string
	ThumbnailFilename string
}
