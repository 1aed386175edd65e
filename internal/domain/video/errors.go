package video

import "errors"

var (
	// ErrNotFound is returned when no record exists for the requested id.
	ErrNotFound = errors.New("video record not found")

	// ErrDuplicateID is returned when a create collides with an existing id.
	ErrDuplicateID = errors.New("video record id already exists")

	// ErrEmptyTitle is returned when a create carries no title.
	ErrEmptyTitle = errors.New("title is required")

	// ErrPersistence marks a failed durable write. The store guarantees the
	// in-memory state was rolled back when this is returned.
	ErrPersistence = errors.New("record store persistence failed")
)
