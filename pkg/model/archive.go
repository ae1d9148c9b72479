package model

import "time"

type ArchiveStatus string

const (
	ArchiveUnavailable ArchiveStatus = "unavailable"
	ArchiveDeleted     ArchiveStatus = "deleted"
)

// ArchiveRecord wraps a snapshot of a property removed from the live
// collection. The record keeps the property's own id, so archiving the
// same property twice conflicts and restore reproduces the original id.
type ArchiveRecord struct {
	ID           string        `json:"id" bson:"_id" validate:"required,mongodb"`
	Type         PropertyType  `json:"type" bson:"type" validate:"required,oneof=apartment transient"`
	Status       ArchiveStatus `json:"status" bson:"status" validate:"required,oneof=unavailable deleted"`
	OriginalPath string        `json:"original_path" bson:"original_path" validate:"required"`
	Property     Property      `json:"property" bson:"property"`
	ArchivedAt   time.Time     `json:"archived_at" bson:"archived_at"`
	// DeleteAfter is set only for status=deleted; once it passes without
	// a restore, the expiry sweep hard-deletes the record.
	DeleteAfter *time.Time `json:"delete_after,omitempty" bson:"delete_after,omitempty"`
	// RestoreAfter is a deadline: restore is guaranteed only until it.
	RestoreAfter *time.Time `json:"restore_after,omitempty" bson:"restore_after,omitempty"`
}
