package models

import "time"

// StatusEvent records a status change on a project or one of its videos.
// The dashboard SSE stream and the notify watcher tail this table instead
// of patching state incrementally.
type StatusEvent struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	ProjectID string `gorm:"size:32;index;not null"`
	VideoID   string `gorm:"size:32;index"` // empty for project-level events
	OldStatus string `gorm:"size:24"`
	NewStatus string `gorm:"size:24;not null"`
	CreatedAt time.Time
}
