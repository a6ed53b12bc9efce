package models

import (
	"time"

	"github.com/google/uuid"
)

// Application is an editor's offer to take on a project.
type Application struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProjectID string    `gorm:"size:32;index;not null"`
	EditorID  string    `gorm:"size:64;index;not null"`
	Message   string    `gorm:"type:text"`
	Status    string    `gorm:"size:16;default:pending;index"` // pending, accepted, rejected, withdrawn
	CreatedAt time.Time
	UpdatedAt time.Time
}
