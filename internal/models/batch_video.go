package models

import (
	"time"

	"github.com/cutboard/cutboard/internal/lifecycle"
)

// BatchVideo is one slot in a batch project. The set of SequenceOrder
// values for a project is always exactly {1, …, BatchQuantity}; rows are
// created together at configure time and only replaced by a full resize.
type BatchVideo struct {
	ID            string `gorm:"primaryKey;size:32"`
	ProjectID     string `gorm:"size:32;not null;uniqueIndex:idx_project_seq"`
	SequenceOrder int    `gorm:"not null;uniqueIndex:idx_project_seq"`

	Title                string `gorm:"not null"`
	SpecificInstructions string `gorm:"type:text"`

	Status        lifecycle.Status `gorm:"size:24;default:pending;index"`
	RevisionCount int              `gorm:"default:0"`

	// EditorCanChooseTiming and the explicit timestamp pair are mutually
	// exclusive ways of picking the source footage window.
	EditorCanChooseTiming  bool `gorm:"default:false"`
	SelectedTimestampStart *int
	SelectedTimestampEnd   *int

	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}
