package models

import "time"

// ProjectStatus is the kanban-displayable status of a project. For batch
// projects it is derived from the video set and never persisted; for
// single-video projects the stored value is authoritative.
type ProjectStatus string

const (
	ProjectDraft             ProjectStatus = "draft"
	ProjectOpen              ProjectStatus = "open"
	ProjectInProgress        ProjectStatus = "in_progress"
	ProjectInReview          ProjectStatus = "in_review"
	ProjectRevisionRequested ProjectStatus = "revision_requested"
	ProjectPendingApproval   ProjectStatus = "pending_approval"
	ProjectCompleted         ProjectStatus = "completed"
	ProjectCancelled         ProjectStatus = "cancelled"
	ProjectArchived          ProjectStatus = "archived"
)

// DeliveryMode controls how a batch is delivered: one video at a time, or
// everything together at a price premium.
type DeliveryMode string

const (
	DeliverySequential   DeliveryMode = "sequential"
	DeliverySimultaneous DeliveryMode = "simultaneous"
)

// Project is a creator's commission, fulfilled as one video or as a batch
// of independently tracked videos.
type Project struct {
	ID          string `gorm:"primaryKey;size:32"`
	Title       string `gorm:"not null"`
	Description string `gorm:"type:text"`
	CreatorID   string `gorm:"size:64;index;not null"`

	// Status is authoritative for single-video projects only. Batch
	// projects derive it from their videos on every read.
	Status ProjectStatus `gorm:"size:24;default:draft;index"`

	// BasePriceCents is the per-video price, fixed at creation. Batch
	// totals are always derived from it, never stored.
	BasePriceCents int64 `gorm:"not null"`

	IsBatch           bool         `gorm:"default:false"`
	BatchQuantity     int          `gorm:"default:1"`
	BatchDeliveryMode DeliveryMode `gorm:"size:16;default:sequential"`

	// DeadlineDays is days remaining until the target delivery date,
	// negative when overdue. Maintained by the caller from the target date.
	DeadlineDays int `gorm:"default:0"`

	IsArchived bool `gorm:"default:false;index"`

	AssignedEditorID string `gorm:"size:64;index"`
	ChargeRef        string `gorm:"size:64"`

	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time

	Videos       []BatchVideo  `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Applications []Application `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}
