// Package project provides project lifecycle operations.
package project

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/cutboard/cutboard/internal/batch"
	"github.com/cutboard/cutboard/internal/models"
	"github.com/cutboard/cutboard/internal/pricing"
	"gorm.io/gorm"
)

// CreateOpts holds parameters for creating a new project.
type CreateOpts struct {
	Title          string
	Description    string
	CreatorID      string
	BasePriceCents int64
	DeadlineDays   int
}

// ListFilters holds optional filters for listing projects.
type ListFilters struct {
	Status    models.ProjectStatus
	CreatorID string
	EditorID  string
	Archived  *bool
	BatchOnly bool
}

// ValidTransitions maps each single-video project status to its valid next
// statuses. Batch projects never pass through here: their status is derived
// from the video set on every read. The special case "any non-terminal →
// cancelled" is handled in CanTransition.
var ValidTransitions = map[models.ProjectStatus][]models.ProjectStatus{
	models.ProjectDraft:             {models.ProjectOpen},
	models.ProjectOpen:              {models.ProjectInProgress},
	models.ProjectInProgress:        {models.ProjectInReview},
	models.ProjectInReview:          {models.ProjectCompleted, models.ProjectRevisionRequested},
	models.ProjectRevisionRequested: {models.ProjectInProgress},
}

// CanTransition reports whether a single-video project may move between
// the two statuses.
func CanTransition(from, to models.ProjectStatus) bool {
	if to == models.ProjectCancelled {
		return from != models.ProjectCompleted && from != models.ProjectCancelled
	}
	for _, v := range ValidTransitions[from] {
		if v == to {
			return true
		}
	}
	return false
}

// GenerateID creates a unique project ID in prj-xxxxx format (5-char hex).
func GenerateID() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("project: generate ID: %w", err)
	}
	return "prj-" + hex.EncodeToString(b)[:5], nil
}

// Create creates a new draft project with an auto-generated ID. The base
// price is fixed here and immutable afterward; batch totals derive from it.
func Create(db *gorm.DB, opts CreateOpts) (*models.Project, error) {
	if opts.Title == "" {
		return nil, fmt.Errorf("project: title is required")
	}
	if opts.CreatorID == "" {
		return nil, fmt.Errorf("project: creator is required")
	}
	if opts.BasePriceCents <= 0 {
		return nil, fmt.Errorf("project: base price must be positive")
	}

	id, err := generateUniqueID(db)
	if err != nil {
		return nil, err
	}

	p := models.Project{
		ID:             id,
		Title:          opts.Title,
		Description:    opts.Description,
		CreatorID:      opts.CreatorID,
		Status:         models.ProjectDraft,
		BasePriceCents: opts.BasePriceCents,
		BatchQuantity:  1,
		DeadlineDays:   opts.DeadlineDays,
	}
	if err := db.Create(&p).Error; err != nil {
		return nil, fmt.Errorf("project: create: %w", err)
	}
	return &p, nil
}

// Get retrieves a project by ID, preloading its videos in sequence order.
func Get(db *gorm.DB, id string) (*models.Project, error) {
	var p models.Project
	err := db.Preload("Videos", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("sequence_order ASC")
	}).Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("project: not found: %s", id)
		}
		return nil, fmt.Errorf("project: get %s: %w", id, err)
	}
	return &p, nil
}

// List returns projects matching the given filters, newest first.
func List(db *gorm.DB, filters ListFilters) ([]models.Project, error) {
	q := db.Model(&models.Project{})

	if filters.Status != "" {
		q = q.Where("status = ?", filters.Status)
	}
	if filters.CreatorID != "" {
		q = q.Where("creator_id = ?", filters.CreatorID)
	}
	if filters.EditorID != "" {
		q = q.Where("assigned_editor_id = ?", filters.EditorID)
	}
	if filters.Archived != nil {
		q = q.Where("is_archived = ?", *filters.Archived)
	}
	if filters.BatchOnly {
		q = q.Where("is_batch = ?", true)
	}

	var projects []models.Project
	if err := q.Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("project: list: %w", err)
	}
	return projects, nil
}

// UpdateStatus moves a single-video project through its workflow. Batch
// project status is derived, never hand-set, so batches are rejected here.
func UpdateStatus(db *gorm.DB, id string, next models.ProjectStatus) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var p models.Project
		if err := tx.Where("id = ?", id).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("project: not found: %s", id)
			}
			return fmt.Errorf("project: get %s: %w", id, err)
		}
		if p.IsBatch {
			return fmt.Errorf("project: %s is a batch, its status is derived from videos", id)
		}
		if !CanTransition(p.Status, next) {
			valid := ValidTransitions[p.Status]
			return fmt.Errorf("project: invalid status transition from %q to %q; valid transitions: %v", p.Status, next, valid)
		}

		updates := map[string]interface{}{"status": next}
		if next == models.ProjectCompleted {
			updates["completed_at"] = time.Now()
		}
		if err := tx.Model(&models.Project{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fmt.Errorf("project: update %s: %w", id, err)
		}

		evt := models.StatusEvent{ProjectID: id, OldStatus: string(p.Status), NewStatus: string(next)}
		if err := tx.Create(&evt).Error; err != nil {
			return fmt.Errorf("project: record status event for %s: %w", id, err)
		}
		return nil
	})
}

// SetDeliveryMode switches a batch between sequential and simultaneous
// delivery and reprices synchronously from source fields, returning the
// fresh quote before anything is displayed or charged.
func SetDeliveryMode(db *gorm.DB, id string, mode models.DeliveryMode, cfg pricing.Config) (*pricing.Quote, error) {
	if mode != models.DeliverySequential && mode != models.DeliverySimultaneous {
		return nil, fmt.Errorf("project: unknown delivery mode %q", mode)
	}

	var p models.Project
	if err := db.Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("project: not found: %s", id)
		}
		return nil, fmt.Errorf("project: get %s: %w", id, err)
	}
	if !p.IsBatch {
		return nil, fmt.Errorf("project: %s is not a batch", id)
	}

	if err := db.Model(&models.Project{}).Where("id = ?", id).
		Update("batch_delivery_mode", mode).Error; err != nil {
		return nil, fmt.Errorf("project: set delivery mode of %s: %w", id, err)
	}

	quote := pricing.Calculate(p.BasePriceCents, p.BatchQuantity, mode, cfg)
	return &quote, nil
}

// Assign sets the editor fulfilling the project.
func Assign(db *gorm.DB, id, editorID string) error {
	if editorID == "" {
		return fmt.Errorf("project: editor is required")
	}
	res := db.Model(&models.Project{}).Where("id = ?", id).
		Update("assigned_editor_id", editorID)
	if res.Error != nil {
		return fmt.Errorf("project: assign %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("project: not found: %s", id)
	}
	return nil
}

// EffectiveStatus resolves the status used for kanban placement: batch
// projects recompute from their videos, single-video projects use the
// stored value.
func EffectiveStatus(p *models.Project, videos []models.BatchVideo) models.ProjectStatus {
	if p.IsBatch {
		return batch.AggregatedStatus(videos)
	}
	return p.Status
}

// Quote reprices a project from its current source fields.
func Quote(p *models.Project, cfg pricing.Config) pricing.Quote {
	mode := p.BatchDeliveryMode
	if mode == "" {
		mode = models.DeliverySequential
	}
	quantity := 1
	if p.IsBatch {
		quantity = p.BatchQuantity
	}
	return pricing.Calculate(p.BasePriceCents, quantity, mode, cfg)
}

// generateUniqueID generates an ID and retries once on collision.
func generateUniqueID(db *gorm.DB) (string, error) {
	for i := 0; i < 2; i++ {
		id, err := GenerateID()
		if err != nil {
			return "", err
		}
		var count int64
		if err := db.Model(&models.Project{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return "", fmt.Errorf("project: check ID uniqueness: %w", err)
		}
		if count == 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("project: failed to generate unique ID after retries")
}
