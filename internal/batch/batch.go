package batch

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/cutboard/cutboard/internal/lifecycle"
	"github.com/cutboard/cutboard/internal/models"
	"github.com/cutboard/cutboard/internal/pricing"
	"gorm.io/gorm"
)

// VideoSpec describes one slot of a batch at configure or resize time.
type VideoSpec struct {
	Title                  string
	SpecificInstructions   string
	EditorCanChooseTiming  bool
	SelectedTimestampStart *int
	SelectedTimestampEnd   *int
}

// ConfigureOpts holds parameters for turning a draft project into a batch.
type ConfigureOpts struct {
	Quantity     int
	DeliveryMode models.DeliveryMode
	Videos       []VideoSpec // len must equal Quantity; titles default to "Video N"
	Pricing      pricing.Config
}

// GenerateVideoID creates a unique video ID in vid-xxxxx format (5-char hex).
func GenerateVideoID() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("batch: generate video ID: %w", err)
	}
	return "vid-" + hex.EncodeToString(b)[:5], nil
}

// validateSpec checks a single video spec's timing fields.
func validateSpec(i int, s VideoSpec) error {
	hasWindow := s.SelectedTimestampStart != nil || s.SelectedTimestampEnd != nil
	if s.EditorCanChooseTiming && hasWindow {
		return fmt.Errorf("batch: video %d: editor timing choice and explicit timestamps are mutually exclusive", i+1)
	}
	if s.SelectedTimestampStart != nil && s.SelectedTimestampEnd != nil {
		if *s.SelectedTimestampEnd <= *s.SelectedTimestampStart {
			return fmt.Errorf("batch: video %d: timestamp end must be after start", i+1)
		}
	}
	return nil
}

// buildVideos materializes a dense 1..N video set from specs.
func buildVideos(projectID string, quantity int, specs []VideoSpec) ([]models.BatchVideo, error) {
	videos := make([]models.BatchVideo, quantity)
	for i := 0; i < quantity; i++ {
		var spec VideoSpec
		if i < len(specs) {
			spec = specs[i]
		}
		if err := validateSpec(i, spec); err != nil {
			return nil, err
		}
		id, err := GenerateVideoID()
		if err != nil {
			return nil, err
		}
		title := spec.Title
		if title == "" {
			title = fmt.Sprintf("Video %d", i+1)
		}
		videos[i] = models.BatchVideo{
			ID:                     id,
			ProjectID:              projectID,
			SequenceOrder:          i + 1,
			Title:                  title,
			SpecificInstructions:   spec.SpecificInstructions,
			Status:                 lifecycle.StatusPending,
			EditorCanChooseTiming:  spec.EditorCanChooseTiming,
			SelectedTimestampStart: spec.SelectedTimestampStart,
			SelectedTimestampEnd:   spec.SelectedTimestampEnd,
		}
	}
	return videos, nil
}

// Configure turns a draft project into a priced batch, creating the dense
// 1..N video set in one transaction and moving the project to open. The
// quote is recomputed from source fields and returned for display.
func Configure(db *gorm.DB, projectID string, opts ConfigureOpts) (*pricing.Quote, error) {
	if !opts.Pricing.QuantityInRange(opts.Quantity) {
		return nil, fmt.Errorf("batch: quantity %d outside policy range %d..%d",
			opts.Quantity, opts.Pricing.MinBatchQuantity, opts.Pricing.MaxBatchQuantity)
	}
	if len(opts.Videos) > opts.Quantity {
		return nil, fmt.Errorf("batch: %d video specs for quantity %d", len(opts.Videos), opts.Quantity)
	}
	if opts.DeliveryMode != models.DeliverySequential && opts.DeliveryMode != models.DeliverySimultaneous {
		return nil, fmt.Errorf("batch: unknown delivery mode %q", opts.DeliveryMode)
	}

	var quote pricing.Quote
	err := db.Transaction(func(tx *gorm.DB) error {
		var p models.Project
		if err := tx.Where("id = ?", projectID).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("batch: project not found: %s", projectID)
			}
			return fmt.Errorf("batch: get project %s: %w", projectID, err)
		}
		if p.Status != models.ProjectDraft {
			return fmt.Errorf("batch: project %s is %q, only draft projects can be configured", projectID, p.Status)
		}

		videos, err := buildVideos(projectID, opts.Quantity, opts.Videos)
		if err != nil {
			return err
		}
		if err := tx.Create(&videos).Error; err != nil {
			return fmt.Errorf("batch: create videos for %s: %w", projectID, err)
		}

		quote = pricing.Calculate(p.BasePriceCents, opts.Quantity, opts.DeliveryMode, opts.Pricing)

		updates := map[string]interface{}{
			"is_batch":            true,
			"batch_quantity":      opts.Quantity,
			"batch_delivery_mode": opts.DeliveryMode,
			"status":              models.ProjectOpen,
		}
		if err := tx.Model(&models.Project{}).Where("id = ?", projectID).Updates(updates).Error; err != nil {
			return fmt.Errorf("batch: configure project %s: %w", projectID, err)
		}

		return recordEvent(tx, projectID, "", string(models.ProjectDraft), string(models.ProjectOpen))
	})
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

// Resize replaces the whole video set with a re-sequenced 1..N set and
// reprices synchronously. Rejected once any video has left pending, since
// slots with work in flight cannot be renumbered out from under an editor.
func Resize(db *gorm.DB, projectID string, newQuantity int, specs []VideoSpec, cfg pricing.Config) (*pricing.Quote, error) {
	if !cfg.QuantityInRange(newQuantity) {
		return nil, fmt.Errorf("batch: quantity %d outside policy range %d..%d",
			newQuantity, cfg.MinBatchQuantity, cfg.MaxBatchQuantity)
	}

	var quote pricing.Quote
	err := db.Transaction(func(tx *gorm.DB) error {
		var p models.Project
		if err := tx.Where("id = ?", projectID).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("batch: project not found: %s", projectID)
			}
			return fmt.Errorf("batch: get project %s: %w", projectID, err)
		}
		if !p.IsBatch {
			return fmt.Errorf("batch: project %s is not a batch", projectID)
		}

		var started int64
		if err := tx.Model(&models.BatchVideo{}).
			Where("project_id = ? AND status != ?", projectID, lifecycle.StatusPending).
			Count(&started).Error; err != nil {
			return fmt.Errorf("batch: count active videos of %s: %w", projectID, err)
		}
		if started > 0 {
			return fmt.Errorf("batch: project %s has %d videos past pending, cannot resize", projectID, started)
		}

		if err := tx.Where("project_id = ?", projectID).Delete(&models.BatchVideo{}).Error; err != nil {
			return fmt.Errorf("batch: clear videos of %s: %w", projectID, err)
		}
		videos, err := buildVideos(projectID, newQuantity, specs)
		if err != nil {
			return err
		}
		if err := tx.Create(&videos).Error; err != nil {
			return fmt.Errorf("batch: recreate videos for %s: %w", projectID, err)
		}

		quote = pricing.Calculate(p.BasePriceCents, newQuantity, p.BatchDeliveryMode, cfg)

		if err := tx.Model(&models.Project{}).Where("id = ?", projectID).
			Update("batch_quantity", newQuantity).Error; err != nil {
			return fmt.Errorf("batch: resize project %s: %w", projectID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

// SetVideoStatus moves one video through the delivery/review workflow.
// The transition is validated against the lifecycle table; in_review →
// revision_requested increments the revision count by exactly one.
func SetVideoStatus(db *gorm.DB, videoID string, next lifecycle.Status) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var v models.BatchVideo
		if err := tx.Where("id = ?", videoID).First(&v).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("batch: video not found: %s", videoID)
			}
			return fmt.Errorf("batch: get video %s: %w", videoID, err)
		}

		from := lifecycle.Normalize(v.Status)
		if !lifecycle.CanTransition(from, next) {
			return fmt.Errorf("batch: invalid status transition from %q to %q; valid transitions: %v",
				from, next, lifecycle.ValidTransitions[from])
		}

		updates := map[string]interface{}{"status": next}
		if from == lifecycle.StatusInReview && next == lifecycle.StatusRevisionRequested {
			updates["revision_count"] = gorm.Expr("revision_count + 1")
		}
		if next == lifecycle.StatusCompleted {
			updates["completed_at"] = time.Now()
		}
		if err := tx.Model(&models.BatchVideo{}).Where("id = ?", videoID).Updates(updates).Error; err != nil {
			return fmt.Errorf("batch: update video %s: %w", videoID, err)
		}

		return recordEvent(tx, v.ProjectID, videoID, string(from), string(next))
	})
}

// Videos returns a project's video set ordered by sequence.
func Videos(db *gorm.DB, projectID string) ([]models.BatchVideo, error) {
	var videos []models.BatchVideo
	if err := db.Where("project_id = ?", projectID).
		Order("sequence_order ASC").Find(&videos).Error; err != nil {
		return nil, fmt.Errorf("batch: videos of %s: %w", projectID, err)
	}
	return videos, nil
}

// recordEvent appends a StatusEvent row for the SSE stream and watcher.
func recordEvent(tx *gorm.DB, projectID, videoID, oldStatus, newStatus string) error {
	evt := models.StatusEvent{
		ProjectID: projectID,
		VideoID:   videoID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
	}
	if err := tx.Create(&evt).Error; err != nil {
		return fmt.Errorf("batch: record status event for %s: %w", projectID, err)
	}
	return nil
}
