package batch

import (
	"errors"
	"fmt"

	"github.com/cutboard/cutboard/internal/lifecycle"
	"github.com/cutboard/cutboard/internal/models"
	"gorm.io/gorm"
)

// Archive flips is_archived after re-validating archivability against the
// latest video set. The flip itself is a conditional update so two
// concurrent archive requests cannot both win; archiving an already
// archived project is a no-op success.
func Archive(db *gorm.DB, projectID string) error {
	var p models.Project
	if err := db.Where("id = ?", projectID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("batch: project not found: %s", projectID)
		}
		return fmt.Errorf("batch: get project %s: %w", projectID, err)
	}
	if p.IsArchived {
		return nil
	}

	if p.IsBatch {
		videos, err := Videos(db, projectID)
		if err != nil {
			return err
		}
		if !CanArchive(videos) {
			return fmt.Errorf("batch: project %s has unfinished videos, cannot archive", projectID)
		}
	} else {
		if !lifecycle.IsTerminal(lifecycle.Status(p.Status)) {
			return fmt.Errorf("batch: project %s is %q, only completed or cancelled projects can be archived", projectID, p.Status)
		}
	}

	res := db.Model(&models.Project{}).
		Where("id = ? AND is_archived = ?", projectID, false).
		Update("is_archived", true)
	if res.Error != nil {
		return fmt.Errorf("batch: archive %s: %w", projectID, res.Error)
	}
	// RowsAffected 0 means a concurrent request archived first; both succeed.
	return nil
}

// Unarchive clears is_archived. It has no precondition and is idempotent.
func Unarchive(db *gorm.DB, projectID string) error {
	res := db.Model(&models.Project{}).
		Where("id = ?", projectID).
		Update("is_archived", false)
	if res.Error != nil {
		return fmt.Errorf("batch: unarchive %s: %w", projectID, res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := db.Model(&models.Project{}).Where("id = ?", projectID).Count(&count).Error; err != nil {
			return fmt.Errorf("batch: check project %s: %w", projectID, err)
		}
		if count == 0 {
			return fmt.Errorf("batch: project not found: %s", projectID)
		}
	}
	return nil
}
