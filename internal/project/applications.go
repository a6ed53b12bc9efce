package project

import (
	"errors"
	"fmt"

	"github.com/cutboard/cutboard/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Apply records an editor's application to an open project. One pending
// application per editor per project.
func Apply(db *gorm.DB, projectID, editorID, message string) (*models.Application, error) {
	if editorID == "" {
		return nil, fmt.Errorf("project: editor is required")
	}

	var p models.Project
	if err := db.Where("id = ?", projectID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("project: not found: %s", projectID)
		}
		return nil, fmt.Errorf("project: get %s: %w", projectID, err)
	}
	if p.AssignedEditorID != "" {
		return nil, fmt.Errorf("project: %s already has an assigned editor", projectID)
	}

	var existing int64
	if err := db.Model(&models.Application{}).
		Where("project_id = ? AND editor_id = ? AND status = ?", projectID, editorID, "pending").
		Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("project: check applications for %s: %w", projectID, err)
	}
	if existing > 0 {
		return nil, fmt.Errorf("project: editor %s already applied to %s", editorID, projectID)
	}

	app := models.Application{
		ID:        uuid.New(),
		ProjectID: projectID,
		EditorID:  editorID,
		Message:   message,
		Status:    "pending",
	}
	if err := db.Create(&app).Error; err != nil {
		return nil, fmt.Errorf("project: apply to %s: %w", projectID, err)
	}
	return &app, nil
}

// AcceptApplication assigns the applicant as the project's editor and
// rejects all other pending applications.
func AcceptApplication(db *gorm.DB, applicationID uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var app models.Application
		if err := tx.Where("id = ?", applicationID).First(&app).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("project: application not found: %s", applicationID)
			}
			return fmt.Errorf("project: get application %s: %w", applicationID, err)
		}
		if app.Status != "pending" {
			return fmt.Errorf("project: application %s is %q, only pending applications can be accepted", applicationID, app.Status)
		}

		if err := tx.Model(&models.Application{}).Where("id = ?", applicationID).
			Update("status", "accepted").Error; err != nil {
			return fmt.Errorf("project: accept application %s: %w", applicationID, err)
		}
		if err := tx.Model(&models.Application{}).
			Where("project_id = ? AND id != ? AND status = ?", app.ProjectID, applicationID, "pending").
			Update("status", "rejected").Error; err != nil {
			return fmt.Errorf("project: reject other applications for %s: %w", app.ProjectID, err)
		}
		if err := tx.Model(&models.Project{}).Where("id = ?", app.ProjectID).
			Update("assigned_editor_id", app.EditorID).Error; err != nil {
			return fmt.Errorf("project: assign editor on %s: %w", app.ProjectID, err)
		}
		return nil
	})
}

// Applications lists a project's applications, newest first.
func Applications(db *gorm.DB, projectID string) ([]models.Application, error) {
	var apps []models.Application
	if err := db.Where("project_id = ?", projectID).
		Order("created_at DESC").Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("project: applications of %s: %w", projectID, err)
	}
	return apps, nil
}
