package dashboard

import (
	"time"

	"github.com/cutboard/cutboard/internal/batch"
	"github.com/cutboard/cutboard/internal/kanban"
	"github.com/cutboard/cutboard/internal/lifecycle"
	"github.com/cutboard/cutboard/internal/models"
	"github.com/cutboard/cutboard/internal/pricing"
	"github.com/cutboard/cutboard/internal/project"
	"gorm.io/gorm"
)

// VideoRow holds one batch video for display.
type VideoRow struct {
	ID                   string           `json:"id"`
	SequenceOrder        int              `json:"sequence_order"`
	Title                string           `json:"title"`
	Status               lifecycle.Status `json:"status"`
	RevisionCount        int              `json:"revision_count"`
	SpecificInstructions string           `json:"specific_instructions,omitempty"`
	CompletedAt          *time.Time       `json:"completed_at,omitempty"`
}

// ProjectDetail holds everything the project page needs: the record, its
// videos, and every derived value recomputed fresh for this request.
type ProjectDetail struct {
	ID              string               `json:"id"`
	Title           string               `json:"title"`
	Description     string               `json:"description,omitempty"`
	CreatorID       string               `json:"creator_id"`
	EditorID        string               `json:"editor_id,omitempty"`
	IsBatch         bool                 `json:"is_batch"`
	IsArchived      bool                 `json:"is_archived"`
	EffectiveStatus models.ProjectStatus `json:"effective_status"`
	Column          kanban.Column        `json:"column"`
	DeliveryMode    models.DeliveryMode  `json:"delivery_mode"`
	DeadlineDays    int                  `json:"deadline_days"`
	HasDelayed      bool                 `json:"has_delayed"`
	DelayedCount    int                  `json:"delayed_count"`
	Archivable      bool                 `json:"archivable"`
	Progress        batch.Progress       `json:"progress"`
	Quote           pricing.Quote        `json:"quote"`
	Videos          []VideoRow           `json:"videos"`
	CreatedAt       time.Time            `json:"created_at"`
	CompletedAt     *time.Time           `json:"completed_at,omitempty"`
}

// GetProjectDetail assembles the full detail view for one project.
func GetProjectDetail(db *gorm.DB, id string, cfg pricing.Config) (*ProjectDetail, error) {
	p, err := project.Get(db, id)
	if err != nil {
		return nil, err
	}

	effective := project.EffectiveStatus(p, p.Videos)
	hasDelayed, delayedCount := false, 0
	archivable := false
	if p.IsBatch {
		hasDelayed, delayedCount = batch.ComputeDelay(p.Videos, p.DeadlineDays)
		archivable = batch.CanArchive(p.Videos)
	} else {
		archivable = lifecycle.IsTerminal(lifecycle.Status(p.Status))
		if p.DeadlineDays < 0 && !archivable {
			hasDelayed, delayedCount = true, 1
		}
	}

	detail := &ProjectDetail{
		ID:              p.ID,
		Title:           p.Title,
		Description:     p.Description,
		CreatorID:       p.CreatorID,
		EditorID:        p.AssignedEditorID,
		IsBatch:         p.IsBatch,
		IsArchived:      p.IsArchived,
		EffectiveStatus: effective,
		Column:          kanban.ColumnFor(effective, p.IsArchived),
		DeliveryMode:    p.BatchDeliveryMode,
		DeadlineDays:    p.DeadlineDays,
		HasDelayed:      hasDelayed,
		DelayedCount:    delayedCount,
		Archivable:      archivable,
		Progress:        batch.ComputeProgress(p.Videos),
		Quote:           project.Quote(p, cfg),
		CreatedAt:       p.CreatedAt,
		CompletedAt:     p.CompletedAt,
	}

	detail.Videos = make([]VideoRow, len(p.Videos))
	for i, v := range p.Videos {
		detail.Videos[i] = VideoRow{
			ID:                   v.ID,
			SequenceOrder:        v.SequenceOrder,
			Title:                v.Title,
			Status:               v.Status,
			RevisionCount:        v.RevisionCount,
			SpecificInstructions: v.SpecificInstructions,
			CompletedAt:          v.CompletedAt,
		}
	}
	return detail, nil
}
