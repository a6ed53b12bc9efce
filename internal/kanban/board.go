package kanban

import (
	"fmt"

	"github.com/cutboard/cutboard/internal/batch"
	"github.com/cutboard/cutboard/internal/models"
	"gorm.io/gorm"
)

// Card holds one project's display data on the board.
type Card struct {
	ProjectID    string               `json:"project_id"`
	Title        string               `json:"title"`
	Status       models.ProjectStatus `json:"status"`
	IsBatch      bool                 `json:"is_batch"`
	IsArchived   bool                 `json:"is_archived"`
	Quantity     int                  `json:"quantity"`
	Percentage   int                  `json:"percentage"`
	HasDelayed   bool                 `json:"has_delayed"`
	DelayedCount int                  `json:"delayed_count"`
	EditorID     string               `json:"editor_id,omitempty"`
}

// BoardColumn is one column plus its cards in creation order.
type BoardColumn struct {
	Column Column `json:"column"`
	Cards  []Card `json:"cards"`
}

// Board loads every project, derives each one's effective status from its
// video set, and groups the results into columns. It is a full recompute
// on every call; with bounded batch sizes that is cheaper than keeping an
// incrementally patched view consistent.
func Board(db *gorm.DB) ([]BoardColumn, error) {
	var projects []models.Project
	if err := db.Preload("Videos", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("sequence_order ASC")
	}).Order("created_at ASC").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("kanban: load projects: %w", err)
	}

	byColumn := make(map[Column][]Card)
	for i := range projects {
		p := &projects[i]
		status := p.Status
		progress := batch.Progress{}
		hasDelayed, delayedCount := false, 0
		if p.IsBatch {
			status = batch.AggregatedStatus(p.Videos)
			progress = batch.ComputeProgress(p.Videos)
			hasDelayed, delayedCount = batch.ComputeDelay(p.Videos, p.DeadlineDays)
		}

		col := ColumnFor(status, p.IsArchived)
		byColumn[col] = append(byColumn[col], Card{
			ProjectID:    p.ID,
			Title:        p.Title,
			Status:       status,
			IsBatch:      p.IsBatch,
			IsArchived:   p.IsArchived,
			Quantity:     p.BatchQuantity,
			Percentage:   progress.Percentage,
			HasDelayed:   hasDelayed,
			DelayedCount: delayedCount,
			EditorID:     p.AssignedEditorID,
		})
	}

	columns := make([]BoardColumn, 0, len(Columns()))
	for _, col := range Columns() {
		cards := byColumn[col]
		if cards == nil {
			cards = []Card{}
		}
		columns = append(columns, BoardColumn{Column: col, Cards: cards})
	}
	return columns, nil
}
