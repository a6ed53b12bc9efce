// Package kanban projects project statuses onto display columns.
package kanban

import "github.com/cutboard/cutboard/internal/models"

// Column identifies one kanban board column.
type Column string

const (
	ColumnDraft      Column = "draft"
	ColumnOpen       Column = "open"
	ColumnInProgress Column = "in_progress"
	ColumnInReview   Column = "in_review"
	ColumnCompleted  Column = "completed"
	ColumnCancelled  Column = "cancelled"
	ColumnArchived   Column = "archived"
)

// Columns returns every column in display order.
func Columns() []Column {
	return []Column{
		ColumnDraft,
		ColumnOpen,
		ColumnInProgress,
		ColumnInReview,
		ColumnCompleted,
		ColumnCancelled,
		ColumnArchived,
	}
}

// columnFor is the fixed projection table. Revision requests show as
// in-progress work; pending approval and in-review share a column.
var columnFor = map[models.ProjectStatus]Column{
	models.ProjectDraft:             ColumnDraft,
	models.ProjectOpen:              ColumnOpen,
	models.ProjectInProgress:        ColumnInProgress,
	models.ProjectRevisionRequested: ColumnInProgress,
	models.ProjectPendingApproval:   ColumnInReview,
	models.ProjectInReview:          ColumnInReview,
	models.ProjectCompleted:         ColumnCompleted,
	models.ProjectCancelled:         ColumnCancelled,
	models.ProjectArchived:          ColumnArchived,
}

// ColumnFor maps an effective status to its board column. Archived wins
// over every other rule; unknown statuses fall back to draft so no project
// ever vanishes from every view.
func ColumnFor(status models.ProjectStatus, isArchived bool) Column {
	if isArchived {
		return ColumnArchived
	}
	if col, ok := columnFor[status]; ok {
		return col
	}
	return ColumnDraft
}
