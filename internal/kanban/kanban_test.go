package kanban

import (
	"testing"

	"github.com/cutboard/cutboard/internal/models"
)

func TestColumnFor(t *testing.T) {
	tests := []struct {
		status     models.ProjectStatus
		isArchived bool
		want       Column
	}{
		{models.ProjectDraft, false, ColumnDraft},
		{models.ProjectOpen, false, ColumnOpen},
		{models.ProjectInProgress, false, ColumnInProgress},
		{models.ProjectRevisionRequested, false, ColumnInProgress},
		{models.ProjectPendingApproval, false, ColumnInReview},
		{models.ProjectInReview, false, ColumnInReview},
		{models.ProjectCompleted, false, ColumnCompleted},
		{models.ProjectCancelled, false, ColumnCancelled},
		{models.ProjectArchived, false, ColumnArchived},

		// Archived wins regardless of status.
		{models.ProjectDraft, true, ColumnArchived},
		{models.ProjectInProgress, true, ColumnArchived},
		{models.ProjectCompleted, true, ColumnArchived},

		// Unknown statuses fall back to draft.
		{models.ProjectStatus("bogus"), false, ColumnDraft},
		{models.ProjectStatus(""), false, ColumnDraft},
	}
	for _, tt := range tests {
		if got := ColumnFor(tt.status, tt.isArchived); got != tt.want {
			t.Errorf("ColumnFor(%q, %v) = %q, want %q", tt.status, tt.isArchived, got, tt.want)
		}
	}
}

func TestColumns_CoverEveryStatus(t *testing.T) {
	// Every defined status must land in some display column.
	statuses := []models.ProjectStatus{
		models.ProjectDraft, models.ProjectOpen, models.ProjectInProgress,
		models.ProjectInReview, models.ProjectRevisionRequested,
		models.ProjectPendingApproval, models.ProjectCompleted,
		models.ProjectCancelled, models.ProjectArchived,
	}
	valid := make(map[Column]bool)
	for _, c := range Columns() {
		valid[c] = true
	}
	for _, s := range statuses {
		if col := ColumnFor(s, false); !valid[col] {
			t.Errorf("ColumnFor(%q) = %q, not a display column", s, col)
		}
	}
}
