package kanban

import (
	"testing"

	"github.com/cutboard/cutboard/internal/batch"
	"github.com/cutboard/cutboard/internal/lifecycle"
	"github.com/cutboard/cutboard/internal/models"
	"github.com/cutboard/cutboard/internal/pricing"
	"github.com/cutboard/cutboard/internal/project"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openBoardTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.Project{}, &models.BatchVideo{}, &models.StatusEvent{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func columnByName(t *testing.T, columns []BoardColumn, name Column) BoardColumn {
	t.Helper()
	for _, c := range columns {
		if c.Column == name {
			return c
		}
	}
	t.Fatalf("column %q missing from board", name)
	return BoardColumn{}
}

func TestBoard(t *testing.T) {
	db := openBoardTestDB(t)

	draft, err := project.Create(db, project.CreateOpts{Title: "draft one", CreatorID: "creator-1", BasePriceCents: 10000})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	batched, err := project.Create(db, project.CreateOpts{
		Title: "batch one", CreatorID: "creator-1", BasePriceCents: 10000, DeadlineDays: -2,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := batch.Configure(db, batched.ID, batch.ConfigureOpts{
		Quantity:     4,
		DeliveryMode: models.DeliverySequential,
		Pricing:      pricing.DefaultConfig(),
	}); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	videos, err := batch.Videos(db, batched.ID)
	if err != nil {
		t.Fatalf("Videos: %v", err)
	}
	if err := batch.SetVideoStatus(db, videos[0].ID, lifecycle.StatusInProgress); err != nil {
		t.Fatalf("SetVideoStatus: %v", err)
	}

	archived, err := project.Create(db, project.CreateOpts{Title: "done one", CreatorID: "creator-2", BasePriceCents: 5000})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := db.Model(&models.Project{}).Where("id = ?", archived.ID).
		Updates(map[string]interface{}{"status": models.ProjectCompleted, "is_archived": true}).Error; err != nil {
		t.Fatalf("archive: %v", err)
	}

	columns, err := Board(db)
	if err != nil {
		t.Fatalf("Board: %v", err)
	}
	if len(columns) != len(Columns()) {
		t.Fatalf("column count = %d, want %d", len(columns), len(Columns()))
	}

	draftCol := columnByName(t, columns, ColumnDraft)
	if len(draftCol.Cards) != 1 || draftCol.Cards[0].ProjectID != draft.ID {
		t.Errorf("draft column = %+v, want only %s", draftCol.Cards, draft.ID)
	}

	// The batch's effective status is derived, not its stored value.
	progressCol := columnByName(t, columns, ColumnInProgress)
	if len(progressCol.Cards) != 1 {
		t.Fatalf("in_progress column has %d cards, want 1", len(progressCol.Cards))
	}
	card := progressCol.Cards[0]
	if card.ProjectID != batched.ID || card.Status != models.ProjectInProgress {
		t.Errorf("card = %+v, want derived in_progress for %s", card, batched.ID)
	}
	if card.Percentage != 0 || !card.HasDelayed || card.DelayedCount != 4 {
		t.Errorf("card = {pct:%d delayed:%v count:%d}, want {0 true 4}", card.Percentage, card.HasDelayed, card.DelayedCount)
	}

	// Archived wins over the stored completed status.
	archivedCol := columnByName(t, columns, ColumnArchived)
	if len(archivedCol.Cards) != 1 || archivedCol.Cards[0].ProjectID != archived.ID {
		t.Errorf("archived column = %+v, want only %s", archivedCol.Cards, archived.ID)
	}
	completedCol := columnByName(t, columns, ColumnCompleted)
	if len(completedCol.Cards) != 0 {
		t.Errorf("completed column = %+v, want empty", completedCol.Cards)
	}

	// Empty columns are present with an empty, non-nil card list.
	cancelledCol := columnByName(t, columns, ColumnCancelled)
	if cancelledCol.Cards == nil || len(cancelledCol.Cards) != 0 {
		t.Errorf("cancelled column cards = %v, want empty slice", cancelledCol.Cards)
	}
}
