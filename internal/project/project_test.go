package project

import (
	"strings"
	"testing"

	"github.com/cutboard/cutboard/internal/batch"
	"github.com/cutboard/cutboard/internal/lifecycle"
	"github.com/cutboard/cutboard/internal/models"
	"github.com/cutboard/cutboard/internal/pricing"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openProjectTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.Project{}, &models.BatchVideo{}, &models.Application{}, &models.StatusEvent{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func mustCreate(t *testing.T, db *gorm.DB, opts CreateOpts) *models.Project {
	t.Helper()
	p, err := Create(db, opts)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return p
}

func TestCreate(t *testing.T) {
	db := openProjectTestDB(t)
	p := mustCreate(t, db, CreateOpts{
		Title:          "Podcast highlights",
		CreatorID:      "creator-1",
		BasePriceCents: 10000,
		DeadlineDays:   14,
	})

	if !strings.HasPrefix(p.ID, "prj-") || len(p.ID) != len("prj-")+5 {
		t.Errorf("ID = %q, want prj- plus 5 hex chars", p.ID)
	}
	if p.Status != models.ProjectDraft {
		t.Errorf("Status = %q, want draft", p.Status)
	}
	if p.IsBatch {
		t.Error("new project marked as batch")
	}
	if p.BatchQuantity != 1 {
		t.Errorf("BatchQuantity = %d, want 1", p.BatchQuantity)
	}
}

func TestCreate_Validation(t *testing.T) {
	db := openProjectTestDB(t)
	tests := []struct {
		name string
		opts CreateOpts
	}{
		{"missing title", CreateOpts{CreatorID: "creator-1", BasePriceCents: 100}},
		{"missing creator", CreateOpts{Title: "t", BasePriceCents: 100}},
		{"zero price", CreateOpts{Title: "t", CreatorID: "creator-1"}},
		{"negative price", CreateOpts{Title: "t", CreatorID: "creator-1", BasePriceCents: -100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Create(db, tt.opts); err == nil {
				t.Error("Create succeeded, want error")
			}
		})
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from models.ProjectStatus
		to   models.ProjectStatus
		want bool
	}{
		{models.ProjectDraft, models.ProjectOpen, true},
		{models.ProjectOpen, models.ProjectInProgress, true},
		{models.ProjectInProgress, models.ProjectInReview, true},
		{models.ProjectInReview, models.ProjectCompleted, true},
		{models.ProjectInReview, models.ProjectRevisionRequested, true},
		{models.ProjectRevisionRequested, models.ProjectInProgress, true},
		{models.ProjectDraft, models.ProjectCancelled, true},
		{models.ProjectInProgress, models.ProjectCancelled, true},

		{models.ProjectDraft, models.ProjectInProgress, false},
		{models.ProjectOpen, models.ProjectCompleted, false},
		{models.ProjectCompleted, models.ProjectCancelled, false},
		{models.ProjectCancelled, models.ProjectOpen, false},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestUpdateStatus(t *testing.T) {
	db := openProjectTestDB(t)
	p := mustCreate(t, db, CreateOpts{Title: "t", CreatorID: "creator-1", BasePriceCents: 100})

	if err := UpdateStatus(db, p.ID, models.ProjectOpen); err != nil {
		t.Fatalf("UpdateStatus(open): %v", err)
	}
	if err := UpdateStatus(db, p.ID, models.ProjectCompleted); err == nil {
		t.Fatal("open → completed succeeded, want error")
	}

	for _, next := range []models.ProjectStatus{
		models.ProjectInProgress, models.ProjectInReview, models.ProjectCompleted,
	} {
		if err := UpdateStatus(db, p.ID, next); err != nil {
			t.Fatalf("UpdateStatus(%s): %v", next, err)
		}
	}

	got, err := Get(db, p.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != models.ProjectCompleted {
		t.Errorf("Status = %q, want completed", got.Status)
	}
	if got.CompletedAt == nil {
		t.Error("CompletedAt not set on completion")
	}

	var events int64
	if err := db.Model(&models.StatusEvent{}).Where("project_id = ?", p.ID).Count(&events).Error; err != nil {
		t.Fatalf("count events: %v", err)
	}
	if events != 4 {
		t.Errorf("event count = %d, want 4", events)
	}
}

func TestUpdateStatus_RejectsBatch(t *testing.T) {
	db := openProjectTestDB(t)
	p := mustCreate(t, db, CreateOpts{Title: "t", CreatorID: "creator-1", BasePriceCents: 10000})
	if _, err := batch.Configure(db, p.ID, batch.ConfigureOpts{
		Quantity:     4,
		DeliveryMode: models.DeliverySequential,
		Pricing:      pricing.DefaultConfig(),
	}); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	if err := UpdateStatus(db, p.ID, models.ProjectInProgress); err == nil {
		t.Fatal("UpdateStatus on a batch succeeded, want error")
	}
}

func TestList(t *testing.T) {
	db := openProjectTestDB(t)
	a := mustCreate(t, db, CreateOpts{Title: "a", CreatorID: "creator-1", BasePriceCents: 100})
	b := mustCreate(t, db, CreateOpts{Title: "b", CreatorID: "creator-2", BasePriceCents: 100})
	if err := Assign(db, b.ID, "editor-1"); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if err := db.Model(&models.Project{}).Where("id = ?", a.ID).
		Update("is_archived", true).Error; err != nil {
		t.Fatalf("archive: %v", err)
	}

	all, err := List(db, ListFilters{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("unfiltered count = %d, want 2", len(all))
	}

	notArchived := false
	live, err := List(db, ListFilters{Archived: &notArchived})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(live) != 1 || live[0].ID != b.ID {
		t.Errorf("live projects = %v, want only %s", live, b.ID)
	}

	byEditor, err := List(db, ListFilters{EditorID: "editor-1"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(byEditor) != 1 || byEditor[0].ID != b.ID {
		t.Errorf("by editor = %v, want only %s", byEditor, b.ID)
	}

	byCreator, err := List(db, ListFilters{CreatorID: "creator-1"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(byCreator) != 1 || byCreator[0].ID != a.ID {
		t.Errorf("by creator = %v, want only %s", byCreator, a.ID)
	}
}

func TestSetDeliveryMode(t *testing.T) {
	db := openProjectTestDB(t)
	p := mustCreate(t, db, CreateOpts{Title: "t", CreatorID: "creator-1", BasePriceCents: 10000})

	if _, err := SetDeliveryMode(db, p.ID, models.DeliverySimultaneous, pricing.DefaultConfig()); err == nil {
		t.Fatal("SetDeliveryMode on a non-batch succeeded, want error")
	}

	if _, err := batch.Configure(db, p.ID, batch.ConfigureOpts{
		Quantity:     4,
		DeliveryMode: models.DeliverySequential,
		Pricing:      pricing.DefaultConfig(),
	}); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	quote, err := SetDeliveryMode(db, p.ID, models.DeliverySimultaneous, pricing.DefaultConfig())
	if err != nil {
		t.Fatalf("SetDeliveryMode: %v", err)
	}
	if quote.UrgencyFeeCents != 7600 || quote.TotalCents != 45600 {
		t.Errorf("quote = {urgency:%d total:%d}, want {7600 45600}", quote.UrgencyFeeCents, quote.TotalCents)
	}

	if _, err := SetDeliveryMode(db, p.ID, "overnight", pricing.DefaultConfig()); err == nil {
		t.Error("unknown delivery mode accepted, want error")
	}
}

func TestEffectiveStatus(t *testing.T) {
	single := &models.Project{Status: models.ProjectInReview}
	if got := EffectiveStatus(single, nil); got != models.ProjectInReview {
		t.Errorf("single-video status = %q, want stored value", got)
	}

	b := &models.Project{IsBatch: true, Status: models.ProjectOpen}
	videos := []models.BatchVideo{{Status: lifecycle.StatusInProgress}}
	if got := EffectiveStatus(b, videos); got != models.ProjectInProgress {
		t.Errorf("batch status = %q, want derived in_progress", got)
	}
}

func TestGet_PreloadsVideosInOrder(t *testing.T) {
	db := openProjectTestDB(t)
	p := mustCreate(t, db, CreateOpts{Title: "t", CreatorID: "creator-1", BasePriceCents: 10000})
	if _, err := batch.Configure(db, p.ID, batch.ConfigureOpts{
		Quantity:     4,
		DeliveryMode: models.DeliverySequential,
		Pricing:      pricing.DefaultConfig(),
	}); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	got, err := Get(db, p.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Videos) != 4 {
		t.Fatalf("video count = %d, want 4", len(got.Videos))
	}
	for i, v := range got.Videos {
		if v.SequenceOrder != i+1 {
			t.Errorf("video %d sequence = %d, want %d", i, v.SequenceOrder, i+1)
		}
	}

	if _, err := Get(db, "prj-zzzzz"); err == nil {
		t.Error("Get of a missing project succeeded, want error")
	}
}
