package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cutboard/cutboard/internal/batch"
	"github.com/cutboard/cutboard/internal/models"
	"github.com/cutboard/cutboard/internal/project"
	"gorm.io/gorm"
)

// DefaultPollInterval is how often the watcher polls for changes.
const DefaultPollInterval = 15 * time.Second

// Watcher polls the database for status events and emits formatted Events
// to a channel for delivery. Status changes land in the status_events
// table synchronously with each write, so tailing it never misses or
// reorders a change.
type Watcher struct {
	db           *gorm.DB
	pollInterval time.Duration

	mu         sync.Mutex
	lastSeenID uint
	seeded     bool
}

// NewWatcher creates a Watcher with the given poll interval (0 uses the
// default).
func NewWatcher(db *gorm.DB, pollInterval time.Duration) *Watcher {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &Watcher{db: db, pollInterval: pollInterval}
}

// Run polls until ctx is cancelled, sending detected events to out.
func (w *Watcher) Run(ctx context.Context, out chan<- Event) error {
	if err := w.seed(); err != nil {
		return err
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			events, err := w.Poll()
			if err != nil {
				continue
			}
			for _, evt := range events {
				select {
				case out <- evt:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
}

// seed records the current high-water mark so only new changes alert.
func (w *Watcher) seed() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.seeded {
		return nil
	}
	var latest models.StatusEvent
	if err := w.db.Order("id DESC").Limit(1).First(&latest).Error; err == nil {
		w.lastSeenID = latest.ID
	}
	w.seeded = true
	return nil
}

// Poll reads status events past the high-water mark and converts them to
// formatted notification events. Exported for tests and manual sweeps.
func (w *Watcher) Poll() ([]Event, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var rows []models.StatusEvent
	if err := w.db.Where("id > ?", w.lastSeenID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("notify: poll status events: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	w.lastSeenID = rows[len(rows)-1].ID

	var events []Event
	for _, row := range rows {
		evt, ok := w.eventFor(row)
		if !ok {
			continue
		}
		events = append(events, evt)
	}
	return events, nil
}

// eventFor enriches one status row with project/video titles and decides
// its event type. A video completing its whole batch upgrades to a
// batch-completed event.
func (w *Watcher) eventFor(row models.StatusEvent) (Event, bool) {
	evt := Event{
		Timestamp: row.CreatedAt,
		ProjectID: row.ProjectID,
		VideoID:   row.VideoID,
		OldStatus: row.OldStatus,
		NewStatus: row.NewStatus,
	}

	p, err := project.Get(w.db, row.ProjectID)
	if err != nil {
		return Event{}, false
	}
	evt.ProjectTitle = p.Title

	if row.VideoID == "" {
		evt.Type = EventProjectStatusChange
	} else {
		evt.Type = EventVideoStatusChange
		for _, v := range p.Videos {
			if v.ID == row.VideoID {
				evt.VideoTitle = v.Title
				break
			}
		}
		if row.NewStatus == "completed" && p.IsBatch &&
			batch.AggregatedStatus(p.Videos) == models.ProjectCompleted {
			evt.Type = EventBatchCompleted
		}
	}

	evt.Title, evt.Body = Format(evt)
	return evt, true
}
