package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/cutboard/cutboard/internal/batch"
	"github.com/cutboard/cutboard/internal/models"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// nextCronDuration parses a 5-field cron expression and returns the
// duration until the next fire time. Returns 0 on parse error.
func nextCronDuration(expr string) time.Duration {
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return 0
	}
	next := sched.Next(time.Now())
	d := time.Until(next)
	if d < 0 {
		return 0
	}
	return d
}

// BuildDelayDigest scans non-archived projects for missed deadlines and
// returns a digest event. Returns nil when nothing is delayed.
func BuildDelayDigest(db *gorm.DB) (*Event, error) {
	var projects []models.Project
	if err := db.Preload("Videos").
		Where("is_archived = ? AND deadline_days < ?", false, 0).
		Order("deadline_days ASC").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("notify: delay digest: %w", err)
	}

	var lines []string
	for i := range projects {
		p := &projects[i]
		if p.IsBatch {
			hasDelayed, delayedCount := batch.ComputeDelay(p.Videos, p.DeadlineDays)
			if !hasDelayed {
				continue
			}
			lines = append(lines, fmt.Sprintf("%s %q: %d video(s) outstanding, %d day(s) overdue",
				p.ID, p.Title, delayedCount, -p.DeadlineDays))
			continue
		}
		if p.Status == models.ProjectCompleted || p.Status == models.ProjectCancelled {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s %q: %d day(s) overdue", p.ID, p.Title, -p.DeadlineDays))
	}
	if len(lines) == 0 {
		return nil, nil
	}

	title, body := FormatDigest(lines)
	return &Event{
		Type:      EventDelayDigest,
		Timestamp: time.Now(),
		Title:     title,
		Body:      body,
	}, nil
}

// RunDigest fires the delay digest on the given cron schedule until ctx
// is cancelled. An empty or invalid expression disables the digest.
func RunDigest(ctx context.Context, db *gorm.DB, expr string, out chan<- Event) error {
	if expr == "" {
		return nil
	}
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return fmt.Errorf("notify: invalid digest cron %q: %w", expr, err)
	}
	for {
		d := time.Until(sched.Next(time.Now()))
		if d < 0 {
			d = 0
		}
		timer := time.NewTimer(d)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		evt, err := BuildDelayDigest(db)
		if err != nil || evt == nil {
			continue
		}
		select {
		case out <- *evt:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
