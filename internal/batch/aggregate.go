// Package batch provides batch project operations: configuring and
// resizing the video set, per-video status writes, and the derived
// progress, aggregated status, delay and archivability computations.
package batch

import (
	"math"

	"github.com/cutboard/cutboard/internal/lifecycle"
	"github.com/cutboard/cutboard/internal/models"
)

// Progress is a derived summary of a project's video set. Buckets always
// sum to Total.
type Progress struct {
	Total             int `json:"total"`
	Pending           int `json:"pending"`
	InProgress        int `json:"in_progress"`
	InReview          int `json:"in_review"`
	RevisionRequested int `json:"revision_requested"`
	Completed         int `json:"completed"`
	Cancelled         int `json:"cancelled"`
	Percentage        int `json:"percentage"`
}

// ComputeProgress tallies each video's status into its bucket. Unknown or
// legacy statuses fold into pending rather than being dropped, so the
// buckets always account for every video.
func ComputeProgress(videos []models.BatchVideo) Progress {
	p := Progress{Total: len(videos)}
	for _, v := range videos {
		switch lifecycle.Normalize(v.Status) {
		case lifecycle.StatusInProgress:
			p.InProgress++
		case lifecycle.StatusInReview:
			p.InReview++
		case lifecycle.StatusRevisionRequested:
			p.RevisionRequested++
		case lifecycle.StatusCompleted:
			p.Completed++
		case lifecycle.StatusCancelled:
			p.Cancelled++
		default:
			p.Pending++
		}
	}
	if p.Total > 0 {
		p.Percentage = int(math.Round(100 * float64(p.Completed) / float64(p.Total)))
	}
	return p
}

// AggregatedStatus resolves one project-level status from the video set.
// The precedence order decides which kanban column a mixed-state batch
// lands in: an outstanding revision request surfaces before anything else,
// no matter how many other videos are already complete.
func AggregatedStatus(videos []models.BatchVideo) models.ProjectStatus {
	if len(videos) == 0 {
		return models.ProjectOpen
	}

	p := ComputeProgress(videos)
	switch {
	case p.RevisionRequested > 0:
		return models.ProjectRevisionRequested
	case p.InReview > 0:
		return models.ProjectPendingApproval
	case p.InProgress > 0:
		return models.ProjectInProgress
	case p.Completed == p.Total:
		return models.ProjectCompleted
	case p.Cancelled == p.Total:
		return models.ProjectCancelled
	default:
		// Mixed pending/terminal with no active work.
		return models.ProjectOpen
	}
}

// ComputeDelay reports whether the batch is delayed and how many videos
// are outstanding. There is a single project-level deadline; the batch is
// delayed when it has passed and the batch is not fully settled.
func ComputeDelay(videos []models.BatchVideo, deadlineDays int) (hasDelayed bool, delayedCount int) {
	if deadlineDays >= 0 {
		return false, 0
	}
	agg := AggregatedStatus(videos)
	if agg == models.ProjectCompleted || agg == models.ProjectCancelled {
		return false, 0
	}
	p := ComputeProgress(videos)
	return true, p.Total - p.Completed
}

// CanArchive reports whether every video has reached a terminal state.
// An unconfigured (empty) batch can never be archived.
func CanArchive(videos []models.BatchVideo) bool {
	if len(videos) == 0 {
		return false
	}
	for _, v := range videos {
		if !lifecycle.IsTerminal(lifecycle.Normalize(v.Status)) {
			return false
		}
	}
	return true
}
