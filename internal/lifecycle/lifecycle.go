// Package lifecycle defines the status set and transition rules for a
// single video, whether standalone or one slot in a batch.
package lifecycle

// Status is the workflow state of one video.
type Status string

const (
	StatusPending           Status = "pending"
	StatusInProgress        Status = "in_progress"
	StatusInReview          Status = "in_review"
	StatusRevisionRequested Status = "revision_requested"
	StatusCompleted         Status = "completed"
	StatusCancelled         Status = "cancelled"
)

// ValidTransitions maps each status to its valid next statuses.
// The special case "any non-terminal → cancelled" is handled in CanTransition.
var ValidTransitions = map[Status][]Status{
	StatusPending:           {StatusInProgress},
	StatusInProgress:        {StatusInReview},
	StatusInReview:          {StatusCompleted, StatusRevisionRequested},
	StatusRevisionRequested: {StatusInProgress},
}

// All returns the closed set of video statuses.
func All() []Status {
	return []Status{
		StatusPending,
		StatusInProgress,
		StatusInReview,
		StatusRevisionRequested,
		StatusCompleted,
		StatusCancelled,
	}
}

// IsTerminal reports whether a video in this status can never move again.
func IsTerminal(s Status) bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Known reports whether s is one of the defined statuses.
func Known(s Status) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusInReview,
		StatusRevisionRequested, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Normalize folds unknown or legacy status values into pending so that
// aggregation buckets always sum to the video count.
func Normalize(s Status) Status {
	if Known(s) {
		return s
	}
	return StatusPending
}

// CanTransition reports whether moving from one status to another is legal.
// Any non-terminal status may move to cancelled.
func CanTransition(from, to Status) bool {
	if !Known(from) || !Known(to) {
		return false
	}
	if to == StatusCancelled {
		return !IsTerminal(from)
	}
	for _, v := range ValidTransitions[from] {
		if v == to {
			return true
		}
	}
	return false
}
