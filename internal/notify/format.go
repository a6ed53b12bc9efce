package notify

import (
	"fmt"
	"strings"
)

// statusVerb returns a human-friendly verb for a status transition.
func statusVerb(newStatus string) string {
	switch newStatus {
	case "open":
		return "opened"
	case "in_progress":
		return "started"
	case "in_review":
		return "delivered for review"
	case "revision_requested":
		return "sent back for revisions"
	case "pending_approval":
		return "awaiting approval"
	case "completed":
		return "completed"
	case "cancelled":
		return "cancelled"
	default:
		return newStatus
	}
}

// Format renders an event's headline and body.
func Format(evt Event) (title, body string) {
	switch evt.Type {
	case EventProjectStatusChange:
		title = fmt.Sprintf("Project %s %s", evt.ProjectID, statusVerb(evt.NewStatus))
		body = evt.ProjectTitle
	case EventVideoStatusChange:
		label := evt.VideoTitle
		if label == "" {
			label = evt.VideoID
		}
		title = fmt.Sprintf("%s: %q %s", evt.ProjectID, label, statusVerb(evt.NewStatus))
		body = evt.ProjectTitle
	case EventBatchCompleted:
		title = fmt.Sprintf("Batch %s fully completed", evt.ProjectID)
		body = evt.ProjectTitle
	case EventDelayDigest:
		title = evt.Title
		body = evt.Body
	}
	return title, body
}

// FormatDigest renders the delay digest body from per-project lines.
func FormatDigest(lines []string) (title, body string) {
	title = fmt.Sprintf("%d delayed project(s)", len(lines))
	body = strings.Join(lines, "\n")
	return title, body
}
