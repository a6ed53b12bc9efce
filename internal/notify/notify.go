// Package notify watches the database for project and video status
// changes and pushes formatted events to Slack and Discord. Delivery is
// best-effort: send failures are logged, never propagated.
package notify

import (
	"context"
	"log"
	"time"
)

// EventType identifies the kind of event detected by the watcher.
type EventType string

const (
	EventProjectStatusChange EventType = "project_status_change"
	EventVideoStatusChange   EventType = "video_status_change"
	EventBatchCompleted      EventType = "batch_completed"
	EventDelayDigest         EventType = "delay_digest"
)

// Event is a detected change, formatted for delivery.
type Event struct {
	Type      EventType
	Timestamp time.Time

	ProjectID    string
	ProjectTitle string
	VideoID      string
	VideoTitle   string
	OldStatus    string
	NewStatus    string

	Title string // rendered headline
	Body  string // rendered detail lines
}

// Sender delivers one formatted event to a chat platform.
type Sender interface {
	Send(ctx context.Context, evt Event) error
}

// Notifier fans events out to every configured sender.
type Notifier struct {
	senders []Sender
}

// NewNotifier creates a Notifier over the given senders.
func NewNotifier(senders ...Sender) *Notifier {
	return &Notifier{senders: senders}
}

// Publish sends the event to all senders, logging failures.
func (n *Notifier) Publish(ctx context.Context, evt Event) {
	for _, s := range n.senders {
		if err := s.Send(ctx, evt); err != nil {
			log.Printf("notify: send %s event: %v", evt.Type, err)
		}
	}
}
