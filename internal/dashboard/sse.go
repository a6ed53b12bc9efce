package dashboard

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/cutboard/cutboard/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// statusChangeEvent holds data for a status-change SSE event.
type statusChangeEvent struct {
	ID        uint   `json:"id"`
	ProjectID string `json:"project_id"`
	VideoID   string `json:"video_id,omitempty"`
	OldStatus string `json:"old_status,omitempty"`
	NewStatus string `json:"new_status"`
}

// handleSSE streams status-change events by tailing the StatusEvent table.
// Clients simply refetch the board on each event; the aggregation is cheap
// enough that a full recompute beats incremental patching.
func handleSSE(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header("X-Accel-Buffering", "no")

		writeSSE(c.Writer, "connected", map[string]string{"type": "connected"})
		c.Writer.Flush()

		// Tests use nil DB; send connected and return.
		if db == nil {
			return
		}

		// Only alert on events newer than the connection.
		var lastSeenID uint
		var latest models.StatusEvent
		if err := db.Order("id DESC").Limit(1).First(&latest).Error; err == nil {
			lastSeenID = latest.ID
		}

		ctx := c.Request.Context()
		ticker := time.NewTicker(3 * time.Second)
		heartbeat := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		defer heartbeat.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-heartbeat.C:
				writeSSE(c.Writer, "heartbeat", map[string]string{
					"timestamp": time.Now().UTC().Format(time.RFC3339),
				})
				c.Writer.Flush()
			case <-ticker.C:
				var events []models.StatusEvent
				db.Where("id > ?", lastSeenID).Order("id ASC").Find(&events)
				if len(events) == 0 {
					continue
				}
				lastSeenID = events[len(events)-1].ID

				for _, e := range events {
					writeSSE(c.Writer, "status_change", statusChangeEvent{
						ID:        e.ID,
						ProjectID: e.ProjectID,
						VideoID:   e.VideoID,
						OldStatus: e.OldStatus,
						NewStatus: e.NewStatus,
					})
				}
				c.Writer.Flush()
			}
		}
	}
}

// writeSSE writes a single SSE event to the writer.
func writeSSE(w io.Writer, event string, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, string(jsonData))
}
