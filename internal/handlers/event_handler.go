package handlers

import (
	"io"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"scenecast/internal/services"
)

// EventHandler streams live run progress over Server-Sent Events.
type EventHandler struct {
	broadcaster *services.ProgressBroadcaster
}

// NewEventHandler creates a new event handler.
func NewEventHandler(broadcaster *services.ProgressBroadcaster) *EventHandler {
	return &EventHandler{broadcaster: broadcaster}
}

// StreamAll streams progress updates for every run.
func (h *EventHandler) StreamAll(c *gin.Context) {
	h.stream(c, "")
}

// StreamRun streams progress updates scoped to one run.
func (h *EventHandler) StreamRun(c *gin.Context) {
	h.stream(c, c.Param("id"))
}

func (h *EventHandler) stream(c *gin.Context, runID string) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("Access-Control-Allow-Origin", "*")

	clientChan := h.broadcaster.Subscribe()
	defer h.broadcaster.Unsubscribe(clientChan)

	clientGone := c.Request.Context().Done()

	c.Writer.Write([]byte("data: {\"message\":\"connected\"}\n\n"))
	c.Writer.Flush()

	for {
		select {
		case <-clientGone:
			return
		case update, ok := <-clientChan:
			if !ok {
				return
			}
			if runID != "" && update.RunID != runID {
				continue
			}
			data := services.FormatSSE(update)
			if data == "" {
				continue
			}
			if _, err := c.Writer.Write([]byte(data)); err != nil {
				if err != io.EOF {
					log.Printf("error writing SSE data: %v", err)
				}
				return
			}
			c.Writer.Flush()
		case <-time.After(30 * time.Second):
			c.Writer.Write([]byte(": keepalive\n\n"))
			c.Writer.Flush()
		}
	}
}
