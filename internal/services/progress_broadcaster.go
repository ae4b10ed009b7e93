package services

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"scenecast/internal/models"
)

// ProgressUpdate represents one progress event for a run, optionally scoped
// to a single scene within it.
type ProgressUpdate struct {
	RunID     string           `json:"run_id"`
	SceneID   string           `json:"scene_id,omitempty"`
	Status    models.RunStatus `json:"status"`
	Phase     string           `json:"phase"`
	Progress  float64          `json:"progress"`
	Message   string           `json:"message"`
	Error     string           `json:"error,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// ProgressBroadcaster manages SSE connections for live run progress updates.
type ProgressBroadcaster struct {
	clients map[chan ProgressUpdate]bool
	mutex   sync.RWMutex
}

// NewProgressBroadcaster creates a new progress broadcaster.
func NewProgressBroadcaster() *ProgressBroadcaster {
	return &ProgressBroadcaster{
		clients: make(map[chan ProgressUpdate]bool),
	}
}

// Subscribe adds a new client to receive progress updates.
func (pb *ProgressBroadcaster) Subscribe() chan ProgressUpdate {
	pb.mutex.Lock()
	defer pb.mutex.Unlock()

	client := make(chan ProgressUpdate, 10)
	pb.clients[client] = true
	log.Printf("client subscribed to progress updates, total clients: %d", len(pb.clients))
	return client
}

// Unsubscribe removes a client from receiving updates.
func (pb *ProgressBroadcaster) Unsubscribe(client chan ProgressUpdate) {
	pb.mutex.Lock()
	defer pb.mutex.Unlock()

	if _, ok := pb.clients[client]; ok {
		delete(pb.clients, client)
		close(client)
		log.Printf("client unsubscribed from progress updates, total clients: %d", len(pb.clients))
	}
}

// Broadcast sends a progress update to all connected clients.
func (pb *ProgressBroadcaster) Broadcast(update ProgressUpdate) {
	pb.mutex.RLock()
	defer pb.mutex.RUnlock()

	update.Timestamp = time.Now()

	for client := range pb.clients {
		select {
		case client <- update:
		default:
			log.Printf("warning: client buffer full, skipping update for run_id=%s", update.RunID)
		}
	}
}

// BroadcastFromRun converts a run manifest to a progress update and
// broadcasts it.
func (pb *ProgressBroadcaster) BroadcastFromRun(run *models.RunManifest, message string) {
	pb.Broadcast(ProgressUpdate{
		RunID:    run.ID,
		Status:   run.Status,
		Phase:    run.Phase,
		Progress: run.Progress,
		Message:  message,
		Error:    run.Error,
	})
}

// ClientCount returns the number of connected clients.
func (pb *ProgressBroadcaster) ClientCount() int {
	pb.mutex.RLock()
	defer pb.mutex.RUnlock()
	return len(pb.clients)
}

// FormatSSE formats a progress update as a Server-Sent Event.
func FormatSSE(update ProgressUpdate) string {
	data, err := json.Marshal(update)
	if err != nil {
		log.Printf("error marshaling SSE data: %v", err)
		return ""
	}
	return "data: " + string(data) + "\n\n"
}
