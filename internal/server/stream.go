package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Stage names reported while a comparison runs.
const (
	StageScored = "scored"
	StageStored = "stored"
)

// ProgressEvent represents a progress update for one comparison
type ProgressEvent struct {
	ComparisonID string          `json:"comparisonId"`
	State        ComparisonState `json:"state"`
	Stage        string          `json:"stage,omitempty"`
	Timestamp    time.Time       `json:"timestamp"`
}

// EventBroadcaster manages SSE connections for comparisons
type EventBroadcaster struct {
	mu        sync.RWMutex
	clients   map[string]map[chan ProgressEvent]bool // comparisonID -> set of client channels
	lastEvent map[string]ProgressEvent               // comparisonID -> last event for new clients
}

// NewEventBroadcaster creates a new event broadcaster
func NewEventBroadcaster() *EventBroadcaster {
	return &EventBroadcaster{
		clients:   make(map[string]map[chan ProgressEvent]bool),
		lastEvent: make(map[string]ProgressEvent),
	}
}

// Subscribe adds a client to receive events for a comparison
func (eb *EventBroadcaster) Subscribe(id string) chan ProgressEvent {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	ch := make(chan ProgressEvent, 10) // Buffered to prevent blocking

	if eb.clients[id] == nil {
		eb.clients[id] = make(map[chan ProgressEvent]bool)
	}
	eb.clients[id][ch] = true

	// Send last event if available (for reconnecting clients)
	if lastEvent, ok := eb.lastEvent[id]; ok {
		select {
		case ch <- lastEvent:
		default:
			// Channel full, skip
		}
	}

	slog.Debug("SSE client subscribed", "id", id, "total_clients", len(eb.clients[id]))
	return ch
}

// Unsubscribe removes a client from receiving events
func (eb *EventBroadcaster) Unsubscribe(id string, ch chan ProgressEvent) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if clients, ok := eb.clients[id]; ok {
		delete(clients, ch)
		close(ch)

		if len(clients) == 0 {
			delete(eb.clients, id)
		}
	}

	slog.Debug("SSE client unsubscribed", "id", id)
}

// Broadcast sends an event to all subscribed clients for a comparison
func (eb *EventBroadcaster) Broadcast(event ProgressEvent) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	// Store last event
	eb.lastEvent[event.ComparisonID] = event

	clients, ok := eb.clients[event.ComparisonID]
	if !ok || len(clients) == 0 {
		return
	}

	slog.Debug("Broadcasting event", "id", event.ComparisonID, "stage", event.Stage, "clients", len(clients))

	for ch := range clients {
		select {
		case ch <- event:
			// Event sent successfully
		default:
			// Channel full, skip this client (prevents blocking)
			slog.Warn("SSE channel full, skipping event", "id", event.ComparisonID)
		}
	}
}

// Cleanup removes all clients and cached events for a comparison
func (eb *EventBroadcaster) Cleanup(id string) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if clients, ok := eb.clients[id]; ok {
		for ch := range clients {
			close(ch)
		}
		delete(eb.clients, id)
	}

	delete(eb.lastEvent, id)
	slog.Debug("Cleaned up SSE resources", "id", id)
}

// handleComparisonStream handles SSE connections for comparison progress
func (s *Server) handleComparisonStream(w http.ResponseWriter, r *http.Request, id string) {
	cmp, exists := s.manager.Get(id)
	if !exists {
		http.Error(w, "Comparison not found", http.StatusNotFound)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	eventChan := s.manager.broadcaster.Subscribe(id)
	defer s.manager.broadcaster.Unsubscribe(id, eventChan)

	// Send initial event with current state
	initialEvent := ProgressEvent{
		ComparisonID: cmp.ID,
		State:        cmp.State,
		Timestamp:    time.Now(),
	}
	if err := writeSSEEvent(w, initialEvent); err != nil {
		slog.Error("Failed to write initial SSE event", "error", err)
		return
	}
	flusher.Flush()

	// Ping ticker keeps the connection alive through proxies
	pingTicker := time.NewTicker(30 * time.Second)
	defer pingTicker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			slog.Debug("SSE client disconnected", "id", id)
			return

		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if err := writeSSEEvent(w, event); err != nil {
				slog.Error("Failed to write SSE event", "error", err)
				return
			}
			flusher.Flush()

		case <-pingTicker.C:
			fmt.Fprintf(w, ": ping\n\n")
			flusher.Flush()
		}
	}
}

// writeSSEEvent writes an event in SSE format
func writeSSEEvent(w http.ResponseWriter, event ProgressEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	return nil
}
