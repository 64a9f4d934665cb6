package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"pixeldiff/internal/store"
)

// Server represents the HTTP server
type Server struct {
	manager *ComparisonManager
	store   store.Store
	history *store.HistoryWriter
	addr    string
	server  *http.Server
}

// NewServer creates a new HTTP server. The history writer may be nil.
func NewServer(addr string, resultStore store.Store, history *store.HistoryWriter) *Server {
	return &Server{
		manager: NewComparisonManager(),
		store:   resultStore,
		history: history,
		addr:    addr,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	mux := http.NewServeMux()

	// Register UI routes
	mux.HandleFunc("/", s.handleIndex)

	// Register API routes
	mux.HandleFunc("/api/v1/comparisons", s.handleComparisons)
	mux.HandleFunc("/api/v1/comparisons/", s.handleComparisonsWithID)

	// Wrap with middleware
	handler := s.loggingMiddleware(s.corsMiddleware(mux))

	s.server = &http.Server{
		Addr:    s.addr,
		Handler: handler,
	}

	slog.Info("Starting HTTP server", "addr", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down HTTP server")
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// StartCleanup launches a background sweep that deletes stored results older
// than ttl. It stops when the context is cancelled.
func (s *Server) StartCleanup(ctx context.Context, ttl, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.store.Sweep(ttl); err != nil {
					slog.Warn("Result sweep failed", "error", err)
				}
			}
		}
	}()
}

// handleComparisons handles /api/v1/comparisons
func (s *Server) handleComparisons(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateComparison(w, r)
	case http.MethodGet:
		s.handleListComparisons(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleComparisonsWithID handles /api/v1/comparisons/:id/*
func (s *Server) handleComparisonsWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/comparisons/")
	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] == "" {
		http.Error(w, "Comparison ID required", http.StatusBadRequest)
		return
	}

	id := parts[0]

	switch {
	case len(parts) == 1 || parts[1] == "status":
		s.handleGetComparison(w, r, id)
	case parts[1] == "events":
		s.handleComparisonStream(w, r, id)
	case strings.HasSuffix(parts[1], ".png"):
		s.handleGetArtifact(w, r, id, strings.TrimSuffix(parts[1], ".png"))
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

// handleCreateComparison handles POST /api/v1/comparisons.
// The request is a multipart form with two image files (imageA, imageB), an
// optional threshold and an optional ignoreLuminance flag.
func (s *Server) handleCreateComparison(w http.ResponseWriter, r *http.Request) {
	upload, err := parseUpload(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cmp := s.manager.Create(upload.Config)

	// Run the comparison in the background
	go runComparison(context.Background(), s.manager, s.store, s.history, cmp.ID, upload.ImageA, upload.ImageB)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(cmp)
}

// handleListComparisons handles GET /api/v1/comparisons
func (s *Server) handleListComparisons(w http.ResponseWriter, r *http.Request) {
	comparisons := s.manager.List()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(comparisons)
}

// handleGetComparison handles GET /api/v1/comparisons/:id
func (s *Server) handleGetComparison(w http.ResponseWriter, r *http.Request, id string) {
	cmp, exists := s.manager.Get(id)
	if !exists {
		http.Error(w, "Comparison not found", http.StatusNotFound)
		return
	}

	var elapsed time.Duration
	if cmp.EndTime != nil {
		elapsed = cmp.EndTime.Sub(cmp.StartTime)
	} else {
		elapsed = time.Since(cmp.StartTime)
	}

	response := map[string]interface{}{
		"id":        cmp.ID,
		"state":     cmp.State,
		"config":    cmp.Config,
		"summary":   cmp.Summary,
		"imageSize": cmp.ImageSize,
		"elapsed":   elapsed.Seconds(),
		"startTime": cmp.StartTime,
		"endTime":   cmp.EndTime,
		"error":     cmp.Error,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handleGetArtifact handles GET /api/v1/comparisons/:id/:name.png
func (s *Server) handleGetArtifact(w http.ResponseWriter, r *http.Request, id, name string) {
	if !store.ValidArtifact(name) {
		http.Error(w, "Unknown artifact", http.StatusNotFound)
		return
	}

	path, err := s.store.ArtifactPath(id, name)
	if err != nil {
		http.Error(w, "Artifact not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFile(w, r, path)
}

// corsMiddleware adds CORS headers
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("HTTP request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
