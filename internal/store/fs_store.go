package store

import (
	"encoding/json"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pixeldiff/internal/diff"
)

// FSStore implements the Store interface on the filesystem. Each comparison
// gets its own directory: <baseDir>/comparisons/<id>/ holding summary.json
// and the PNG artifacts.
//
// Thread-safety: all writes go through temp file + rename, so no locks are
// needed; concurrent readers see either the old or the new artifact.
type FSStore struct {
	baseDir string
}

// NewFSStore creates a filesystem-based store.
// The baseDir will be created if it doesn't exist.
func NewFSStore(baseDir string) (*FSStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	return &FSStore{baseDir: baseDir}, nil
}

// validResultID rejects ids that would escape the comparisons directory
// when joined into a path. IDs arrive from URL path segments, so path
// separators and dot-dirs must not reach filepath.Join.
func validResultID(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	return !strings.ContainsAny(id, `/\`)
}

// comparisonDir returns the directory of one comparison.
func (fs *FSStore) comparisonDir(id string) string {
	return filepath.Join(fs.baseDir, "comparisons", id)
}

func (fs *FSStore) summaryPath(id string) string {
	return filepath.Join(fs.comparisonDir(id), "summary.json")
}

// SaveResult writes the summary and all PNG artifacts for a comparison.
func (fs *FSStore) SaveResult(id string, result *diff.Result) error {
	if !validResultID(id) {
		return fmt.Errorf("invalid result id: %q", id)
	}
	if result == nil {
		return fmt.Errorf("result cannot be nil")
	}

	dir := fs.comparisonDir(id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create comparison directory: %w", err)
	}

	artifacts := map[string]*diff.Image{
		"a": result.A,
		"b": result.B,
	}
	for alg, res := range result.Results {
		artifacts[string(alg)] = res.Diff
	}
	for name, img := range artifacts {
		if err := fs.writePNG(filepath.Join(dir, name+".png"), img); err != nil {
			return fmt.Errorf("failed to write artifact %s: %w", name, err)
		}
	}

	summary := NewSummary(id, result)
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize summary: %w", err)
	}

	tempPath := fs.summaryPath(id) + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp summary file: %w", err)
	}
	if err := os.Rename(tempPath, fs.summaryPath(id)); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename summary file: %w", err)
	}

	slog.Debug("Result saved", "id", id, "dir", dir)
	return nil
}

// writePNG encodes an image atomically via temp file + rename.
func (fs *FSStore) writePNG(path string, img *diff.Image) error {
	tempPath := path + ".tmp"
	f, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if err := png.Encode(f, img.ToImage()); err != nil {
		f.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}

// LoadSummary retrieves the summary for a comparison.
func (fs *FSStore) LoadSummary(id string) (*Summary, error) {
	if !validResultID(id) {
		return nil, &NotFoundError{ID: id}
	}

	path := fs.summaryPath(id)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &NotFoundError{ID: id}
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat summary file: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read summary file: %w", err)
	}

	var summary Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("failed to deserialize summary: %w", err)
	}
	return &summary, nil
}

// ListResults returns summaries for all stored comparisons.
func (fs *FSStore) ListResults() ([]Summary, error) {
	root := filepath.Join(fs.baseDir, "comparisons")

	if _, err := os.Stat(root); os.IsNotExist(err) {
		return []Summary{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat comparisons directory: %w", err)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read comparisons directory: %w", err)
	}

	var summaries []Summary
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		summary, err := fs.LoadSummary(entry.Name())
		if err != nil {
			slog.Warn("Failed to load summary for listing", "id", entry.Name(), "error", err)
			continue
		}
		summaries = append(summaries, *summary)
	}
	return summaries, nil
}

// ArtifactPath resolves the path of a stored PNG artifact.
func (fs *FSStore) ArtifactPath(id, name string) (string, error) {
	if !validResultID(id) {
		return "", &NotFoundError{ID: id}
	}
	if !ValidArtifact(name) {
		return "", fmt.Errorf("unknown artifact name: %s", name)
	}

	path := filepath.Join(fs.comparisonDir(id), name+".png")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", &NotFoundError{ID: id}
	} else if err != nil {
		return "", fmt.Errorf("failed to stat artifact: %w", err)
	}
	return path, nil
}

// DeleteResult removes a comparison directory and all its artifacts.
func (fs *FSStore) DeleteResult(id string) error {
	if !validResultID(id) {
		return &NotFoundError{ID: id}
	}

	dir := fs.comparisonDir(id)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return &NotFoundError{ID: id}
	} else if err != nil {
		return fmt.Errorf("failed to stat comparison directory: %w", err)
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove comparison directory: %w", err)
	}

	slog.Debug("Result deleted", "id", id, "dir", dir)
	return nil
}

// Sweep deletes results whose summary is older than maxAge.
func (fs *FSStore) Sweep(maxAge time.Duration) (int, error) {
	summaries, err := fs.ListResults()
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, summary := range summaries {
		if summary.CreatedAt.After(cutoff) {
			continue
		}
		if err := fs.DeleteResult(summary.ID); err != nil {
			slog.Warn("Failed to sweep result", "id", summary.ID, "error", err)
			continue
		}
		removed++
	}

	if removed > 0 {
		slog.Info("Swept expired results", "removed", removed, "maxAge", maxAge)
	}
	return removed, nil
}
