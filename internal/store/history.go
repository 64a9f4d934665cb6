package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// HistoryEntry is one line of the comparison history log.
// Each entry is serialized as a JSON line in history.jsonl.
type HistoryEntry struct {
	// ID is the comparison identifier
	ID string `json:"id"`

	// ImageSize is the normalized geometry, e.g. "800×600"
	ImageSize string `json:"imageSize"`

	// Threshold the comparison ran with
	Threshold float64 `json:"threshold"`

	// ChangedPercent per algorithm name
	ChangedPercent map[string]float64 `json:"changedPercent"`

	// Timestamp records when the comparison finished
	Timestamp time.Time `json:"timestamp"`
}

// HistoryWriter appends history entries to a JSONL file.
// It uses buffered I/O and is safe for concurrent use.
type HistoryWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *bufio.Writer
	path   string
}

// NewHistoryWriter opens (or creates) <baseDir>/history.jsonl for appending.
func NewHistoryWriter(baseDir string) (*HistoryWriter, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	path := filepath.Join(baseDir, "history.jsonl")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}

	return &HistoryWriter{
		file:   file,
		writer: bufio.NewWriter(file),
		path:   path,
	}, nil
}

// Append writes one entry and flushes it to disk.
func (hw *HistoryWriter) Append(entry HistoryEntry) error {
	hw.mu.Lock()
	defer hw.mu.Unlock()

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to serialize history entry: %w", err)
	}
	if _, err := hw.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write history entry: %w", err)
	}
	if err := hw.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write history entry: %w", err)
	}
	return hw.writer.Flush()
}

// NewHistoryEntry builds an entry from a stored summary.
func NewHistoryEntry(summary *Summary) HistoryEntry {
	percents := make(map[string]float64, len(summary.Algorithms))
	for name, alg := range summary.Algorithms {
		percents[name] = alg.ChangedPercent
	}
	return HistoryEntry{
		ID:             summary.ID,
		ImageSize:      summary.ImageSize,
		Threshold:      summary.Threshold,
		ChangedPercent: percents,
		Timestamp:      summary.CreatedAt,
	}
}

// Close flushes and closes the underlying file.
func (hw *HistoryWriter) Close() error {
	hw.mu.Lock()
	defer hw.mu.Unlock()

	if err := hw.writer.Flush(); err != nil {
		hw.file.Close()
		return fmt.Errorf("failed to flush history: %w", err)
	}
	return hw.file.Close()
}

// ReadHistory reads all entries from <baseDir>/history.jsonl.
// A missing file yields an empty slice. Malformed lines are skipped.
func ReadHistory(baseDir string) ([]HistoryEntry, error) {
	path := filepath.Join(baseDir, "history.jsonl")
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return []HistoryEntry{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	defer file.Close()

	var entries []HistoryEntry
	reader := bufio.NewReader(file)
	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 1 {
			var entry HistoryEntry
			if jsonErr := json.Unmarshal(line, &entry); jsonErr == nil {
				entries = append(entries, entry)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read history file: %w", err)
		}
	}
	return entries, nil
}
