package store

import (
	"time"

	"pixeldiff/internal/diff"
)

// Store defines the interface for persisting comparison results.
// Implementations must be safe for concurrent use.
//
// Error handling conventions:
//   - Return nil error on success
//   - Return ErrNotFound if a result doesn't exist (for Load/Delete/Artifact)
//   - Wrap underlying errors with context using fmt.Errorf("context: %w", err)
type Store interface {
	// SaveResult persists all artifacts of a finished comparison: the three
	// composited diff images, the two normalized inputs (as PNG) and the
	// summary document. Writes are atomic (temp file + rename) so readers
	// never observe a partially written artifact.
	SaveResult(id string, result *diff.Result) error

	// LoadSummary retrieves the summary document for a comparison.
	// Returns ErrNotFound if no result exists for this id.
	LoadSummary(id string) (*Summary, error)

	// ListResults returns summaries for all stored comparisons.
	// The returned slice may be empty.
	ListResults() ([]Summary, error)

	// ArtifactPath resolves the on-disk path of a stored PNG artifact.
	// Valid names are listed in ArtifactNames. Returns ErrNotFound if the
	// comparison or the artifact does not exist.
	ArtifactPath(id, name string) (string, error)

	// DeleteResult removes a comparison directory and all its artifacts.
	// Returns ErrNotFound if no result exists for this id.
	DeleteResult(id string) error

	// Sweep deletes results older than maxAge and reports how many were
	// removed. Used by the server's periodic cleanup.
	Sweep(maxAge time.Duration) (int, error)
}

// ArtifactNames are the PNG artifacts written per comparison: one composited
// diff per algorithm plus the two normalized inputs.
var ArtifactNames = []string{"ssim", "distance", "exact", "a", "b"}

// ValidArtifact reports whether name is a known artifact.
func ValidArtifact(name string) bool {
	for _, n := range ArtifactNames {
		if n == name {
			return true
		}
	}
	return false
}

// ErrNotFound is returned when a requested result does not exist.
// Use errors.Is(err, ErrNotFound) to check for this error.
var ErrNotFound = &NotFoundError{}

// NotFoundError represents a missing comparison result.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return "result not found: " + e.ID
	}
	return "result not found"
}

func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}
