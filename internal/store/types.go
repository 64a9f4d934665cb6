package store

import (
	"fmt"
	"time"

	"pixeldiff/internal/diff"
)

// Summary is the persisted record of one comparison. It carries the request
// parameters, the shared engine constants and the per-algorithm statistics,
// but not the pixel data (the images live next to it as PNG artifacts).
type Summary struct {
	// ID is the unique identifier of the comparison
	ID string `json:"id"`

	// Threshold is the change sensitivity the comparison ran with
	Threshold float64 `json:"threshold"`

	// IgnoreLuminance records whether SSIM ran structure/contrast-only
	IgnoreLuminance bool `json:"ignoreLuminance"`

	// BlurRadius, C1 and C2 are the fixed SSIM parameters, reported so a
	// stored result is reproducible without consulting the engine version
	BlurRadius float64 `json:"blurRadius"`
	C1         float64 `json:"c1"`
	C2         float64 `json:"c2"`

	// TotalPixels and ImageSize describe the normalized geometry
	TotalPixels int    `json:"totalPixels"`
	ImageSize   string `json:"imageSize"`

	// CreatedAt records when the comparison finished
	CreatedAt time.Time `json:"createdAt"`

	// Algorithms maps algorithm name to its summary statistics
	Algorithms map[string]AlgorithmSummary `json:"algorithms"`
}

// AlgorithmSummary holds one scorer's reported statistics.
type AlgorithmSummary struct {
	Min            float64 `json:"min"`
	Max            float64 `json:"max"`
	Mean           float64 `json:"mean"`
	ChangedCount   int     `json:"changedCount"`
	ChangedPercent float64 `json:"changedPercent"`
}

// NewSummary builds a Summary from an engine result.
func NewSummary(id string, result *diff.Result) *Summary {
	algorithms := make(map[string]AlgorithmSummary, len(result.Results))
	for alg, res := range result.Results {
		algorithms[string(alg)] = AlgorithmSummary{
			Min:            res.Stats.Min,
			Max:            res.Stats.Max,
			Mean:           res.Stats.Mean,
			ChangedCount:   res.Stats.ChangedCount,
			ChangedPercent: res.Stats.ChangedPercent,
		}
	}
	return &Summary{
		ID:              id,
		Threshold:       result.Threshold,
		IgnoreLuminance: result.IgnoreLuminance,
		BlurRadius:      result.BlurRadius,
		C1:              result.C1,
		C2:              result.C2,
		TotalPixels:     result.TotalPixels,
		ImageSize:       result.ImageSize,
		CreatedAt:       time.Now(),
		Algorithms:      algorithms,
	}
}

// Validate checks that a loaded summary is structurally sound.
func (s *Summary) Validate() error {
	if s.ID == "" {
		return &ValidationError{Field: "ID", Reason: "cannot be empty"}
	}
	if s.Threshold < 0 || s.Threshold > 1 {
		return &ValidationError{Field: "Threshold", Reason: "must be in [0, 1]"}
	}
	if s.TotalPixels <= 0 {
		return &ValidationError{Field: "TotalPixels", Reason: "must be positive"}
	}
	if s.ImageSize == "" {
		return &ValidationError{Field: "ImageSize", Reason: "cannot be empty"}
	}
	if s.CreatedAt.IsZero() {
		return &ValidationError{Field: "CreatedAt", Reason: "cannot be zero"}
	}
	if len(s.Algorithms) == 0 {
		return &ValidationError{Field: "Algorithms", Reason: "cannot be empty"}
	}
	for name, alg := range s.Algorithms {
		if alg.ChangedCount < 0 || alg.ChangedCount > s.TotalPixels {
			return &ValidationError{
				Field:  "Algorithms." + name,
				Reason: fmt.Sprintf("changed count %d out of range for %d pixels", alg.ChangedCount, s.TotalPixels),
			}
		}
	}
	return nil
}

// ValidationError represents a summary validation error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + " " + e.Reason
}
