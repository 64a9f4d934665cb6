package diff

import "fmt"

// ErrDimensionMismatch is returned when two images cannot be reconciled to a
// common size, e.g. one of them has a zero dimension.
// Use errors.Is(err, ErrDimensionMismatch) to check for this error.
var ErrDimensionMismatch = &DimensionError{}

// DimensionError reports an irreconcilable image geometry.
type DimensionError struct {
	Width  int
	Height int
}

func (e *DimensionError) Error() string {
	if e.Width != 0 || e.Height != 0 {
		return fmt.Sprintf("cannot reconcile image dimensions: %dx%d", e.Width, e.Height)
	}
	return "cannot reconcile image dimensions"
}

func (e *DimensionError) Is(target error) bool {
	_, ok := target.(*DimensionError)
	return ok
}

// ErrUnsupportedBandCount is returned for images outside the 1-4 band range.
var ErrUnsupportedBandCount = &BandCountError{}

// BandCountError reports an unsupported channel layout.
type BandCountError struct {
	Bands int
}

func (e *BandCountError) Error() string {
	return fmt.Sprintf("unsupported band count: %d", e.Bands)
}

func (e *BandCountError) Is(target error) bool {
	_, ok := target.(*BandCountError)
	return ok
}

// ErrInvalidThreshold is returned when the threshold falls outside [0, 1].
var ErrInvalidThreshold = &ThresholdError{}

// ThresholdError reports an out-of-range change threshold.
type ThresholdError struct {
	Value float64
}

func (e *ThresholdError) Error() string {
	return fmt.Sprintf("threshold must be in [0, 1], got %g", e.Value)
}

func (e *ThresholdError) Is(target error) bool {
	_, ok := target.(*ThresholdError)
	return ok
}
