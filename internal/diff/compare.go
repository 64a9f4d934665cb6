package diff

import (
	"context"
	"fmt"
	"sync"
)

// Algorithm identifies one of the three scorers.
type Algorithm string

const (
	AlgorithmSSIM          Algorithm = "ssim"
	AlgorithmColorDistance Algorithm = "distance"
	AlgorithmExactDiff     Algorithm = "exact"
)

// Algorithms lists the scorers in the order they are reported.
var Algorithms = []Algorithm{AlgorithmSSIM, AlgorithmColorDistance, AlgorithmExactDiff}

// Kind returns whether the algorithm's map is a similarity or a distance.
func (a Algorithm) Kind() MapKind {
	if a == AlgorithmSSIM {
		return KindSimilarity
	}
	return KindDistance
}

// Options configures a comparison.
type Options struct {
	// Threshold is the change sensitivity in [0, 1]; see BuildMask.
	Threshold float64
	// IgnoreLuminance restricts SSIM to its contrast/structure term.
	IgnoreLuminance bool
}

// AlgorithmResult bundles one scorer's outputs.
type AlgorithmResult struct {
	Algorithm Algorithm
	Map       *ScalarMap
	Mask      *ChangeMask
	Diff      *Image
	Stats     Stats
}

// Result is the full outcome of one comparison.
type Result struct {
	// A and B are the normalized input images.
	A *Image
	B *Image

	Results map[Algorithm]*AlgorithmResult

	Threshold       float64
	IgnoreLuminance bool
	BlurRadius      float64
	C1              float64
	C2              float64
	TotalPixels     int
	ImageSize       string
}

// Compare normalizes the image pair and runs all three scorers, each feeding
// its own mask, composite and statistics. The scorers read the same
// normalized pair without shared mutable state and run concurrently.
//
// Cancellation is cooperative: the context is checked between pipeline
// stages, and a canceled comparison returns the context error with no
// partial result.
func Compare(ctx context.Context, a, b *Image, opts Options) (*Result, error) {
	if opts.Threshold < 0 || opts.Threshold > 1 {
		return nil, &ThresholdError{Value: opts.Threshold}
	}

	na, nb, err := Normalize(a, b)
	if err != nil {
		return nil, fmt.Errorf("normalization failed: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make(map[Algorithm]*AlgorithmResult, len(Algorithms))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, alg := range Algorithms {
		wg.Add(1)
		go func(alg Algorithm) {
			defer wg.Done()

			var m *ScalarMap
			switch alg {
			case AlgorithmSSIM:
				m = SSIMMap(na, nb, opts.IgnoreLuminance)
			case AlgorithmColorDistance:
				m = ColorDistanceMap(na, nb)
			case AlgorithmExactDiff:
				m = ExactDiffMap(na, nb)
			}

			if ctx.Err() != nil {
				return
			}

			mask := BuildMask(m, opts.Threshold, alg.Kind())
			res := &AlgorithmResult{
				Algorithm: alg,
				Map:       m,
				Mask:      mask,
				Diff:      Composite(na, mask),
				Stats:     Aggregate(m, mask),
			}
			mu.Lock()
			results[alg] = res
			mu.Unlock()
		}(alg)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &Result{
		A:               na,
		B:               nb,
		Results:         results,
		Threshold:       opts.Threshold,
		IgnoreLuminance: opts.IgnoreLuminance,
		BlurRadius:      BlurRadius,
		C1:              C1,
		C2:              C2,
		TotalPixels:     na.Width * na.Height,
		ImageSize:       fmt.Sprintf("%d×%d", na.Width, na.Height),
	}, nil
}
