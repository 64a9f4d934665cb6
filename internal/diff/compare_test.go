package diff

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestCompareIdentity(t *testing.T) {
	a := solidImage(16, 16, 3, 128)

	result, err := Compare(context.Background(), a, a.Clone(), Options{Threshold: 0.8})
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}

	exact := result.Results[AlgorithmExactDiff]
	if exact.Stats.ChangedPercent != 0 {
		t.Errorf("Exact diff of identical images: expected 0%%, got %f", exact.Stats.ChangedPercent)
	}

	ssim := result.Results[AlgorithmSSIM]
	if math.Abs(ssim.Stats.Min-1.0) > 1e-6 {
		t.Errorf("SSIM min of identical images: expected 1.0, got %f", ssim.Stats.Min)
	}

	dist := result.Results[AlgorithmColorDistance]
	if dist.Stats.Max != 0 {
		t.Errorf("Color distance max of identical images: expected 0, got %f", dist.Stats.Max)
	}
}

func TestCompareBlackVsWhite(t *testing.T) {
	black := solidImage(8, 8, 3, 0)
	white := solidImage(8, 8, 3, 255)

	result, err := Compare(context.Background(), black, white, Options{Threshold: 0.8})
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}

	dist := result.Results[AlgorithmColorDistance]
	if dist.Stats.Min != 1.0 || dist.Stats.Max != 1.0 {
		t.Errorf("Expected constant distance 1.0, got min=%f max=%f", dist.Stats.Min, dist.Stats.Max)
	}

	exact := result.Results[AlgorithmExactDiff]
	if exact.Stats.ChangedPercent != 100.0 {
		t.Errorf("Expected 100%% changed, got %f", exact.Stats.ChangedPercent)
	}
}

func TestCompareQuadrantScenario(t *testing.T) {
	a := quadrantImage(false)
	b := quadrantImage(true)

	result, err := Compare(context.Background(), a, b, Options{Threshold: 0.8})
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}

	exact := result.Results[AlgorithmExactDiff]
	if exact.Stats.ChangedCount != 4 {
		t.Errorf("Expected 4 changed pixels, got %d", exact.Stats.ChangedCount)
	}
	if exact.Stats.ChangedPercent != 25.0 {
		t.Errorf("Expected 25%%, got %f", exact.Stats.ChangedPercent)
	}

	// A one-unit change is heavily smoothed by the Gaussian window.
	ssim := result.Results[AlgorithmSSIM]
	if ssim.Stats.Min < 0.99 {
		t.Errorf("Expected SSIM near 1.0 everywhere, got min %f", ssim.Stats.Min)
	}

	// 1/441.67 rounded to 4 places.
	dist := result.Results[AlgorithmColorDistance]
	if dist.Stats.Max != 0.0023 {
		t.Errorf("Expected distance max 0.0023, got %g", dist.Stats.Max)
	}
}

func TestCompareSharedFields(t *testing.T) {
	a := solidImage(6, 4, 3, 10)

	result, err := Compare(context.Background(), a, a.Clone(), Options{Threshold: 0.5})
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}

	if result.ImageSize != "6×4" {
		t.Errorf("Expected image size 6×4, got %s", result.ImageSize)
	}
	if result.TotalPixels != 24 {
		t.Errorf("Expected 24 total pixels, got %d", result.TotalPixels)
	}
	if result.BlurRadius != 1.5 {
		t.Errorf("Expected blur radius 1.5, got %f", result.BlurRadius)
	}
	if result.Threshold != 0.5 {
		t.Errorf("Expected threshold 0.5, got %f", result.Threshold)
	}
}

func TestCompareInvalidThreshold(t *testing.T) {
	a := solidImage(2, 2, 3, 0)

	for _, threshold := range []float64{-0.1, 1.1} {
		_, err := Compare(context.Background(), a, a.Clone(), Options{Threshold: threshold})
		if !errors.Is(err, ErrInvalidThreshold) {
			t.Errorf("Threshold %g: expected ErrInvalidThreshold, got %v", threshold, err)
		}
	}
}

func TestCompareBandPromotion(t *testing.T) {
	gray := solidImage(4, 4, 1, 128)
	rgb := solidImage(4, 4, 3, 128)

	result, err := Compare(context.Background(), gray, rgb, Options{Threshold: 0.8})
	if err != nil {
		t.Fatalf("Compare across band counts failed: %v", err)
	}

	if result.A.Bands < 3 || result.B.Bands < 3 {
		t.Errorf("Expected promoted bands >= 3, got %d and %d", result.A.Bands, result.B.Bands)
	}
	// Equal content after promotion.
	if result.Results[AlgorithmExactDiff].Stats.ChangedCount != 0 {
		t.Error("Promoted gray 128 should equal RGB 128,128,128")
	}
}

func TestCompareCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := solidImage(8, 8, 3, 0)
	result, err := Compare(ctx, a, a.Clone(), Options{Threshold: 0.8})
	if err == nil {
		t.Fatal("Expected error from cancelled context")
	}
	if result != nil {
		t.Error("Cancelled comparison must not return partial results")
	}
}

func TestCompareThresholdMonotonicity(t *testing.T) {
	a := quadrantImage(false)
	b := quadrantImage(true)

	for _, alg := range Algorithms {
		prev := -1
		for _, threshold := range []float64{0, 0.25, 0.5, 0.75, 1} {
			result, err := Compare(context.Background(), a, b, Options{Threshold: threshold})
			if err != nil {
				t.Fatalf("Compare failed at t=%g: %v", threshold, err)
			}
			n := result.Results[alg].Stats.ChangedCount
			if n < prev {
				t.Errorf("%s: changed count decreased from %d to %d at t=%g", alg, prev, n, threshold)
			}
			prev = n
		}
	}
}
