package diff

import (
	"math"
	"testing"
)

func TestAggregate(t *testing.T) {
	m := &ScalarMap{Width: 2, Height: 2, Values: []float64{0.0, 0.25, 0.5, 1.0}}
	mask := &ChangeMask{Width: 2, Height: 2, Bits: []bool{false, true, true, true}}

	stats := Aggregate(m, mask)

	if stats.Min != 0.0 {
		t.Errorf("Expected min 0.0, got %f", stats.Min)
	}
	if stats.Max != 1.0 {
		t.Errorf("Expected max 1.0, got %f", stats.Max)
	}
	if stats.Mean != 0.4375 {
		t.Errorf("Expected mean 0.4375, got %f", stats.Mean)
	}
	if stats.ChangedCount != 3 {
		t.Errorf("Expected changed count 3, got %d", stats.ChangedCount)
	}
	if stats.ChangedPercent != 75.0 {
		t.Errorf("Expected 75%%, got %f", stats.ChangedPercent)
	}
	if stats.TotalPixels != 4 {
		t.Errorf("Expected 4 total pixels, got %d", stats.TotalPixels)
	}
}

func TestAggregateRounding(t *testing.T) {
	m := &ScalarMap{Width: 3, Height: 1, Values: []float64{0.123456, 0.123456, 0.123456}}
	mask := &ChangeMask{Width: 3, Height: 1, Bits: []bool{true, false, false}}

	stats := Aggregate(m, mask)

	if stats.Mean != 0.1235 {
		t.Errorf("Mean should round to 4 places: expected 0.1235, got %g", stats.Mean)
	}
	if stats.ChangedPercent != 33.33 {
		t.Errorf("Percent should round to 2 places: expected 33.33, got %g", stats.ChangedPercent)
	}
}

func TestAggregateClampsNonFinite(t *testing.T) {
	m := &ScalarMap{Width: 2, Height: 1, Values: []float64{math.NaN(), math.Inf(1)}}
	mask := &ChangeMask{Width: 2, Height: 1, Bits: []bool{false, false}}

	stats := Aggregate(m, mask)

	for name, v := range map[string]float64{"min": stats.Min, "max": stats.Max, "mean": stats.Mean} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("Reported %s must be finite, got %f", name, v)
		}
	}
}
