package diff

import "math"

// Stats summarizes a scalar map and its change mask.
type Stats struct {
	Min            float64 `json:"min"`
	Max            float64 `json:"max"`
	Mean           float64 `json:"mean"`
	ChangedCount   int     `json:"changedCount"`
	ChangedPercent float64 `json:"changedPercent"`
	TotalPixels    int     `json:"totalPixels"`
}

// Aggregate reduces a scalar map and its mask into summary numbers.
// Min/max/mean are rounded to 4 decimal places, the changed percentage to 2.
// Non-finite values are clamped before rounding so the reported statistics
// never contain NaN or Inf.
func Aggregate(m *ScalarMap, mask *ChangeMask) Stats {
	total := m.Width * m.Height

	min := math.Inf(1)
	max := math.Inf(-1)
	var sum float64
	for _, v := range m.Values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}
	mean := 0.0
	if total > 0 {
		mean = sum / float64(total)
	}

	count := mask.Count()
	fraction := 0.0
	if total > 0 {
		fraction = float64(count) / float64(total)
	}

	return Stats{
		Min:            roundTo(clampFinite(min), 4),
		Max:            roundTo(clampFinite(max), 4),
		Mean:           roundTo(clampFinite(mean), 4),
		ChangedCount:   int(math.Round(fraction * float64(total))),
		ChangedPercent: roundTo(fraction*100, 2),
		TotalPixels:    total,
	}
}

// clampFinite maps NaN to 0 and infinities to the score domain bounds.
func clampFinite(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case math.IsInf(v, 1):
		return 1
	case math.IsInf(v, -1):
		return -1
	}
	return v
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
