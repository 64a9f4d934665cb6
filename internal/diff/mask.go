package diff

// ChangeMask is a per-pixel changed/unchanged verdict derived from a
// ScalarMap.
type ChangeMask struct {
	Width  int
	Height int
	Bits   []bool
}

// BuildMask thresholds a scalar map into a change mask. The user threshold t
// is a single "sensitivity" slider across both map kinds:
//
//	similarity maps mark changed where score < t
//	distance maps mark changed where distance > 1-t
//
// so t = 0 marks nothing and t = 1 marks everything, regardless of kind.
func BuildMask(m *ScalarMap, threshold float64, kind MapKind) *ChangeMask {
	mask := &ChangeMask{
		Width:  m.Width,
		Height: m.Height,
		Bits:   make([]bool, len(m.Values)),
	}
	switch kind {
	case KindSimilarity:
		for i, v := range m.Values {
			mask.Bits[i] = v < threshold
		}
	case KindDistance:
		limit := 1 - threshold
		for i, v := range m.Values {
			mask.Bits[i] = v > limit
		}
	}
	return mask
}

// Count returns the number of changed pixels.
func (m *ChangeMask) Count() int {
	n := 0
	for _, b := range m.Bits {
		if b {
			n++
		}
	}
	return n
}
