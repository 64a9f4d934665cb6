package diff

// ScalarMap holds one floating-point score per pixel.
// The value domain depends on the producing algorithm: SSIM scores are
// similarities around [0, 1] (lower = more different), color distance and
// exact diff are distances in [0, 1] (higher = more different).
type ScalarMap struct {
	Width  int
	Height int
	Values []float64
}

// NewScalarMap allocates a zeroed map.
func NewScalarMap(width, height int) *ScalarMap {
	return &ScalarMap{
		Width:  width,
		Height: height,
		Values: make([]float64, width*height),
	}
}

// MapKind tells the mask builder which side of the threshold counts as
// changed.
type MapKind int

const (
	// KindSimilarity marks pixels changed when the score drops below the
	// threshold.
	KindSimilarity MapKind = iota
	// KindDistance marks pixels changed when the distance exceeds the
	// inverted threshold.
	KindDistance
)
