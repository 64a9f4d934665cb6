package diff

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// maxRGBDistance normalizes Euclidean RGB distance over unit components:
// black vs. white is sqrt(3) apart, which must map to 1.0.
var maxRGBDistance = math.Sqrt(3)

// ColorDistanceMap computes the normalized Euclidean RGB distance per pixel.
// Alpha is ignored; grayscale values are compared as replicated RGB. The
// result lives in [0, 1] with 0 = identical color and 1 = black vs. white.
func ColorDistanceMap(a, b *Image) *ScalarMap {
	out := NewScalarMap(a.Width, a.Height)
	for y := 0; y < a.Height; y++ {
		for x := 0; x < a.Width; x++ {
			r1, g1, b1 := a.rgb(x, y)
			r2, g2, b2 := b.rgb(x, y)
			c1 := colorful.Color{
				R: float64(r1) / 255.0,
				G: float64(g1) / 255.0,
				B: float64(b1) / 255.0,
			}
			c2 := colorful.Color{
				R: float64(r2) / 255.0,
				G: float64(g2) / 255.0,
				B: float64(b2) / 255.0,
			}
			out.Values[y*a.Width+x] = c1.DistanceRgb(c2) / maxRGBDistance
		}
	}
	return out
}

// ExactDiffMap marks byte-exact pixel inequality over the first three bands:
// 1.0 where any of R, G or B differs at all, 0.0 otherwise. Alpha is ignored.
// The degenerate {0, 1} map composes with the same mask and stats pipeline
// as the other scorers.
func ExactDiffMap(a, b *Image) *ScalarMap {
	out := NewScalarMap(a.Width, a.Height)
	for y := 0; y < a.Height; y++ {
		for x := 0; x < a.Width; x++ {
			r1, g1, b1 := a.rgb(x, y)
			r2, g2, b2 := b.rgb(x, y)
			if r1 != r2 || g1 != g2 || b1 != b2 {
				out.Values[y*a.Width+x] = 1.0
			}
		}
	}
	return out
}
