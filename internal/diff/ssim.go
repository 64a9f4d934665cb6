package diff

// SSIM constants from the original Wang et al. paper.
const (
	ssimK1 = 0.01
	ssimK2 = 0.03
	ssimL  = 255.0

	// C1 and C2 stabilize the luminance and contrast terms in regions of
	// near-zero variance.
	C1 = (ssimK1 * ssimL) * (ssimK1 * ssimL)
	C2 = (ssimK2 * ssimL) * (ssimK2 * ssimL)

	// BlurRadius is the Gaussian sigma that defines the spatial scale of the
	// local statistics.
	BlurRadius = 1.5
)

// SSIMMap computes a per-pixel structural similarity map between two images
// of identical dimensions. Both images are reduced to BT.601 luminance; local
// means, variances and the covariance are taken with a Gaussian window of
// sigma BlurRadius.
//
// With ignoreLuminance set, only the contrast/structure term
// (2·cov + C2) / (var1 + var2 + C2) is evaluated.
//
// Scores are similarities: 1 means locally identical. No clamping is applied,
// so edge pixels may land slightly outside [0, 1].
func SSIMMap(a, b *Image, ignoreLuminance bool) *ScalarMap {
	w, h := a.Width, a.Height
	la := a.luminance()
	lb := b.luminance()

	mu1 := gaussianBlur(la, w, h, BlurRadius)
	mu2 := gaussianBlur(lb, w, h, BlurRadius)

	sqA := make([]float64, len(la))
	sqB := make([]float64, len(lb))
	ab := make([]float64, len(la))
	for i := range la {
		sqA[i] = la[i] * la[i]
		sqB[i] = lb[i] * lb[i]
		ab[i] = la[i] * lb[i]
	}

	blurSqA := gaussianBlur(sqA, w, h, BlurRadius)
	blurSqB := gaussianBlur(sqB, w, h, BlurRadius)
	blurAB := gaussianBlur(ab, w, h, BlurRadius)

	out := NewScalarMap(w, h)
	for i := range out.Values {
		m1 := mu1[i]
		m2 := mu2[i]
		var1 := blurSqA[i] - m1*m1
		var2 := blurSqB[i] - m2*m2
		cov := blurAB[i] - m1*m2

		if ignoreLuminance {
			out.Values[i] = (2*cov + C2) / (var1 + var2 + C2)
			continue
		}
		out.Values[i] = ((2*m1*m2 + C1) * (2*cov + C2)) /
			((m1*m1 + m2*m2 + C1) * (var1 + var2 + C2))
	}
	return out
}
