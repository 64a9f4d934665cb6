package diff

import "math"

// gaussianKernel builds a normalized 1D Gaussian kernel for the given sigma.
// The kernel covers three standard deviations on each side, which keeps the
// truncation error well below the output tolerance.
func gaussianKernel(sigma float64) []float64 {
	radius := int(math.Ceil(3 * sigma))
	kernel := make([]float64, 2*radius+1)

	var sum float64
	for i := -radius; i <= radius; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+radius] = v
		sum += v
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// gaussianBlur applies a separable Gaussian blur to a float64 plane.
// Samples beyond the border are clamped to the nearest edge pixel, matching
// the replicate-edge behavior of the normalizer's padding.
//
// The SSIM math needs blur(image²) with intermediates up to 255², which is
// why this operates on float64 planes rather than 8-bit image filters.
func gaussianBlur(src []float64, width, height int, sigma float64) []float64 {
	kernel := gaussianKernel(sigma)
	radius := len(kernel) / 2

	// Horizontal pass.
	tmp := make([]float64, len(src))
	for y := 0; y < height; y++ {
		row := src[y*width : (y+1)*width]
		out := tmp[y*width : (y+1)*width]
		for x := 0; x < width; x++ {
			var acc float64
			for k := -radius; k <= radius; k++ {
				sx := x + k
				if sx < 0 {
					sx = 0
				} else if sx >= width {
					sx = width - 1
				}
				acc += row[sx] * kernel[k+radius]
			}
			out[x] = acc
		}
	}

	// Vertical pass.
	dst := make([]float64, len(src))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var acc float64
			for k := -radius; k <= radius; k++ {
				sy := y + k
				if sy < 0 {
					sy = 0
				} else if sy >= height {
					sy = height - 1
				}
				acc += tmp[sy*width+x] * kernel[k+radius]
			}
			dst[y*width+x] = acc
		}
	}
	return dst
}
