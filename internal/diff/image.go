package diff

import (
	"image"
	"image/color"
)

// Image is a dense 8-bit raster with 1-4 interleaved bands per pixel:
// 1 = grayscale, 2 = grayscale+alpha, 3 = RGB, 4 = RGBA.
// Images are treated as immutable once built; pipeline stages that need a
// modified image allocate a new one.
type Image struct {
	Width  int
	Height int
	Bands  int
	Pix    []uint8 // len = Width*Height*Bands, row-major
}

// NewImage allocates a zeroed image.
func NewImage(width, height, bands int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Bands:  bands,
		Pix:    make([]uint8, width*height*bands),
	}
}

// offset returns the Pix index of the first sample of pixel (x, y).
func (im *Image) offset(x, y int) int {
	return (y*im.Width + x) * im.Bands
}

// rgb returns the first three bands of pixel (x, y), replicating the
// grayscale value for 1- and 2-band images.
func (im *Image) rgb(x, y int) (uint8, uint8, uint8) {
	i := im.offset(x, y)
	if im.Bands < 3 {
		v := im.Pix[i]
		return v, v, v
	}
	return im.Pix[i], im.Pix[i+1], im.Pix[i+2]
}

// FromImage converts a decoded stdlib image into a dense Image.
// Grayscale sources keep a single band; everything else lands on 4-band RGBA.
func FromImage(src image.Image) *Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	switch img := src.(type) {
	case *image.Gray:
		out := NewImage(w, h, 1)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				out.Pix[y*w+x] = img.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y
			}
		}
		return out
	case *image.NRGBA:
		out := NewImage(w, h, 4)
		for y := 0; y < h; y++ {
			srcRow := img.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(out.Pix[y*w*4:(y+1)*w*4], img.Pix[srcRow:srcRow+w*4])
		}
		return out
	}

	// Generic path: convert via NRGBA to keep non-premultiplied samples.
	out := NewImage(w, h, 4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(src.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			i := out.offset(x, y)
			out.Pix[i+0] = c.R
			out.Pix[i+1] = c.G
			out.Pix[i+2] = c.B
			out.Pix[i+3] = c.A
		}
	}
	return out
}

// ToImage converts back to a stdlib image for encoding.
// 1-band images map to Gray, everything else to NRGBA (grayscale values are
// replicated into RGB, missing alpha is emitted fully opaque).
func (im *Image) ToImage() image.Image {
	if im.Bands == 1 {
		out := image.NewGray(image.Rect(0, 0, im.Width, im.Height))
		copy(out.Pix, im.Pix)
		return out
	}

	out := image.NewNRGBA(image.Rect(0, 0, im.Width, im.Height))
	for y := 0; y < im.Height; y++ {
		for x := 0; x < im.Width; x++ {
			r, g, b := im.rgb(x, y)
			a := uint8(255)
			switch im.Bands {
			case 2:
				a = im.Pix[im.offset(x, y)+1]
			case 4:
				a = im.Pix[im.offset(x, y)+3]
			}
			i := out.PixOffset(x, y)
			out.Pix[i+0] = r
			out.Pix[i+1] = g
			out.Pix[i+2] = b
			out.Pix[i+3] = a
		}
	}
	return out
}

// Clone returns a deep copy.
func (im *Image) Clone() *Image {
	out := NewImage(im.Width, im.Height, im.Bands)
	copy(out.Pix, im.Pix)
	return out
}

// toRGB promotes the image to a 3-band representation, dropping any alpha
// band. Grayscale values are replicated into R, G and B.
func (im *Image) toRGB() *Image {
	if im.Bands == 3 {
		return im
	}
	out := NewImage(im.Width, im.Height, 3)
	for y := 0; y < im.Height; y++ {
		for x := 0; x < im.Width; x++ {
			r, g, b := im.rgb(x, y)
			i := out.offset(x, y)
			out.Pix[i+0] = r
			out.Pix[i+1] = g
			out.Pix[i+2] = b
		}
	}
	return out
}

// withAlpha appends a fully opaque alpha band to a 3-band image.
func (im *Image) withAlpha() *Image {
	out := NewImage(im.Width, im.Height, 4)
	for y := 0; y < im.Height; y++ {
		for x := 0; x < im.Width; x++ {
			r, g, b := im.rgb(x, y)
			i := out.offset(x, y)
			out.Pix[i+0] = r
			out.Pix[i+1] = g
			out.Pix[i+2] = b
			out.Pix[i+3] = 255
		}
	}
	return out
}

// withBands converts the image to the given band count. Promotions replicate
// gray into RGB and add opaque alpha; demotions drop alpha and take the
// BT.601 luminance when collapsing color to gray.
func (im *Image) withBands(bands int) *Image {
	if im.Bands == bands {
		return im
	}
	out := NewImage(im.Width, im.Height, bands)
	for y := 0; y < im.Height; y++ {
		for x := 0; x < im.Width; x++ {
			r, g, b := im.rgb(x, y)
			a := uint8(255)
			switch im.Bands {
			case 2:
				a = im.Pix[im.offset(x, y)+1]
			case 4:
				a = im.Pix[im.offset(x, y)+3]
			}
			i := out.offset(x, y)
			switch bands {
			case 1:
				out.Pix[i] = grayValue(r, g, b)
			case 2:
				out.Pix[i+0] = grayValue(r, g, b)
				out.Pix[i+1] = a
			case 3:
				out.Pix[i+0] = r
				out.Pix[i+1] = g
				out.Pix[i+2] = b
			case 4:
				out.Pix[i+0] = r
				out.Pix[i+1] = g
				out.Pix[i+2] = b
				out.Pix[i+3] = a
			}
		}
	}
	return out
}

func grayValue(r, g, b uint8) uint8 {
	return uint8(0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b) + 0.5)
}

// luminance converts the image to a float64 grayscale plane using the
// BT.601 weights. Single-band sources pass through unchanged.
func (im *Image) luminance() []float64 {
	out := make([]float64, im.Width*im.Height)
	if im.Bands < 3 {
		for y := 0; y < im.Height; y++ {
			for x := 0; x < im.Width; x++ {
				out[y*im.Width+x] = float64(im.Pix[im.offset(x, y)])
			}
		}
		return out
	}
	for y := 0; y < im.Height; y++ {
		for x := 0; x < im.Width; x++ {
			i := im.offset(x, y)
			r := float64(im.Pix[i+0])
			g := float64(im.Pix[i+1])
			b := float64(im.Pix[i+2])
			out[y*im.Width+x] = 0.299*r + 0.587*g + 0.114*b
		}
	}
	return out
}
