package diff

import (
	"image"
	"math"

	"github.com/nfnt/resize"
)

// Normalize reconciles two images to identical width, height and band count
// so they can be compared pixel by pixel. The first image is the reference:
// the second is scaled to its width (aspect preserved), then cropped at the
// bottom if too tall or padded at the bottom if too short. Padding replicates
// the last content row. Band counts are reconciled by promoting anything
// below 3 bands to RGB and appending an opaque alpha band when only one side
// carries alpha.
//
// Matching inputs are returned unchanged.
func Normalize(a, b *Image) (*Image, *Image, error) {
	if err := validateImage(a); err != nil {
		return nil, nil, err
	}
	if err := validateImage(b); err != nil {
		return nil, nil, err
	}

	if a.Width != b.Width || a.Height != b.Height {
		b = scaleToReference(a, b)
	}

	if a.Bands != b.Bands {
		a, b = reconcileBands(a, b)
	}

	return a, b, nil
}

func validateImage(im *Image) error {
	if im == nil || im.Width <= 0 || im.Height <= 0 {
		w, h := 0, 0
		if im != nil {
			w, h = im.Width, im.Height
		}
		return &DimensionError{Width: w, Height: h}
	}
	if im.Bands < 1 || im.Bands > 4 {
		return &BandCountError{Bands: im.Bands}
	}
	return nil
}

// scaleToReference resizes b to the reference width, then crops or pads the
// height to match. The scale factor is refWidth/bWidth, so the aspect ratio
// of b is preserved by the resize itself.
func scaleToReference(ref, b *Image) *Image {
	scaled := b
	if b.Width != ref.Width {
		ratio := float64(ref.Width) / float64(b.Width)
		scaledH := int(math.Round(float64(b.Height) * ratio))
		if scaledH < 1 {
			scaledH = 1
		}
		img := resize.Resize(uint(ref.Width), uint(scaledH), b.ToImage(), resize.Lanczos3)
		scaled = fromResized(img, b.Bands)
	}

	switch {
	case scaled.Height > ref.Height:
		scaled = scaled.cropHeight(ref.Height)
	case scaled.Height < ref.Height:
		scaled = scaled.padHeight(ref.Height)
	}
	return scaled
}

// fromResized converts a resize result back to the source band layout so
// scaling alone never changes the channel count.
func fromResized(img image.Image, bands int) *Image {
	return FromImage(img).withBands(bands)
}

// cropHeight keeps the top rows of the image.
func (im *Image) cropHeight(h int) *Image {
	out := NewImage(im.Width, h, im.Bands)
	copy(out.Pix, im.Pix[:im.Width*h*im.Bands])
	return out
}

// padHeight extends the image at the bottom by replicating the last row.
func (im *Image) padHeight(h int) *Image {
	out := NewImage(im.Width, h, im.Bands)
	copy(out.Pix, im.Pix)
	rowLen := im.Width * im.Bands
	lastRow := im.Pix[(im.Height-1)*rowLen : im.Height*rowLen]
	for y := im.Height; y < h; y++ {
		copy(out.Pix[y*rowLen:(y+1)*rowLen], lastRow)
	}
	return out
}

// reconcileBands promotes both images to a common band count per the rules
// in Normalize.
func reconcileBands(a, b *Image) (*Image, *Image) {
	if a.Bands < 3 {
		a = a.toRGB()
	}
	if b.Bands < 3 {
		b = b.toRGB()
	}
	if a.Bands == 4 && b.Bands == 3 {
		b = b.withAlpha()
	}
	if b.Bands == 4 && a.Bands == 3 {
		a = a.withAlpha()
	}
	return a, b
}
