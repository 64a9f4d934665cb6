package diff

// HighlightColor returns the fixed highlight pixel for the given band count:
// white for grayscale layouts, magenta for color, fully opaque where an
// alpha band exists.
func HighlightColor(bands int) []uint8 {
	switch bands {
	case 1:
		return []uint8{255}
	case 2:
		return []uint8{255, 255}
	case 3:
		return []uint8{255, 0, 255}
	default:
		return []uint8{255, 0, 255, 255}
	}
}

// Composite paints the highlight color over every masked pixel of the
// reference image and leaves the rest untouched. The reference image itself
// is not modified.
func Composite(ref *Image, mask *ChangeMask) *Image {
	out := ref.Clone()
	highlight := HighlightColor(ref.Bands)
	for i, changed := range mask.Bits {
		if !changed {
			continue
		}
		copy(out.Pix[i*ref.Bands:(i+1)*ref.Bands], highlight)
	}
	return out
}
