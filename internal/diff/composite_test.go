package diff

import (
	"bytes"
	"testing"
)

func TestHighlightColorPalette(t *testing.T) {
	cases := map[int][]uint8{
		1: {255},
		2: {255, 255},
		3: {255, 0, 255},
		4: {255, 0, 255, 255},
	}
	for bands, want := range cases {
		got := HighlightColor(bands)
		if !bytes.Equal(got, want) {
			t.Errorf("Bands %d: expected %v, got %v", bands, want, got)
		}
	}
}

func TestCompositePixelsAreHighlightOrOriginal(t *testing.T) {
	ref := quadrantImage(true)
	mask := &ChangeMask{Width: 4, Height: 4, Bits: make([]bool, 16)}
	mask.Bits[0] = true
	mask.Bits[5] = true
	mask.Bits[15] = true

	out := Composite(ref, mask)

	highlight := HighlightColor(ref.Bands)
	for i := 0; i < 16; i++ {
		got := out.Pix[i*ref.Bands : (i+1)*ref.Bands]
		orig := ref.Pix[i*ref.Bands : (i+1)*ref.Bands]
		if mask.Bits[i] {
			if !bytes.Equal(got, highlight) {
				t.Errorf("Pixel %d: expected highlight %v, got %v", i, highlight, got)
			}
		} else if !bytes.Equal(got, orig) {
			t.Errorf("Pixel %d: expected original %v, got %v", i, orig, got)
		}
	}
}

func TestCompositeDoesNotMutateReference(t *testing.T) {
	ref := solidImage(2, 2, 3, 10)
	before := append([]uint8(nil), ref.Pix...)

	mask := &ChangeMask{Width: 2, Height: 2, Bits: []bool{true, true, true, true}}
	Composite(ref, mask)

	if !bytes.Equal(ref.Pix, before) {
		t.Error("Composite must not modify the reference image")
	}
}
