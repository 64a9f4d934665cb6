package diff

import "testing"

func scalarMapOf(values ...float64) *ScalarMap {
	return &ScalarMap{Width: len(values), Height: 1, Values: values}
}

func TestBuildMaskSimilarity(t *testing.T) {
	m := scalarMapOf(0.2, 0.5, 0.8, 1.0)

	mask := BuildMask(m, 0.6, KindSimilarity)

	expected := []bool{true, true, false, false}
	for i, want := range expected {
		if mask.Bits[i] != want {
			t.Errorf("Pixel %d: expected %v, got %v", i, want, mask.Bits[i])
		}
	}
}

func TestBuildMaskDistance(t *testing.T) {
	m := scalarMapOf(0.0, 0.1, 0.3, 1.0)

	// t = 0.8 means changed where distance > 0.2.
	mask := BuildMask(m, 0.8, KindDistance)

	expected := []bool{false, false, true, true}
	for i, want := range expected {
		if mask.Bits[i] != want {
			t.Errorf("Pixel %d: expected %v, got %v", i, want, mask.Bits[i])
		}
	}
}

func TestBuildMaskZeroThresholdMarksNothing(t *testing.T) {
	m := scalarMapOf(0.0, 0.5, 1.0)

	if n := BuildMask(m, 0, KindSimilarity).Count(); n != 0 {
		t.Errorf("Similarity at t=0: expected 0 changed, got %d", n)
	}
	if n := BuildMask(m, 0, KindDistance).Count(); n != 0 {
		t.Errorf("Distance at t=0: expected 0 changed, got %d", n)
	}
}

func TestBuildMaskMonotonicInThreshold(t *testing.T) {
	m := scalarMapOf(0.0, 0.1, 0.25, 0.5, 0.75, 0.9, 1.0)

	for _, kind := range []MapKind{KindSimilarity, KindDistance} {
		prev := -1
		for _, threshold := range []float64{0, 0.25, 0.5, 0.75, 1} {
			n := BuildMask(m, threshold, kind).Count()
			if n < prev {
				t.Errorf("Kind %d: changed count decreased from %d to %d at t=%g", kind, prev, n, threshold)
			}
			prev = n
		}
	}
}
