package session

import "testing"

func TestNormalizedLoupeSide(t *testing.T) {
	cases := []struct {
		in, want int
	}{
		{-5, 3},
		{0, 3},
		{2, 3},
		{3, 3},
		{4, 5},
		{10, 11},
		{11, 11},
	}
	for _, tc := range cases {
		opts := DefaultOptions()
		opts.LoupeSidePx = tc.in
		if got := opts.Normalized().LoupeSidePx; got != tc.want {
			t.Errorf("side %d normalized to %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestNormalizedClampsUnitFields(t *testing.T) {
	opts := DefaultOptions()
	opts.Opacity = 1.7
	opts.FogAmount = -0.2
	opts.MilkAmount = 2.0
	opts.TintHue = -1.0

	n := opts.Normalized()
	if n.Opacity != 1.0 || n.FogAmount != 0 || n.MilkAmount != 1.0 || n.TintHue != 0 {
		t.Errorf("normalized = %+v", n)
	}
}

func TestNormalizedFallsBackToValidEnums(t *testing.T) {
	opts := DefaultOptions()
	opts.Alt = "sideways"
	if got := opts.Normalized().Alt; got != AltHold {
		t.Errorf("alt = %q, want hold", got)
	}
}
