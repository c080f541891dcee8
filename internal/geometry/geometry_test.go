package geometry

import "testing"

func TestRectFromPointsIsOrderIndependent(t *testing.T) {
	cases := []struct {
		name string
		a, b Point
		want Rect
	}{
		{"descending corners", Pt(10, 20), Pt(5, 15), Rect{X: 5, Y: 15, Width: 5, Height: 5}},
		{"ascending corners", Pt(-3, -7), Pt(4, 1), Rect{X: -3, Y: -7, Width: 7, Height: 8}},
		{"equal corners", Pt(2, 2), Pt(2, 2), Rect{X: 2, Y: 2, Width: 0, Height: 0}},
		{"mixed axes", Pt(10, 0), Pt(0, 10), Rect{X: 0, Y: 0, Width: 10, Height: 10}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			forward := RectFromPoints(tc.a, tc.b)
			reversed := RectFromPoints(tc.b, tc.a)
			if forward != reversed {
				t.Errorf("RectFromPoints not commutative: %+v vs %+v", forward, reversed)
			}
			if forward != tc.want {
				t.Errorf("RectFromPoints(%v, %v) = %+v, want %+v", tc.a, tc.b, forward, tc.want)
			}
			if forward.Width < 0 || forward.Height < 0 {
				t.Errorf("negative dimensions: %+v", forward)
			}
		})
	}
}

func TestMonitorContainsBoundary(t *testing.T) {
	m := Monitor{ID: 0, Origin: Pt(-100, 50), Width: 200, Height: 100, ScaleX1000: 1000}

	cases := []struct {
		p    Point
		want bool
	}{
		{Pt(-100, 50), true},
		{Pt(99, 149), true},
		{Pt(100, 149), false},
		{Pt(99, 150), false},
	}
	for _, tc := range cases {
		if got := m.Contains(tc.p); got != tc.want {
			t.Errorf("Contains(%v) = %v, want %v", tc.p, got, tc.want)
		}
	}

	if x, y, ok := m.ToLocal(Pt(-100, 50)); !ok || x != 0 || y != 0 {
		t.Errorf("ToLocal(origin) = (%d,%d,%v), want (0,0,true)", x, y, ok)
	}
	if x, y, ok := m.ToLocal(Pt(-1, 51)); !ok || x != 99 || y != 1 {
		t.Errorf("ToLocal((-1,51)) = (%d,%d,%v), want (99,1,true)", x, y, ok)
	}
	if _, _, ok := m.ToLocal(Pt(100, 50)); ok {
		t.Error("ToLocal((100,50)) should miss")
	}
}

func TestClipGlobalRectPixelMapping(t *testing.T) {
	m := Monitor{ID: 1, Origin: Pt(-100, -100), Width: 300, Height: 200, ScaleX1000: 2000}

	local, ok := m.ClipGlobalRect(Pt(-90, -80), Pt(40, 50))
	if !ok {
		t.Fatal("expected a non-empty clip")
	}
	if want := (Rect{X: 10, Y: 20, Width: 130, Height: 130}); local != want {
		t.Fatalf("ClipGlobalRect = %+v, want %+v", local, want)
	}

	pixels := local.ScaleBy(m.ScaleX1000)
	if want := (Rect{X: 20, Y: 40, Width: 260, Height: 260}); pixels != want {
		t.Fatalf("ScaleBy(2000) = %+v, want %+v", pixels, want)
	}
}

func TestClipGlobalRectEmptyIntersection(t *testing.T) {
	m := Monitor{ID: 2, Origin: Pt(0, 0), Width: 100, Height: 100, ScaleX1000: 1000}

	if _, ok := m.ClipGlobalRect(Pt(200, 200), Pt(300, 300)); ok {
		t.Error("clip fully outside the monitor should report empty")
	}
	// Zero-area input degenerates to empty as well.
	if _, ok := m.ClipGlobalRect(Pt(10, 10), Pt(10, 50)); ok {
		t.Error("zero-width clip should report empty")
	}
}

func TestToLocalPixelsRounds(t *testing.T) {
	m := Monitor{ID: 3, Origin: Pt(0, 0), Width: 100, Height: 100, ScaleX1000: 1500}

	x, y, ok := m.ToLocalPixels(Pt(3, 5))
	if !ok {
		t.Fatal("point should be inside")
	}
	// 3*1.5 = 4.5 rounds to 5, 5*1.5 = 7.5 rounds to 8.
	if x != 5 || y != 8 {
		t.Errorf("ToLocalPixels = (%d,%d), want (5,8)", x, y)
	}
}

func TestMonitorAt(t *testing.T) {
	monitors := []Monitor{
		{ID: 0, Origin: Pt(0, 0), Width: 1920, Height: 1080, ScaleX1000: 1000},
		{ID: 1, Origin: Pt(1920, 0), Width: 1280, Height: 1024, ScaleX1000: 1000},
	}

	if m, ok := MonitorAt(Pt(1920, 10), monitors); !ok || m.ID != 1 {
		t.Errorf("MonitorAt((1920,10)) = %v,%v, want monitor 1", m.ID, ok)
	}
	if m, ok := MonitorAt(Pt(100, 100), monitors); !ok || m.ID != 0 {
		t.Errorf("MonitorAt((100,100)) = %v,%v, want monitor 0", m.ID, ok)
	}
	if _, ok := MonitorAt(Pt(-1, 0), monitors); ok {
		t.Error("MonitorAt outside all bounds should miss")
	}
}

func TestRGBHexUpper(t *testing.T) {
	if got := (RGB{R: 255, G: 10, B: 0}).HexUpper(); got != "#FF0A00" {
		t.Errorf("HexUpper = %q, want %q", got, "#FF0A00")
	}
}
