package placement

import (
	"testing"

	"github.com/bryanchriswhite/snaploupe/internal/geometry"
)

func testMonitor() geometry.Monitor {
	return geometry.Monitor{ID: 0, Origin: geometry.Pt(0, 0), Width: 1920, Height: 1080, ScaleX1000: 1000}
}

func liveInput(cursor geometry.Point) Input {
	return Input{Monitor: testMonitor(), Cursor: cursor, HaveCursor: true}
}

func findMove(moves []Move, s Surface) (Placement, bool) {
	for _, m := range moves {
		if m.Surface == s {
			return m.Placement, true
		}
	}
	return Placement{}, false
}

func TestHudFollowsCursorWithOffset(t *testing.T) {
	c := NewCoordinator()

	moves := c.Plan(liveInput(geometry.Pt(100, 200)))
	hud, ok := findMove(moves, SurfaceHUD)
	if !ok || !hud.Visible {
		t.Fatalf("expected a visible HUD move, got %+v", moves)
	}
	if hud.Position != geometry.Pt(114, 214) {
		t.Errorf("HUD position = %v, want cursor+offset (114,214)", hud.Position)
	}
}

func TestHudClampsToMonitorEdge(t *testing.T) {
	c := NewCoordinator()

	moves := c.Plan(liveInput(geometry.Pt(1915, 1075)))
	hud, ok := findMove(moves, SurfaceHUD)
	if !ok {
		t.Fatal("expected a HUD move")
	}
	m := testMonitor()
	if hud.Position.X+hud.Width > m.Origin.X+m.Width ||
		hud.Position.Y+hud.Height > m.Origin.Y+m.Height {
		t.Errorf("HUD %+v extends past the monitor edge", hud)
	}
}

func TestRedundantMovesAreSuppressed(t *testing.T) {
	c := NewCoordinator()

	first := c.Plan(liveInput(geometry.Pt(100, 100)))
	if len(first) == 0 {
		t.Fatal("first pass should place every surface")
	}

	// Same input again: nothing to do.
	if again := c.Plan(liveInput(geometry.Pt(100, 100))); len(again) != 0 {
		t.Errorf("identical input produced moves: %+v", again)
	}

	// One-pixel jitter stays inside the tolerance.
	if jitter := c.Plan(liveInput(geometry.Pt(101, 100))); len(jitter) != 0 {
		t.Errorf("sub-tolerance jitter produced moves: %+v", jitter)
	}

	// A real move crosses it.
	if real := c.Plan(liveInput(geometry.Pt(110, 100))); len(real) == 0 {
		t.Error("expected a move after the cursor travelled")
	}
}

func TestLoupePlacedBelowHudAndFlipsAtBottom(t *testing.T) {
	c := NewCoordinator()

	in := liveInput(geometry.Pt(100, 100))
	in.LoupeVisible = true
	moves := c.Plan(in)

	hud, _ := findMove(moves, SurfaceHUD)
	loupe, ok := findMove(moves, SurfaceLoupe)
	if !ok || !loupe.Visible {
		t.Fatal("expected a visible loupe")
	}
	if loupe.Position.Y <= hud.Position.Y {
		t.Errorf("loupe %v should sit below HUD %v", loupe.Position, hud.Position)
	}

	// Near the bottom edge the loupe flips above the HUD.
	in.Cursor = geometry.Pt(100, 1070)
	moves = c.Plan(in)
	hud, _ = findMove(moves, SurfaceHUD)
	loupe, ok = findMove(moves, SurfaceLoupe)
	if !ok {
		t.Fatal("expected a loupe move near the bottom edge")
	}
	if loupe.Position.Y >= hud.Position.Y {
		t.Errorf("loupe %v should flip above HUD %v at the bottom edge", loupe.Position, hud.Position)
	}
}

func TestToolbarAnchorsBelowSelection(t *testing.T) {
	c := NewCoordinator()

	in := liveInput(geometry.Pt(0, 0))
	in.Frozen = true
	in.HaveSelect = true
	in.Selection = geometry.Rect{X: 400, Y: 300, Width: 200, Height: 100}
	moves := c.Plan(in)

	toolbar, ok := findMove(moves, SurfaceToolbar)
	if !ok || !toolbar.Visible {
		t.Fatal("expected a visible toolbar")
	}
	if toolbar.Position.Y <= in.Selection.Y+in.Selection.Height {
		t.Errorf("toolbar %v should sit below the selection", toolbar.Position)
	}
	wantX := in.Selection.X + in.Selection.Width/2 - toolbar.Width/2
	if toolbar.Position.X != wantX {
		t.Errorf("toolbar x = %d, want centered at %d", toolbar.Position.X, wantX)
	}
}

func TestToolbarDragPromotionThreshold(t *testing.T) {
	c := NewCoordinator()

	c.BeginToolbarDrag(geometry.Pt(500, 500))
	if c.DragTo(geometry.Pt(503, 503)) {
		t.Error("movement inside the threshold should stay a click")
	}
	if !c.DragTo(geometry.Pt(510, 500)) {
		t.Error("movement past the threshold should promote to a drag")
	}
	if !c.EndDrag() {
		t.Error("EndDrag should report a drag")
	}

	// The drag offset persists for the session.
	in := liveInput(geometry.Pt(0, 0))
	in.Frozen = true
	in.HaveSelect = true
	in.Selection = geometry.Rect{X: 400, Y: 300, Width: 200, Height: 100}
	moves := c.Plan(in)
	toolbar, _ := findMove(moves, SurfaceToolbar)
	wantX := in.Selection.X + in.Selection.Width/2 - toolbar.Width/2 + 10
	if toolbar.Position.X != wantX {
		t.Errorf("toolbar x = %d, want drag-shifted %d", toolbar.Position.X, wantX)
	}

	// A plain click never moves the toolbar.
	c.BeginToolbarDrag(geometry.Pt(500, 500))
	if c.EndDrag() {
		t.Error("a press/release without movement is a click, not a drag")
	}
}

func TestHideForCaptureHandshake(t *testing.T) {
	c := NewCoordinator()
	c.Plan(liveInput(geometry.Pt(100, 100)))

	if !c.CaptureSurfacesHidden() {
		t.Fatal("no hide requested yet, capture should be clear to arm")
	}

	moves := c.RequestHide()
	if len(moves) == 0 {
		t.Fatal("expected hide moves for the visible HUD")
	}
	for _, m := range moves {
		if m.Placement.Visible {
			t.Errorf("hide move for %v still visible", m.Surface)
		}
	}
	if c.CaptureSurfacesHidden() {
		t.Error("capture must not arm before the hide is confirmed")
	}

	// A plan issued while the hide is pending must not re-show anything.
	for _, m := range c.Plan(liveInput(geometry.Pt(120, 120))) {
		if m.Placement.Visible {
			t.Errorf("plan re-showed %v during the hide handshake", m.Surface)
		}
	}

	c.ConfirmHidden()
	if !c.CaptureSurfacesHidden() {
		t.Error("capture should arm after ConfirmHidden")
	}

	// Still hidden after confirmation, until the capture completes.
	for _, m := range c.Plan(liveInput(geometry.Pt(140, 140))) {
		if m.Placement.Visible {
			t.Errorf("plan re-showed %v before RestoreAfterCapture", m.Surface)
		}
	}

	c.RestoreAfterCapture()
	restored := c.Plan(liveInput(geometry.Pt(100, 100)))
	hud, ok := findMove(restored, SurfaceHUD)
	if !ok || !hud.Visible {
		t.Error("HUD should come back after RestoreAfterCapture")
	}
}

func TestHideWithNothingVisibleArmsImmediately(t *testing.T) {
	c := NewCoordinator()

	// No Plan yet: nothing is visible to hide.
	if moves := c.RequestHide(); len(moves) != 0 {
		t.Errorf("unexpected hide moves: %+v", moves)
	}
	if !c.CaptureSurfacesHidden() {
		t.Error("hide with nothing visible should arm capture immediately")
	}
}
