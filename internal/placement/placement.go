// Package placement derives desired screen positions and visibility for
// the auxiliary session surfaces (HUD, loupe, toolbar) from session state
// and monitor geometry. It caches what was last applied and suppresses
// writes inside a rounding tolerance, so the host does not issue a
// redundant OS window move every frame.
package placement

import (
	"github.com/bryanchriswhite/snaploupe/internal/geometry"
)

// Surface identifies one auxiliary window.
type Surface int

const (
	SurfaceHUD Surface = iota
	SurfaceLoupe
	SurfaceToolbar
)

func (s Surface) String() string {
	switch s {
	case SurfaceHUD:
		return "hud"
	case SurfaceLoupe:
		return "loupe"
	case SurfaceToolbar:
		return "toolbar"
	}
	return "unknown"
}

// Placement is the desired outer position, inner size and visibility of
// one surface, in global logical coordinates.
type Placement struct {
	Position geometry.Point
	Width    int
	Height   int
	Visible  bool
}

// Move pairs a surface with the placement the host should apply.
type Move struct {
	Surface   Surface
	Placement Placement
}

// Input is a snapshot of the controller state a layout pass needs. The
// coordinator never holds a back-reference into session state.
type Input struct {
	Monitor      geometry.Monitor
	Cursor       geometry.Point
	HaveCursor   bool
	LoupeVisible bool
	Frozen       bool
	Selection    geometry.Rect
	HaveSelect   bool
}

// Nominal surface sizes in logical units. The host may resize surfaces
// for content; these only anchor the layout math.
const (
	hudWidth      = 180
	hudHeight     = 72
	loupeSide     = 132
	toolbarWidth  = 240
	toolbarHeight = 40

	cursorOffset = 14
	surfaceGap   = 8

	// moveTolerance suppresses OS moves for sub-tolerance jitter.
	moveTolerance = 1

	// dragThreshold promotes a toolbar click to a drag only after the
	// pointer travelled this many logical pixels.
	dragThreshold = 6
)

// Coordinator tracks applied placements and the toolbar drag state for
// one session.
type Coordinator struct {
	applied map[Surface]Placement

	toolbarOffset geometry.Point

	dragging    bool
	dragActive  bool
	dragStart   geometry.Point
	dragOrigin  geometry.Point
	hideOrdered bool
	hidden      bool
}

// NewCoordinator creates an empty coordinator; every surface starts
// unplaced, so the first layout pass reports moves for all of them.
func NewCoordinator() *Coordinator {
	return &Coordinator{applied: make(map[Surface]Placement)}
}

// Plan computes desired placements for the input snapshot and returns
// only the moves whose position or size differ from what was last
// applied by more than the tolerance, recording them as applied.
func (c *Coordinator) Plan(in Input) []Move {
	desired := c.layout(in)

	var moves []Move
	for _, m := range desired {
		prev, ok := c.applied[m.Surface]
		if ok && !placementDiffers(prev, m.Placement) {
			continue
		}
		c.applied[m.Surface] = m.Placement
		moves = append(moves, m)
	}
	return moves
}

func (c *Coordinator) layout(in Input) []Move {
	hud := Placement{Width: hudWidth, Height: hudHeight}
	loupe := Placement{Width: loupeSide, Height: loupeSide}
	toolbar := Placement{Width: toolbarWidth, Height: toolbarHeight}

	// hideOrdered spans from RequestHide until RestoreAfterCapture, so a
	// plan issued mid-handshake cannot re-show what the capture needs
	// hidden.
	if in.HaveCursor && !c.hideOrdered {
		// HUD rides the cursor with monitor-edge clamping.
		hud.Visible = true
		hud.Position = clampToMonitor(
			geometry.Pt(in.Cursor.X+cursorOffset, in.Cursor.Y+cursorOffset),
			hudWidth, hudHeight, in.Monitor,
		)

		if in.LoupeVisible {
			// Loupe sits below the HUD, flipping above when the HUD is
			// pinned to the bottom edge.
			loupe.Visible = true
			pos := geometry.Pt(hud.Position.X, hud.Position.Y+hudHeight+surfaceGap)
			if pos.Y+loupeSide > in.Monitor.Origin.Y+in.Monitor.Height {
				pos.Y = hud.Position.Y - surfaceGap - loupeSide
			}
			loupe.Position = clampToMonitor(pos, loupeSide, loupeSide, in.Monitor)
		}
	}

	if in.Frozen && in.HaveSelect {
		// Toolbar anchors below the selection, shifted by any
		// user drag for the rest of the session.
		toolbar.Visible = true
		pos := geometry.Pt(
			in.Selection.X+in.Selection.Width/2-toolbarWidth/2+c.toolbarOffset.X,
			in.Selection.Y+in.Selection.Height+surfaceGap+c.toolbarOffset.Y,
		)
		toolbar.Position = clampToMonitor(pos, toolbarWidth, toolbarHeight, in.Monitor)
	}

	return []Move{
		{Surface: SurfaceHUD, Placement: hud},
		{Surface: SurfaceLoupe, Placement: loupe},
		{Surface: SurfaceToolbar, Placement: toolbar},
	}
}

// BeginToolbarDrag starts tracking a pointer press on the toolbar.
// Repositioning does not begin until the threshold is crossed.
func (c *Coordinator) BeginToolbarDrag(p geometry.Point) {
	c.dragging = true
	c.dragActive = false
	c.dragStart = p
	c.dragOrigin = c.toolbarOffset
}

// DragTo updates the drag with a new pointer position and reports
// whether the interaction has been promoted from click to drag.
func (c *Coordinator) DragTo(p geometry.Point) bool {
	if !c.dragging {
		return false
	}
	dx := p.X - c.dragStart.X
	dy := p.Y - c.dragStart.Y
	if !c.dragActive {
		if dx*dx+dy*dy < dragThreshold*dragThreshold {
			return false
		}
		c.dragActive = true
	}
	c.toolbarOffset = geometry.Pt(c.dragOrigin.X+dx, c.dragOrigin.Y+dy)
	return true
}

// EndDrag finishes the drag. It reports whether the interaction was a
// drag; false means it stayed a plain click.
func (c *Coordinator) EndDrag() bool {
	wasDrag := c.dragActive
	c.dragging = false
	c.dragActive = false
	return wasDrag
}

// RequestHide marks the capture-occluding surfaces (HUD, loupe) for
// hiding ahead of a freeze capture and returns the hide moves. Capture
// must not be armed until ConfirmHidden.
func (c *Coordinator) RequestHide() []Move {
	c.hideOrdered = true
	c.hidden = false

	var moves []Move
	for _, s := range []Surface{SurfaceHUD, SurfaceLoupe} {
		p := c.applied[s]
		if !p.Visible {
			continue
		}
		p.Visible = false
		c.applied[s] = p
		moves = append(moves, Move{Surface: s, Placement: p})
	}
	if len(moves) == 0 {
		// Nothing was visible, so there is no hide to wait for.
		c.hidden = true
	}
	return moves
}

// ConfirmHidden acknowledges that the hide has taken visible effect.
func (c *Coordinator) ConfirmHidden() {
	if c.hideOrdered {
		c.hidden = true
	}
}

// CaptureSurfacesHidden reports whether a requested hide has been
// confirmed. It is true as well when no hide was needed.
func (c *Coordinator) CaptureSurfacesHidden() bool {
	return !c.hideOrdered || c.hidden
}

// RestoreAfterCapture lifts the hide; the next Plan reveals surfaces
// again.
func (c *Coordinator) RestoreAfterCapture() {
	c.hideOrdered = false
	c.hidden = false
}

func placementDiffers(a, b Placement) bool {
	if a.Visible != b.Visible || a.Width != b.Width || a.Height != b.Height {
		return true
	}
	return abs(a.Position.X-b.Position.X) > moveTolerance ||
		abs(a.Position.Y-b.Position.Y) > moveTolerance
}

func clampToMonitor(p geometry.Point, w, h int, m geometry.Monitor) geometry.Point {
	maxX := m.Origin.X + m.Width - w
	maxY := m.Origin.Y + m.Height - h
	if p.X > maxX {
		p.X = maxX
	}
	if p.Y > maxY {
		p.Y = maxY
	}
	if p.X < m.Origin.X {
		p.X = m.Origin.X
	}
	if p.Y < m.Origin.Y {
		p.Y = m.Origin.Y
	}
	return p
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
