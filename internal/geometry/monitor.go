package geometry

import "fmt"

// Monitor describes one connected monitor. Identity is immutable for the
// lifetime of a session; the set is enumerated once at session start.
// The scale factor is stored in integer thousandths (1.0 -> 1000,
// 2.0 -> 2000) so descriptors stay comparable with ==.
type Monitor struct {
	ID         uint32 `json:"id"`
	Origin     Point  `json:"origin"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	ScaleX1000 int    `json:"scale_x1000"`
}

// ScaleFactor returns the monitor scale as a float for display purposes.
// Geometry math uses ScaleX1000 directly.
func (m Monitor) ScaleFactor() float64 {
	return float64(m.ScaleX1000) / 1000.0
}

func (m Monitor) String() string {
	return fmt.Sprintf("monitor %d %dx%d@%s x%.2f", m.ID, m.Width, m.Height, m.Origin, m.ScaleFactor())
}

// Bounds returns the monitor rectangle in global logical coordinates.
func (m Monitor) Bounds() Rect {
	return Rect{X: m.Origin.X, Y: m.Origin.Y, Width: m.Width, Height: m.Height}
}

// Contains reports whether the global point lies on this monitor.
// Bounds are half-open: origin is inside, origin+size is not.
func (m Monitor) Contains(p Point) bool {
	xOK := p.X >= m.Origin.X && p.X < m.Origin.X+m.Width
	yOK := p.Y >= m.Origin.Y && p.Y < m.Origin.Y+m.Height
	return xOK && yOK
}

// ToLocal converts a global point to monitor-local logical coordinates.
// The bool is false when the point is outside the monitor.
func (m Monitor) ToLocal(p Point) (x, y int, ok bool) {
	if !m.Contains(p) {
		return 0, 0, false
	}
	return p.X - m.Origin.X, p.Y - m.Origin.Y, true
}

// ToLocalPixels converts a global point to monitor-local pixel coordinates,
// rounding to the nearest pixel.
func (m Monitor) ToLocalPixels(p Point) (x, y int, ok bool) {
	lx, ly, ok := m.ToLocal(p)
	if !ok {
		return 0, 0, false
	}
	return roundScaled(lx, m.ScaleX1000), roundScaled(ly, m.ScaleX1000), true
}

// ClipGlobalRect intersects the rectangle spanned by two global corner
// points with the monitor bounds and returns the result in monitor-local
// logical coordinates. The bool is false when the intersection is empty.
func (m Monitor) ClipGlobalRect(a, b Point) (Rect, bool) {
	clipped, ok := RectFromPoints(a, b).Intersect(m.Bounds())
	if !ok {
		return Rect{}, false
	}
	clipped.X -= m.Origin.X
	clipped.Y -= m.Origin.Y
	return clipped, true
}

// ClipGlobalRectPixels is ClipGlobalRect scaled to monitor-local pixels.
func (m Monitor) ClipGlobalRectPixels(a, b Point) (Rect, bool) {
	local, ok := m.ClipGlobalRect(a, b)
	if !ok {
		return Rect{}, false
	}
	return local.ScaleBy(m.ScaleX1000), true
}

// MonitorAt returns the first monitor containing the point. The bool is
// false when no monitor contains it, which can happen transiently when
// device-level and event-level cursor coordinates disagree; callers fall
// back to the most recent in-bounds point instead of failing.
func MonitorAt(p Point, monitors []Monitor) (Monitor, bool) {
	for _, m := range monitors {
		if m.Contains(p) {
			return m, true
		}
	}
	return Monitor{}, false
}
