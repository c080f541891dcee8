package geometry

// Rect is an axis-aligned rectangle in either logical or pixel units.
// Width and Height are never negative.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// RectFromPoints normalizes two arbitrary corner points into a Rect with
// non-negative width and height. The result is independent of argument
// order: RectFromPoints(a, b) == RectFromPoints(b, a).
func RectFromPoints(a, b Point) Rect {
	minX, maxX := a.X, b.X
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	minY, maxY := a.Y, b.Y
	if minY > maxY {
		minY, maxY = maxY, minY
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Empty reports whether the rectangle has zero area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether the coordinate (x, y), in the same units as
// r, lies inside r using half-open bounds.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Intersect clips r against other. The second return value is false when
// the intersection is empty; callers treat that as "nothing to draw or
// sample", never as an error.
func (r Rect) Intersect(other Rect) (Rect, bool) {
	x0 := max(r.X, other.X)
	y0 := max(r.Y, other.Y)
	x1 := min(r.X+r.Width, other.X+other.Width)
	y1 := min(r.Y+r.Height, other.Y+other.Height)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}, false
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, true
}

// ScaleBy converts a logical-unit rectangle to pixels for the given
// thousandths scale factor, rounding each edge to the nearest integer.
func (r Rect) ScaleBy(scaleX1000 int) Rect {
	return Rect{
		X:      roundScaled(r.X, scaleX1000),
		Y:      roundScaled(r.Y, scaleX1000),
		Width:  roundScaled(r.Width, scaleX1000),
		Height: roundScaled(r.Height, scaleX1000),
	}
}

// roundScaled multiplies v by scaleX1000/1000 with round-half-away-from-zero
// integer arithmetic, avoiding float equality pitfalls.
func roundScaled(v, scaleX1000 int) int {
	n := v * scaleX1000
	if n >= 0 {
		return (n + 500) / 1000
	}
	return (n - 500) / 1000
}
