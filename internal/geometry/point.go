// Package geometry is the pure coordinate model for capture sessions:
// monitor descriptors, global/local point conversion, scale-factor handling
// and rectangle normalization. It performs no I/O and keeps no mutable
// state, so it is safe to call from both the event loop and the capture
// worker goroutine.
package geometry

import "fmt"

// Point is a position in global desktop-logical coordinates. It is
// monitor-independent; the origin of the primary monitor is (0,0) and
// monitors left of or above it have negative coordinates.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// RGB is a sampled screen color.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// HexUpper formats the color as "#RRGGBB" for HUD display.
func (c RGB) HexUpper() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
