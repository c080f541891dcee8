package session

import "fmt"

// HUDLines renders the heads-up readout for the current state: cursor
// position, color under the cursor, and a status line. The host draws
// these verbatim.
func (c *Controller) HUDLines() []string {
	s := c.state
	lines := make([]string, 0, 3)

	if s.HaveCursor {
		lines = append(lines, fmt.Sprintf("x=%d, y=%d", s.Cursor.X, s.Cursor.Y))
	} else {
		lines = append(lines, "x=?, y=?")
	}

	if s.HasRGB {
		lines = append(lines, fmt.Sprintf("rgb(%d, %d, %d) %s", s.RGB.R, s.RGB.G, s.RGB.B, s.RGB.HexUpper()))
	} else {
		lines = append(lines, "rgb(?, ?, ?)")
	}

	switch {
	case s.Err != "":
		lines = append(lines, "error: "+s.Err)
	case s.Mode == ModeFrozen && s.Frozen == nil:
		lines = append(lines, "freezing...")
	case s.Mode == ModeFrozen:
		lines = append(lines, "drag to select, enter to copy, esc to thaw")
	case c.opts.ShowAltHint && !s.AltActive:
		lines = append(lines, "hold alt for loupe")
	default:
		lines = append(lines, "click to freeze")
	}

	return lines
}
