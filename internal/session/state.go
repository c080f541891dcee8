package session

import (
	"image"

	"github.com/bryanchriswhite/snaploupe/internal/geometry"
)

// Mode is the capture session mode.
type Mode int

const (
	// ModeLive samples pixel color from the real screen through the
	// worker.
	ModeLive Mode = iota
	// ModeFrozen serves all sampling from one captured bitmap until the
	// session returns to live or ends.
	ModeFrozen
)

func (m Mode) String() string {
	if m == ModeFrozen {
		return "frozen"
	}
	return "live"
}

// LoupeSample is one magnifier patch centered under the cursor.
type LoupeSample struct {
	Center geometry.Point
	Patch  *image.RGBA
}

// State is the session state owned exclusively by the controller. Other
// components receive copies; nothing here is shared across goroutines.
type State struct {
	Mode Mode

	// Generation increments every time a freeze begins (and again on
	// unfreeze). It is the sole mechanism for discarding stale worker
	// responses that target an earlier freeze cycle.
	Generation uint64

	Cursor     geometry.Point
	HaveCursor bool

	Monitor     geometry.Monitor
	HaveMonitor bool

	RGB    geometry.RGB
	HasRGB bool

	Loupe *LoupeSample

	// Frozen is the captured bitmap in frozen mode; nil while the freeze
	// capture is still in flight.
	Frozen *image.RGBA

	AltActive bool

	// Selection is the current drag rectangle in global logical
	// coordinates, normalized.
	Selection     geometry.Rect
	HaveSelection bool

	// Err is the last user-visible transient error. It clears on the
	// next successful operation and never tears the session down.
	Err string
}

// beginFreeze flips the state into frozen mode for one monitor. The
// frozen bitmap arrives later from the worker; any stale bitmap and
// loupe sample are cleared now.
func (s *State) beginFreeze(m geometry.Monitor) {
	s.Monitor = m
	s.HaveMonitor = true
	s.Frozen = nil
	s.Loupe = nil
	s.Mode = ModeFrozen
	s.Generation++
}

// finishFreeze installs the captured bitmap, keeping the generation set
// by beginFreeze so one freeze request/response cycle shares a key.
func (s *State) finishFreeze(img *image.RGBA) {
	s.Frozen = img
	s.Mode = ModeFrozen
}

// unfreeze returns to live mode and invalidates the freeze cycle.
func (s *State) unfreeze() {
	s.Mode = ModeLive
	s.Frozen = nil
	s.Loupe = nil
	s.Selection = geometry.Rect{}
	s.HaveSelection = false
	s.Generation++
}
