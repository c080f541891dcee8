// Package capture provides the screen-capture backends a session worker
// drives: a real backend built on kbinani/screenshot with X11 cursor and
// window plumbing, and a stub for tests and unsupported platforms.
package capture

import (
	"fmt"
	"image"

	"github.com/bryanchriswhite/snaploupe/internal/geometry"
)

// Window is one on-screen window as reported by the windowing system,
// with bounds in global logical coordinates.
type Window struct {
	ID     uint32        `json:"id"`
	Bounds geometry.Rect `json:"bounds"`
}

// Backend performs OS-level screen capture and pixel sampling. A backend
// is owned by exactly one capture worker goroutine; implementations are
// free to keep unlocked internal caches.
//
// Sampling methods return (zero, nil-image, no error) when the point lies
// outside the monitor: "outside bounds" is routine, not a failure. Only
// capture-level OS failures are errors.
type Backend interface {
	// Name returns a human-readable backend name.
	Name() string

	// CaptureMonitor captures the full monitor as an RGBA image in
	// monitor pixels.
	CaptureMonitor(m geometry.Monitor) (*image.RGBA, error)

	// SamplePixel reads the color under a global point. ok is false when
	// the point is outside the monitor.
	SamplePixel(m geometry.Monitor, p geometry.Point) (rgb geometry.RGB, ok bool, err error)

	// SamplePatch copies a widthPx x heightPx patch centered on the
	// point, filling out-of-bounds source pixels with transparent black.
	// The image is nil when the point is outside the monitor.
	SamplePatch(m geometry.Monitor, p geometry.Point, widthPx, heightPx int) (*image.RGBA, error)

	// CursorPosition reports the device-level cursor position. ok is
	// false when the backend cannot read it.
	CursorPosition() (geometry.Point, bool)

	// Windows lists on-screen windows, topmost first.
	Windows() ([]Window, error)

	// Close releases backend resources.
	Close() error
}

// NotSupportedError reports an operation the backend cannot perform on
// this platform.
type NotSupportedError struct {
	Backend string
}

func (e *NotSupportedError) Error() string {
	return fmt.Sprintf("screen capture is not supported by the %s backend", e.Backend)
}

// MonitorNotFoundError reports a capture attempt against a monitor the OS
// no longer knows about.
type MonitorNotFoundError struct {
	Monitor geometry.Monitor
}

func (e *MonitorNotFoundError) Error() string {
	return fmt.Sprintf("no monitor matched descriptor: %s", e.Monitor)
}
