package capture

import (
	"fmt"
	"image"
	"time"

	"github.com/kbinani/screenshot"

	"github.com/bryanchriswhite/snaploupe/internal/geometry"
	"github.com/bryanchriswhite/snaploupe/internal/logger"
)

const (
	// monitorCacheTTL bounds how stale a cached full-monitor capture may
	// be when serving pixel and patch samples.
	monitorCacheTTL = 80 * time.Millisecond

	// windowCacheTTL bounds how stale the cached window list may be when
	// serving hit tests.
	windowCacheTTL = 250 * time.Millisecond
)

// monitorSnapshot is one cached full-monitor capture. The cache key is
// (monitor, capturedAt): a snapshot is only reused for the same monitor
// identity within the TTL.
type monitorSnapshot struct {
	monitor    geometry.Monitor
	capturedAt time.Time
	img        *image.RGBA
}

type windowSnapshot struct {
	capturedAt time.Time
	windows    []Window
}

// ScreenBackend captures real screen content via kbinani/screenshot and
// reads cursor/window state over X11 when a display connection is
// available. It keeps a short-TTL monitor capture cache so continuous
// pixel sampling does not issue a full capture per request.
//
// A ScreenBackend is owned by a single capture worker goroutine and is
// not safe for concurrent use.
type ScreenBackend struct {
	x11      *x11Conn
	cache    *monitorSnapshot
	winCache *windowSnapshot
	now      func() time.Time
}

// NewScreenBackend creates the real capture backend. X11 plumbing is
// optional: without it, cursor position and window listing degrade to
// misses while monitor capture keeps working.
func NewScreenBackend() *ScreenBackend {
	log := logger.WithComponent("capture")

	x11, err := dialX11()
	if err != nil {
		log.Warn().Err(err).Msg("X11 unavailable; cursor and window queries disabled")
		x11 = nil
	}

	return &ScreenBackend{x11: x11, now: time.Now}
}

func (s *ScreenBackend) Name() string { return "screen" }

// Monitors enumerates connected monitors as session descriptors. Display
// bounds from the OS are treated as logical units with a 1.0 scale; on
// scaled displays the OS already reports pre-scaled bounds here.
func Monitors() ([]geometry.Monitor, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return nil, fmt.Errorf("no active displays detected")
	}

	monitors := make([]geometry.Monitor, 0, n)
	for i := 0; i < n; i++ {
		bounds := screenshot.GetDisplayBounds(i)
		if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
			continue
		}
		monitors = append(monitors, geometry.Monitor{
			ID:         uint32(i),
			Origin:     geometry.Pt(bounds.Min.X, bounds.Min.Y),
			Width:      bounds.Dx(),
			Height:     bounds.Dy(),
			ScaleX1000: 1000,
		})
	}
	if len(monitors) == 0 {
		return nil, fmt.Errorf("no usable displays detected")
	}
	return monitors, nil
}

// CaptureMonitor captures the full monitor and refreshes the sampling
// cache with the result.
func (s *ScreenBackend) CaptureMonitor(m geometry.Monitor) (*image.RGBA, error) {
	if err := validateMonitor(m); err != nil {
		return nil, err
	}

	img, err := screenshot.CaptureRect(image.Rect(
		m.Origin.X,
		m.Origin.Y,
		m.Origin.X+m.Width,
		m.Origin.Y+m.Height,
	))
	if err != nil {
		return nil, fmt.Errorf("capture monitor %d: %w", m.ID, err)
	}

	s.cache = &monitorSnapshot{monitor: m, capturedAt: s.now(), img: img}
	return img, nil
}

func (s *ScreenBackend) SamplePixel(m geometry.Monitor, p geometry.Point) (geometry.RGB, bool, error) {
	if !m.Contains(p) {
		return geometry.RGB{}, false, nil
	}
	if err := s.ensureCache(m); err != nil {
		return geometry.RGB{}, false, err
	}

	x, y, ok := m.ToLocalPixels(p)
	if !ok {
		return geometry.RGB{}, false, nil
	}
	img := s.cache.img
	if !(image.Point{X: x, Y: y}.Add(img.Bounds().Min).In(img.Bounds())) {
		return geometry.RGB{}, false, nil
	}

	c := img.RGBAAt(img.Bounds().Min.X+x, img.Bounds().Min.Y+y)
	return geometry.RGB{R: c.R, G: c.G, B: c.B}, true, nil
}

func (s *ScreenBackend) SamplePatch(m geometry.Monitor, p geometry.Point, widthPx, heightPx int) (*image.RGBA, error) {
	if !m.Contains(p) {
		return nil, nil
	}
	if err := s.ensureCache(m); err != nil {
		return nil, err
	}

	x, y, ok := m.ToLocalPixels(p)
	if !ok {
		return nil, nil
	}
	return CopyPatch(s.cache.img, x, y, widthPx, heightPx), nil
}

// CursorPosition reads the device-level pointer position over X11.
func (s *ScreenBackend) CursorPosition() (geometry.Point, bool) {
	if s.x11 == nil {
		return geometry.Point{}, false
	}
	return s.x11.cursorPosition()
}

// Windows lists on-screen windows, topmost first, serving from the
// window cache when it is fresh.
func (s *ScreenBackend) Windows() ([]Window, error) {
	if s.x11 == nil {
		return nil, nil
	}
	if s.winCache != nil && s.now().Sub(s.winCache.capturedAt) <= windowCacheTTL {
		return s.winCache.windows, nil
	}

	windows, err := s.x11.windows()
	if err != nil {
		return nil, fmt.Errorf("refresh window cache: %w", err)
	}
	s.winCache = &windowSnapshot{capturedAt: s.now(), windows: windows}
	return windows, nil
}

func (s *ScreenBackend) Close() error {
	if s.x11 != nil {
		s.x11.close()
		s.x11 = nil
	}
	s.cache = nil
	s.winCache = nil
	return nil
}

// ensureCache refreshes the monitor capture cache unless it already holds
// a fresh snapshot for the same monitor identity.
func (s *ScreenBackend) ensureCache(m geometry.Monitor) error {
	if s.cache != nil && s.cache.monitor == m && s.now().Sub(s.cache.capturedAt) <= monitorCacheTTL {
		return nil
	}
	_, err := s.CaptureMonitor(m)
	return err
}

func validateMonitor(m geometry.Monitor) error {
	n := screenshot.NumActiveDisplays()
	for i := 0; i < n; i++ {
		bounds := screenshot.GetDisplayBounds(i)
		if bounds.Min.X == m.Origin.X && bounds.Min.Y == m.Origin.Y &&
			bounds.Dx() == m.Width && bounds.Dy() == m.Height {
			return nil
		}
	}
	return &MonitorNotFoundError{Monitor: m}
}
