package capture

import (
	"image"

	"github.com/bryanchriswhite/snaploupe/internal/geometry"
)

// StubBackend is a backend that cannot capture anything. It stands in on
// platforms without a working capture path and in tests that only need
// the contract's miss behavior.
type StubBackend struct{}

// NewStubBackend creates a stub backend.
func NewStubBackend() *StubBackend {
	return &StubBackend{}
}

func (s *StubBackend) Name() string { return "stub" }

func (s *StubBackend) CaptureMonitor(m geometry.Monitor) (*image.RGBA, error) {
	return nil, &NotSupportedError{Backend: s.Name()}
}

func (s *StubBackend) SamplePixel(geometry.Monitor, geometry.Point) (geometry.RGB, bool, error) {
	return geometry.RGB{}, false, nil
}

func (s *StubBackend) SamplePatch(geometry.Monitor, geometry.Point, int, int) (*image.RGBA, error) {
	return nil, nil
}

func (s *StubBackend) CursorPosition() (geometry.Point, bool) {
	return geometry.Point{}, false
}

func (s *StubBackend) Windows() ([]Window, error) {
	return nil, nil
}

func (s *StubBackend) Close() error { return nil }
