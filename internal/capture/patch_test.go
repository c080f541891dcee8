package capture

import (
	"image"
	"image/color"
	"testing"

	"github.com/bryanchriswhite/snaploupe/internal/geometry"
)

func fillGradient(img *image.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 7, A: 255})
		}
	}
}

func TestCopyPatchCenteredInBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 20, 20))
	fillGradient(src)

	patch := CopyPatch(src, 10, 10, 5, 5)
	if got := patch.Bounds().Size(); got.X != 5 || got.Y != 5 {
		t.Fatalf("patch size = %v, want 5x5", got)
	}

	// Center of the patch must be the source pixel at the center point.
	center := patch.RGBAAt(2, 2)
	if center.R != 10 || center.G != 10 {
		t.Errorf("center pixel = %+v, want source (10,10)", center)
	}
	corner := patch.RGBAAt(0, 0)
	if corner.R != 8 || corner.G != 8 {
		t.Errorf("corner pixel = %+v, want source (8,8)", corner)
	}
}

func TestCopyPatchFillsOutOfBoundsTransparent(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	fillGradient(src)

	// Centered on the top-left corner: the top-left quadrant of the patch
	// falls outside the source.
	patch := CopyPatch(src, 0, 0, 5, 5)

	if got := patch.RGBAAt(0, 0); got.A != 0 {
		t.Errorf("outside pixel should be transparent black, got %+v", got)
	}
	if got := patch.RGBAAt(2, 2); got.A != 255 || got.R != 0 || got.G != 0 {
		t.Errorf("center pixel should be source (0,0), got %+v", got)
	}
}

func TestCopyPatchFullyOutside(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	fillGradient(src)

	patch := CopyPatch(src, 100, 100, 3, 3)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if got := patch.RGBAAt(x, y); got.A != 0 {
				t.Fatalf("pixel (%d,%d) should be transparent, got %+v", x, y, got)
			}
		}
	}
}

func TestMagnifyKeepsPixelsCrisp(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	src.SetRGBA(1, 0, color.RGBA{B: 255, A: 255})

	out := Magnify(src, 4)
	if got := out.Bounds().Size(); got.X != 8 || got.Y != 4 {
		t.Fatalf("magnified size = %v, want 8x4", got)
	}
	// Nearest neighbor: no blending at the seam.
	if got := out.RGBAAt(3, 0); got.R != 255 || got.B != 0 {
		t.Errorf("left block bled: %+v", got)
	}
	if got := out.RGBAAt(4, 0); got.B != 255 || got.R != 0 {
		t.Errorf("right block bled: %+v", got)
	}
}

func testMonitor() geometry.Monitor {
	return geometry.Monitor{ID: 0, Origin: geometry.Pt(0, 0), Width: 100, Height: 100, ScaleX1000: 1000}
}

func imagePoint() geometry.Point {
	return geometry.Pt(10, 10)
}

func TestStubBackendContract(t *testing.T) {
	s := NewStubBackend()

	if _, err := s.CaptureMonitor(testMonitor()); err == nil {
		t.Error("stub capture should fail with NotSupported")
	}
	if _, ok, err := s.SamplePixel(testMonitor(), imagePoint()); ok || err != nil {
		t.Errorf("stub pixel sample = (%v, %v), want miss without error", ok, err)
	}
	if patch, err := s.SamplePatch(testMonitor(), imagePoint(), 3, 3); patch != nil || err != nil {
		t.Errorf("stub patch sample = (%v, %v), want nil without error", patch, err)
	}
	if _, ok := s.CursorPosition(); ok {
		t.Error("stub cursor position should miss")
	}
}
