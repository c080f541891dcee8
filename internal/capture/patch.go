package capture

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// CopyPatch copies a widthPx x heightPx region centered on (centerX,
// centerY) out of src. Source pixels outside src are left transparent
// black. The session controller uses this same helper to serve loupe
// samples locally from a frozen bitmap.
func CopyPatch(src *image.RGBA, centerX, centerY, widthPx, heightPx int) *image.RGBA {
	if widthPx < 1 {
		widthPx = 1
	}
	if heightPx < 1 {
		heightPx = 1
	}
	out := image.NewRGBA(image.Rect(0, 0, widthPx, heightPx))
	if src == nil {
		return out
	}

	srcRect := image.Rect(
		centerX-widthPx/2,
		centerY-heightPx/2,
		centerX-widthPx/2+widthPx,
		centerY-heightPx/2+heightPx,
	).Add(src.Bounds().Min)

	visible := srcRect.Intersect(src.Bounds())
	if visible.Empty() {
		return out
	}

	dstOffset := visible.Min.Sub(srcRect.Min)
	dstRect := image.Rectangle{Min: dstOffset, Max: dstOffset.Add(visible.Size())}
	draw.Draw(out, dstRect, src, visible.Min, draw.Src)
	return out
}

// Magnify scales a loupe patch up by an integer factor with nearest
// neighbor so individual pixels stay crisp in the pixel-grid view.
func Magnify(patch *image.RGBA, factor int) *image.RGBA {
	if patch == nil {
		return nil
	}
	if factor < 1 {
		factor = 1
	}
	b := patch.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	xdraw.NearestNeighbor.Scale(out, out.Bounds(), patch, b, xdraw.Src, nil)
	return out
}
