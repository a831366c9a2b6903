package output

import (
	"image"
	"image/draw"

	"github.com/nfnt/resize"
)

// Preview scales img so its width is at most maxWidth pixels, keeping the
// aspect ratio. Images already small enough are returned as a copy.
func Preview(img *image.RGBA, maxWidth int) *image.RGBA {
	bounds := img.Bounds()
	if maxWidth <= 0 || bounds.Dx() <= maxWidth {
		return toRGBA(img)
	}

	height := max(1, bounds.Dy()*maxWidth/bounds.Dx())
	return toRGBA(resize.Resize(uint(maxWidth), uint(height), img, resize.Bilinear))
}

func toRGBA(src image.Image) *image.RGBA {
	bounds := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Src)
	return dst
}
