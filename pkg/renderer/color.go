package renderer

import (
	"image/color"
	"math"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// maxIntensity keeps 256*c below 256 so a full channel quantizes to 255
const maxIntensity = 0.999

// vec3ToColor converts an averaged linear color to 8-bit RGBA with gamma 2
// correction. NaN channels quantize to 0.
func vec3ToColor(colorVec core.Color) color.RGBA {
	colorVec = colorVec.Sqrt()

	return color.RGBA{
		R: quantize(colorVec.X),
		G: quantize(colorVec.Y),
		B: quantize(colorVec.Z),
		A: 255,
	}
}

func quantize(c float64) uint8 {
	if math.IsNaN(c) {
		return 0
	}
	c = max(0, min(maxIntensity, c))
	return uint8(256 * c)
}

// PixelColor averages samples accumulated in ps and converts them to RGBA
func PixelColor(ps PixelStats) color.RGBA {
	return vec3ToColor(ps.GetColor())
}
