package scene

import (
	"fmt"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// ColorFromName converts an SVG 1.1 color name (e.g. "skyblue") to a linear
// color with channels in [0,1]
func ColorFromName(name string) (core.Color, error) {
	c, ok := colornames.Map[strings.ToLower(name)]
	if !ok {
		return core.Color{}, fmt.Errorf("unknown color name %q", name)
	}
	return core.NewVec3(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255), nil
}
