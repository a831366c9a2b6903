package integrator

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor computes the color carried back along ray from the world,
	// following at most depth bounces
	RayColor(ray core.Ray, world core.Shape, sampler core.Sampler, depth int) core.Color
}

// Background supplies the color of rays that escape the scene
type Background interface {
	Color(ray core.Ray) core.Color
}

// GradientBackground blends vertically from Bottom (looking down) to Top (looking up)
type GradientBackground struct {
	Top    core.Color
	Bottom core.Color
}

// NewSkyBackground returns the white-to-sky-blue gradient
func NewSkyBackground() GradientBackground {
	return GradientBackground{
		Top:    core.NewVec3(0.5, 0.7, 1.0),
		Bottom: core.NewVec3(1.0, 1.0, 1.0),
	}
}

// Color returns a gradient color based on ray direction
func (g GradientBackground) Color(r core.Ray) core.Color {
	unitDirection := r.Direction.UnitVector()

	// Map y from [-1,1] to [0,1]
	t := 0.5 * (unitDirection.Y + 1.0)

	// Linear interpolation: (1-t)*bottom + t*top
	return g.Bottom.Multiply(1.0 - t).Add(g.Top.Multiply(t))
}
