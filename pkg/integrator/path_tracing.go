package integrator

import (
	"math"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/material"
)

// ShadowAcneEpsilon is the minimum t accepted for a hit, so bounced rays do
// not re-hit the surface they leave because of round-off
const ShadowAcneEpsilon = 0.001

// PathTracingIntegrator implements unidirectional path tracing with
// material scattering and a background for escaped rays
type PathTracingIntegrator struct {
	background      Background
	defaultMaterial core.Material
}

// NewPathTracingIntegrator creates a path tracer with the sky gradient and
// 50% diffuse as the material of shapes that carry none
func NewPathTracingIntegrator() *PathTracingIntegrator {
	return &PathTracingIntegrator{
		background:      NewSkyBackground(),
		defaultMaterial: material.NewDefaultDiffuse(),
	}
}

// WithBackground returns a copy of the integrator using background for misses
func (pt *PathTracingIntegrator) WithBackground(background Background) *PathTracingIntegrator {
	clone := *pt
	clone.background = background
	return &clone
}

// RayColor returns the color for a given ray.
// Depth counts remaining bounces; at zero no more light is gathered.
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world core.Shape, sampler core.Sampler, depth int) core.Color {
	if depth <= 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}

	hit, isHit := world.Hit(ray, ShadowAcneEpsilon, math.Inf(1))
	if !isHit {
		return pt.background.Color(ray)
	}

	mat := hit.Material
	if mat == nil {
		mat = pt.defaultMaterial
	}

	scatter, didScatter := mat.Scatter(ray, *hit, sampler)
	if !didScatter {
		return core.Vec3{X: 0, Y: 0, Z: 0} // Material absorbed the ray
	}

	return scatter.Attenuation.MultiplyVec(
		pt.RayColor(scatter.Scattered, world, sampler, depth-1))
}
