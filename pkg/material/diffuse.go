package material

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// DefaultAlbedo is the fraction of light a default diffuse surface reflects per bounce
const DefaultAlbedo = 0.5

// Diffuse scatters uniformly into the hemisphere around the surface normal
// and attenuates by a fixed albedo. It is not energy-normalised against a
// BRDF; the fixed attenuation is the whole shading model.
type Diffuse struct {
	Albedo core.Color
}

// NewDiffuse creates a diffuse material with the given albedo
func NewDiffuse(albedo core.Color) *Diffuse {
	return &Diffuse{Albedo: albedo}
}

// NewDefaultDiffuse creates the grey 50% diffuse used for untextured spheres
func NewDefaultDiffuse() *Diffuse {
	return NewDiffuse(core.NewVec3(DefaultAlbedo, DefaultAlbedo, DefaultAlbedo))
}

// Scatter implements the Material interface for hemisphere scattering
func (d *Diffuse) Scatter(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
	target := hit.Point.Add(core.RandomInHemisphere(hit.Normal, sampler))
	scattered := core.NewRay(hit.Point, target.Subtract(hit.Point))

	return core.ScatterResult{
		Scattered:   scattered,
		Attenuation: d.Albedo,
	}, true
}
