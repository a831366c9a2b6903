package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	World          *geometry.HittableList // Objects in the scene, read-only once built
	Camera         *renderer.Camera
	CameraConfig   renderer.CameraConfig
	SamplingConfig renderer.SamplingConfig
	Width          int // Image width
	Height         int // Image height, derived from width and aspect ratio
}

// ImageHeight derives the image height from its width and aspect ratio,
// never returning less than one scanline
func ImageHeight(width int, aspectRatio float64) int {
	return max(1, int(float64(width)/aspectRatio))
}

// SetWidth changes the image width and re-derives the height
func (s *Scene) SetWidth(width int) {
	s.Width = width
	s.Height = ImageHeight(width, s.CameraConfig.AspectRatio)
}

// NewRaytracer creates a raytracer for this scene
func (s *Scene) NewRaytracer() *renderer.Raytracer {
	rt := renderer.NewRaytracer(s.World, s.Camera, s.Width, s.Height)
	rt.SetSamplingConfig(s.SamplingConfig)
	return rt
}

// Builder assembles a scene, validating each sphere as it is added
type Builder struct {
	name         string
	world        *geometry.HittableList
	cameraConfig renderer.CameraConfig
	sampling     renderer.SamplingConfig
	width        int
	errs         []error
}

// NewBuilder starts a scene with the default camera, sampling and a
// 200 pixel wide image
func NewBuilder(name string) *Builder {
	return &Builder{
		name:         name,
		world:        geometry.NewHittableList(),
		cameraConfig: renderer.DefaultCameraConfig(),
		sampling:     renderer.DefaultSamplingConfig(),
		width:        200,
	}
}

// AddSphere appends a sphere; nil material selects the default diffuse
func (b *Builder) AddSphere(center core.Point3, radius float64, mat core.Material) *Builder {
	sphere := geometry.NewSphere(center, radius, mat)
	if err := sphere.Validate(); err != nil {
		b.errs = append(b.errs, fmt.Errorf("sphere %d: %w", b.world.Len(), err))
		return b
	}
	b.world.Add(sphere)
	return b
}

// WithCamera overrides the camera configuration
func (b *Builder) WithCamera(config renderer.CameraConfig) *Builder {
	b.cameraConfig = config
	return b
}

// WithSampling overrides the sampling configuration
func (b *Builder) WithSampling(config renderer.SamplingConfig) *Builder {
	b.sampling = config
	return b
}

// WithWidth overrides the image width
func (b *Builder) WithWidth(width int) *Builder {
	b.width = width
	return b
}

// Build validates the accumulated configuration and returns the scene
func (b *Builder) Build() (*Scene, error) {
	errs := append([]error(nil), b.errs...)
	if err := b.cameraConfig.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := b.sampling.Validate(); err != nil {
		errs = append(errs, err)
	}
	if b.width < 1 {
		errs = append(errs, fmt.Errorf("image width must be at least 1, got %d", b.width))
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("scene %q: %w", b.name, errors.Join(errs...))
	}

	return &Scene{
		Name:           b.name,
		World:          b.world,
		Camera:         renderer.NewCamera(b.cameraConfig),
		CameraConfig:   b.cameraConfig,
		SamplingConfig: b.sampling,
		Width:          b.width,
		Height:         ImageHeight(b.width, b.cameraConfig.AspectRatio),
	}, nil
}
