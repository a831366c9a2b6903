package renderer

import (
	"fmt"
	"image"
	"time"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/integrator"
)

// rowSeedStride spreads per-scanline seeds apart
const rowSeedStride = 7919

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int // Number of rays per pixel
	MaxDepth        int // Maximum ray bounce depth
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 100,
		MaxDepth:        50,
	}
}

// Validate checks that at least one sample is taken per pixel
func (c SamplingConfig) Validate() error {
	if c.SamplesPerPixel < 1 {
		return fmt.Errorf("samples per pixel must be at least 1, got %d", c.SamplesPerPixel)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max depth must not be negative, got %d", c.MaxDepth)
	}
	return nil
}

// SamplerFactory returns the sampler used for one scanline.
// Row is the scanline index counted from the bottom of the image.
type SamplerFactory func(row int) core.Sampler

// Raytracer handles the rendering process
type Raytracer struct {
	world          core.Shape
	camera         *Camera
	width          int
	height         int
	config         SamplingConfig
	integrator     integrator.Integrator
	logger         core.Logger
	seed           int64
	samplerFactory SamplerFactory
}

// NewRaytracer creates a new raytracer
func NewRaytracer(world core.Shape, camera *Camera, width, height int) *Raytracer {
	return &Raytracer{
		world:      world,
		camera:     camera,
		width:      width,
		height:     height,
		config:     DefaultSamplingConfig(),
		integrator: integrator.NewPathTracingIntegrator(),
		logger:     NopLogger{},
		seed:       42, // Deterministic for testing
	}
}

// SetSamplingConfig updates the sampling configuration
func (rt *Raytracer) SetSamplingConfig(config SamplingConfig) {
	rt.config = config
}

// SetIntegrator replaces the light transport algorithm
func (rt *Raytracer) SetIntegrator(integratorInst integrator.Integrator) {
	rt.integrator = integratorInst
}

// SetLogger sets where scanline progress is reported
func (rt *Raytracer) SetLogger(logger core.Logger) {
	rt.logger = logger
}

// SetSeed sets the base seed of the per-scanline generators
func (rt *Raytracer) SetSeed(seed int64) {
	rt.seed = seed
}

// SetSamplerFactory overrides per-scanline sampler creation
func (rt *Raytracer) SetSamplerFactory(factory SamplerFactory) {
	rt.samplerFactory = factory
}

// Width returns the image width in pixels
func (rt *Raytracer) Width() int { return rt.width }

// Height returns the image height in pixels
func (rt *Raytracer) Height() int { return rt.height }

// samplerForRow returns a fresh sampler that depends only on the seed and row
func (rt *Raytracer) samplerForRow(row int) core.Sampler {
	if rt.samplerFactory != nil {
		return rt.samplerFactory(row)
	}
	return core.NewSeededSampler(rt.seed + int64(row)*rowSeedStride)
}

// SamplePixel accumulates SamplesPerPixel jittered samples for pixel (i, j),
// with j counted from the bottom scanline
func (rt *Raytracer) SamplePixel(i, j int, sampler core.Sampler) PixelStats {
	var ps PixelStats
	for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
		// Convert pixel coordinates to normalized coordinates with jitter
		u := (float64(i) + sampler.Get1D()) / float64(rt.width)
		v := (float64(j) + sampler.Get1D()) / float64(rt.height)

		ray := rt.camera.GetRay(u, v)
		ps.AddSample(rt.integrator.RayColor(ray, rt.world, sampler, rt.config.MaxDepth))
	}
	return ps
}

// RenderScanline renders scanline j (counted from the bottom) into img
func (rt *Raytracer) RenderScanline(j int, img *image.RGBA) int {
	sampler := rt.samplerForRow(j)
	y := rt.height - 1 - j
	samples := 0

	for i := 0; i < rt.width; i++ {
		ps := rt.SamplePixel(i, j, sampler)
		img.SetRGBA(i, y, PixelColor(ps))
		samples += ps.SampleCount
	}

	return samples
}

// RenderPass renders every scanline sequentially, top scanline first, and
// reports the remaining scanline count after each one
func (rt *Raytracer) RenderPass() (*image.RGBA, RenderStats) {
	startTime := time.Now()
	img := image.NewRGBA(image.Rect(0, 0, rt.width, rt.height))
	stats := rt.initRenderStats(1)

	for j := rt.height - 1; j >= 0; j-- {
		stats.TotalSamples += rt.RenderScanline(j, img)
		stats.Scanlines++
		rt.logger.Printf("\rScanlines remaining: %d ", j)
	}
	rt.logger.Printf("\nDone.\n")

	stats.Duration = time.Since(startTime)
	return img, stats
}

// initRenderStats initializes the render statistics for the whole image
func (rt *Raytracer) initRenderStats(workers int) RenderStats {
	return RenderStats{
		TotalPixels:     rt.width * rt.height,
		SamplesPerPixel: rt.config.SamplesPerPixel,
		Workers:         workers,
	}
}
