package renderer

import (
	"context"
	"fmt"
	"image"
	"time"
)

// RenderContext renders the image with a pool of numWorkers goroutines
// (0 = use CPU count). Every scanline owns a sampler derived from the seed
// and its row, so the image is identical to RenderPass for any worker count.
// The context is checked between scanlines.
func (rt *Raytracer) RenderContext(ctx context.Context, numWorkers int) (*image.RGBA, RenderStats, error) {
	startTime := time.Now()
	img := image.NewRGBA(image.Rect(0, 0, rt.width, rt.height))

	workerPool := NewWorkerPool(rt, numWorkers)
	stats := rt.initRenderStats(workerPool.GetNumWorkers())

	rt.logger.Printf("Rendering %dx%d, %d samples per pixel, max depth %d (using %d workers)...\n",
		rt.width, rt.height, rt.config.SamplesPerPixel, rt.config.MaxDepth, workerPool.GetNumWorkers())

	workerPool.Start(ctx)

	// Submit top scanline first to match the output order
	for j := rt.height - 1; j >= 0; j-- {
		workerPool.SubmitTask(ScanlineTask{Row: j, Image: img})
	}

	var renderErr error
	for i := 0; i < rt.height; i++ {
		result, ok := workerPool.GetResult()
		if !ok {
			renderErr = fmt.Errorf("worker pool closed unexpectedly")
			break
		}
		if result.Error != nil {
			if renderErr == nil {
				renderErr = result.Error
			}
			continue
		}

		stats.TotalSamples += result.Samples
		stats.Scanlines++
		rt.logger.Printf("\rScanlines remaining: %d ", rt.height-stats.Scanlines)
	}

	workerPool.Stop()
	stats.Duration = time.Since(startTime)

	if renderErr != nil {
		rt.logger.Printf("\nRender stopped after %d of %d scanlines: %v\n", stats.Scanlines, rt.height, renderErr)
		return nil, stats, fmt.Errorf("render stopped after %d of %d scanlines: %w", stats.Scanlines, rt.height, renderErr)
	}

	rt.logger.Printf("\nDone.\n")
	return img, stats, nil
}
