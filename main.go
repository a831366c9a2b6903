package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/df07/go-weekend-raytracer/pkg/config"
	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/output"
	"github.com/df07/go-weekend-raytracer/pkg/publish"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
	"github.com/df07/go-weekend-raytracer/pkg/scene"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run renders one image. The image goes to stdout unless -out is given;
// progress and summaries always go to stderr.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	envFile := os.Getenv("RAYTRACER_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	cfg, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	// Flags override environment values
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.Scene, "scene", cfg.Scene, "Scene name (see -list)")
	fs.IntVar(&cfg.Width, "width", cfg.Width, "Image width in pixels; height follows the camera aspect ratio")
	fs.IntVar(&cfg.SamplesPerPixel, "samples", cfg.SamplesPerPixel, "Samples per pixel")
	fs.IntVar(&cfg.MaxDepth, "depth", cfg.MaxDepth, "Maximum bounces per path")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed; equal seeds give identical images")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Number of render goroutines (0 = one per CPU)")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "Output format: ppm, p6 or png")
	fs.StringVar(&cfg.Output, "out", cfg.Output, "Output file (default stdout)")
	fs.IntVar(&cfg.PreviewWidth, "preview", cfg.PreviewWidth, "Also write a PNG preview at most this wide (requires -out or -upload)")
	upload := fs.Bool("upload", false, "Upload the render to S3 (configure with S3_* variables)")
	list := fs.Bool("list", false, "List available scenes and exit")
	quiet := fs.Bool("quiet", false, "Suppress progress output")
	help := fs.Bool("help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if *help {
		printHelp(stdout, fs)
		return nil
	}
	if *list {
		return listScenes(stdout)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if *upload {
		if err := cfg.S3.Validate(); err != nil {
			return fmt.Errorf("invalid S3 configuration: %w", err)
		}
	}
	format, _ := output.ParseFormat(cfg.Format)

	selectedScene, err := createScene(cfg.Scene)
	if err != nil {
		return err
	}
	selectedScene.SetWidth(cfg.Width)
	selectedScene.SamplingConfig = cfg.SamplingConfig()

	var logger core.Logger = renderer.NewWriterLogger(stderr)
	if *quiet {
		logger = renderer.NopLogger{}
	}

	raytracer := selectedScene.NewRaytracer()
	raytracer.SetSeed(cfg.Seed)
	raytracer.SetLogger(logger)

	img, stats, err := raytracer.RenderContext(ctx, cfg.Workers)
	if err != nil {
		return err
	}

	logger.Printf("Render completed in %v (%dx%d, %d samples, %d workers, average luminance %.3f)\n",
		stats.Duration.Round(time.Millisecond), img.Bounds().Dx(), img.Bounds().Dy(),
		stats.TotalSamples, stats.Workers, renderer.CalculateAverageLuminance(img))

	var preview *image.RGBA
	if cfg.PreviewWidth > 0 {
		preview = output.Preview(img, cfg.PreviewWidth)
	}

	if cfg.Output == "" {
		if err := output.Encode(stdout, img, format); err != nil {
			return err
		}
	} else {
		if err := output.SaveFile(cfg.Output, img, format); err != nil {
			return err
		}
		logger.Printf("Render saved as %s\n", cfg.Output)

		if preview != nil {
			previewFile := previewFilename(cfg.Output)
			if err := output.SaveFile(previewFile, preview, output.FormatPNG); err != nil {
				return err
			}
			logger.Printf("Preview saved as %s\n", previewFile)
		}
	}

	if *upload {
		return uploadRender(ctx, cfg, selectedScene.Name, img, preview, format, logger)
	}
	return nil
}

// createScene resolves a scene name, rejecting empty names
func createScene(sceneType string) (*scene.Scene, error) {
	if strings.TrimSpace(sceneType) == "" {
		return nil, errors.New("scene name must not be empty")
	}
	return scene.Lookup(sceneType)
}

// previewFilename turns "out/render.ppm" into "out/render_preview.png"
func previewFilename(filename string) string {
	if dot := strings.LastIndex(filename, "."); dot > strings.LastIndexAny(filename, `/\`) {
		filename = filename[:dot]
	}
	return filename + "_preview.png"
}

func uploadRender(ctx context.Context, cfg *config.Config, sceneName string, img, preview *image.RGBA, format output.Format, logger core.Logger) error {
	publisher, err := publish.NewS3Publisher(cfg.S3, logger)
	if err != nil {
		return err
	}

	width, height := img.Bounds().Dx(), img.Bounds().Dy()
	data, err := output.EncodeBytes(img, format)
	if err != nil {
		return err
	}
	artifacts := []publish.Artifact{{
		Key:         publisher.ObjectKey(sceneName, cfg.Seed, width, height, "", format.Extension()),
		Data:        data,
		ContentType: format.ContentType(),
	}}

	if preview != nil {
		previewData, err := output.EncodeBytes(preview, output.FormatPNG)
		if err != nil {
			return err
		}
		artifacts = append(artifacts, publish.Artifact{
			Key:         publisher.ObjectKey(sceneName, cfg.Seed, width, height, "_preview", output.FormatPNG.Extension()),
			Data:        previewData,
			ContentType: output.FormatPNG.ContentType(),
		})
	}

	return publish.UploadAll(ctx, publisher, artifacts...)
}

func listScenes(w io.Writer) error {
	scenes, err := scene.List()
	if err != nil {
		return err
	}
	for _, info := range scenes {
		fmt.Fprintf(w, "  %-8s %s (%d spheres)\n", info.ID, info.Description, info.Spheres)
	}
	return nil
}

func printHelp(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Weekend Raytracer")
	fmt.Fprintln(w, "Usage: raytracer [options] > image.ppm")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Available scenes:")
	if err := listScenes(w); err != nil {
		fmt.Fprintf(w, "  (failed to list scenes: %v)\n", err)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Settings can also come from RAYTRACER_* and S3_* environment variables or a .env file.")
}
