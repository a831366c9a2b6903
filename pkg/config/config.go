// Package config loads process settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/df07/go-weekend-raytracer/pkg/output"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// Config holds every setting shared by the CLI and the web server.
// Command line flags override the loaded values.
type Config struct {
	Scene           string
	Width           int
	SamplesPerPixel int
	MaxDepth        int
	Seed            int64
	Workers         int    // 0 = one per CPU
	Format          string // ppm, p6 or png
	Output          string // Empty writes to stdout
	PreviewWidth    int    // 0 disables the preview

	ServerAddress string
	RenderTimeout time.Duration

	S3 S3Config
}

// S3Config holds the settings for publishing renders to S3 compatible storage
type S3Config struct {
	AccessKey     string
	SecretKey     string
	Endpoint      string // Empty uses the AWS endpoint for Region
	Region        string
	Bucket        string
	Prefix        string // Key prefix for uploaded objects
	ACL           string
	UploadTimeout time.Duration
}

// Default returns the settings used when nothing is configured
func Default() *Config {
	sampling := renderer.DefaultSamplingConfig()
	return &Config{
		Scene:           "default",
		Width:           200,
		SamplesPerPixel: sampling.SamplesPerPixel,
		MaxDepth:        sampling.MaxDepth,
		Seed:            42,
		Format:          string(output.FormatPPM),
		ServerAddress:   ":8080",
		RenderTimeout:   2 * time.Minute,
		S3: S3Config{
			Region:        "us-east-1",
			Prefix:        "renders",
			ACL:           "public-read",
			UploadTimeout: 30 * time.Second,
		},
	}
}

// Load reads envFile (if it exists) into the environment and builds a Config
// from the RAYTRACER_* and S3_* variables. Variables already set in the
// environment take precedence over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := Default()
	p := &envParser{}

	cfg.Scene = getEnv("RAYTRACER_SCENE", cfg.Scene)
	cfg.Width = p.intVar("RAYTRACER_WIDTH", cfg.Width)
	cfg.SamplesPerPixel = p.intVar("RAYTRACER_SAMPLES", cfg.SamplesPerPixel)
	cfg.MaxDepth = p.intVar("RAYTRACER_DEPTH", cfg.MaxDepth)
	cfg.Seed = p.int64Var("RAYTRACER_SEED", cfg.Seed)
	cfg.Workers = p.intVar("RAYTRACER_WORKERS", cfg.Workers)
	cfg.Format = getEnv("RAYTRACER_FORMAT", cfg.Format)
	cfg.Output = getEnv("RAYTRACER_OUTPUT", cfg.Output)
	cfg.PreviewWidth = p.intVar("RAYTRACER_PREVIEW_WIDTH", cfg.PreviewWidth)
	cfg.ServerAddress = getEnv("SERVER_ADDRESS", cfg.ServerAddress)
	cfg.RenderTimeout = p.durationVar("RAYTRACER_RENDER_TIMEOUT", cfg.RenderTimeout)

	cfg.S3.AccessKey = getEnv("S3_ACCESS_KEY", cfg.S3.AccessKey)
	cfg.S3.SecretKey = getEnv("S3_SECRET_KEY", cfg.S3.SecretKey)
	cfg.S3.Endpoint = getEnv("S3_ENDPOINT", cfg.S3.Endpoint)
	cfg.S3.Region = getEnv("S3_REGION", cfg.S3.Region)
	cfg.S3.Bucket = getEnv("S3_BUCKET", cfg.S3.Bucket)
	cfg.S3.Prefix = getEnv("S3_PREFIX", cfg.S3.Prefix)
	cfg.S3.ACL = getEnv("S3_ACL", cfg.S3.ACL)
	cfg.S3.UploadTimeout = p.durationVar("S3_UPLOAD_TIMEOUT", cfg.S3.UploadTimeout)

	if len(p.errs) > 0 {
		return nil, errors.Join(p.errs...)
	}
	return cfg, nil
}

// Validate checks the render settings
func (c *Config) Validate() error {
	var errs []error
	if c.Width < 1 {
		errs = append(errs, fmt.Errorf("width must be at least 1, got %d", c.Width))
	}
	if err := c.SamplingConfig().Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if c.PreviewWidth < 0 {
		errs = append(errs, fmt.Errorf("preview width must not be negative, got %d", c.PreviewWidth))
	}
	if _, err := output.ParseFormat(c.Format); err != nil {
		errs = append(errs, err)
	}
	if c.RenderTimeout <= 0 {
		errs = append(errs, fmt.Errorf("render timeout must be positive, got %v", c.RenderTimeout))
	}
	return errors.Join(errs...)
}

// SamplingConfig returns the renderer sampling settings
func (c *Config) SamplingConfig() renderer.SamplingConfig {
	return renderer.SamplingConfig{SamplesPerPixel: c.SamplesPerPixel, MaxDepth: c.MaxDepth}
}

// Enabled reports whether a bucket is configured
func (s S3Config) Enabled() bool {
	return s.Bucket != ""
}

// Validate checks the settings needed to upload
func (s S3Config) Validate() error {
	var errs []error
	if s.Bucket == "" {
		errs = append(errs, errors.New("S3_BUCKET is not set"))
	}
	if s.Region == "" {
		errs = append(errs, errors.New("S3_REGION is not set"))
	}
	if (s.AccessKey == "") != (s.SecretKey == "") {
		errs = append(errs, errors.New("S3_ACCESS_KEY and S3_SECRET_KEY must be set together"))
	}
	if s.UploadTimeout <= 0 {
		errs = append(errs, fmt.Errorf("upload timeout must be positive, got %v", s.UploadTimeout))
	}
	return errors.Join(errs...)
}

// getEnv returns the environment variable or fallback when unset
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// envParser collects conversion errors so all bad variables are reported at once
type envParser struct {
	errs []error
}

func (p *envParser) intVar(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: invalid integer %q", key, value))
		return fallback
	}
	return n
}

func (p *envParser) int64Var(key string, fallback int64) int64 {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: invalid integer %q", key, value))
		return fallback
	}
	return n
}

func (p *envParser) durationVar(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: invalid duration %q", key, value))
		return fallback
	}
	return d
}
