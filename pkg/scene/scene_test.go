package scene

import (
	"math"
	"strings"
	"testing"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

func TestImageHeight(t *testing.T) {
	tests := []struct {
		width    int
		aspect   float64
		expected int
	}{
		{200, 16.0 / 9.0, 112},
		{400, 16.0 / 9.0, 225},
		{100, 1.0, 100},
		{1, 16.0 / 9.0, 1}, // never zero scanlines
	}

	for _, tt := range tests {
		if got := ImageHeight(tt.width, tt.aspect); got != tt.expected {
			t.Errorf("ImageHeight(%d, %f) = %d, want %d", tt.width, tt.aspect, got, tt.expected)
		}
	}
}

func TestNewDefaultScene(t *testing.T) {
	s, err := NewDefaultScene()
	if err != nil {
		t.Fatalf("NewDefaultScene failed: %v", err)
	}

	if s.Width != 200 || s.Height != 112 {
		t.Errorf("Expected 200x112, got %dx%d", s.Width, s.Height)
	}
	if s.SamplingConfig != renderer.DefaultSamplingConfig() {
		t.Errorf("Expected default sampling config, got %+v", s.SamplingConfig)
	}

	// A ray straight down the view axis hits the small sphere at z = -0.5
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	hit, ok := s.World.Hit(ray, 0.001, math.Inf(1))
	if !ok {
		t.Fatal("Expected center ray to hit the small sphere")
	}
	if math.Abs(hit.T-0.5) > 1e-9 {
		t.Errorf("Expected hit at t=0.5, got %f", hit.T)
	}

	// Looking straight down from z=2 lands on the ground sphere 3 units off its axis
	down := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, -1, 0))
	hit, ok = s.World.Hit(down, 0.001, math.Inf(1))
	if !ok {
		t.Fatal("Expected downward ray to hit the ground")
	}
	expectedY := -100.5 + math.Sqrt(100*100-3*3)
	if math.Abs(hit.Point.Y-expectedY) > 1e-6 {
		t.Errorf("Expected ground hit at y=%f, got %f", expectedY, hit.Point.Y)
	}
}

func TestScene_SetWidth(t *testing.T) {
	s, err := NewSingleSphereScene()
	if err != nil {
		t.Fatalf("NewSingleSphereScene failed: %v", err)
	}

	s.SetWidth(32)
	if s.Width != 32 || s.Height != 18 {
		t.Errorf("Expected 32x18, got %dx%d", s.Width, s.Height)
	}

	rt := s.NewRaytracer()
	if rt.Width() != 32 || rt.Height() != 18 {
		t.Errorf("Expected raytracer 32x18, got %dx%d", rt.Width(), rt.Height())
	}
}

func TestBuilder_Errors(t *testing.T) {
	_, err := NewBuilder("broken").
		AddSphere(core.NewVec3(0, 0, -1), -1, nil).
		AddSphere(core.NewVec3(0, 0, -1), 0.5, nil).
		WithSampling(renderer.SamplingConfig{SamplesPerPixel: 0, MaxDepth: 50}).
		WithWidth(0).
		Build()
	if err == nil {
		t.Fatal("Expected build error")
	}

	msg := err.Error()
	for _, want := range []string{`scene "broken"`, "sphere 0", "width"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Expected error to mention %q, got %v", want, msg)
		}
	}
}

func TestBuilder_WithCamera(t *testing.T) {
	config := renderer.CameraConfig{AspectRatio: 2, ViewportHeight: 2, FocalLength: 1}
	s, err := NewBuilder("wide").
		AddSphere(core.NewVec3(0, 0, -1), 0.5, nil).
		WithCamera(config).
		WithWidth(50).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if s.Height != 25 {
		t.Errorf("Expected height 25, got %d", s.Height)
	}
	if s.CameraConfig != config {
		t.Errorf("Expected camera config %+v, got %+v", config, s.CameraConfig)
	}
}

func TestColorFromName(t *testing.T) {
	c, err := ColorFromName("White")
	if err != nil {
		t.Fatalf("ColorFromName failed: %v", err)
	}
	if c != core.NewVec3(1, 1, 1) {
		t.Errorf("Expected white, got %v", c)
	}

	c, err = ColorFromName("skyblue") // 135, 206, 235
	if err != nil {
		t.Fatalf("ColorFromName failed: %v", err)
	}
	if math.Abs(c.X-135.0/255) > 1e-12 || math.Abs(c.Z-235.0/255) > 1e-12 {
		t.Errorf("Unexpected skyblue %v", c)
	}

	if _, err := ColorFromName("not-a-color"); err == nil {
		t.Error("Expected error for unknown color")
	}
}
