package renderer

import (
	"fmt"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// CameraConfig describes the fixed pinhole viewport
type CameraConfig struct {
	AspectRatio    float64 // Viewport width / height
	ViewportHeight float64 // Viewport height in world units, a field-of-view proxy
	FocalLength    float64 // Distance from the eye to the viewport plane
}

// DefaultCameraConfig returns a 16:9 viewport two units tall, one unit away
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		AspectRatio:    16.0 / 9.0,
		ViewportHeight: 2.0,
		FocalLength:    1.0,
	}
}

// Validate checks that every dimension is positive
func (c CameraConfig) Validate() error {
	if !(c.AspectRatio > 0) || !(c.ViewportHeight > 0) || !(c.FocalLength > 0) {
		return fmt.Errorf("camera aspect ratio, viewport height and focal length must be positive: %+v", c)
	}
	return nil
}

// Camera generates rays for rendering
type Camera struct {
	origin          core.Point3
	lowerLeftCorner core.Point3
	horizontal      core.Vec3
	vertical        core.Vec3
}

// NewCamera creates a camera at the origin looking down -Z
func NewCamera(config CameraConfig) *Camera {
	viewportWidth := config.AspectRatio * config.ViewportHeight

	origin := core.NewVec3(0, 0, 0)
	horizontal := core.NewVec3(viewportWidth, 0, 0)
	vertical := core.NewVec3(0, config.ViewportHeight, 0)
	lowerLeftCorner := origin.Subtract(horizontal.Divide(2)).
		Subtract(vertical.Divide(2)).
		Subtract(core.NewVec3(0, 0, config.FocalLength))

	return &Camera{
		origin:          origin,
		horizontal:      horizontal,
		vertical:        vertical,
		lowerLeftCorner: lowerLeftCorner,
	}
}

// GetRay generates a ray for screen coordinates (u, v) where 0 <= u,v <= 1,
// u running left to right and v bottom to top
func (c *Camera) GetRay(u, v float64) core.Ray {
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(u)).
		Add(c.vertical.Multiply(v)).
		Subtract(c.origin)

	return core.NewRay(c.origin, direction)
}

// Origin returns the eye position
func (c *Camera) Origin() core.Point3 {
	return c.origin
}

// LowerLeftCorner returns the world position of the viewport's lower left corner
func (c *Camera) LowerLeftCorner() core.Point3 {
	return c.lowerLeftCorner
}
