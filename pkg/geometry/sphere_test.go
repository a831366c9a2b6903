package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

func TestSphere_Hit_Miss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, nil)
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
	if isHit {
		t.Errorf("Expected miss, but got hit at t=%f", hit.T)
	}
	if hit != nil {
		t.Errorf("Expected nil hit record on miss, got %v", hit)
	}
}

func TestSphere_Hit_FrontAndBackFace(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, nil)

	tests := []struct {
		name           string
		rayOrigin      core.Vec3
		rayDirection   core.Vec3
		expectedT      float64
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{
			name:           "front face hit",
			rayOrigin:      core.NewVec3(0, 0, 2),
			rayDirection:   core.NewVec3(0, 0, -1),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "back face hit",
			rayOrigin:      core.NewVec3(0, 0, 0),
			rayDirection:   core.NewVec3(0, 0, 1),
			expectedT:      1.0,
			expectedFront:  false,
			expectedNormal: core.NewVec3(0, 0, -1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.rayOrigin, tt.rayDirection)
			hit, isHit := sphere.Hit(ray, 0.001, 1000.0)

			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}

			if math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, hit.T)
			}

			if hit.FrontFace != tt.expectedFront {
				t.Errorf("Expected front face %t, got %t", tt.expectedFront, hit.FrontFace)
			}

			tolerance := 1e-9
			if math.Abs(hit.Normal.X-tt.expectedNormal.X) > tolerance ||
				math.Abs(hit.Normal.Y-tt.expectedNormal.Y) > tolerance ||
				math.Abs(hit.Normal.Z-tt.expectedNormal.Z) > tolerance {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}
		})
	}
}

func TestSphere_Hit_GlancingHit(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, nil)
	ray := core.NewRay(core.NewVec3(1, 0, 2), core.NewVec3(0, 0, -1))

	hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
	if !isHit {
		t.Fatal("Expected glancing hit, but got miss")
	}

	expectedPoint := core.NewVec3(1, 0, 0)
	if hit.Point.Subtract(expectedPoint).Length() > 1e-9 {
		t.Errorf("Expected hit point %v, got %v", expectedPoint, hit.Point)
	}
}

func TestSphere_Hit_Bounds(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, nil)
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	// Test tMax bound
	hit, isHit := sphere.Hit(ray, 0.001, 0.5)
	if isHit {
		t.Errorf("Expected miss due to tMax bound, but got hit at t=%f", hit.T)
	}

	// Test tMin bound
	hit, isHit = sphere.Hit(ray, 3.5, 1000.0)
	if isHit {
		t.Errorf("Expected miss due to tMin bound, but got hit at t=%f", hit.T)
	}

	// Near root excluded by tMin, far root accepted
	hit, isHit = sphere.Hit(ray, 1.5, 1000.0)
	if !isHit {
		t.Fatal("Expected far root hit, got miss")
	}
	if math.Abs(hit.T-3.0) > 1e-9 {
		t.Errorf("Expected far root t=3, got t=%f", hit.T)
	}
	if hit.FrontFace {
		t.Error("Expected far root to be a back face hit")
	}

	// Bounds are inclusive
	if _, isHit = sphere.Hit(ray, 0.001, 1.0); !isHit {
		t.Error("Expected hit exactly at tMax")
	}
}

func TestSphere_Hit_DirectlyAtCenter(t *testing.T) {
	tests := []struct {
		name   string
		center core.Vec3
		radius float64
		origin core.Vec3
	}{
		{"axis aligned", core.NewVec3(0, 0, -5), 1.0, core.NewVec3(0, 0, 0)},
		{"diagonal", core.NewVec3(3, -2, 7), 0.5, core.NewVec3(-1, 4, 2)},
		{"large sphere", core.NewVec3(0, -100.5, -1), 100, core.NewVec3(0, 50, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sphere := NewSphere(tt.center, tt.radius, nil)
			toCenter := tt.center.Subtract(tt.origin)
			distance := toCenter.Length()

			// Unit direction makes t equal to distance along the ray
			ray := core.NewRay(tt.origin, toCenter.UnitVector())
			hit, isHit := sphere.Hit(ray, 0.001, math.Inf(1))
			if !isHit {
				t.Fatal("Expected hit for ray aimed at center")
			}
			if math.Abs(hit.T-(distance-tt.radius)) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", distance-tt.radius, hit.T)
			}
		})
	}
}

func TestSphere_Hit_Properties(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	sampler := core.NewRandomSampler(random)

	for i := 0; i < 2000; i++ {
		center := core.RandomVec3InRange(sampler, -5, 5)
		radius := 0.1 + 2*random.Float64()
		sphere := NewSphere(center, radius, nil)

		origin := core.RandomVec3InRange(sampler, -10, 10)
		direction := core.RandomVec3InRange(sampler, -1, 1)
		if direction.LengthSquared() == 0 {
			continue
		}
		ray := core.NewRay(origin, direction)

		tMin, tMax := 0.001, 5+20*random.Float64()
		hit, isHit := sphere.Hit(ray, tMin, tMax)
		if !isHit {
			continue
		}

		if math.Abs(hit.Normal.Length()-1) > 1e-9 {
			t.Fatalf("Normal not unit length: %f", hit.Normal.Length())
		}
		if hit.T < tMin || hit.T > tMax {
			t.Fatalf("t=%f outside [%f, %f]", hit.T, tMin, tMax)
		}
		if hit.FrontFace && hit.Normal.Dot(ray.Direction) >= 0 {
			t.Fatalf("Front face normal does not oppose ray direction")
		}
		if !hit.FrontFace && hit.Normal.Dot(ray.Direction) > 0 {
			t.Fatalf("Back face normal should be flipped against the ray")
		}
	}
}

func TestSphere_Validate(t *testing.T) {
	tests := []struct {
		name      string
		sphere    *Sphere
		expectErr bool
	}{
		{"valid", NewSphere(core.NewVec3(0, 0, -1), 0.5, nil), false},
		{"zero radius", NewSphere(core.NewVec3(0, 0, -1), 0, nil), true},
		{"negative radius", NewSphere(core.NewVec3(0, 0, -1), -1, nil), true},
		{"NaN radius", NewSphere(core.NewVec3(0, 0, -1), math.NaN(), nil), true},
		{"infinite center", NewSphere(core.NewVec3(math.Inf(1), 0, 0), 1, nil), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sphere.Validate()
			if (err != nil) != tt.expectErr {
				t.Errorf("Expected error=%t, got %v", tt.expectErr, err)
			}
		})
	}
}
