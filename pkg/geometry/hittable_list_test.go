package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// MockShape implements core.Shape for testing
type MockShape struct {
	hitFn func(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool)
	calls []float64 // tMax seen on each call
}

func (m *MockShape) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	m.calls = append(m.calls, tMax)
	return m.hitFn(ray, tMin, tMax)
}

func fixedHit(t float64) *MockShape {
	return &MockShape{hitFn: func(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
		if t < tMin || t > tMax {
			return nil, false
		}
		return &core.HitRecord{T: t, Point: ray.At(t)}, true
	}}
}

func TestHittableList_Empty(t *testing.T) {
	list := NewHittableList()
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	hit, isHit := list.Hit(ray, 0.001, math.Inf(1))
	if isHit || hit != nil {
		t.Errorf("Expected miss on empty list, got %v", hit)
	}
}

func TestHittableList_NearestAcrossOverlappingSpheres(t *testing.T) {
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	far := NewSphere(core.NewVec3(0, 0, -5), 1.0, nil)  // near root t=4
	near := NewSphere(core.NewVec3(0, 0, -3), 1.5, nil) // near root t=1.5

	// Order must not matter
	orders := map[string]*HittableList{
		"far first":  NewHittableList(far, near),
		"near first": NewHittableList(near, far),
	}

	for name, list := range orders {
		t.Run(name, func(t *testing.T) {
			hit, isHit := list.Hit(ray, 0.001, math.Inf(1))
			if !isHit {
				t.Fatal("Expected hit")
			}
			if math.Abs(hit.T-1.5) > 1e-9 {
				t.Errorf("Expected nearest t=1.5, got t=%f", hit.T)
			}
		})
	}
}

func TestHittableList_ShrinksUpperBound(t *testing.T) {
	first := fixedHit(5)
	second := fixedHit(2)
	third := fixedHit(3)
	list := NewHittableList(first, second, third)

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	hit, isHit := list.Hit(ray, 0.001, 100)
	if !isHit {
		t.Fatal("Expected hit")
	}
	if hit.T != 2 {
		t.Errorf("Expected t=2, got t=%f", hit.T)
	}

	expectedBounds := []float64{100, 5, 2}
	for i, shape := range []*MockShape{first, second, third} {
		if len(shape.calls) != 1 || shape.calls[0] != expectedBounds[i] {
			t.Errorf("Shape %d: expected tMax %f, got %v", i, expectedBounds[i], shape.calls)
		}
	}
}

func TestHittableList_MissEverything(t *testing.T) {
	list := NewHittableList(
		NewSphere(core.NewVec3(0, 0, -1), 0.5, nil),
		NewSphere(core.NewVec3(0, -100.5, -1), 100, nil),
	)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))

	if hit, isHit := list.Hit(ray, 0.001, math.Inf(1)); isHit {
		t.Errorf("Expected miss for upward ray, got t=%f", hit.T)
	}
	if list.Len() != 2 {
		t.Errorf("Expected 2 shapes, got %d", list.Len())
	}
}
