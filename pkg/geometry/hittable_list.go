package geometry

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
)

// HittableList is an ordered collection of shapes hit-tested as one
type HittableList struct {
	Shapes []core.Shape
}

// NewHittableList creates a list holding the given shapes in order
func NewHittableList(shapes ...core.Shape) *HittableList {
	list := &HittableList{}
	for _, shape := range shapes {
		list.Add(shape)
	}
	return list
}

// Add appends a shape to the list
func (l *HittableList) Add(shape core.Shape) {
	l.Shapes = append(l.Shapes, shape)
}

// Len returns the number of shapes in the list
func (l *HittableList) Len() int {
	return len(l.Shapes)
}

// Hit returns the nearest intersection across all shapes.
// Each accepted hit shrinks the upper bound so later shapes can only win
// with a closer root.
func (l *HittableList) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	var closestHit *core.HitRecord
	closestSoFar := tMax
	hitAnything := false

	for _, shape := range l.Shapes {
		if hit, isHit := shape.Hit(ray, tMin, closestSoFar); isHit {
			hitAnything = true
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, hitAnything
}
