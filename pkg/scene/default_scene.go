package scene

import (
	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/material"
)

// NewDefaultScene creates the two-sphere scene: a small sphere resting on a
// huge ground sphere, both 50% diffuse
func NewDefaultScene() (*Scene, error) {
	return NewBuilder("default").
		AddSphere(core.NewVec3(0, 0, -1), 0.5, nil).
		AddSphere(core.NewVec3(0, -100.5, -1), 100, nil).
		Build()
}

// NewSingleSphereScene creates one diffuse sphere floating in the sky
func NewSingleSphereScene() (*Scene, error) {
	return NewBuilder("single").
		AddSphere(core.NewVec3(0, 0, -1), 0.5, nil).
		Build()
}

// NewMetalScene extends the default scene with a mirror and a brushed gold sphere
func NewMetalScene() (*Scene, error) {
	silver, err := ColorFromName("silver")
	if err != nil {
		return nil, err
	}
	gold, err := ColorFromName("goldenrod")
	if err != nil {
		return nil, err
	}

	return NewBuilder("metal").
		AddSphere(core.NewVec3(0, -100.5, -1), 100, material.NewDiffuse(core.NewVec3(0.8, 0.8, 0.0).Multiply(0.6))).
		AddSphere(core.NewVec3(0, 0, -1), 0.5, nil).
		AddSphere(core.NewVec3(-1, 0, -1), 0.5, material.NewMetal(silver, 0.0)).
		AddSphere(core.NewVec3(1, 0, -1), 0.5, material.NewMetal(gold, 0.3)).
		Build()
}
