package scene

import (
	"github.com/df07/go-normal-raytracer/pkg/core"
	"github.com/df07/go-normal-raytracer/pkg/geometry"
	"github.com/df07/go-normal-raytracer/pkg/renderer"
)

// NewDefaultScene creates the reference scene: one sphere resting on a
// large ground sphere, viewed by the default camera
func NewDefaultScene() *Scene {
	world := geometry.NewHittableList(
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5),
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100),
	)

	return &Scene{
		Name:           "default",
		Camera:         renderer.NewDefaultCamera(),
		World:          world,
		SamplingConfig: renderer.DefaultSamplingConfig(),
	}
}

// NewSingleSphereScene creates a scene with one unit-diameter sphere
// straight ahead of the camera
func NewSingleSphereScene() *Scene {
	return &Scene{
		Name:           "single",
		Camera:         renderer.NewDefaultCamera(),
		World:          geometry.NewHittableList(geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5)),
		SamplingConfig: renderer.DefaultSamplingConfig(),
	}
}

// NewOccludedScene creates two spheres on the view axis where the nearer
// one hides most of the farther one. The far sphere is added first.
func NewOccludedScene() *Scene {
	world := geometry.NewHittableList(
		geometry.NewSphere(core.NewVec3(0, 0, -3), 1),
		geometry.NewSphere(core.NewVec3(0, 0, -1.5), 0.5),
	)

	return &Scene{
		Name:           "occluded",
		Camera:         renderer.NewDefaultCamera(),
		World:          world,
		SamplingConfig: renderer.DefaultSamplingConfig(),
	}
}
