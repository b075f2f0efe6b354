package scene

import (
	"github.com/df07/go-normal-raytracer/pkg/core"
	"github.com/df07/go-normal-raytracer/pkg/geometry"
	"github.com/df07/go-normal-raytracer/pkg/renderer"
)

const (
	gridColumns = 10
	gridRows    = 5
)

// NewSphereGridScene creates a scene with a 10x5 grid of spheres filling
// the view, above a ground sphere
func NewSphereGridScene() *Scene {
	world := geometry.NewHittableList()

	// Grid spans x in [-3.6, 3.6] and y in [-0.6, 2.6] at z around -2.5
	spacing := float32(0.8)
	radius := float32(0.3)
	for row := 0; row < gridRows; row++ {
		for col := 0; col < gridColumns; col++ {
			x := -3.6 + float32(col)*spacing
			y := -0.6 + float32(row)*spacing
			z := -2.5 - 0.25*float32((row+col)%3) // Stagger depth so normals vary
			world.Add(geometry.NewSphere(core.NewVec3(x, y, z), radius))
		}
	}

	// Ground is its own list so the grid and floor can be counted separately
	ground := geometry.NewHittableList(NewGroundSphere(core.NewVec3(0, 0, -2.5), -1, 1000))
	world.Add(ground)

	sampling := renderer.DefaultSamplingConfig()
	sampling.Width = 400
	sampling.Height = 200
	sampling.SamplesPerPixel = 16

	return &Scene{
		Name:           "spheregrid",
		Camera:         renderer.NewCameraForAspect(core.NewVec3(0, 1, 1), 2),
		World:          world,
		SamplingConfig: sampling,
	}
}
