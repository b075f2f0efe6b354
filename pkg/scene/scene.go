package scene

import (
	"github.com/df07/go-normal-raytracer/pkg/core"
	"github.com/df07/go-normal-raytracer/pkg/geometry"
	"github.com/df07/go-normal-raytracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	Camera         *renderer.Camera
	World          *geometry.HittableList   // Objects in the scene
	SamplingConfig renderer.SamplingConfig // Scene defaults; callers may override fields
}

// NewGroundSphere creates the large sphere used as a ground plane,
// touching y = top at x = center.X, z = center.Z
func NewGroundSphere(center core.Vec3, top, radius float32) *geometry.Sphere {
	return geometry.NewSphere(core.NewVec3(center.X, top-radius, center.Z), radius)
}

// NewRaytracer creates a raytracer for the scene using the given sampling
// configuration
func (s *Scene) NewRaytracer(config renderer.SamplingConfig, logger core.Logger) *renderer.Raytracer {
	return renderer.NewRaytracer(s.World, s.Camera, config, logger)
}

// GetPrimitiveCount returns the number of leaf objects, looking inside
// nested lists
func (s *Scene) GetPrimitiveCount() int {
	return countPrimitives(s.World)
}

func countPrimitives(obj core.Hittable) int {
	switch o := obj.(type) {
	case *geometry.HittableList:
		count := 0
		for _, child := range o.Objects() {
			count += countPrimitives(child)
		}
		return count
	default:
		return 1
	}
}
