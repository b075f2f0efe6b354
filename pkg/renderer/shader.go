package renderer

import (
	"github.com/chewxy/math32"

	"github.com/df07/go-normal-raytracer/pkg/core"
)

// Shader maps a camera ray to a color
type Shader interface {
	Shade(ray core.Ray, world core.Hittable) core.Vec3
}

// NormalShader colors hits by their surface normal and misses by a
// vertical background gradient. It has no lights and casts no secondary
// rays.
type NormalShader struct {
	TopColor    core.Vec3 // Background color straight up
	BottomColor core.Vec3 // Background color straight down
}

// DefaultNormalShader returns a shader with a light blue sky fading to white
func DefaultNormalShader() *NormalShader {
	return &NormalShader{
		TopColor:    core.NewVec3(0.5, 0.7, 1.0),
		BottomColor: core.NewVec3(1.0, 1.0, 1.0),
	}
}

// Shade returns 0.5*(normal+1) for the nearest hit in (0, +Inf], or the
// background gradient on a miss
func (s *NormalShader) Shade(ray core.Ray, world core.Hittable) core.Vec3 {
	if hit, isHit := world.Hit(ray, 0, math32.Inf(1)); isHit {
		return hit.Normal.Add(core.NewVec3(1, 1, 1)).Multiply(0.5)
	}
	return s.Background(ray)
}

// Background returns the gradient color for a ray that hit nothing
func (s *NormalShader) Background(ray core.Ray) core.Vec3 {
	unitDirection := ray.Direction.Normalize()

	// Map y from [-1,1] to [0,1]
	t := 0.5 * (unitDirection.Y + 1.0)

	return s.BottomColor.Lerp(s.TopColor, t)
}
