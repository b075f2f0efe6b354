package geometry

import (
	"github.com/chewxy/math32"

	"github.com/df07/go-normal-raytracer/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center core.Vec3
	Radius float32
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float32) *Sphere {
	return &Sphere{
		Center: center,
		Radius: radius,
	}
}

// Hit tests if a ray intersects with the sphere. The nearer root wins when
// both lie in (tMin, tMax], so a ray entering from outside reports the
// near side. A zero radius or zero direction yields NaN and is not trapped.
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float32) (core.HitRecord, bool) {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	b := 2 * oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return core.HitRecord{}, false
	}

	sqrtD := math32.Sqrt(discriminant)

	root := (-b - sqrtD) / (2 * a)
	if !core.InRange(root, tMin, tMax) {
		root = (-b + sqrtD) / (2 * a)
		if !core.InRange(root, tMin, tMax) {
			return core.HitRecord{}, false
		}
	}

	point := ray.At(root)
	return core.HitRecord{
		T:      root,
		Point:  point,
		Normal: point.Subtract(s.Center).Divide(s.Radius),
	}, true
}
