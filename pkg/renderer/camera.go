package renderer

import (
	"github.com/df07/go-normal-raytracer/pkg/core"
)

// Camera generates rays through a fixed image-plane rectangle
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
}

// NewCamera creates a pinhole camera from explicit screen geometry
func NewCamera(origin, lowerLeftCorner, horizontal, vertical core.Vec3) *Camera {
	return &Camera{
		origin:          origin,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
	}
}

// NewDefaultCamera creates the reference camera: eye at the origin looking
// down -z at a 4x2 screen placed at z=-1.
func NewDefaultCamera() *Camera {
	return NewCamera(
		core.NewVec3(0, 0, 0),
		core.NewVec3(-2, -1, -1),
		core.NewVec3(4, 0, 0),
		core.NewVec3(0, 2, 0),
	)
}

// NewCameraForAspect creates a camera with the reference focal length and
// screen height, widened to the given aspect ratio and placed at origin.
func NewCameraForAspect(origin core.Vec3, aspectRatio float32) *Camera {
	viewportHeight := float32(2.0)
	viewportWidth := aspectRatio * viewportHeight
	focalLength := float32(1.0)

	horizontal := core.NewVec3(viewportWidth, 0, 0)
	vertical := core.NewVec3(0, viewportHeight, 0)
	lowerLeftCorner := origin.Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(core.NewVec3(0, 0, focalLength))

	return NewCamera(origin, lowerLeftCorner, horizontal, vertical)
}

// GetRay generates a ray for screen coordinates (u, v) where 0 <= u,v <= 1,
// u running left to right and v bottom to top
func (c *Camera) GetRay(u, v float32) core.Ray {
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(u)).
		Add(c.vertical.Multiply(v)).
		Subtract(c.origin)

	return core.NewRay(c.origin, direction)
}
