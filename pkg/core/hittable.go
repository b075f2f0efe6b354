package core

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	T      float32 // Parameter t along the ray
	Point  Vec3    // Point of intersection
	Normal Vec3    // Outward surface normal at intersection
}

// Hittable is anything a ray can be tested against. A hit is reported only
// when its parameter lies in the half-open interval (tMin, tMax].
type Hittable interface {
	Hit(ray Ray, tMin, tMax float32) (HitRecord, bool)
}

// InRange reports whether t lies in (tMin, tMax]. Excluding tMin keeps a
// ray leaving a surface at t=0 from hitting that surface again.
func InRange(t, tMin, tMax float32) bool {
	return t > tMin && t <= tMax
}
