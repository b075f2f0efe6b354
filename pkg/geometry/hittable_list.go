package geometry

import "github.com/df07/go-normal-raytracer/pkg/core"

// HittableList is an ordered collection of hittables that is itself
// hittable. It reports the nearest hit across all members.
type HittableList struct {
	objects []core.Hittable
}

// NewHittableList creates a list holding the given objects in order
func NewHittableList(objects ...core.Hittable) *HittableList {
	return &HittableList{objects: append([]core.Hittable(nil), objects...)}
}

// Add appends an object to the list
func (l *HittableList) Add(object core.Hittable) {
	l.objects = append(l.objects, object)
}

// Len returns the number of objects in the list
func (l *HittableList) Len() int {
	return len(l.objects)
}

// Objects returns the members in insertion order
func (l *HittableList) Objects() []core.Hittable {
	return l.objects
}

// Hit returns the nearest hit among all members. Every hit shrinks the
// upper bound for the members tested after it, so a farther object can
// never replace a nearer one regardless of insertion order.
func (l *HittableList) Hit(ray core.Ray, tMin, tMax float32) (core.HitRecord, bool) {
	var closestHit core.HitRecord
	closestSoFar := tMax
	hitAnything := false

	for _, object := range l.objects {
		if hit, isHit := object.Hit(ray, tMin, closestSoFar); isHit {
			hitAnything = true
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, hitAnything
}
