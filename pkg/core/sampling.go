package core

import (
	"math/rand"
)

// Vec2 holds a pair of sample values
type Vec2 struct {
	X, Y float32
}

// NewVec2 creates a new Vec2
func NewVec2(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

// Sampler provides uniform random values in [0, 1).
// Can be swapped out for deterministic testing.
type Sampler interface {
	Get1D() float32
	Get2D() Vec2
}

// RandomSampler wraps a standard Go random generator. It is not safe for
// concurrent use; give each goroutine its own.
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler with its own generator for the given seed
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Get1D returns a random float32 in [0, 1)
func (r *RandomSampler) Get1D() float32 {
	return r.random.Float32()
}

// Get2D returns two random float32 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float32(), r.random.Float32())
}

// FixedSampler replays a fixed sequence of values, cycling when exhausted.
// An empty sequence always yields 0.
type FixedSampler struct {
	values []float32
	next   int
}

// NewFixedSampler creates a sampler that returns values in order
func NewFixedSampler(values ...float32) *FixedSampler {
	return &FixedSampler{values: values}
}

// Get1D returns the next value in the sequence
func (f *FixedSampler) Get1D() float32 {
	if len(f.values) == 0 {
		return 0
	}
	v := f.values[f.next%len(f.values)]
	f.next++
	return v
}

// Get2D returns the next two values in the sequence
func (f *FixedSampler) Get2D() Vec2 {
	x := f.Get1D()
	return NewVec2(x, f.Get1D())
}
