package renderer

import (
	"github.com/chewxy/math32"

	"github.com/df07/go-normal-raytracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels     int // Total number of pixels rendered
	TotalSamples    int // Total number of samples taken
	NonFinitePixels int // Pixels whose averaged color contained NaN or Inf
}

// Merge adds another set of statistics to this one
func (s *RenderStats) Merge(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.TotalSamples += other.TotalSamples
	s.NonFinitePixels += other.NonFinitePixels
}

// AverageSamples returns the mean number of samples per pixel
func (s RenderStats) AverageSamples() float64 {
	if s.TotalPixels == 0 {
		return 0
	}
	return float64(s.TotalSamples) / float64(s.TotalPixels)
}

// PixelStats accumulates the samples of a single pixel
type PixelStats struct {
	ColorAccum  core.Vec3 // RGB accumulator for final result
	SampleCount int       // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum.AddAssign(color)
	ps.SampleCount++
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}
	return ps.ColorAccum.Divide(float32(ps.SampleCount))
}

// ToRGB quantizes a color in [0,1] to 8 bits per channel as
// floor(255.99*c). Out-of-range results are clamped to [0,255] and NaN
// becomes 0.
func ToRGB(color core.Vec3) core.RGB {
	return core.RGB{
		R: quantize(color.X),
		G: quantize(color.Y),
		B: quantize(color.Z),
	}
}

func quantize(c float32) uint8 {
	if math32.IsNaN(c) {
		return 0
	}
	v := math32.Floor(255.99 * c)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
