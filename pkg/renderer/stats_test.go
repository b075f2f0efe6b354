package renderer

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/df07/go-normal-raytracer/pkg/core"
)

func TestPixelStats_Average(t *testing.T) {
	var ps PixelStats
	if ps.GetColor() != (core.Vec3{}) {
		t.Errorf("Expected black for empty pixel, got %v", ps.GetColor())
	}

	ps.AddSample(core.NewVec3(1, 0, 0.5))
	ps.AddSample(core.NewVec3(0, 1, 0.5))

	if ps.SampleCount != 2 {
		t.Errorf("Expected 2 samples, got %d", ps.SampleCount)
	}
	if got := ps.GetColor(); got != core.NewVec3(0.5, 0.5, 0.5) {
		t.Errorf("Expected (0.5, 0.5, 0.5), got %v", got)
	}
}

func TestRenderStats_Merge(t *testing.T) {
	stats := RenderStats{TotalPixels: 2, TotalSamples: 8}
	stats.Merge(RenderStats{TotalPixels: 2, TotalSamples: 4, NonFinitePixels: 1})

	if stats.TotalPixels != 4 || stats.TotalSamples != 12 || stats.NonFinitePixels != 1 {
		t.Errorf("Unexpected merged stats: %+v", stats)
	}
	if stats.AverageSamples() != 3 {
		t.Errorf("Expected 3 samples per pixel, got %f", stats.AverageSamples())
	}
	if (RenderStats{}).AverageSamples() != 0 {
		t.Error("Expected zero average for empty stats")
	}
}

func TestToRGB(t *testing.T) {
	tests := []struct {
		name     string
		color    core.Vec3
		expected core.RGB
	}{
		{"black", core.NewVec3(0, 0, 0), core.RGB{R: 0, G: 0, B: 0}},
		{"white", core.NewVec3(1, 1, 1), core.RGB{R: 255, G: 255, B: 255}},
		{"half floors down", core.NewVec3(0.5, 0.25, 0.75), core.RGB{R: 127, G: 63, B: 191}},
		{"above range clamps", core.NewVec3(1.01, 2, 0), core.RGB{R: 255, G: 255, B: 0}},
		{"below range clamps", core.NewVec3(-0.1, 0, 0), core.RGB{R: 0, G: 0, B: 0}},
		{"nan becomes zero", core.NewVec3(math32.NaN(), 1, math32.Inf(1)), core.RGB{R: 0, G: 255, B: 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToRGB(tt.color); got != tt.expected {
				t.Errorf("Expected %+v, got %+v", tt.expected, got)
			}
		})
	}
}
