package renderer

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"runtime"
	"time"

	"github.com/df07/go-normal-raytracer/pkg/core"
)

// ErrInvalidConfig is returned when a sampling configuration cannot be rendered
var ErrInvalidConfig = errors.New("invalid sampling config")

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width           int   // Image width in pixels
	Height          int   // Image height in pixels
	SamplesPerPixel int   // Number of rays averaged per pixel
	Jitter          bool  // Add random sub-pixel offsets to each sample
	Seed            int64 // Base seed for the per-row generators
	NumWorkers      int   // Parallel workers (0 = use CPU count)
}

// DefaultSamplingConfig returns the reference settings
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:           200,
		Height:          100,
		SamplesPerPixel: 100,
		Jitter:          true,
		Seed:            42,
		NumWorkers:      0,
	}
}

// Validate checks that the configuration describes a renderable image
func (c SamplingConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: image size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.SamplesPerPixel <= 0 {
		return fmt.Errorf("%w: %d samples per pixel", ErrInvalidConfig, c.SamplesPerPixel)
	}
	if c.NumWorkers < 0 {
		return fmt.Errorf("%w: %d workers", ErrInvalidConfig, c.NumWorkers)
	}
	return nil
}

// Raytracer casts camera rays into a world and hands quantized pixels to
// an encoder. The world, camera and shader are only read while rendering.
type Raytracer struct {
	world  core.Hittable
	camera *Camera
	shader Shader
	config SamplingConfig
	logger core.Logger
}

// NewRaytracer creates a new raytracer using the normal-visualization shader
func NewRaytracer(world core.Hittable, camera *Camera, config SamplingConfig, logger core.Logger) *Raytracer {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Raytracer{
		world:  world,
		camera: camera,
		shader: DefaultNormalShader(),
		config: config,
		logger: logger,
	}
}

// SetShader replaces the shader used for every sample
func (rt *Raytracer) SetShader(shader Shader) {
	rt.shader = shader
}

// SetSamplingConfig updates the sampling configuration
func (rt *Raytracer) SetSamplingConfig(config SamplingConfig) {
	rt.config = config
}

// GetSamplingConfig returns the current sampling configuration
func (rt *Raytracer) GetSamplingConfig() SamplingConfig {
	return rt.config
}

// rowSampler returns the generator owned by one image row. Seeding per row
// makes the output independent of how rows are spread across workers.
func (rt *Raytracer) rowSampler(row int) core.Sampler {
	return core.NewRandomSampler(rand.New(rand.NewSource(rt.config.Seed<<20 ^ int64(row))))
}

// SamplePixel returns the averaged color of pixel (i, j), where j counts
// rows from the bottom of the image
func (rt *Raytracer) SamplePixel(i, j int, sampler core.Sampler) core.Vec3 {
	var ps PixelStats
	width := float32(rt.config.Width)
	height := float32(rt.config.Height)

	for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
		var offset core.Vec2
		if rt.config.Jitter {
			offset = sampler.Get2D()
		}

		u := (float32(i) + offset.X) / width
		v := (float32(j) + offset.Y) / height

		ps.AddSample(rt.shader.Shade(rt.camera.GetRay(u, v), rt.world))
	}

	return ps.GetColor()
}

// RenderRow renders image row j (counted from the bottom) into dst, which
// must hold Width pixels
func (rt *Raytracer) RenderRow(j int, dst []core.RGB, sampler core.Sampler) RenderStats {
	stats := RenderStats{}
	for i := 0; i < rt.config.Width; i++ {
		color := rt.SamplePixel(i, j, sampler)
		if !color.IsFinite() {
			stats.NonFinitePixels++
		}
		dst[i] = ToRGB(color)
		stats.TotalPixels++
		stats.TotalSamples += rt.config.SamplesPerPixel
	}
	return stats
}

// Render renders the image on the calling goroutine, emitting rows from
// top to bottom and pixels from left to right
func (rt *Raytracer) Render(encoder core.ImageEncoder) (RenderStats, error) {
	if err := rt.config.Validate(); err != nil {
		return RenderStats{}, err
	}

	startTime := time.Now()
	rt.logger.Printf("Rendering %dx%d at %d samples per pixel...\n",
		rt.config.Width, rt.config.Height, rt.config.SamplesPerPixel)

	if err := encoder.Begin(rt.config.Width, rt.config.Height); err != nil {
		return RenderStats{}, fmt.Errorf("failed to begin image: %w", err)
	}

	stats := RenderStats{}
	row := make([]core.RGB, rt.config.Width)
	for j := rt.config.Height - 1; j >= 0; j-- {
		stats.Merge(rt.RenderRow(j, row, rt.rowSampler(j)))
		if err := writeRow(encoder, row); err != nil {
			return stats, err
		}
	}

	if err := encoder.End(); err != nil {
		return stats, fmt.Errorf("failed to finish image: %w", err)
	}

	rt.logStats(stats, time.Since(startTime))
	return stats, nil
}

// RenderParallel renders rows on a worker pool and emits them to the
// encoder in the same order as Render. Output is bit-identical to Render
// for the same configuration. Cancelling ctx abandons the render.
func (rt *Raytracer) RenderParallel(ctx context.Context, encoder core.ImageEncoder) (RenderStats, error) {
	if err := rt.config.Validate(); err != nil {
		return RenderStats{}, err
	}

	numWorkers := rt.config.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	height := rt.config.Height

	startTime := time.Now()
	rt.logger.Printf("Rendering %dx%d at %d samples per pixel (using %d workers)...\n",
		rt.config.Width, height, rt.config.SamplesPerPixel, numWorkers)

	if err := encoder.Begin(rt.config.Width, height); err != nil {
		return RenderStats{}, fmt.Errorf("failed to begin image: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	pool := NewWorkerPool(ctx, rt, height, numWorkers)
	pool.Start()
	defer func() {
		cancel() // Skip rows not yet started if we return early
		pool.Stop()
	}()

	// Task IDs follow output order: task 0 is the top row
	for taskID := 0; taskID < height; taskID++ {
		pool.SubmitTask(RowTask{TaskID: taskID, Row: height - 1 - taskID})
	}

	stats := RenderStats{}
	pending := make(map[int][]core.RGB)
	next := 0
	for received := 0; received < height; received++ {
		result, ok := pool.GetResult()
		if !ok {
			return stats, fmt.Errorf("worker pool closed unexpectedly")
		}
		if result.Error != nil {
			return stats, result.Error
		}
		stats.Merge(result.Stats)
		pending[result.TaskID] = result.Pixels

		// Flush every row whose predecessors have all been written
		for pixels, ready := pending[next]; ready; pixels, ready = pending[next] {
			if err := writeRow(encoder, pixels); err != nil {
				return stats, err
			}
			delete(pending, next)
			next++
		}
	}

	if err := encoder.End(); err != nil {
		return stats, fmt.Errorf("failed to finish image: %w", err)
	}

	rt.logStats(stats, time.Since(startTime))
	return stats, nil
}

func writeRow(encoder core.ImageEncoder, row []core.RGB) error {
	for _, pixel := range row {
		if err := encoder.WritePixel(pixel); err != nil {
			return fmt.Errorf("failed to write pixel: %w", err)
		}
	}
	return nil
}

func (rt *Raytracer) logStats(stats RenderStats, elapsed time.Duration) {
	rt.logger.Printf("Render completed in %v (%d pixels, %.1f samples/pixel)\n",
		elapsed, stats.TotalPixels, stats.AverageSamples())
	if stats.NonFinitePixels > 0 {
		rt.logger.Printf("Warning: %d pixels had non-finite color (degenerate geometry?)\n",
			stats.NonFinitePixels)
	}
}
