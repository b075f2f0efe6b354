package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/df07/go-normal-raytracer/pkg/config"
	"github.com/df07/go-normal-raytracer/pkg/core"
	"github.com/df07/go-normal-raytracer/pkg/output"
	"github.com/df07/go-normal-raytracer/pkg/renderer"
	"github.com/df07/go-normal-raytracer/pkg/scene"
)

// options holds the parsed command line. Zero sizes and sample counts mean
// "use the scene's default".
type options struct {
	scene   string
	width   int
	height  int
	samples int
	jitter  bool
	seed    int64
	workers int
	format  string
	out     string
	thumb   uint
	upload  bool
	help    bool
}

func parseFlags(args []string, cfg *config.Config, stderr io.Writer) (*options, *flag.FlagSet, error) {
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.scene, "scene", "default", "Scene name (see -help for the list)")
	fs.IntVar(&opts.width, "width", 0, "Image width (0 = scene default)")
	fs.IntVar(&opts.height, "height", 0, "Image height (0 = scene default)")
	fs.IntVar(&opts.samples, "samples", 0, "Samples per pixel (0 = scene default)")
	fs.BoolVar(&opts.jitter, "jitter", true, "Jitter samples within each pixel")
	fs.Int64Var(&opts.seed, "seed", cfg.Seed, "Random seed for jittered sampling")
	fs.IntVar(&opts.workers, "workers", cfg.Workers, "Number of parallel workers (0 = CPU count, 1 = serial)")
	fs.StringVar(&opts.format, "format", output.FormatPPM, "Output format: ppm, png, jpg")
	fs.StringVar(&opts.out, "out", "", "Output file ('-' for stdout, empty = timestamped file in the output dir)")
	fs.UintVar(&opts.thumb, "thumb", 0, "Downscale the result to fit this many pixels (0 = off)")
	fs.BoolVar(&opts.upload, "upload", false, "Upload the result to the configured S3 bucket")
	fs.BoolVar(&opts.help, "help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		return nil, fs, err
	}

	format, err := output.ParseFormat(opts.format)
	if err != nil {
		return nil, fs, err
	}
	opts.format = format
	return opts, fs, nil
}

// samplingConfig applies command line overrides to the scene defaults
func samplingConfig(s *scene.Scene, opts *options) renderer.SamplingConfig {
	cfg := s.SamplingConfig
	if opts.width > 0 {
		cfg.Width = opts.width
	}
	if opts.height > 0 {
		cfg.Height = opts.height
	}
	if opts.samples > 0 {
		cfg.SamplesPerPixel = opts.samples
	}
	cfg.Jitter = opts.jitter
	cfg.Seed = opts.seed
	cfg.NumWorkers = opts.workers
	return cfg
}

// outputPath picks the destination file; "-" means stdout
func outputPath(opts *options, outputDir string) string {
	if opts.out != "" {
		return opts.out
	}
	timestamp := time.Now().Format("20060102_150405")
	return filepath.Join(outputDir, opts.scene, fmt.Sprintf("render_%s.%s", timestamp, opts.format))
}

func render(ctx context.Context, rt *renderer.Raytracer, encoder core.ImageEncoder) (renderer.RenderStats, error) {
	if rt.GetSamplingConfig().NumWorkers == 1 {
		return rt.Render(encoder)
	}
	return rt.RenderParallel(ctx, encoder)
}

// run renders a scene according to opts, writing the image to stdout or a
// file and optionally uploading it
func run(ctx context.Context, opts *options, cfg *config.Config, stdout io.Writer, logger core.Logger) error {
	s, err := scene.Create(opts.scene)
	if err != nil {
		return err
	}
	logger.Printf("Using %s scene (%d objects)...\n", s.Name, s.GetPrimitiveCount())

	rt := s.NewRaytracer(samplingConfig(s, opts), logger)
	dest := outputPath(opts, cfg.OutputDir)

	var w io.Writer = stdout
	if dest != "-" {
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		file, err := os.Create(dest)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", dest, err)
		}
		defer file.Close()
		w = file
	}

	// Plain PPM output streams straight from the render loop
	if opts.format == output.FormatPPM && opts.thumb == 0 && !opts.upload {
		if _, err := render(ctx, rt, output.NewPPMEncoder(w)); err != nil {
			return err
		}
		logSaved(logger, dest)
		return nil
	}

	encoder := output.NewImageEncoder()
	if _, err := render(ctx, rt, encoder); err != nil {
		return err
	}

	img := output.Thumbnail(encoder.Image(), opts.thumb)
	var buf bytes.Buffer
	if err := output.Encode(&buf, img, opts.format); err != nil {
		return err
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}
	logSaved(logger, dest)

	if opts.upload {
		uploader, err := output.NewS3Uploader(cfg.S3, logger)
		if err != nil {
			return err
		}
		name := fmt.Sprintf("%s_%d.%s", s.Name, time.Now().Unix(), opts.format)
		location, err := uploader.Upload(ctx, name, output.ContentType(opts.format), buf.Bytes())
		if err != nil {
			return err
		}
		logger.Printf("Uploaded to %s\n", location)
	}

	return nil
}

func logSaved(logger core.Logger, dest string) {
	if dest != "-" {
		logger.Printf("Render saved as %s\n", dest)
	}
}

func printHelp(fs *flag.FlagSet) {
	fmt.Println("Normal-Visualization Raytracer")
	fmt.Println("Usage: raytracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	fs.SetOutput(os.Stdout)
	fs.PrintDefaults()
	fmt.Println()
	fmt.Println("Available scenes:")
	for _, info := range scene.List() {
		fmt.Printf("  %-12s - %s\n", info.ID, info.Description)
	}
	fmt.Println()
	fmt.Println("Settings are also read from .env and the environment (RAYTRACER_*, S3_*).")
}

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	opts, fs, err := parseFlags(os.Args[1:], cfg, os.Stderr)
	if err == flag.ErrHelp {
		printHelp(fs)
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if opts.help {
		printHelp(fs)
		return
	}

	// Keep stdout clean when it carries the image
	logger := renderer.NewDefaultLogger()
	if opts.out == "-" {
		logger = renderer.NewWriterLogger(os.Stderr)
	}

	if err := run(context.Background(), opts, cfg, os.Stdout, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
