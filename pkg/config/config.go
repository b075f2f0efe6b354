// Package config loads runtime settings from a .env file and the process
// environment.
package config

import (
	"fmt"
	"os"
	"path"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/df07/go-normal-raytracer/pkg/output"
)

// Config holds settings shared by the CLI and the web server
type Config struct {
	RootDir   string
	Port      int
	OutputDir string
	Workers   int   // 0 = use CPU count
	Seed      int64 // Base seed for jittered sampling
	S3        output.S3Config
}

// LoadFromEnv loads configuration rooted at $RAYTRACER_ROOT_DIR (default ".")
func LoadFromEnv() (*Config, error) {
	return Load(getEnv("RAYTRACER_ROOT_DIR", "."))
}

// Load reads <rootDir>/.env if present, then builds the configuration from
// the environment. Variables already set in the environment win over the
// file.
func Load(rootDir string) (*Config, error) {
	_ = godotenv.Load(path.Join(rootDir, ".env"))

	port, err := getEnvInt("RAYTRACER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	workers, err := getEnvInt("RAYTRACER_WORKERS", 0)
	if err != nil {
		return nil, err
	}
	seed, err := strconv.ParseInt(getEnv("RAYTRACER_SEED", "42"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid RAYTRACER_SEED: %w", err)
	}

	cfg := &Config{
		RootDir:   rootDir,
		Port:      port,
		OutputDir: getEnv("RAYTRACER_OUTPUT_DIR", "output"),
		Workers:   workers,
		Seed:      seed,
		S3: output.S3Config{
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			Region:    os.Getenv("S3_REGION"),
			Bucket:    os.Getenv("S3_BUCKET"),
			Prefix:    getEnv("S3_PREFIX", "renders"),
			PublicURL: os.Getenv("CDN_URL"),
		},
	}

	if cfg.Workers < 0 {
		return nil, fmt.Errorf("invalid RAYTRACER_WORKERS: %d", cfg.Workers)
	}
	return cfg, nil
}

// getEnv returns an environment variable with a default value
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
