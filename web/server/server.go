package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-normal-raytracer/pkg/config"
	"github.com/df07/go-normal-raytracer/pkg/output"
	"github.com/df07/go-normal-raytracer/pkg/scene"
)

// Request limits shared by parsing and /api/scene-config
const (
	minImageSize = 1
	maxImageSize = 2000
	minSamples   = 1
	maxSamples   = 10000
	maxThumbSize = 2000
)

// imageUploader stores encoded renders; *output.S3Uploader implements it
type imageUploader interface {
	Upload(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// Server handles web requests for the raytracer
type Server struct {
	config   *config.Config
	uploader imageUploader // nil when uploads are not configured
}

// NewServer creates a new web server. An S3 uploader is created when the
// configuration names a bucket.
func NewServer(cfg *config.Config) (*Server, error) {
	s := &Server{config: cfg}
	if cfg.S3.Enabled() {
		uploader, err := output.NewS3Uploader(cfg.S3, nil)
		if err != nil {
			return nil, err
		}
		s.uploader = uploader
	}
	return s, nil
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene   string `json:"scene"`   // Scene name (e.g., "default")
	Width   int    `json:"width"`   // Image width (0 = scene default)
	Height  int    `json:"height"`  // Image height (0 = scene default)
	Samples int    `json:"samples"` // Samples per pixel (0 = scene default)
	Jitter  bool   `json:"jitter"`  // Jitter samples within each pixel
	Seed    int64  `json:"seed"`    // Base seed for jittered sampling
	Format  string `json:"format"`  // Output format (png, jpg, ppm, ...)
	Thumb   int    `json:"thumb"`   // Thumbnail size (0 = full size)
	Upload  bool   `json:"upload"`  // Upload the result to S3
}

// Handler returns the HTTP handler with all API routes registered
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/render-events", s.handleRenderEvents)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "ok",
		"uploadEnabled": s.uploader != nil,
	})
}

// handleScenes lists the built-in scenes grouped by category
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scene.ListAllScenes())
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = "default"
	}

	sceneObj, err := scene.Create(sceneName)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	config := sceneObj.SamplingConfig
	response := map[string]interface{}{
		"scene":          sceneName,
		"primitiveCount": sceneObj.GetPrimitiveCount(),
		"defaults": map[string]interface{}{
			"width":           config.Width,
			"height":          config.Height,
			"samplesPerPixel": config.SamplesPerPixel,
			"jitter":          config.Jitter,
			"seed":            s.config.Seed,
		},
		"limits": map[string]interface{}{
			"width":   map[string]int{"min": minImageSize, "max": maxImageSize},
			"height":  map[string]int{"min": minImageSize, "max": maxImageSize},
			"samples": map[string]int{"min": minSamples, "max": maxSamples},
			"thumb":   map[string]int{"min": 0, "max": maxThumbSize},
		},
	}

	writeJSON(w, http.StatusOK, response)
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	values := r.URL.Query()
	req := &RenderRequest{Scene: values.Get("scene")}
	if req.Scene == "" {
		req.Scene = "default"
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", 0, minImageSize, maxImageSize); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(values, "height", 0, minImageSize, maxImageSize); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(values, "samples", 0, minSamples, maxSamples); err != nil {
		return nil, err
	}
	if req.Thumb, err = parseIntParam(values, "thumb", 0, 0, maxThumbSize); err != nil {
		return nil, err
	}
	if req.Jitter, err = parseBoolParam(values, "jitter", true); err != nil {
		return nil, err
	}
	if req.Upload, err = parseBoolParam(values, "upload", false); err != nil {
		return nil, err
	}
	if req.Seed, err = parseInt64Param(values, "seed", s.config.Seed); err != nil {
		return nil, err
	}

	format := values.Get("format")
	if format == "" {
		format = "png"
	}
	if req.Format, err = output.ParseFormat(format); err != nil {
		return nil, err
	}

	if req.Upload && s.uploader == nil {
		return nil, fmt.Errorf("upload requested but no S3 bucket is configured")
	}

	// Performance warning
	if req.Width*req.Height > 800*600 && req.Samples > 100 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseInt64Param parses an unbounded 64-bit integer parameter
func parseInt64Param(values url.Values, key string, defaultValue int64) (int64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseBoolParam parses a boolean parameter ("1", "true", "0", "false", ...)
func parseBoolParam(values url.Values, key string, defaultValue bool) (bool, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
