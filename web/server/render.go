package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/df07/go-normal-raytracer/pkg/core"
	"github.com/df07/go-normal-raytracer/pkg/output"
	"github.com/df07/go-normal-raytracer/pkg/renderer"
	"github.com/df07/go-normal-raytracer/pkg/scene"
)

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// RenderResult describes a finished render
type RenderResult struct {
	RenderID       string  `json:"renderId"`
	Scene          string  `json:"scene"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	ContentType    string  `json:"contentType"`
	TotalPixels    int     `json:"totalPixels"`
	TotalSamples   int     `json:"totalSamples"`
	AverageSamples float64 `json:"averageSamples"`
	PrimitiveCount int     `json:"primitiveCount"`
	ElapsedMs      int64   `json:"elapsedMs"`
	Location       string  `json:"location,omitempty"`  // Upload location, if uploaded
	ImageData      string  `json:"imageData,omitempty"` // Base64 image (SSE only)

	data []byte
}

// handleRender renders a scene and responds with the encoded image
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("Invalid request: %v", err)})
		return
	}

	renderID := newRenderID()
	result, err := s.renderImage(r.Context(), req, renderID, NewWebLogger(renderID, nil))
	if err != nil {
		writeJSON(w, renderErrorStatus(err), map[string]string{"error": err.Error()})
		return
	}

	h := w.Header()
	h.Set("Content-Type", result.ContentType)
	h.Set("Content-Length", strconv.Itoa(len(result.data)))
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("X-Render-Id", result.RenderID)
	h.Set("X-Render-Pixels", strconv.Itoa(result.TotalPixels))
	h.Set("X-Render-Samples", strconv.Itoa(result.TotalSamples))
	h.Set("X-Render-Elapsed-Ms", strconv.FormatInt(result.ElapsedMs, 10))
	if result.Location != "" {
		h.Set("X-Upload-Location", result.Location)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.data); err != nil {
		log.Printf("[%s] Error writing image: %v", renderID, err)
	}
}

// handleRenderEvents renders a scene while streaming console output via SSE,
// finishing with a "complete" event that carries the base64 image
func (s *Server) handleRenderEvents(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)
	ctx := r.Context()

	// Single writer goroutine owns the response
	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		s.writeSSEEvents(w, ctx, sseEventChan)
		close(writerDone)
	}()
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	renderID := newRenderID()
	consoleChan := make(chan ConsoleMessage, 50)
	consoleDone := make(chan struct{})
	go func() {
		s.streamConsoleMessages(ctx, consoleChan, sseEventChan)
		close(consoleDone)
	}()

	result, err := s.renderImage(ctx, req, renderID, NewWebLogger(renderID, consoleChan))
	close(consoleChan)
	<-consoleDone
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Rendering failed: %v", err))
		return
	}

	result.ImageData = base64.StdEncoding.EncodeToString(result.data)
	data, err := json.Marshal(result)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Error encoding result: %v", err))
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "complete", Data: string(data)}:
	case <-ctx.Done():
	}
}

// renderImage runs the full pipeline for one request: scene, render,
// optional thumbnail, encode, optional upload
func (s *Server) renderImage(ctx context.Context, req *RenderRequest, renderID string, logger core.Logger) (*RenderResult, error) {
	sceneObj, err := scene.Create(req.Scene)
	if err != nil {
		return nil, err
	}

	config := sceneObj.SamplingConfig
	if req.Width > 0 {
		config.Width = req.Width
	}
	if req.Height > 0 {
		config.Height = req.Height
	}
	if req.Samples > 0 {
		config.SamplesPerPixel = req.Samples
	}
	config.Jitter = req.Jitter
	config.Seed = req.Seed
	config.NumWorkers = s.config.Workers

	startTime := time.Now()
	encoder := output.NewImageEncoder()
	stats, err := sceneObj.NewRaytracer(config, logger).RenderParallel(ctx, encoder)
	if err != nil {
		return nil, err
	}

	img := output.Thumbnail(encoder.Image(), uint(req.Thumb))
	var buf bytes.Buffer
	if err := output.Encode(&buf, img, req.Format); err != nil {
		return nil, err
	}

	result := &RenderResult{
		RenderID:       renderID,
		Scene:          sceneObj.Name,
		Width:          img.Bounds().Dx(),
		Height:         img.Bounds().Dy(),
		ContentType:    output.ContentType(req.Format),
		TotalPixels:    stats.TotalPixels,
		TotalSamples:   stats.TotalSamples,
		AverageSamples: stats.AverageSamples(),
		PrimitiveCount: sceneObj.GetPrimitiveCount(),
		data:           buf.Bytes(),
	}

	if req.Upload {
		name := fmt.Sprintf("%s_%s.%s", sceneObj.Name, renderID, req.Format)
		location, err := s.uploader.Upload(ctx, name, result.ContentType, result.data)
		if err != nil {
			return nil, err
		}
		result.Location = location
		logger.Printf("Uploaded to %s\n", location)
	}

	result.ElapsedMs = time.Since(startTime).Milliseconds()
	return result, nil
}

func newRenderID() string {
	return fmt.Sprintf("render-%d", time.Now().UnixNano())
}

// renderErrorStatus maps pipeline errors to HTTP status codes
func renderErrorStatus(err error) int {
	switch {
	case errors.Is(err, scene.ErrUnknownScene), errors.Is(err, renderer.ErrInvalidConfig):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// writeSSEEvents handles writing all SSE events in a single goroutine (thread-safe)
func (s *Server) writeSSEEvents(w http.ResponseWriter, ctx context.Context, sseEventChan chan SSEEvent) {
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				// Channel closed
				return
			}

			// Check if client is still connected before writing
			select {
			case <-ctx.Done():
				return
			default:
			}

			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
				// Client disconnected during write
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}

		case <-ctx.Done():
			// Client disconnected
			return
		}
	}
}

// streamConsoleMessages forwards console messages to the SSE channel until
// consoleChan is closed
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan chan ConsoleMessage, sseEventChan chan SSEEvent) {
	for {
		select {
		case consoleMsg, ok := <-consoleChan:
			if !ok {
				// Channel closed
				return
			}

			data, err := json.Marshal(consoleMsg)
			if err != nil {
				log.Printf("Error marshaling console message: %v", err)
				continue
			}

			select {
			case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
			case <-ctx.Done():
				return
			default:
				// Channel full, skip message to avoid blocking
			}

		case <-ctx.Done():
			// Client disconnected
			return
		}
	}
}

// handleError sends an error event to the SSE channel
func (s *Server) handleError(ctx context.Context, sseEventChan chan SSEEvent, message string) {
	select {
	case sseEventChan <- SSEEvent{Type: "error", Data: message}:
	case <-ctx.Done():
		// Client disconnected, don't block
	}
}
