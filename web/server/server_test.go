package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	_ "image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/df07/go-normal-raytracer/pkg/config"
	"github.com/df07/go-normal-raytracer/pkg/scene"
)

// MockUploader records uploads instead of talking to S3
type MockUploader struct {
	names []string
	err   error
}

func (m *MockUploader) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.names = append(m.names, name)
	return "s3://renders/" + name, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := NewServer(&config.Config{Port: 0, Seed: 42, Workers: 2})
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return s
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandleHealth(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", body["status"])
	}
	if body["uploadEnabled"] != false {
		t.Errorf("Expected uploads disabled, got %v", body["uploadEnabled"])
	}
}

func TestHandleScenes(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/scenes")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var response scene.ScenesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}

	count := 0
	for _, group := range response.Groups {
		count += len(group.Scenes)
	}
	if count != len(scene.List()) {
		t.Errorf("Expected %d scenes, got %d", len(scene.List()), count)
	}
}

func TestHandleSceneConfig(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/api/scene-config?scene=default")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body struct {
		Scene    string `json:"scene"`
		Defaults struct {
			Width           int `json:"width"`
			Height          int `json:"height"`
			SamplesPerPixel int `json:"samplesPerPixel"`
		} `json:"defaults"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if body.Defaults.Width != 200 || body.Defaults.Height != 100 || body.Defaults.SamplesPerPixel != 100 {
		t.Errorf("Unexpected defaults %+v", body.Defaults)
	}

	if rec := get(t, s, "/api/scene-config?scene=nope"); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown scene, got %d", rec.Code)
	}
}

func TestParseIntParam(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected int
		wantErr  bool
	}{
		{"missing uses default", "", 7, false},
		{"valid", "width=100", 100, false},
		{"not a number", "width=abc", 0, true},
		{"below min", "width=0", 0, true},
		{"above max", "width=5000", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, _ := url.ParseQuery(tt.query)
			got, err := parseIntParam(values, "width", 7, 1, 2000)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error=%v, got %v", tt.wantErr, err)
			}
			if got != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestParseRenderRequest(t *testing.T) {
	s := newTestServer(t)

	req, err := s.parseRenderRequest(httptest.NewRequest(http.MethodGet,
		"/api/render?scene=single&width=40&height=20&samples=2&jitter=false&seed=9&format=JPG&thumb=10", nil))
	if err != nil {
		t.Fatalf("parseRenderRequest failed: %v", err)
	}
	expected := RenderRequest{Scene: "single", Width: 40, Height: 20, Samples: 2, Jitter: false, Seed: 9, Format: "jpg", Thumb: 10}
	if *req != expected {
		t.Errorf("Expected %+v, got %+v", expected, *req)
	}

	defaults, err := s.parseRenderRequest(httptest.NewRequest(http.MethodGet, "/api/render", nil))
	if err != nil {
		t.Fatalf("parseRenderRequest failed: %v", err)
	}
	if defaults.Scene != "default" || defaults.Format != "png" || !defaults.Jitter || defaults.Seed != 42 {
		t.Errorf("Unexpected defaults %+v", *defaults)
	}

	badQueries := []string{"format=webp", "jitter=maybe", "seed=x", "samples=0", "upload=1"}
	for _, q := range badQueries {
		if _, err := s.parseRenderRequest(httptest.NewRequest(http.MethodGet, "/api/render?"+q, nil)); err == nil {
			t.Errorf("Expected error for %q", q)
		}
	}
}

func TestHandleRender_PNG(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/render?scene=default&width=20&height=10&samples=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected image/png, got %s", ct)
	}
	if rec.Header().Get("X-Render-Pixels") != "200" {
		t.Errorf("Expected 200 pixels, got %s", rec.Header().Get("X-Render-Pixels"))
	}
	if rec.Header().Get("X-Render-Samples") != "400" {
		t.Errorf("Expected 400 samples, got %s", rec.Header().Get("X-Render-Samples"))
	}

	img, _, err := image.Decode(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("Response is not a PNG: %v", err)
	}
	if img.Bounds().Dx() != 20 || img.Bounds().Dy() != 10 {
		t.Errorf("Expected 20x10 image, got %v", img.Bounds())
	}
}

func TestHandleRender_PPMThumbnail(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/render?scene=single&width=40&height=20&samples=1&format=ppm&thumb=10")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.HasPrefix(rec.Body.String(), "P3\n10 5\n255\n") {
		t.Errorf("Expected 10x5 PPM thumbnail, got header %q", rec.Body.String()[:12])
	}
}

func TestHandleRender_Errors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		query  string
		status int
	}{
		{"scene=missing&width=4&height=4&samples=1", http.StatusBadRequest},
		{"width=99999", http.StatusBadRequest},
		{"upload=true", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := get(t, s, "/api/render?"+tt.query)
			if rec.Code != tt.status {
				t.Errorf("Expected %d, got %d", tt.status, rec.Code)
			}
			if !strings.Contains(rec.Header().Get("Content-Type"), "application/json") {
				t.Errorf("Expected JSON error body, got %s", rec.Header().Get("Content-Type"))
			}
		})
	}
}

func TestHandleRender_Upload(t *testing.T) {
	s := newTestServer(t)
	uploader := &MockUploader{}
	s.uploader = uploader

	rec := get(t, s, "/api/render?scene=single&width=8&height=4&samples=1&upload=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(uploader.names) != 1 {
		t.Fatalf("Expected 1 upload, got %d", len(uploader.names))
	}
	if rec.Header().Get("X-Upload-Location") != "s3://renders/"+uploader.names[0] {
		t.Errorf("Unexpected upload location %s", rec.Header().Get("X-Upload-Location"))
	}

	s.uploader = &MockUploader{err: errors.New("bucket unavailable")}
	if rec := get(t, s, "/api/render?scene=single&width=8&height=4&samples=1&upload=1"); rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500 on upload failure, got %d", rec.Code)
	}
}

func TestHandleRenderEvents(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/render-events?scene=single&width=8&height=4&samples=1")

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Expected text/event-stream, got %s", ct)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "event: console\n") {
		t.Errorf("Expected console events in %q", body)
	}

	idx := strings.Index(body, "event: complete\ndata: ")
	if idx < 0 {
		t.Fatalf("Expected complete event in %q", body)
	}
	payload := body[idx+len("event: complete\ndata: "):]
	payload = payload[:strings.Index(payload, "\n")]

	var result RenderResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		t.Fatalf("Invalid complete payload: %v", err)
	}
	if result.Width != 8 || result.Height != 4 || result.TotalPixels != 32 {
		t.Errorf("Unexpected result %+v", result)
	}

	data, err := base64.StdEncoding.DecodeString(result.ImageData)
	if err != nil {
		t.Fatalf("Invalid base64 image: %v", err)
	}
	if _, _, err := image.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("Image data is not decodable: %v", err)
	}
}

func TestHandleRenderEvents_InvalidRequest(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/render-events?width=abc")
	if !strings.Contains(rec.Body.String(), "event: error\n") {
		t.Errorf("Expected error event, got %q", rec.Body.String())
	}
}
