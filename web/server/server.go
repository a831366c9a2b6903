package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/df07/go-weekend-raytracer/pkg/config"
	"github.com/df07/go-weekend-raytracer/pkg/output"
	"github.com/df07/go-weekend-raytracer/pkg/publish"
	"github.com/df07/go-weekend-raytracer/pkg/scene"
)

// Request limits
const (
	MaxWidth   = 2000
	MaxSamples = 1000
	MaxDepth   = 100
)

// Server handles web requests for the raytracer
type Server struct {
	config    *config.Config
	publisher *publish.S3Publisher // nil when S3 is not configured
}

// NewServer creates a new web server. publisher may be nil.
func NewServer(cfg *config.Config, publisher *publish.S3Publisher) *Server {
	return &Server{config: cfg, publisher: publisher}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene        string        `json:"scene"`        // Scene name (e.g., "default")
	Width        int           `json:"width"`        // Image width; height follows the camera aspect ratio
	Samples      int           `json:"samples"`      // Samples per pixel
	MaxDepth     int           `json:"maxDepth"`     // Maximum bounces per path
	Seed         int64         `json:"seed"`         // Random seed
	Format       output.Format `json:"format"`       // ppm, p6 or png
	PreviewWidth int           `json:"previewWidth"` // Non-zero returns a PNG preview at most this wide
	Upload       bool          `json:"upload"`       // Publish the result to S3
}

// Stats represents render statistics
type Stats struct {
	Width            int     `json:"width"`
	Height           int     `json:"height"`
	TotalPixels      int     `json:"totalPixels"`
	TotalSamples     int     `json:"totalSamples"`
	SamplesPerPixel  int     `json:"samplesPerPixel"`
	Workers          int     `json:"workers"`
	ElapsedMs        int64   `json:"elapsedMs"`
	AverageLuminance float64 `json:"averageLuminance"`
}

// Handler returns the routes served by the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/render/stream", s.handleRenderStream)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:              s.config.ServerAddress,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Printf("Starting web server on %s", s.config.ServerAddress)
	return srv.ListenAndServe()
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes, err := scene.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, scenes)
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = s.config.Scene
	}

	sceneObj, err := scene.Lookup(sceneName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	response := map[string]interface{}{
		"scene": sceneObj.Name,
		"defaults": map[string]interface{}{
			"width":       sceneObj.Width,
			"height":      sceneObj.Height,
			"aspectRatio": sceneObj.CameraConfig.AspectRatio,
			"samples":     sceneObj.SamplingConfig.SamplesPerPixel,
			"maxDepth":    sceneObj.SamplingConfig.MaxDepth,
		},
		"limits": map[string]interface{}{
			"width":    map[string]int{"min": 1, "max": MaxWidth},
			"samples":  map[string]int{"min": 1, "max": MaxSamples},
			"maxDepth": map[string]int{"min": 0, "max": MaxDepth},
		},
	}
	writeJSON(w, http.StatusOK, response)
}

// parseRenderRequest parses request parameters, defaulting to the server configuration
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: s.config.Scene}
	if name := query.Get("scene"); name != "" {
		req.Scene = name
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", s.config.Width, 1, MaxWidth); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(query, "samples", s.config.SamplesPerPixel, 1, MaxSamples); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(query, "maxDepth", s.config.MaxDepth, 0, MaxDepth); err != nil {
		return nil, err
	}
	if req.PreviewWidth, err = parseIntParam(query, "preview", 0, 0, MaxWidth); err != nil {
		return nil, err
	}

	req.Seed = s.config.Seed
	if value := query.Get("seed"); value != "" {
		if req.Seed, err = strconv.ParseInt(value, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid seed: %s", value)
		}
	}

	format := query.Get("format")
	if format == "" {
		format = string(output.FormatPNG)
	}
	if req.Format, err = output.ParseFormat(format); err != nil {
		return nil, err
	}

	if value := query.Get("upload"); value != "" {
		if req.Upload, err = strconv.ParseBool(value); err != nil {
			return nil, fmt.Errorf("invalid upload: %s", value)
		}
	}

	// Performance warning
	if req.Width > 800 && req.Samples > 100 {
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

// createScene builds the requested scene sized and sampled per the request
func (s *Server) createScene(req *RenderRequest) (*scene.Scene, error) {
	sceneObj, err := scene.Lookup(req.Scene)
	if err != nil {
		return nil, err
	}
	sceneObj.SetWidth(req.Width)
	sceneObj.SamplingConfig.SamplesPerPixel = req.Samples
	sceneObj.SamplingConfig.MaxDepth = req.MaxDepth
	return sceneObj, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
