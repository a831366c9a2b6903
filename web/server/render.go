package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/output"
	"github.com/df07/go-weekend-raytracer/pkg/publish"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// CompleteEvent is the payload of the final SSE event
type CompleteEvent struct {
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Stats     Stats  `json:"stats"`
}

// renderResult is a finished render and its statistics
type renderResult struct {
	Image *image.RGBA
	Stats Stats
}

// render runs the request against a fresh raytracer, bounded by the server's
// render timeout
func (s *Server) render(ctx context.Context, req *RenderRequest, logger core.Logger) (*renderResult, error) {
	sceneObj, err := s.createScene(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.RenderTimeout)
	defer cancel()

	raytracer := sceneObj.NewRaytracer()
	raytracer.SetSeed(req.Seed)
	raytracer.SetLogger(logger)

	img, stats, err := raytracer.RenderContext(ctx, s.config.Workers)
	if err != nil {
		return nil, err
	}

	return &renderResult{
		Image: img,
		Stats: Stats{
			Width:            img.Bounds().Dx(),
			Height:           img.Bounds().Dy(),
			TotalPixels:      stats.TotalPixels,
			TotalSamples:     stats.TotalSamples,
			SamplesPerPixel:  stats.SamplesPerPixel,
			Workers:          stats.Workers,
			ElapsedMs:        stats.Duration.Milliseconds(),
			AverageLuminance: renderer.CalculateAverageLuminance(img),
		},
	}, nil
}

// handleRender renders an image and returns it encoded in the requested format,
// or as a PNG preview when preview is set
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}
	if req.Upload && s.publisher == nil {
		writeError(w, http.StatusBadRequest, "Uploads are not configured on this server")
		return
	}

	result, err := s.render(r.Context(), req, renderer.NopLogger{})
	if err != nil {
		s.writeRenderError(w, r, err)
		return
	}

	img, format := result.Image, req.Format
	if req.PreviewWidth > 0 {
		img, format = output.Preview(result.Image, req.PreviewWidth), output.FormatPNG
	}

	data, err := output.EncodeBytes(img, format)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if req.Upload {
		key, err := s.upload(r.Context(), req, result, data, format)
		if err != nil {
			log.Printf("Upload failed: %v", err)
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		w.Header().Set("X-Object-Key", key)
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Render-Time-Ms", strconv.FormatInt(result.Stats.ElapsedMs, 10))
	w.Header().Set("X-Render-Samples", strconv.Itoa(result.Stats.TotalSamples))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// upload publishes the response body, plus a preview when one was requested
func (s *Server) upload(ctx context.Context, req *RenderRequest, result *renderResult, data []byte, format output.Format) (string, error) {
	width, height := result.Stats.Width, result.Stats.Height
	suffix := ""
	if req.PreviewWidth > 0 {
		suffix = "_preview"
	}
	artifact := publish.Artifact{
		Key:         s.publisher.ObjectKey(req.Scene, req.Seed, width, height, suffix, format.Extension()),
		Data:        data,
		ContentType: format.ContentType(),
	}
	if err := publish.UploadAll(ctx, s.publisher, artifact); err != nil {
		return "", err
	}
	return artifact.Key, nil
}

// writeRenderError maps render failures to HTTP status codes
func (s *Server) writeRenderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case r.Context().Err() != nil:
		// Client went away, nobody to answer
		log.Printf("Render abandoned by client: %v", err)
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, fmt.Sprintf("Render exceeded %v: %v", s.config.RenderTimeout, err))
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

// handleRenderStream renders with progress streamed as Server-Sent Events and
// the final PNG delivered in a "complete" event
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	s.setSSEHeaders(w)
	ctx := r.Context()

	// Single writer goroutine owns the ResponseWriter
	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeSSEEvents(w, ctx, sseEventChan)
	}()

	consoleChan, webLogger := s.setupConsoleLogging()
	streamerDone := make(chan struct{})
	go func() {
		defer close(streamerDone)
		s.streamConsoleMessages(ctx, consoleChan, sseEventChan)
	}()

	result, renderErr := s.render(ctx, req, webLogger)

	// The raytracer has stopped logging; drain the console before the final event
	close(consoleChan)
	<-streamerDone

	if renderErr != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Rendering failed: %v", renderErr))
	} else {
		s.handleComplete(ctx, sseEventChan, result)
	}

	close(sseEventChan)
	<-writerDone
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	webLogger := NewWebLogger(renderID, consoleChan)
	return consoleChan, webLogger
}

// writeSSEEvents writes every SSE event from a single goroutine until the
// channel closes or the client disconnects
func (s *Server) writeSSEEvents(w http.ResponseWriter, ctx context.Context, sseEventChan chan SSEEvent) {
	flusher, _ := w.(http.Flusher)
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
				// Client disconnected during write; keep draining so senders never block
				continue
			}
			if flusher != nil {
				flusher.Flush()
			}

		case <-ctx.Done():
			// Client disconnected; drain until the handler closes the channel
			for range sseEventChan {
			}
			return
		}
	}
}

// streamConsoleMessages forwards console messages as SSE events until
// consoleChan is closed
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan chan ConsoleMessage, sseEventChan chan SSEEvent) {
	for consoleMsg := range consoleChan {
		data, err := json.Marshal(consoleMsg)
		if err != nil {
			log.Printf("Error marshaling console message: %v", err)
			continue
		}

		select {
		case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
		case <-ctx.Done():
		default:
			// Channel full, skip message to avoid blocking
		}
	}
}

// handleComplete sends the final image and statistics
func (s *Server) handleComplete(ctx context.Context, sseEventChan chan SSEEvent, result *renderResult) {
	imageData, err := s.imageToBase64PNG(result.Image)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Failed to encode image: %v", err))
		return
	}

	data, err := json.Marshal(CompleteEvent{ImageData: imageData, Stats: result.Stats})
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Failed to encode result: %v", err))
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "complete", Data: string(data)}:
	case <-ctx.Done():
	}
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// handleError sends an error event to the SSE channel
func (s *Server) handleError(ctx context.Context, sseEventChan chan SSEEvent, message string) {
	select {
	case sseEventChan <- SSEEvent{Type: "error", Data: message}:
	case <-ctx.Done():
		// Client disconnected, don't block
	}
}
