// Package server provides the HTTP interface of the brochure: navigation,
// state, page textures, the per-tick frame feed and the camera preview.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/brochure/internal/capture"
	"github.com/ayusman/brochure/internal/flip"
	"github.com/ayusman/brochure/internal/logger"
	"github.com/ayusman/brochure/internal/nav"
	"github.com/ayusman/brochure/internal/server/api"
)

// Navigator accepts navigation requests from any goroutine.
type Navigator interface {
	Submit(req nav.Request) bool
}

// Textures provides the encoded texture of a page.
type Textures interface {
	Texture(index int) ([]byte, error)
}

// GestureToggle switches gesture navigation on and off.
type GestureToggle interface {
	SetGesturesEnabled(enabled bool) error
}

// GestureState is the gesture part of the published state.
type GestureState struct {
	Enabled bool   `json:"enabled"`
	Status  string `json:"status"`
	Hand    bool   `json:"hand"`
}

// State is what /api/state returns and what is pushed to frame clients
// whenever it changes.
type State struct {
	Brochure flip.Snapshot `json:"brochure"`
	Gestures GestureState  `json:"gestures"`
	Feedback string        `json:"feedback,omitempty"`

	// Turns counts the turns that have settled since startup.
	Turns int `json:"turns"`
}

// Config holds the server configuration. Every collaborator is optional;
// routes whose collaborator is missing are not registered.
type Config struct {
	StaticDir string
	Session   string
	Pages     int

	Navigator Navigator
	State     func() State
	Textures  Textures
	Gestures  GestureToggle
	Hub       *Hub
	Preview   *capture.Preview

	Topics        api.TopicStore
	OnTopicChange api.ChangeFunc
}

// Server represents the HTTP server of the brochure.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
	log    *zap.Logger
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
		log:    logger.Named("server"),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.State != nil {
		s.mux.HandleFunc("/api/state", s.handleState)
	}

	if s.config.Navigator != nil {
		s.mux.HandleFunc("/api/navigate", s.handleNavigate)
	}

	if s.config.Gestures != nil {
		s.mux.HandleFunc("/api/gestures", s.handleGestures)
	}

	if s.config.Textures != nil {
		s.mux.HandleFunc("/api/pages/", s.handleTexture)
	}

	if s.config.Hub != nil {
		s.mux.Handle("/api/frames", s.config.Hub)
	}

	if s.config.Preview != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Preview))
	}

	if s.config.Topics != nil {
		topics := api.NewTopicHandler(s.config.Topics, s.config.OnTopicChange)
		s.mux.Handle("/api/topics", topics)
		s.mux.Handle("/api/topics/", topics)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status":  "ok",
		"uptime":  time.Since(s.start).String(),
		"session": s.config.Session,
	}
	if s.config.Hub != nil {
		response["clients"] = s.config.Hub.Clients()
	}

	api.WriteJSON(w, http.StatusOK, response)
}

// handleState handles GET requests to /api/state.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	api.WriteJSON(w, http.StatusOK, s.config.State())
}

// navigateRequest names an intent directly or through a navigation key.
type navigateRequest struct {
	Intent string `json:"intent"`
	Key    string `json:"key"`
}

// parse resolves the request to an intent and its source.
func (req navigateRequest) parse(fallback nav.Source) (nav.Request, error) {
	if req.Key != "" {
		intent, ok := nav.KeyIntent(req.Key)
		if !ok {
			return nav.Request{}, fmt.Errorf("unknown key %q", req.Key)
		}
		return nav.Request{Intent: intent, Source: nav.SourceKey}, nil
	}
	intent, err := nav.ParseIntent(req.Intent)
	if err != nil {
		return nav.Request{}, err
	}
	return nav.Request{Intent: intent, Source: fallback}, nil
}

// handleNavigate handles POST requests to /api/navigate.
func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body navigateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		api.WriteError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	req, err := body.parse(nav.SourceHTTP)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	accepted := s.config.Navigator.Submit(req)
	api.WriteJSON(w, http.StatusAccepted, map[string]bool{"accepted": accepted})
}

// handleGestures handles POST requests to /api/gestures.
func (s *Server) handleGestures(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Enabled *bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Enabled == nil {
		api.WriteError(w, http.StatusBadRequest, "enabled is required")
		return
	}
	if err := s.config.Gestures.SetGesturesEnabled(*body.Enabled); err != nil {
		s.log.Error("toggle gestures", zap.Error(err))
		api.WriteError(w, http.StatusInternalServerError, "Failed to toggle gestures")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]bool{"enabled": *body.Enabled})
}

// handleTexture handles GET requests to /api/pages/{index}/texture.
func (s *Server) handleTexture(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/pages/")
	raw, ok := strings.CutSuffix(rest, "/texture")
	if !ok {
		http.NotFound(w, r)
		return
	}
	index, err := strconv.Atoi(raw)
	if err != nil || index < 0 || index >= s.config.Pages {
		http.NotFound(w, r)
		return
	}

	tex, err := s.config.Textures.Texture(index)
	if err != nil {
		s.log.Error("render texture", zap.Int("page", index), zap.Error(err))
		http.Error(w, "Failed to render texture", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(tex)))
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(tex)
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
