// Package server exposes the tool registry over HTTP: a call endpoint
// wrapping every outcome in a uniform {result, error} envelope, plus
// listing, liveness, metrics, and optional debug routes.
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lecternlabs/lectern/canvas"
	"github.com/lecternlabs/lectern/internal/config"
	"github.com/lecternlabs/lectern/tools"
)

// Server routes tool calls to the registry. Canvas credentials arrive on
// each request; the server itself holds none.
type Server struct {
	registry *tools.Registry
	settings config.Settings
	logger   *slog.Logger
	client   *http.Client
	metrics  *metrics
	version  string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for request handling and tool failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithHTTPClient sets the HTTP client shared by all upstream Canvas calls.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Server) {
		if client != nil {
			s.client = client
		}
	}
}

// WithVersion sets the version string reported by the root endpoint.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// New builds a Server over the given registry and settings.
func New(registry *tools.Registry, settings config.Settings, opts ...Option) *Server {
	s := &Server{
		registry: registry,
		settings: settings,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		client:   &http.Client{Timeout: settings.Timeout()},
		version:  "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	s.metrics = newMetrics()
	return s
}

// Router assembles the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsMiddleware)

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Get("/tools", s.handleListTools)
	r.Post("/tools/call", s.handleCallTool)
	r.Get("/metrics", s.metrics.handler())

	if s.settings.EnableDebug {
		r.Get("/debug/tools/{toolName}", s.handleDebugTool)
		r.Get("/debug/registry", s.handleDebugRegistry)
	}

	return r
}

// CallRequest is the envelope accepted by POST /tools/call.
type CallRequest struct {
	Tool           string          `json:"tool"`
	Args           json.RawMessage `json:"args"`
	CanvasAPIURL   string          `json:"canvasApiUrl"`
	CanvasAPIToken string          `json:"canvasApiToken"`
}

// CallResponse is the uniform response envelope. Exactly one of Result and
// Error is non-null, and both keys are always present.
type CallResponse struct {
	Result any     `json:"result"`
	Error  *string `json:"error"`
}

type toolDescriptor struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type serviceInfo struct {
	Message     string            `json:"message"`
	Version     string            `json:"version"`
	Description string            `json:"description"`
	Endpoints   map[string]string `json:"endpoints"`
}

type healthStatus struct {
	Status          string `json:"status"`
	ToolsRegistered int    `json:"tools_registered"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, serviceInfo{
		Message:     "Lectern Canvas HTTP API",
		Version:     s.version,
		Description: "Comprehensive student-focused Canvas LMS tools",
		Endpoints: map[string]string{
			"/":           "This page",
			"/health":     "Health check",
			"/tools":      "List available tools",
			"/tools/call": "Execute a tool",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, healthStatus{
		Status:          "healthy",
		ToolsRegistered: s.registry.Len(),
	})
}

func (s *Server) handleListTools(w http.ResponseWriter, _ *http.Request) {
	list := s.registry.List()
	descriptors := make([]toolDescriptor, len(list))
	for i, t := range list {
		descriptors[i] = toolDescriptor{
			Name:        t.Name(),
			Description: t.Description(),
			Category:    t.Category(),
		}
	}
	s.writeJSON(w, http.StatusOK, descriptors)
}

func (s *Server) handleCallTool(w http.ResponseWriter, r *http.Request) {
	var req CallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Tool == "" {
		s.writeError(w, http.StatusBadRequest, "Missing required field: tool")
		return
	}
	if req.CanvasAPIURL == "" {
		s.writeError(w, http.StatusBadRequest, "Missing required field: canvasApiUrl")
		return
	}
	if req.CanvasAPIToken == "" {
		s.writeError(w, http.StatusBadRequest, "Missing required field: canvasApiToken")
		return
	}

	tool, ok := s.registry.Get(req.Tool)
	if !ok {
		msg := fmt.Sprintf("Tool '%s' not found. Available tools: %s",
			req.Tool, strings.Join(s.registry.Names(), ", "))
		s.writeError(w, http.StatusNotFound, msg)
		return
	}

	call := tools.NewContext(req.CanvasAPIURL, req.CanvasAPIToken, req.Args,
		tools.WithClientOptions(
			canvas.WithHTTPClient(s.client),
			canvas.WithLogger(s.logger),
			canvas.WithTimeoutSeconds(s.settings.RequestTimeout),
		),
		tools.WithPageLimits(s.settings.DefaultPerPage, s.settings.MaxPerPage),
	)

	start := time.Now()
	result, err := tool.Execute(r.Context(), call)
	elapsed := time.Since(start).Seconds()

	if err != nil {
		msg := tools.ErrorMessage(err)
		s.metrics.observe(req.Tool, "error", elapsed)
		s.logger.Debug("tool call failed", "tool", req.Tool, "error", msg)
		s.writeJSON(w, http.StatusOK, CallResponse{Error: &msg})
		return
	}

	s.metrics.observe(req.Tool, "success", elapsed)
	s.writeJSON(w, http.StatusOK, CallResponse{Result: result})
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, CallResponse{Error: &msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug("write response", "error", err)
	}
}
