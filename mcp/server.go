package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/lecternlabs/lectern/canvas"
	"github.com/lecternlabs/lectern/internal/config"
	"github.com/lecternlabs/lectern/jsonrpc"
	"github.com/lecternlabs/lectern/tools"
)

// Server processes JSON-RPC requests against the tool registry. Unlike the
// HTTP gateway, which takes Canvas credentials on every call, an MCP server
// is bound to one Canvas instance for its lifetime: the assistant that
// launches it supplies the URL and token once, at startup.
type Server struct {
	registry *tools.Registry
	apiURL   string
	token    string
	client   *http.Client
	settings config.Settings
	logger   *slog.Logger
	info     ServerInfo
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithRegistry sets the tool registry the server dispatches to.
func WithRegistry(registry *tools.Registry) ServerOption {
	return func(s *Server) {
		s.registry = registry
	}
}

// WithCanvas sets the Canvas base URL and bearer token used for every tool
// call served by this process.
func WithCanvas(apiURL, token string) ServerOption {
	return func(s *Server) {
		s.apiURL = apiURL
		s.token = token
	}
}

// WithClient sets the HTTP client used for upstream Canvas calls.
func WithClient(client *http.Client) ServerOption {
	return func(s *Server) {
		if client != nil {
			s.client = client
		}
	}
}

// WithSettings sets the pagination limits applied to tool arguments.
func WithSettings(settings config.Settings) ServerOption {
	return func(s *Server) {
		s.settings = settings
	}
}

// WithLogger sets the logger. MCP servers own stdout for protocol traffic,
// so the logger must write to stderr or be discarded.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithServerInfo sets the name and version reported during initialization.
func WithServerInfo(name, version string) ServerOption {
	return func(s *Server) {
		s.info = ServerInfo{Name: name, Version: version}
	}
}

// NewServer creates an MCP server bound to one Canvas instance.
func NewServer(opts ...ServerOption) (*Server, error) {
	s := &Server{
		client:   &http.Client{},
		settings: config.Default(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		info:     ServerInfo{Name: "lectern", Version: "dev"},
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.registry == nil {
		registry, err := tools.Default()
		if err != nil {
			return nil, fmt.Errorf("build tool registry: %w", err)
		}
		s.registry = registry
	}
	if s.apiURL == "" {
		return nil, fmt.Errorf("canvas API URL is required")
	}
	if s.token == "" {
		return nil, fmt.Errorf("canvas API token is required")
	}

	return s, nil
}

var _ jsonrpc.Handler = (*Server)(nil)

// Handle processes a single JSON-RPC request and returns a response.
// Notifications return a zero response that the transport discards.
func (s *Server) Handle(ctx context.Context, request jsonrpc.Request) jsonrpc.Response {
	switch request.Method {
	case "initialize":
		return s.handleInitialize(request)
	case "notifications/initialized":
		return jsonrpc.Response{}
	case "ping":
		return jsonrpc.NewResponse(request.Id, PingResponse{}, nil)
	case "tools/list":
		return s.handleToolsList(request)
	case "tools/call":
		return s.handleToolsCall(ctx, request)
	default:
		return jsonrpc.NewResponse(request.Id, nil, jsonrpc.NewError(jsonrpc.ErrMethodNotFound, request.Method))
	}
}

func (s *Server) handleInitialize(request jsonrpc.Request) jsonrpc.Response {
	result := InitializeResponse{
		ProtocolVersion: Version,
		Capabilities: ServerCapabilities{
			Tools: &struct {
				ListChanged bool `json:"listChanged"`
			}{ListChanged: false},
		},
		ServerInfo: s.info,
	}
	return jsonrpc.NewResponse(request.Id, result, nil)
}

func (s *Server) handleToolsList(request jsonrpc.Request) jsonrpc.Response {
	list := s.registry.List()
	descriptors := make([]Tool, len(list))
	for i, t := range list {
		descriptors[i] = Tool{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: t.InputSchema(),
		}
	}
	return jsonrpc.NewResponse(request.Id, ToolsListResponse{Tools: descriptors}, nil)
}

func (s *Server) handleToolsCall(ctx context.Context, request jsonrpc.Request) jsonrpc.Response {
	var params ToolCallRequest
	if err := json.Unmarshal(request.Params, &params); err != nil {
		return jsonrpc.NewResponse(request.Id, nil, jsonrpc.NewError(jsonrpc.ErrInvalidParams, err.Error()))
	}

	tool, ok := s.registry.Get(params.Name)
	if !ok {
		msg := fmt.Sprintf("Tool '%s' not found", params.Name)
		return s.toolError(request, msg)
	}

	call := tools.NewContext(s.apiURL, s.token, params.Arguments,
		tools.WithClientOptions(
			canvas.WithHTTPClient(s.client),
			canvas.WithLogger(s.logger),
			canvas.WithTimeoutSeconds(s.settings.RequestTimeout),
		),
		tools.WithPageLimits(s.settings.DefaultPerPage, s.settings.MaxPerPage),
	)

	result, err := tool.Execute(ctx, call)
	if err != nil {
		msg := tools.ErrorMessage(err)
		s.logger.Debug("tool call failed", "tool", params.Name, "error", msg)
		return s.toolError(request, msg)
	}

	text, err := json.Marshal(result)
	if err != nil {
		return jsonrpc.NewResponse(request.Id, nil, jsonrpc.NewError(jsonrpc.ErrInternal, err.Error()))
	}

	return jsonrpc.NewResponse(request.Id, ToolCallResponse{
		Content: []Content{NewTextContent(string(text), nil, nil)},
	}, nil)
}

// toolError reports a failed tool call as an isError result rather than a
// protocol-level error, so the assistant sees the message as tool output.
func (s *Server) toolError(request jsonrpc.Request, message string) jsonrpc.Response {
	return jsonrpc.NewResponse(request.Id, ToolCallResponse{
		Content: []Content{NewTextContent(message, nil, nil)},
		IsError: true,
	}, nil)
}
