// Package mcp serves the tool registry over the Model Context Protocol:
// JSON-RPC 2.0 on stdin/stdout, for assistants that launch the gateway as a
// subprocess instead of calling the HTTP API.
package mcp

import (
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
)

// Version is the Model Context Protocol version
const Version = "2024-11-05"

// Role represents the sender or recipient of messages and data in a conversation
type Role string

const (
	// RoleUser represents the user
	RoleUser Role = "user"

	// RoleAssistant represents the assistant
	RoleAssistant Role = "assistant"
)

// Content types
type (
	// Annotations represents optional annotations for objects
	Annotations struct {
		// Describes who the intended customer of this object or data is
		Audience []Role `json:"audience,omitempty"`
		// Describes how important this data is for operating the server (0-1)
		Priority *float64 `json:"priority,omitempty"`
	}

	// Content represents the base content type
	Content struct {
		Type        string       `json:"type"`
		Text        string       `json:"text,omitempty"`
		Annotations *Annotations `json:"annotations,omitempty"`
	}
)

// NewTextContent creates a new text Content with optional annotations
func NewTextContent(text string, audience []Role, priority *float64) Content {
	c := Content{
		Type: "text",
		Text: text,
	}
	if audience != nil || priority != nil {
		c.Annotations = &Annotations{
			Audience: audience,
			Priority: priority,
		}
	}
	return c
}

// Initialize
type (
	// ServerCapabilities represents the server's supported capabilities
	ServerCapabilities struct {
		Experimental map[string]interface{} `json:"experimental,omitempty"`
		Logging      *struct{}              `json:"logging,omitempty"`
		Tools        *struct {
			ListChanged bool `json:"listChanged"`
		} `json:"tools,omitempty"`
	}

	// ServerInfo represents information about an MCP implementation
	ServerInfo struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}

	// InitializeRequest represents a request to initialize the server
	InitializeRequest struct{}

	// InitializeResponse represents the server's response to an initialize request
	InitializeResponse struct {
		ProtocolVersion string             `json:"protocolVersion"`
		Capabilities    ServerCapabilities `json:"capabilities"`
		ServerInfo      ServerInfo         `json:"serverInfo"`
		Instructions    string             `json:"instructions,omitempty"`
	}

	// InitializedNotification represents a notification that initialization is complete
	InitializedNotification struct{}
)

// Tools
type (
	// Tool represents a single tool in the tools/list response
	Tool struct {
		Name        string             `json:"name"`
		Description string             `json:"description,omitempty"`
		InputSchema *jsonschema.Schema `json:"inputSchema"`
	}

	// ToolsListRequest represents a request to list available tools
	ToolsListRequest struct {
		Cursor string `json:"cursor,omitempty"`
	}

	// ToolsListResponse represents the response for the tools/list method
	ToolsListResponse struct {
		Tools      []Tool `json:"tools"`
		NextCursor string `json:"nextCursor,omitempty"`
	}

	// ToolCallRequest represents a request to call a specific tool
	ToolCallRequest struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments,omitempty"`
	}

	// ToolCallResponse represents the response from a tool call
	ToolCallResponse struct {
		Content []Content `json:"content"`
		IsError bool      `json:"isError,omitempty"`
	}
)

// Ping
type (
	// PingRequest represents a ping request
	PingRequest struct{}

	// PingResponse represents the response for ping
	PingResponse struct{}
)
