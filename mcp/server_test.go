package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lecternlabs/lectern/jsonrpc"
)

var allToolNames = []string{
	"list_courses",
	"get_course",
	"get_course_progress",
	"get_course_users",
	"preview_html",
	"list_announcements",
	"list_assignments",
	"get_assignment",
	"get_assignment_submission",
	"list_enrollments",
	"list_quizzes",
	"get_quiz",
	"get_quiz_submission",
	"list_quiz_submissions",
	"get_discussion_topic",
	"list_discussion_entries",
	"list_discussion_topics",
	"list_entry_replies",
}

// setupTestServer builds an MCP server pointed at a stub Canvas instance.
func setupTestServer(t *testing.T, handler http.HandlerFunc) *Server {
	t.Helper()

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	server, err := NewServer(
		WithCanvas(ts.URL, "test-token"),
		WithClient(ts.Client()),
		WithServerInfo("Test Canvas", "1.0.0"),
	)
	require.NoError(t, err)

	return server
}

// decodeResult round-trips response.Result through JSON into out.
func decodeResult(t *testing.T, response jsonrpc.Response, out any) {
	t.Helper()
	resultBytes, err := json.Marshal(response.Result)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(resultBytes, out))
}

func TestServerRequiresCredentials(t *testing.T) {
	_, err := NewServer()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "canvas API URL")

	_, err = NewServer(WithCanvas("https://canvas.test", ""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "canvas API token")
}

func TestHandleInitialize(t *testing.T) {
	server := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	request := jsonrpc.NewRequest("initialize", json.RawMessage(`{}`), 1)
	response := server.Handle(context.Background(), request)

	assert.Equal(t, "2.0", response.Version)
	assert.Equal(t, 1, response.ID.Value())
	assert.Nil(t, response.Error)

	var result InitializeResponse
	decodeResult(t, response, &result)

	assert.Equal(t, Version, result.ProtocolVersion)
	assert.Equal(t, "Test Canvas", result.ServerInfo.Name)
	assert.Equal(t, "1.0.0", result.ServerInfo.Version)
	require.NotNil(t, result.Capabilities.Tools)
	assert.False(t, result.Capabilities.Tools.ListChanged)
}

func TestHandleInitializedNotification(t *testing.T) {
	server := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	request := jsonrpc.Request{Version: "2.0", Method: "notifications/initialized"}
	require.True(t, request.IsNotification())

	response := server.Handle(context.Background(), request)
	assert.Equal(t, jsonrpc.Response{}, response)
}

func TestHandlePing(t *testing.T) {
	server := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	response := server.Handle(context.Background(), jsonrpc.NewRequest("ping", nil, 7))

	assert.Nil(t, response.Error)
	assert.Equal(t, 7, response.ID.Value())
}

func TestHandleToolsList(t *testing.T) {
	server := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	response := server.Handle(context.Background(), jsonrpc.NewRequest("tools/list", nil, 1))

	assert.Equal(t, "2.0", response.Version)
	assert.Nil(t, response.Error)

	var toolsResp ToolsListResponse
	decodeResult(t, response, &toolsResp)

	require.Len(t, toolsResp.Tools, len(allToolNames))
	for i, tool := range toolsResp.Tools {
		assert.Equal(t, allToolNames[i], tool.Name)
		assert.NotEmpty(t, tool.Description)
		require.NotNil(t, tool.InputSchema)
		assert.Equal(t, "object", tool.InputSchema.Type)
	}
}

func TestHandleToolsCall(t *testing.T) {
	server := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/courses", r.URL.Path)
		assert.Equal(t, "active", r.URL.Query().Get("enrollment_state"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"name":"X"}]`))
	})

	params := json.RawMessage(`{"name":"list_courses","arguments":{"enrollmentState":"active"}}`)
	response := server.Handle(context.Background(), jsonrpc.NewRequest("tools/call", params, 2))

	assert.Nil(t, response.Error)

	var result ToolCallResponse
	decodeResult(t, response, &result)

	assert.False(t, result.IsError)
	require.Len(t, result.Content, 1)
	assert.Equal(t, "text", result.Content[0].Type)
	assert.JSONEq(t, `{"courses":[{"id":1,"name":"X"}],"total":1}`, result.Content[0].Text)
}

func TestHandleToolsCallUnknownTool(t *testing.T) {
	server := setupTestServer(t, func(_ http.ResponseWriter, r *http.Request) {
		t.Errorf("upstream should not be called, got %s", r.URL)
	})

	params := json.RawMessage(`{"name":"evaluate_thing","arguments":{}}`)
	response := server.Handle(context.Background(), jsonrpc.NewRequest("tools/call", params, 3))

	assert.Nil(t, response.Error)

	var result ToolCallResponse
	decodeResult(t, response, &result)

	assert.True(t, result.IsError)
	require.Len(t, result.Content, 1)
	assert.Equal(t, "Tool 'evaluate_thing' not found", result.Content[0].Text)
}

func TestHandleToolsCallUpstreamError(t *testing.T) {
	const token = "test-token"

	server := setupTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"Invalid access token."}]}`))
	})

	params := json.RawMessage(`{"name":"list_courses","arguments":{}}`)
	response := server.Handle(context.Background(), jsonrpc.NewRequest("tools/call", params, 4))

	assert.Nil(t, response.Error)

	var result ToolCallResponse
	decodeResult(t, response, &result)

	assert.True(t, result.IsError)
	require.Len(t, result.Content, 1)
	assert.Equal(t,
		"Canvas API Error [401]: Authentication failed. Invalid or expired Canvas API token.",
		result.Content[0].Text)
	assert.NotContains(t, result.Content[0].Text, token)
}

func TestHandleToolsCallInvalidParams(t *testing.T) {
	server := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	response := server.Handle(context.Background(),
		jsonrpc.NewRequest("tools/call", json.RawMessage(`"not-an-object"`), 5))

	require.NotNil(t, response.Error)
	assert.Equal(t, jsonrpc.ErrInvalidParams, response.Error.Code)
}

func TestHandleMethodNotFound(t *testing.T) {
	server := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	response := server.Handle(context.Background(), jsonrpc.NewRequest("resources/list", nil, 6))

	require.NotNil(t, response.Error)
	assert.Equal(t, jsonrpc.ErrMethodNotFound, response.Error.Code)
}
