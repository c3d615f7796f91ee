package mcp

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lecternlabs/lectern/jsonrpc"
)

type mockHandler struct {
	handleFunc func(context.Context, jsonrpc.Request) jsonrpc.Response
}

func (m *mockHandler) Handle(ctx context.Context, req jsonrpc.Request) jsonrpc.Response {
	return m.handleFunc(ctx, req)
}

func TestTransportRun(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		mockResponse jsonrpc.Response
		expectedOut  string
	}{
		{
			name:  "successful request",
			input: `{"jsonrpc": "2.0", "method": "tools/list", "id": 1}`,
			mockResponse: jsonrpc.NewResponse(1, map[string]interface{}{
				"tools": []interface{}{},
			}, nil),
			expectedOut: `{"jsonrpc":"2.0","result":{"tools":[]},"id":1}
`,
		},
		{
			name:  "invalid JSON request",
			input: `{"jsonrpc": "2.0" method: invalid}`,
			expectedOut: `{"jsonrpc":"2.0","error":{"code":-32700,"message":"Parse error","data":"invalid character 'm' after object key:value pair"},"id":0}
`,
		},
		{
			name: "multiple requests",
			input: `{"jsonrpc": "2.0", "method": "tools/list", "id": 1}
{"jsonrpc": "2.0", "method": "tools/call", "id": 2}`,
			mockResponse: jsonrpc.NewResponse(0, "success", nil),
			expectedOut: `{"jsonrpc":"2.0","result":"success","id":0}
{"jsonrpc":"2.0","result":"success","id":0}
`,
		},
		{
			name:        "notification gets no response line",
			input:       `{"jsonrpc": "2.0", "method": "notifications/initialized"}`,
			expectedOut: "",
		},
		{
			name:        "empty input",
			input:       "",
			expectedOut: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := &mockHandler{
				handleFunc: func(context.Context, jsonrpc.Request) jsonrpc.Response {
					return tt.mockResponse
				},
			}

			input := tt.input
			if input != "" && !strings.HasSuffix(input, "\n") {
				input += "\n"
			}

			in := strings.NewReader(input)
			out := &bytes.Buffer{}
			errOut := &bytes.Buffer{}

			transport := NewStdioTransport(handler, in, out, errOut)
			err := transport.Run(context.Background())

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedOut, out.String())
			assert.Empty(t, errOut.String())
		})
	}
}

func TestTransportRunCancelled(t *testing.T) {
	handler := &mockHandler{
		handleFunc: func(context.Context, jsonrpc.Request) jsonrpc.Response {
			return jsonrpc.Response{}
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	transport := NewStdioTransport(handler, strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})
	err := transport.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTransportIntegration(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/courses/42/quizzes/7", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":7,"title":"Midterm"}`))
	}))
	t.Cleanup(ts.Close)

	server, err := NewServer(
		WithCanvas(ts.URL, "test-token"),
		WithClient(ts.Client()),
	)
	require.NoError(t, err)

	input := strings.Join([]string{
		`{"jsonrpc":"2.0","method":"initialize","params":{},"id":1}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","method":"tools/call","params":{"name":"get_quiz","arguments":{"courseId":42,"quizId":7}},"id":2}`,
	}, "\n") + "\n"

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	transport := NewStdioTransport(server, strings.NewReader(input), out, errOut)
	require.NoError(t, transport.Run(context.Background()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2, "notification must not produce output")

	assert.Contains(t, lines[0], `"protocolVersion":"2024-11-05"`)
	assert.Contains(t, lines[1], `Midterm`)
	assert.Empty(t, errOut.String())
}
