package jsonrpc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    interface{}
		wantErr bool
	}{
		{name: "string id", input: `"abc"`, want: "abc"},
		{name: "number id", input: `42`, want: 42},
		{name: "null id", input: `null`, wantErr: true},
		{name: "object id", input: `{}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ID
			err := json.Unmarshal([]byte(tt.input), &id)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id.Value())
		})
	}
}

func TestIDMarshal(t *testing.T) {
	id, err := NewID("req-1")
	require.NoError(t, err)
	data, err := json.Marshal(id)
	require.NoError(t, err)
	assert.JSONEq(t, `"req-1"`, string(data))

	// A nil ID marshals as 0 so error responses to unparseable
	// requests still carry a valid id.
	data, err = json.Marshal(ID{})
	require.NoError(t, err)
	assert.JSONEq(t, `0`, string(data))
}

func TestNewError(t *testing.T) {
	tests := []struct {
		code    ErrorCode
		message string
	}{
		{ErrParse, "Parse error"},
		{ErrInvalidRequest, "Invalid Request"},
		{ErrMethodNotFound, "Method not found"},
		{ErrInvalidParams, "Invalid params"},
		{ErrInternal, "Internal error"},
		{ErrServer, "Server error"},
		{ErrorCode(-32050), "Server error"},
		{ErrorCode(-1), "Unknown error"},
	}

	for _, tt := range tests {
		err := NewError(tt.code, nil)
		assert.Equal(t, tt.code, err.Code)
		assert.Equal(t, tt.message, err.Message)
	}
}

func TestNewResponse(t *testing.T) {
	resp := NewResponse(7, map[string]string{"ok": "yes"}, nil)
	assert.Equal(t, Version, resp.Version)
	assert.Nil(t, resp.Error)

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","result":{"ok":"yes"},"id":7}`, string(data))
}

func TestIsNotification(t *testing.T) {
	assert.True(t, NewRequest("notifications/initialized", nil, nil).IsNotification())
	assert.False(t, NewRequest("ping", nil, 1).IsNotification())
}
