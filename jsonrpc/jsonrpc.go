// Package jsonrpc implements the subset of JSON-RPC 2.0 needed to speak the
// Model Context Protocol over stdio.
package jsonrpc

import (
	"context"
	"encoding/json"
	"fmt"
)

// Version is the JSON-RPC protocol version carried by every message.
const Version = "2.0"

// Request represents a JSON-RPC request object
type Request struct {
	Version string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	Id      interface{}     `json:"id"`
}

// NewRequest creates a new Request object
func NewRequest(method string, params json.RawMessage, id interface{}) Request {
	return Request{
		Version: Version,
		Method:  method,
		Params:  params,
		Id:      id,
	}
}

// IsNotification reports whether the request is a notification, i.e. carries
// no id and must not receive a response.
func (r Request) IsNotification() bool {
	return r.Id == nil
}

// Result represents a map of string keys to arbitrary values
type Result interface{}

// Response represents a JSON-RPC response object
type Response struct {
	Version string `json:"jsonrpc"`
	Result  Result `json:"result,omitempty"`
	Error   *Error `json:"error,omitempty"`
	ID      ID     `json:"id"`
}

// NewResponse creates a new Response object
func NewResponse(id interface{}, result Result, err *Error) Response {
	respID, _ := NewID(id)

	return Response{
		Version: Version,
		ID:      respID,
		Result:  result,
		Error:   err,
	}
}

// Handler defines the interface for handling JSON-RPC requests. The context
// bounds any upstream work the handler performs.
type Handler interface {
	Handle(ctx context.Context, request Request) Response
}

// ID represents a JSON-RPC ID which must be either a string or number
type ID struct {
	value interface{}
}

// NewID creates a JSON-RPC ID from a string or number
func NewID(id interface{}) (ID, error) {
	switch v := id.(type) {
	case ID:
		return v, nil
	case string:
		return ID{value: v}, nil
	case int, int32, int64, float32, float64:
		return ID{value: v}, nil
	case nil:
		return ID{}, fmt.Errorf("id cannot be null")
	default:
		return ID{}, fmt.Errorf("id must be string or number, got %T", id)
	}
}

func (id ID) Value() interface{} {
	return id.value
}

func (id ID) IsNil() bool {
	return id.value == nil
}

var _ json.Marshaler = ID{}

// MarshalJSON writes the underlying value, or 0 for the nil ID so responses
// to unparseable requests still carry a valid id.
func (id ID) MarshalJSON() ([]byte, error) {
	switch id.value {
	case nil:
		return json.Marshal(0)
	default:
		return json.Marshal(id.value)
	}
}

var _ json.Unmarshaler = &ID{}

// UnmarshalJSON implements json.Unmarshaler
func (id *ID) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case string:
		id.value = v
		return nil
	case float64: // JSON numbers are decoded as float64
		id.value = int(v)
		return nil
	case nil:
		return fmt.Errorf("id cannot be null")
	default:
		return fmt.Errorf("id must be string or number, got %T", raw)
	}
}
