// Package tools implements the Canvas operations exposed to AI assistants.
// Each tool validates its arguments, issues one or two Canvas API calls, and
// returns the upstream JSON wrapped in a small, stable result shape.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/lecternlabs/lectern/canvas"
)

// Tool is one Canvas operation. Implementations are stateless; everything
// call-specific arrives through the Context.
type Tool interface {
	Name() string
	Description() string
	Category() string
	InputSchema() *jsonschema.Schema
	Execute(ctx context.Context, call *Context) (any, error)
}

// Context carries the per-call credentials, raw arguments, and pagination
// limits for one tool execution. The Canvas client is created lazily so
// argument validation never opens a connection.
type Context struct {
	APIURL string
	Token  string
	Args   json.RawMessage

	PerPageDefault int
	PerPageMax     int

	clientOpts []canvas.ClientOption
	client     *canvas.Client
}

// Option configures a Context.
type Option func(*Context)

// WithClientOptions passes options through to the lazily created Canvas
// client, such as the shared HTTP client and logger.
func WithClientOptions(opts ...canvas.ClientOption) Option {
	return func(c *Context) {
		c.clientOpts = append(c.clientOpts, opts...)
	}
}

// WithPageLimits sets the default page size injected into paginated calls
// and the maximum accepted for a caller-supplied perPage argument.
func WithPageLimits(defaultPerPage, maxPerPage int) Option {
	return func(c *Context) {
		if defaultPerPage > 0 {
			c.PerPageDefault = defaultPerPage
		}
		if maxPerPage > 0 {
			c.PerPageMax = maxPerPage
		}
	}
}

// NewContext builds the context for a single tool call.
func NewContext(apiURL, token string, args json.RawMessage, opts ...Option) *Context {
	c := &Context{
		APIURL:         apiURL,
		Token:          token,
		Args:           args,
		PerPageDefault: 100,
		PerPageMax:     100,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Client returns the Canvas client for this call, creating it on first use.
func (c *Context) Client() *canvas.Client {
	if c.client == nil {
		opts := append([]canvas.ClientOption{canvas.WithPerPage(c.PerPageDefault)}, c.clientOpts...)
		c.client = canvas.NewClient(c.APIURL, c.Token, opts...)
	}
	return c.client
}

// resolvePerPage applies the configured default when perPage was not given
// and rejects values outside 1..max.
func (c *Context) resolvePerPage(perPage *int) (int, error) {
	if perPage == nil {
		return c.PerPageDefault, nil
	}
	if *perPage < 1 || *perPage > c.PerPageMax {
		return 0, argErrorf("perPage must be an integer between 1 and %d", c.PerPageMax)
	}
	return *perPage, nil
}

// ArgumentError reports invalid tool arguments. The route layer renders it
// with an "Invalid arguments:" prefix, so Message holds only the reason.
type ArgumentError struct {
	Message string
}

var _ error = &ArgumentError{}

func (e *ArgumentError) Error() string {
	return e.Message
}

// AsArgumentError unwraps err into an *ArgumentError if it is one.
func AsArgumentError(err error) (*ArgumentError, bool) {
	var argErr *ArgumentError
	if errors.As(err, &argErr) {
		return argErr, true
	}
	return nil, false
}

func argErrorf(format string, args ...any) *ArgumentError {
	return &ArgumentError{Message: fmt.Sprintf(format, args...)}
}

// ErrorMessage renders a tool execution error as caller-facing text. Canvas
// failures carry their HTTP status, argument failures get the Invalid
// arguments prefix, anything else is unexpected. Both the HTTP envelope and
// the MCP tool-call result use this rendering.
func ErrorMessage(err error) string {
	if apiErr, ok := canvas.AsAPIError(err); ok {
		status := "Unknown"
		if apiErr.StatusCode != 0 {
			status = strconv.Itoa(apiErr.StatusCode)
		}
		return fmt.Sprintf("Canvas API Error [%s]: %s", status, apiErr.Message)
	}
	if argErr, ok := AsArgumentError(err); ok {
		return "Invalid arguments: " + argErr.Message
	}
	return "Unexpected error: " + err.Error()
}

// decodeArgs unmarshals raw tool arguments into v, converting JSON type
// mismatches into caller-facing validation messages. Missing or empty
// arguments decode as the empty object.
func decodeArgs(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			if elem := listElemType(v, typeErr); elem != nil {
				return argErrorf("%s must be a list of %s", typeErr.Field, friendlyElems(elem))
			}
			return argErrorf("%s must be %s", typeErr.Field, friendlyType(typeErr.Type))
		}
		return &ArgumentError{Message: err.Error()}
	}
	return nil
}

// listElemType returns the slice element type when the mismatch occurred on
// an element of a list-valued field rather than on the field itself, so the
// message can name the expected element type instead of a bare "must be a
// string" on a list argument.
func listElemType(v any, typeErr *json.UnmarshalTypeError) reflect.Type {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	for i := 0; i < t.NumField(); i++ {
		tag, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if tag != typeErr.Field {
			continue
		}
		ft := t.Field(i).Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if (ft.Kind() == reflect.Slice || ft.Kind() == reflect.Array) && typeErr.Type != ft {
			return ft.Elem()
		}
		return nil
	}
	return nil
}

func friendlyElems(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "strings"
	case reflect.Bool:
		return "booleans"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "integers"
	case reflect.Float32, reflect.Float64:
		return "numbers"
	default:
		return t.Kind().String() + "s"
	}
}

func friendlyType(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return "a list"
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	default:
		return "a " + t.Kind().String()
	}
}

// requireID enforces the presence of a positive integer id argument.
func requireID(name string, v *int) (int, error) {
	if v == nil {
		return 0, argErrorf("%s is required", name)
	}
	if *v <= 0 {
		return 0, argErrorf("%s must be a positive integer", name)
	}
	return *v, nil
}

func boolOrDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

// collectionSize mirrors a len() over whatever the upstream returned:
// arrays count elements, objects count keys.
func collectionSize(v any) int {
	switch vv := v.(type) {
	case []any:
		return len(vv)
	case map[string]any:
		return len(vv)
	default:
		return 0
	}
}

// Schema helpers shared by the tool definitions.

func objectSchema(props map[string]*jsonschema.Schema, required ...string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
}

func stringSchema(description string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Description: description}
}

func integerSchema(description string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "integer", Description: description}
}

func booleanSchema(description string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "boolean", Description: description}
}

func stringArraySchema(description string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "array",
		Description: description,
		Items:       &jsonschema.Schema{Type: "string"},
	}
}

func integerArraySchema(description string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "array",
		Description: description,
		Items:       &jsonschema.Schema{Type: "integer"},
	}
}

func enumSchema(description string, values ...string) *jsonschema.Schema {
	enum := make([]any, len(values))
	for i, v := range values {
		enum[i] = v
	}
	return &jsonschema.Schema{Type: "string", Description: description, Enum: enum}
}
