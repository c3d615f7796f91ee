// Package canvas provides an HTTP client for the Canvas LMS REST API.
// Clients are cheap, hold no shared state, and are bound to a single base
// URL and bearer token, matching the per-request credential model of the
// tool server: construct, use, discard.
package canvas

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lecternlabs/lectern/internal/httputil"
)

const (
	// apiPrefix is appended to base URLs that do not already target the
	// versioned REST API.
	apiPrefix = "/api/v1"

	defaultPerPage        = 100
	defaultTimeoutSeconds = 30
)

// Client talks to one Canvas instance on behalf of one caller. The bearer
// token lives only in the request transport so it cannot surface in URLs,
// errors, or logs.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	logger         *slog.Logger
	perPage        int
	timeoutSeconds int
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the underlying HTTP client. The client is copied
// before its transport is wrapped, so the caller's instance is untouched.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPerPage sets the page size injected into paginated requests that do
// not specify their own per_page parameter.
func WithPerPage(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.perPage = n
		}
	}
}

// WithTimeoutSeconds sets the deadline reported in timeout error messages.
// Callers that wrap the HTTP client in a retrying transport must pass this
// explicitly; the timeout on the outer client is not visible there.
func WithTimeoutSeconds(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.timeoutSeconds = n
		}
	}
}

// NewClient creates a Canvas API client for the given base URL and token.
// The URL may point at the instance root or at /api/v1 directly; both
// normalize to the same versioned base.
func NewClient(apiURL, token string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    normalizeBaseURL(apiURL),
		httpClient: &http.Client{Timeout: defaultTimeoutSeconds * time.Second},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		perPage:    defaultPerPage,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.timeoutSeconds == 0 {
		c.timeoutSeconds = defaultTimeoutSeconds
		if t := c.httpClient.Timeout; t > 0 {
			c.timeoutSeconds = int(t.Seconds())
		}
	}

	authed := *c.httpClient
	authed.Transport = &httputil.HeaderTransport{
		Base: c.httpClient.Transport,
		Headers: http.Header{
			"Authorization": []string{"Bearer " + token},
			"Content-Type":  []string{"application/json"},
			"Accept":        []string{"application/json"},
		},
	}
	c.httpClient = &authed

	return c
}

func normalizeBaseURL(apiURL string) string {
	base := strings.TrimRight(apiURL, "/")
	if !strings.HasSuffix(base, apiPrefix) {
		base += apiPrefix
	}
	return base
}

// BaseURL returns the normalized API base the client requests against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get performs a single GET request and returns the decoded JSON body.
func (c *Client) Get(ctx context.Context, endpoint string, params url.Values) (any, error) {
	payload, _, err := c.do(ctx, http.MethodGet, c.buildURL(endpoint, params), endpoint, nil)
	if err != nil {
		return nil, err
	}
	return decodeBody(payload, endpoint)
}

// GetPaginated performs a GET and, when the response is a JSON array,
// follows Link rel="next" headers until the collection is exhausted. A
// per_page parameter is injected when the caller did not set one. Non-array
// responses are returned unmodified; some Canvas list endpoints wrap their
// collections in an object.
func (c *Client) GetPaginated(ctx context.Context, endpoint string, params url.Values) (any, error) {
	if params == nil {
		params = url.Values{}
	}
	if params.Get("per_page") == "" {
		params.Set("per_page", strconv.Itoa(c.perPage))
	}

	payload, headers, err := c.do(ctx, http.MethodGet, c.buildURL(endpoint, params), endpoint, nil)
	if err != nil {
		return nil, err
	}
	data, err := decodeBody(payload, endpoint)
	if err != nil {
		return nil, err
	}

	items, ok := data.([]any)
	if !ok {
		return data, nil
	}

	for next := nextPageURL(headers); next != ""; {
		payload, headers, err = c.do(ctx, http.MethodGet, next, endpoint, nil)
		if err != nil {
			return nil, err
		}
		page, err := decodeBody(payload, endpoint)
		if err != nil {
			return nil, err
		}
		pageItems, ok := page.([]any)
		if !ok {
			return nil, fmt.Errorf("unexpected non-array page from %s", endpoint)
		}
		items = append(items, pageItems...)
		next = nextPageURL(headers)
	}

	return items, nil
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, endpoint string, params url.Values, body any) (any, error) {
	payload, _, err := c.do(ctx, http.MethodPost, c.buildURL(endpoint, params), endpoint, body)
	if err != nil {
		return nil, err
	}
	return decodeBody(payload, endpoint)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, endpoint string, params url.Values, body any) (any, error) {
	payload, _, err := c.do(ctx, http.MethodPut, c.buildURL(endpoint, params), endpoint, body)
	if err != nil {
		return nil, err
	}
	return decodeBody(payload, endpoint)
}

// Delete performs a DELETE request. Canvas sometimes answers deletes with an
// empty body, which decodes to an empty object.
func (c *Client) Delete(ctx context.Context, endpoint string, params url.Values) (any, error) {
	payload, _, err := c.do(ctx, http.MethodDelete, c.buildURL(endpoint, params), endpoint, nil)
	if err != nil {
		return nil, err
	}
	var data any
	if err := json.Unmarshal(payload, &data); err != nil {
		return map[string]any{}, nil
	}
	return data, nil
}

func (c *Client) buildURL(endpoint string, params url.Values) string {
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	u := c.baseURL + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// do issues the request and returns the raw body and response headers.
// Non-2xx statuses come back as an *APIError; transport-level timeouts come
// back as the distinct timeout error kind.
func (c *Client) do(ctx context.Context, method, rawURL, endpoint string, body any) ([]byte, http.Header, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("build request: %w", err)
	}

	c.logger.Debug("canvas request", "method", method, "url", rawURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, nil, NewTimeoutError(c.timeoutSeconds, endpoint)
		}
		return nil, nil, fmt.Errorf("canvas request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Debug("canvas error response", "method", method, "status", resp.StatusCode, "endpoint", endpoint)
		return nil, nil, c.errorFromResponse(resp.StatusCode, payload, resp.Header, endpoint)
	}

	return payload, resp.Header, nil
}

func decodeBody(payload []byte, endpoint string) (any, error) {
	var data any
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("decode response from %s: %w", endpoint, err)
	}
	return data, nil
}

func (c *Client) errorFromResponse(status int, payload []byte, headers http.Header, endpoint string) *APIError {
	message := extractErrorMessage(payload)

	switch {
	case status == 401:
		return NewAuthError(endpoint)
	case status == 404:
		return NewNotFoundError(endpoint)
	case status == 400 || status == 422:
		return NewValidationError(message, status, endpoint)
	case status == 429:
		retryAfter, _ := strconv.Atoi(headers.Get("Retry-After"))
		return NewRateLimitError(retryAfter, endpoint)
	case status >= 500:
		return NewServerError(status, endpoint)
	default:
		return NewAPIError(message, status, endpoint)
	}
}

// extractErrorMessage pulls a human-readable message out of a Canvas error
// body. Canvas uses both {"message": ...} and {"error": ...} shapes; plain
// text bodies pass through as-is.
func extractErrorMessage(payload []byte) string {
	var body map[string]any
	if err := json.Unmarshal(payload, &body); err == nil {
		if msg, ok := body["message"].(string); ok && msg != "" {
			return msg
		}
		if msg, ok := body["error"].(string); ok && msg != "" {
			return msg
		}
		return "Unknown error"
	}
	if text := strings.TrimSpace(string(payload)); text != "" {
		return text
	}
	return "Unknown error"
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr) && urlErr.Timeout()
}

// nextPageURL extracts the rel="next" URL from a Canvas Link header:
//
//	Link: <https://canvas.example.com/api/v1/courses?page=2>; rel="next"
func nextPageURL(h http.Header) string {
	link := h.Get("Link")
	if link == "" {
		return ""
	}
	for _, part := range strings.Split(link, ",") {
		if !strings.Contains(part, `rel="next"`) {
			continue
		}
		segment := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		return strings.Trim(segment, "<>")
	}
	return ""
}
