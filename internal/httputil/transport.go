package httputil

import "net/http"

// HeaderTransport is a RoundTripper that adds a fixed set of headers to
// every outgoing request before delegating to the base transport. The
// Canvas client uses it to carry the caller's Authorization header so the
// token never has to be threaded through request construction.
type HeaderTransport struct {
	Base    http.RoundTripper
	Headers http.Header
}

// RoundTrip sends a copy of the request with the configured headers set.
// RoundTrippers must not mutate the caller's request.
func (t *HeaderTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	for key, values := range t.Headers {
		for _, value := range values {
			clone.Header.Set(key, value)
		}
	}
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(clone)
}
