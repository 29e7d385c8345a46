package credential

import "net/http"

// HeaderName carries the per-request API key in streamable HTTP mode.
const HeaderName = "x-brandcloud-api-key"

// TransportContext is present only when a tool call arrived over HTTP.
type TransportContext struct {
	Header http.Header
}

// FromHeader wraps inbound request headers. A nil header still yields a
// request-bound context.
func FromHeader(h http.Header) *TransportContext {
	return &TransportContext{Header: h}
}

// Resolver picks the credential for a single tool call.
type Resolver struct {
	fallback string
}

// NewResolver returns a resolver whose standalone-mode credential is fallback.
func NewResolver(fallback string) *Resolver {
	return &Resolver{fallback: fallback}
}

// Resolve returns the API key for a call, or "" when none is available.
//
// With a transport context the key comes only from the request header; the
// first value wins when the header is repeated. Without one the configured
// fallback is used.
func (r *Resolver) Resolve(tc *TransportContext) string {
	if tc == nil {
		return r.fallback
	}
	if values := tc.Header.Values(HeaderName); len(values) > 0 {
		return values[0]
	}
	return ""
}
