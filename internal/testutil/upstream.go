package testutil

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
)

// RoundTripFunc adapts a function to http.RoundTripper.
type RoundTripFunc func(*http.Request) (*http.Response, error)

func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Response is a canned upstream reply.
type Response struct {
	Status int
	Body   []byte
}

// RecordedRequest is one request seen by Upstream.
type RecordedRequest struct {
	Method string
	URL    string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// Upstream is an in-process fake of the BrandCloud API. Routes are keyed
// by method and URL path; unknown routes answer 404 with a JSON error.
type Upstream struct {
	mu       sync.Mutex
	routes   map[string]Response
	requests []RecordedRequest
}

// NewUpstream returns an Upstream with no routes.
func NewUpstream() *Upstream {
	return &Upstream{routes: make(map[string]Response)}
}

// Handle registers a reply for method and path (e.g. "/api/v2/document").
func (u *Upstream) Handle(method, path string, status int, body string) *Upstream {
	return u.HandleBytes(method, path, status, []byte(body))
}

// HandleBytes registers a binary reply.
func (u *Upstream) HandleBytes(method, path string, status int, body []byte) *Upstream {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.routes[method+" "+path] = Response{Status: status, Body: body}
	return u
}

// RoundTrip implements http.RoundTripper.
func (u *Upstream) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		var err error
		body, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
	}

	u.mu.Lock()
	u.requests = append(u.requests, RecordedRequest{
		Method: req.Method,
		URL:    req.URL.String(),
		Path:   req.URL.Path,
		Query:  req.URL.Query(),
		Header: req.Header.Clone(),
		Body:   body,
	})
	resp, ok := u.routes[req.Method+" "+req.URL.Path]
	u.mu.Unlock()

	if !ok {
		resp = Response{Status: http.StatusNotFound, Body: []byte(`{"error":"not found"}`)}
	}
	return &http.Response{
		StatusCode: resp.Status,
		Status:     fmt.Sprintf("%d %s", resp.Status, http.StatusText(resp.Status)),
		Header:     make(http.Header),
		Body:       io.NopCloser(bytes.NewReader(resp.Body)),
		Request:    req,
	}, nil
}

// Client returns an http.Client that talks to the fake.
func (u *Upstream) Client() *http.Client {
	return &http.Client{Transport: u}
}

// Requests returns a copy of every recorded request.
func (u *Upstream) Requests() []RecordedRequest {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]RecordedRequest(nil), u.requests...)
}

// Last returns the most recent request. It panics when none was made.
func (u *Upstream) Last() RecordedRequest {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.requests[len(u.requests)-1]
}
