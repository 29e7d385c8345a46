// Package brandcloud builds and sends requests to the BrandCloud REST API.
package brandcloud

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/Bigsy/brandcloud-mcp/internal/storage"
)

// DefaultTimeout bounds every outbound call when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Observer receives per-request measurements.
type Observer interface {
	ObserveRequest(op, method string, status int, d time.Duration)
	AddDownloadedBytes(n int)
}

type nopObserver struct{}

func (nopObserver) ObserveRequest(string, string, int, time.Duration) {}
func (nopObserver) AddDownloadedBytes(int)                            {}

// Options configures a Client.
type Options struct {
	HTTPClient *http.Client
	Scheme     string
	APIHost    string
	Timeout    time.Duration
	Policy     FieldPolicy
	Logger     *zap.Logger
	Observer   Observer

	// Files persists downloaded images. Zero value uses cwd and os.TempDir.
	Files storage.Local
	// Mirror optionally receives a copy of every downloaded image.
	Mirror storage.Mirror
}

// Client sends BrandCloud requests. It holds no per-call state and is safe
// for concurrent use.
type Client struct {
	http     *http.Client
	scheme   string
	host     string
	policy   FieldPolicy
	logger   *zap.Logger
	observer Observer
	files    storage.Local
	mirror   storage.Mirror
}

// NewClient creates a client.
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	var observer Observer = nopObserver{}
	if opts.Observer != nil {
		observer = opts.Observer
	}
	return &Client{
		http:     httpClient,
		scheme:   opts.Scheme,
		host:     opts.APIHost,
		policy:   opts.Policy,
		logger:   logger.With(zap.String("component", "brandcloud")),
		observer: observer,
		files:    opts.Files,
		mirror:   opts.Mirror,
	}
}

// Policy returns the zero-value policy used when building bodies.
func (c *Client) Policy() FieldPolicy {
	return c.policy
}

// BaseURL returns the API root for a tenant domain.
func (c *Client) BaseURL(domain string) string {
	return BaseURL(c.scheme, c.host, domain)
}

// Call builds the operation's request and sends it.
func (c *Client) Call(ctx context.Context, name string, t Tenant, op Operation) (json.RawMessage, error) {
	req, err := op.Request(c.policy)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, name, t, req)
}

// Do performs exactly one HTTP call and returns the upstream JSON verbatim,
// whatever the status code. Bulk deletes acknowledged with 200 return a
// synthesized trash envelope instead.
func (c *Client) Do(ctx context.Context, op string, t Tenant, req *Request) (json.RawMessage, error) {
	if err := ValidateDomain(t.Domain); err != nil {
		return nil, err
	}
	target := req.URL(c.BaseURL(t.Domain), t.APIKey)

	resp, err := c.send(ctx, op, req, target)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if req.TrashEntity != "" && resp.StatusCode == http.StatusOK {
		return trashEnvelope(req.TrashEntity)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Method: req.Method, URL: redactURL(target), StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	if !json.Valid(data) {
		return nil, &TransportError{Op: op, Method: req.Method, URL: redactURL(target), StatusCode: resp.StatusCode, Err: ErrInvalidJSON}
	}
	return json.RawMessage(data), nil
}

// send issues the request. The caller owns the response body.
func (c *Client) send(ctx context.Context, op string, req *Request, target string) (*http.Response, error) {
	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal %s body: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, &TransportError{Op: op, Method: req.Method, URL: redactURL(target), Err: err}
	}
	httpReq.Header = req.Header()

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	elapsed := time.Since(start)
	if err != nil {
		// *url.Error repeats the URL, credential included.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		c.observer.ObserveRequest(op, req.Method, 0, elapsed)
		c.logger.Warn("upstream request failed",
			zap.String("op", op),
			zap.String("method", req.Method),
			zap.String("url", redactURL(target)),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return nil, &TransportError{Op: op, Method: req.Method, URL: redactURL(target), Err: err}
	}

	c.observer.ObserveRequest(op, req.Method, resp.StatusCode, elapsed)
	c.logger.Debug("upstream request",
		zap.String("op", op),
		zap.String("method", req.Method),
		zap.String("url", redactURL(target)),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", elapsed))
	return resp, nil
}

type trashResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func trashEnvelope(entity string) (json.RawMessage, error) {
	return json.Marshal(trashResult{
		Success: true,
		Message: entity + " moved to trash successfully",
	})
}
