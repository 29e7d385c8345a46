// Package server exposes the BrandCloud operations as MCP tools over stdio
// or streamable HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/Bigsy/brandcloud-mcp/internal/brandcloud"
	"github.com/Bigsy/brandcloud-mcp/internal/config"
	"github.com/Bigsy/brandcloud-mcp/internal/credential"
	"github.com/Bigsy/brandcloud-mcp/internal/metrics"
)

const (
	DefaultServerName = "brandcloud-mcp"
	MCPPath           = "/mcp"
	shutdownTimeout   = 10 * time.Second
)

const instructions = `Tools for the BrandCloud brand-asset platform. Every tool accepts an optional "domain" naming the BrandCloud instance (the subdomain of brandcloud.pro). Documents are edited through revisions: create or update elements, then call publish-document-revision for the changes to become visible.`

// Options configures the MCP server.
type Options struct {
	Config        *config.Config
	Client        *brandcloud.Client
	Metrics       *metrics.Collector
	Logger        *zap.Logger
	ServerName    string
	ServerVersion string
}

// Server registers the BrandCloud tools on an MCP server. It holds no
// per-call state.
type Server struct {
	cfg      *config.Config
	client   *brandcloud.Client
	resolver *credential.Resolver
	metrics  *metrics.Collector
	logger   *zap.Logger
	mcp      *mcp.Server
	tools    []ToolSpec
}

// New creates the server and registers every tool the config allows.
func New(opts Options) (*Server, error) {
	if opts.Config == nil {
		return nil, errors.New("server: config is required")
	}
	if opts.Client == nil {
		return nil, errors.New("server: client is required")
	}
	name := opts.ServerName
	if name == "" {
		name = DefaultServerName
	}
	version := opts.ServerVersion
	if version == "" {
		version = "dev"
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	collector := opts.Metrics
	if collector == nil {
		collector = metrics.NewCollector()
	}

	s := &Server{
		cfg:      opts.Config,
		client:   opts.Client,
		resolver: credential.NewResolver(opts.Config.APIKey),
		metrics:  collector,
		logger:   logger.With(zap.String("component", "server")),
		mcp: mcp.NewServer(&mcp.Implementation{Name: name, Version: version},
			&mcp.ServerOptions{Instructions: instructions}),
	}

	for _, spec := range AllowedTools(opts.Config) {
		if err := checkClassification(spec); err != nil {
			return nil, err
		}
		register, ok := registrars[spec.Name]
		if !ok {
			return nil, fmt.Errorf("server: no handler for tool %s", spec.Name)
		}
		schema, err := spec.InputSchema(opts.Config.Domain)
		if err != nil {
			return nil, err
		}
		register(s, &mcp.Tool{
			Name:        spec.Name,
			Title:       spec.Title,
			Description: spec.Description,
			InputSchema: schema,
			Annotations: spec.Annotations(),
		})
		s.tools = append(s.tools, spec)
	}

	s.logger.Info("tools registered",
		zap.Int("count", len(s.tools)),
		zap.Bool("read_only", opts.Config.ReadOnly),
		zap.String("default_domain", opts.Config.Domain))
	return s, nil
}

// Tools returns the registered tool specs in registration order.
func (s *Server) Tools() []ToolSpec {
	return s.tools
}

// MCP returns the underlying MCP server.
func (s *Server) MCP() *mcp.Server {
	return s.mcp
}

// RunStdio serves a single session over stdin/stdout until ctx is done or
// the client disconnects.
func (s *Server) RunStdio(ctx context.Context) error {
	s.logger.Info("serving on stdio")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns the HTTP mux: the streamable MCP endpoint plus metrics
// and health probes.
func (s *Server) Handler() http.Handler {
	streamable := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcp
	}, nil)

	mux := http.NewServeMux()
	mux.Handle(MCPPath, s.logRequests(streamable))
	mux.Handle("/metrics", s.metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	return mux
}

// ServeHTTP listens on addr until ctx is cancelled, then shuts down.
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving streamable http", zap.String("addr", ln.Addr().String()), zap.String("path", MCPPath))
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Bool("api_key_header", r.Header.Get(credential.HeaderName) != ""),
			zap.Duration("elapsed", time.Since(start)))
	})
}
