// Package metrics exposes Prometheus metrics for tool calls and upstream
// BrandCloud requests.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "brandcloud_mcp"

// Tool call outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Collector owns a private registry so several servers (and tests) can
// coexist in one process.
type Collector struct {
	registry *prometheus.Registry

	upstreamRequestsTotal   *prometheus.CounterVec
	upstreamRequestDuration *prometheus.HistogramVec
	toolCallsTotal          *prometheus.CounterVec
	downloadedBytesTotal    prometheus.Counter
}

// NewCollector registers all metrics on a fresh registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		upstreamRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "upstream_requests_total",
				Help:      "Total number of requests sent to the BrandCloud API",
			},
			[]string{"operation", "method", "status"},
		),
		upstreamRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "upstream_request_duration_seconds",
				Help:      "BrandCloud API request duration in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"operation"},
		),
		toolCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "tool_calls_total",
				Help:      "Total number of MCP tool invocations",
			},
			[]string{"tool", "outcome"},
		),
		downloadedBytesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "downloaded_bytes_total",
				Help:      "Bytes downloaded by get-file-image",
			},
		),
	}
}

// ObserveRequest records one upstream round trip. status 0 means no
// response was received.
func (c *Collector) ObserveRequest(op, method string, status int, d time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	c.upstreamRequestsTotal.WithLabelValues(op, method, label).Inc()
	c.upstreamRequestDuration.WithLabelValues(op).Observe(d.Seconds())
}

// AddDownloadedBytes counts downloaded image bytes.
func (c *Collector) AddDownloadedBytes(n int) {
	c.downloadedBytesTotal.Add(float64(n))
}

// RecordToolCall counts one tool invocation.
func (c *Collector) RecordToolCall(tool string, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	c.toolCallsTotal.WithLabelValues(tool, outcome).Inc()
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
