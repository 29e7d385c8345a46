package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_ObserveRequest(t *testing.T) {
	c := NewCollector()

	c.ObserveRequest("get-document", http.MethodGet, 200, 120*time.Millisecond)
	c.ObserveRequest("get-document", http.MethodGet, 200, 80*time.Millisecond)
	c.ObserveRequest("get-document", http.MethodGet, 0, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.upstreamRequestsTotal.WithLabelValues("get-document", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.upstreamRequestsTotal.WithLabelValues("get-document", "GET", "error")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.upstreamRequestDuration))
}

func TestCollector_RecordToolCall(t *testing.T) {
	c := NewCollector()

	c.RecordToolCall("list-files", nil)
	c.RecordToolCall("list-files", errors.New("boom"))
	c.RecordToolCall("list-files", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.toolCallsTotal.WithLabelValues("list-files", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.toolCallsTotal.WithLabelValues("list-files", OutcomeError)))
}

func TestCollector_DownloadedBytes(t *testing.T) {
	c := NewCollector()
	c.AddDownloadedBytes(1024)
	c.AddDownloadedBytes(24)
	assert.Equal(t, 1048.0, testutil.ToFloat64(c.downloadedBytesTotal))
}

func TestCollector_IndependentRegistries(t *testing.T) {
	a := NewCollector()
	b := NewCollector()
	a.RecordToolCall("search-brandcloud", nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.toolCallsTotal.WithLabelValues("search-brandcloud", OutcomeSuccess)))
	assert.Equal(t, 0, testutil.CollectAndCount(b.toolCallsTotal))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector()
	c.RecordToolCall("get-file-image", nil)

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `brandcloud_mcp_tool_calls_total{outcome="success",tool="get-file-image"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
