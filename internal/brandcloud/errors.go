package brandcloud

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// ErrInvalidJSON is wrapped by TransportError when the upstream body is not JSON.
var ErrInvalidJSON = errors.New("response body is not valid JSON")

// TransportError reports a failed round trip: the network call failed or the
// response could not be interpreted.
type TransportError struct {
	Op         string
	Method     string
	URL        string // apiKey redacted
	StatusCode int    // 0 when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s %s: status %d: %v", e.Op, e.Method, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s %s: %v", e.Op, e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DownloadError reports a non-success status on a binary download.
type DownloadError struct {
	FileID     int64
	StatusCode int
	StatusText string
}

func (e *DownloadError) Error() string {
	return "failed to download file: " + e.StatusText
}

// statusText extracts "Not Found" from "404 Not Found".
func statusText(resp *http.Response) string {
	if text, ok := strings.CutPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" "); ok && text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
