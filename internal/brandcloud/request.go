package brandcloud

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

const (
	// DefaultScheme is the scheme used for tenant base URLs.
	DefaultScheme = "https"
	// DefaultAPIHost is the provider host every tenant subdomain lives under.
	DefaultAPIHost = "brandcloud.pro"
	// APIPath is the versioned API root.
	APIPath = "/api/v2"
)

// ErrInvalidDomain is returned for a domain that is not a single DNS label.
var ErrInvalidDomain = errors.New("invalid domain")

var domainLabel = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9-]{0,61}[A-Za-z0-9])?$`)

// ValidateDomain checks that domain is a bare tenant subdomain such as
// "acme". Anything else could move the request, and its apiKey, to
// another host.
func ValidateDomain(domain string) error {
	if !domainLabel.MatchString(domain) {
		return fmt.Errorf("%w %q: must be a single subdomain label (letters, digits, hyphens)", ErrInvalidDomain, domain)
	}
	return nil
}

// BaseURL returns https://{domain}.{host}/api/v2.
func BaseURL(scheme, host, domain string) string {
	if scheme == "" {
		scheme = DefaultScheme
	}
	if host == "" {
		host = DefaultAPIHost
	}
	return fmt.Sprintf("%s://%s.%s%s", scheme, domain, host, APIPath)
}

// Request describes one outbound call. It is built fresh per tool call.
type Request struct {
	Method string
	Path   []string
	Query  *Query
	Body   *Body

	// TrashEntity names the entity for bulk deletes that the API
	// acknowledges with a bare 200 (e.g. "Documents").
	TrashEntity string
}

// Segment formats an identifier as a path segment.
func Segment(id int64) string {
	return strconv.FormatInt(id, 10)
}

// URL returns the fully-qualified URL with the credential placed first in
// the query string.
func (r *Request) URL(base, apiKey string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSuffix(base, "/"))
	for _, seg := range r.Path {
		b.WriteByte('/')
		b.WriteString(escapeSegment(seg))
	}
	if qs := r.Query.withCredential(apiKey).Encode(); qs != "" {
		b.WriteByte('?')
		b.WriteString(qs)
	}
	return b.String()
}

// escapeSegment escapes every reserved character, including & = + $ : @
// which url.PathEscape leaves alone. Spaces become %20 and the marks
// ! ' ( ) * stay literal.
func escapeSegment(seg string) string {
	return segmentMarks.Replace(url.QueryEscape(seg))
}

var segmentMarks = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// Header returns the headers sent with the request.
func (r *Request) Header() http.Header {
	h := make(http.Header)
	h.Set("Accept", "application/json")
	if r.Body != nil {
		h.Set("Content-Type", "application/json")
	}
	return h
}

// Operation is a logical BrandCloud call that can build its own request.
type Operation interface {
	// TenantDomain returns the domain given by the caller, or "".
	TenantDomain() string
	// Request builds the request descriptor.
	Request(policy FieldPolicy) (*Request, error)
}

// Tenant identifies who a call is made for.
type Tenant struct {
	Domain string
	APIKey string
}

// redactURL hides the apiKey query value for logs and errors.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	if q.Get("apiKey") == "" {
		return raw
	}
	q.Set("apiKey", "REDACTED")
	u.RawQuery = q.Encode()
	return u.String()
}
