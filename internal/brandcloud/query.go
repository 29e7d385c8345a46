package brandcloud

import (
	"net/url"
	"strconv"
	"strings"
)

type queryPair struct {
	key   string
	value string
}

// Query is an ordered multimap of query parameters.
// Unlike url.Values, Encode preserves insertion order and repeated keys.
type Query struct {
	pairs []queryPair
}

// NewQuery returns an empty query.
func NewQuery() *Query {
	return &Query{}
}

// Add appends a key/value pair.
func (q *Query) Add(key, value string) *Query {
	q.pairs = append(q.pairs, queryPair{key: key, value: value})
	return q
}

// AddInt appends an integer value.
func (q *Query) AddInt(key string, value int64) *Query {
	return q.Add(key, strconv.FormatInt(value, 10))
}

// AddOptionalInt appends the value only when it was provided.
func (q *Query) AddOptionalInt(key string, value *int64) *Query {
	if value != nil {
		q.AddInt(key, *value)
	}
	return q
}

// AddOptional appends the value only when it is non-empty.
func (q *Query) AddOptional(key, value string) *Query {
	if value != "" {
		q.Add(key, value)
	}
	return q
}

// AddEach appends one pair per element, all sharing the same key.
// Array filters are never comma-joined.
func (q *Query) AddEach(key string, values []string) *Query {
	for _, v := range values {
		q.Add(key, v)
	}
	return q
}

// Get returns the first value stored for key.
func (q *Query) Get(key string) (string, bool) {
	if q == nil {
		return "", false
	}
	for _, p := range q.pairs {
		if p.key == key {
			return p.value, true
		}
	}
	return "", false
}

// Len returns the number of pairs.
func (q *Query) Len() int {
	if q == nil {
		return 0
	}
	return len(q.pairs)
}

// Encode renders the pairs in insertion order using form encoding.
func (q *Query) Encode() string {
	if q == nil || len(q.pairs) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range q.pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}
	return b.String()
}

// withCredential returns a copy of q with apiKey placed first.
func (q *Query) withCredential(apiKey string) *Query {
	out := &Query{}
	if apiKey != "" {
		out.Add("apiKey", apiKey)
	}
	if q != nil {
		out.pairs = append(out.pairs, q.pairs...)
	}
	return out
}
