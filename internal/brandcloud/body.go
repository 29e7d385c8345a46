package brandcloud

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FieldPolicy decides whether zero values of guarded optional fields are sent.
type FieldPolicy int

const (
	// PresencePolicy sends every provided value, including 0 and "".
	PresencePolicy FieldPolicy = iota
	// TruthyPolicy drops zero values of guarded fields, matching the
	// behaviour of the first BrandCloud tool release.
	TruthyPolicy
)

// String returns the policy name used in config files.
func (p FieldPolicy) String() string {
	switch p {
	case TruthyPolicy:
		return "truthy"
	default:
		return "presence"
	}
}

// Body is a JSON object that keeps fields in insertion order.
// Absent optional fields are never encoded as null.
type Body struct {
	policy FieldPolicy
	keys   []string
	values map[string]any
}

// NewBody creates an empty body using the given zero-value policy.
func NewBody(policy FieldPolicy) *Body {
	return &Body{
		policy: policy,
		values: make(map[string]any),
	}
}

// Set stores a required field.
func (b *Body) Set(key string, value any) *Body {
	if _, exists := b.values[key]; !exists {
		b.keys = append(b.keys, key)
	}
	b.values[key] = value
	return b
}

// Has reports whether key is present.
func (b *Body) Has(key string) bool {
	_, ok := b.values[key]
	return ok
}

// Value returns the stored value for key.
func (b *Body) Value(key string) (any, bool) {
	v, ok := b.values[key]
	return v, ok
}

// Keys returns the field names in insertion order.
func (b *Body) Keys() []string {
	return append([]string(nil), b.keys...)
}

// MarshalJSON encodes the fields in insertion order.
func (b *Body) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range b.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(b.values[k])
		if err != nil {
			return nil, fmt.Errorf("marshal field %s: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Optional stores *value under key when value is non-nil.
func Optional[T any](b *Body, key string, value *T) {
	if value != nil {
		b.Set(key, *value)
	}
}

// Guarded stores *value under key when value is non-nil. Under TruthyPolicy
// a zero value is treated as not provided.
func Guarded[T comparable](b *Body, key string, value *T) {
	if value == nil {
		return
	}
	var zero T
	if b.policy == TruthyPolicy && *value == zero {
		return
	}
	b.Set(key, *value)
}

// OptionalSlice stores values under key when the slice was provided.
func OptionalSlice[T any](b *Body, key string, values []T) {
	if values != nil {
		b.Set(key, values)
	}
}
