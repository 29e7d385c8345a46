// Package credential resolves the BrandCloud API key for a tool call and
// stores keys saved by the auth commands.
package credential

import (
	"errors"
	"strings"
	"time"
)

// Entry is a stored API key for one tenant domain.
type Entry struct {
	Domain    string `json:"domain"`
	APIKey    string `json:"api_key"`
	CreatedAt int64  `json:"created_at"` // Unix milliseconds
}

// NewEntry creates a validated entry stamped with the current time.
func NewEntry(domain, apiKey string) (*Entry, error) {
	e := &Entry{
		Domain:    normalizeDomain(domain),
		APIKey:    strings.TrimSpace(apiKey),
		CreatedAt: time.Now().UnixMilli(),
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Validate checks that all required fields are set.
func (e *Entry) Validate() error {
	if e.Domain == "" {
		return errors.New("credential: Domain is required")
	}
	if e.APIKey == "" {
		return errors.New("credential: APIKey is required")
	}
	return nil
}

// Masked returns the key with all but the last four characters hidden.
func (e Entry) Masked() string {
	if len(e.APIKey) <= 4 {
		return strings.Repeat("*", len(e.APIKey))
	}
	return strings.Repeat("*", len(e.APIKey)-4) + e.APIKey[len(e.APIKey)-4:]
}

// Store persists API keys by tenant domain.
type Store interface {
	// Get returns the entry for domain, or nil when none is stored.
	Get(domain string) (*Entry, error)
	Put(e *Entry) error
	Delete(domain string) error
	List() ([]*Entry, error)
}

// StoreMode selects the storage backend.
type StoreMode string

const (
	// StoreModeAuto uses keyring if available, falls back to file.
	StoreModeAuto StoreMode = "auto"
	// StoreModeKeyring uses the system keychain.
	StoreModeKeyring StoreMode = "keyring"
	// StoreModeFile uses a JSON file.
	StoreModeFile StoreMode = "file"
)

// ParseStoreMode validates s; empty selects StoreModeAuto.
func ParseStoreMode(s string) (StoreMode, error) {
	switch StoreMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", StoreModeAuto:
		return StoreModeAuto, nil
	case StoreModeKeyring:
		return StoreModeKeyring, nil
	case StoreModeFile:
		return StoreModeFile, nil
	}
	return "", errors.New("credential store must be one of auto, keyring, file")
}

// NewStore creates a store for mode.
func NewStore(mode StoreMode) (Store, error) {
	switch mode {
	case StoreModeKeyring:
		return NewKeyringStore()
	case StoreModeFile:
		return NewFileStore()
	default:
		store, err := NewKeyringStore()
		if err == nil {
			return store, nil
		}
		return NewFileStore()
	}
}

func normalizeDomain(domain string) string {
	return strings.ToLower(strings.TrimSpace(domain))
}
