package credential

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "brandcloud-mcp"

	// keyringIndexKey holds the list of stored domains; the keychain
	// itself cannot be enumerated.
	keyringIndexKey = "_index"
)

// KeyringStore stores API keys in the system keychain.
type KeyringStore struct {
	mu sync.RWMutex
}

// NewKeyringStore returns an error if the keyring is not available.
func NewKeyringStore() (*KeyringStore, error) {
	_, err := keyring.Get(keyringService, "_test_availability")
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return nil, fmt.Errorf("keyring not available: %w", err)
	}
	return &KeyringStore{}, nil
}

func (s *KeyringStore) Get(domain string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.get(normalizeDomain(domain))
}

func (s *KeyringStore) get(domain string) (*Entry, error) {
	data, err := keyring.Get(keyringService, domain)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("keyring get: %w", err)
	}

	var e Entry
	if err := json.Unmarshal([]byte(data), &e); err != nil {
		return nil, fmt.Errorf("parse credential: %w", err)
	}
	return &e, nil
}

func (s *KeyringStore) Put(e *Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e.Domain = normalizeDomain(e.Domain)
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal credential: %w", err)
	}
	domain := e.Domain
	if err := keyring.Set(keyringService, domain, string(data)); err != nil {
		return fmt.Errorf("keyring set: %w", err)
	}

	domains, err := s.loadIndex()
	if err != nil {
		return err
	}
	if slices.Contains(domains, domain) {
		return nil
	}
	return s.saveIndex(append(domains, domain))
}

func (s *KeyringStore) Delete(domain string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	domain = normalizeDomain(domain)
	if err := keyring.Delete(keyringService, domain); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("keyring delete: %w", err)
	}

	domains, err := s.loadIndex()
	if err != nil {
		return err
	}
	return s.saveIndex(slices.DeleteFunc(domains, func(d string) bool { return d == domain }))
}

func (s *KeyringStore) List() ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	domains, err := s.loadIndex()
	if err != nil {
		return nil, err
	}

	entries := make([]*Entry, 0, len(domains))
	for _, d := range domains {
		e, err := s.get(d)
		if err != nil {
			continue // skip corrupted entries
		}
		if e != nil {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// loadIndex reads the stored domains (caller must hold lock).
func (s *KeyringStore) loadIndex() ([]string, error) {
	data, err := keyring.Get(keyringService, keyringIndexKey)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("keyring get index: %w", err)
	}
	if data == "" {
		return []string{}, nil
	}

	var domains []string
	if err := json.Unmarshal([]byte(data), &domains); err != nil {
		return nil, fmt.Errorf("parse index: %w", err)
	}
	return domains, nil
}

// saveIndex writes the stored domains (caller must hold lock).
func (s *KeyringStore) saveIndex(domains []string) error {
	data, err := json.Marshal(domains)
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}
	if err := keyring.Set(keyringService, keyringIndexKey, string(data)); err != nil {
		return fmt.Errorf("keyring set index: %w", err)
	}
	return nil
}
