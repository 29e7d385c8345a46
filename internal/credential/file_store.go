package credential

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	credentialsDir  = ".config/brandcloud-mcp"
	credentialsFile = ".credentials.json"
)

// FileStore stores API keys in a JSON file readable only by the owner.
type FileStore struct {
	path string
	mu   sync.RWMutex
}

// NewFileStore creates a store at ~/.config/brandcloud-mcp/.credentials.json.
func NewFileStore() (*FileStore, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("get home dir: %w", err)
	}
	return &FileStore{path: filepath.Join(home, credentialsDir, credentialsFile)}, nil
}

// NewFileStoreAt creates a file store at a specific path.
func NewFileStoreAt(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Get(domain string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := s.load()
	if err != nil {
		return nil, err
	}
	domain = normalizeDomain(domain)
	for _, e := range entries {
		if e.Domain == domain {
			return e, nil
		}
	}
	return nil, nil
}

func (s *FileStore) Put(e *Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}

	e.Domain = normalizeDomain(e.Domain)
	replaced := false
	for i, existing := range entries {
		if existing.Domain == e.Domain {
			entries[i] = e
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, e)
	}
	return s.save(entries)
}

func (s *FileStore) Delete(domain string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}
	domain = normalizeDomain(domain)
	kept := make([]*Entry, 0, len(entries))
	for _, e := range entries {
		if e.Domain != domain {
			kept = append(kept, e)
		}
	}
	return s.save(kept)
}

func (s *FileStore) List() ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load()
}

// load reads entries from the file (caller must hold lock).
func (s *FileStore) load() ([]*Entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []*Entry{}, nil
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	var entries []*Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	return entries, nil
}

// save writes entries atomically (caller must hold lock).
func (s *FileStore) save(entries []*Entry) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename credentials: %w", err)
	}
	return nil
}
