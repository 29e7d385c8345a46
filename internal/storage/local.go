// Package storage persists downloaded BrandCloud images.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// WorkspaceDir is created under the working directory when the caller
	// asks to keep files in the workspace.
	WorkspaceDir = "downloads"
	// TempDir is created under the system temp root otherwise.
	TempDir = "brandcloud-mcp-images"
)

// Local writes files to the workspace or the temp directory.
// Empty WorkDir and TempRoot are resolved at call time.
type Local struct {
	WorkDir  string
	TempRoot string
}

// Dir returns the directory a download should be written to.
func (l Local) Dir(workspace bool) (string, error) {
	if workspace {
		wd := l.WorkDir
		if wd == "" {
			var err error
			wd, err = os.Getwd()
			if err != nil {
				return "", fmt.Errorf("get working dir: %w", err)
			}
		}
		return filepath.Join(wd, WorkspaceDir), nil
	}

	root := l.TempRoot
	if root == "" {
		root = os.TempDir()
	}
	return filepath.Join(root, TempDir), nil
}

// Write creates dir if needed and writes data to dir/name, replacing any
// existing file. Partial writes are not cleaned up.
func (l Local) Write(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write download: %w", err)
	}
	return path, nil
}

// Mirror receives a copy of a persisted download.
type Mirror interface {
	// Put stores data under key and returns its location.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
