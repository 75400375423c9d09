package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SnapshotStore writes page snapshots under a base directory and hands back
// file:// URIs for the archive rows.
type SnapshotStore struct {
	baseDir string
}

// NewSnapshotStore validates that the base directory exists (creating it if
// needed) and is writable.
func NewSnapshotStore(baseDir string) (*SnapshotStore, error) {
	if strings.TrimSpace(baseDir) == "" {
		return nil, fmt.Errorf("snapshot base directory is required")
	}

	info, err := os.Stat(baseDir)
	switch {
	case os.IsNotExist(err):
		if mkErr := os.MkdirAll(baseDir, 0o750); mkErr != nil {
			return nil, fmt.Errorf("create snapshot directory: %w", mkErr)
		}
	case err != nil:
		return nil, fmt.Errorf("stat snapshot directory: %w", err)
	case !info.IsDir():
		return nil, fmt.Errorf("snapshot path %s is not a directory", baseDir)
	}

	probe := filepath.Join(baseDir, ".writable_test")
	if err := os.WriteFile(probe, []byte("test"), 0o600); err != nil {
		return nil, fmt.Errorf("snapshot directory is not writable: %w", err)
	}
	if err := os.Remove(probe); err != nil {
		return nil, fmt.Errorf("clean up probe file: %w", err)
	}

	return &SnapshotStore{baseDir: baseDir}, nil
}

// Put writes content at the given relative path and returns its file:// URI.
// Paths that escape the base directory are rejected.
func (s *SnapshotStore) Put(path, content string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("snapshot path is required")
	}

	fullPath := filepath.Join(s.baseDir, path)
	cleanBase := filepath.Clean(s.baseDir)
	if !strings.HasPrefix(filepath.Clean(fullPath), cleanBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal detected")
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
		return "", fmt.Errorf("create snapshot parent directories: %w", err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0o600); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return fmt.Sprintf("file://%s", fullPath), nil
}
