package blob

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lexiq/internal/interfaces"
)

// FilesystemStore stores raw file bytes under a base directory. Paths are
// relative to the base and must not escape it.
type FilesystemStore struct {
	baseDir string
	logger  arbor.ILogger
}

// NewFilesystemStore creates the base directory if missing
func NewFilesystemStore(baseDir string, logger arbor.ILogger) (*FilesystemStore, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("blob base directory is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob directory %s: %w", baseDir, err)
	}
	return &FilesystemStore{baseDir: baseDir, logger: logger}, nil
}

var _ interfaces.BlobStorage = (*FilesystemStore)(nil)

func (s *FilesystemStore) resolve(path string) (string, error) {
	cleaned := filepath.Clean(path)
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid blob path: %s", path)
	}
	return filepath.Join(s.baseDir, cleaned), nil
}

func (s *FilesystemStore) Put(path string, content []byte) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("failed to create blob subdirectory: %w", err)
	}
	if err := os.WriteFile(full, content, 0o644); err != nil {
		return fmt.Errorf("failed to write blob %s: %w", path, err)
	}
	return nil
}

func (s *FilesystemStore) Get(path string) ([]byte, error) {
	full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read blob %s: %w", path, err)
	}
	return data, nil
}

func (s *FilesystemStore) Exists(path string) bool {
	full, err := s.resolve(path)
	if err != nil {
		return false
	}
	_, err = os.Stat(full)
	return err == nil
}

func (s *FilesystemStore) Delete(path string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete blob %s: %w", path, err)
	}
	return nil
}
