package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/lucasaguiar-la/cotacao-geral/internal/application/port"
)

// LocalBlobStore implements port.BlobStore on the local filesystem
type LocalBlobStore struct {
	baseDir string
	logger  *zap.Logger
}

// NewLocalBlobStore creates a blob store rooted at baseDir
func NewLocalBlobStore(baseDir string, logger *zap.Logger) *LocalBlobStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalBlobStore{baseDir: baseDir, logger: logger}
}

// Put writes data under key. The content type is not kept.
func (s *LocalBlobStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	fullPath, err := s.fullPath(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		s.logger.Error("Failed to create parent directories",
			zap.String("path", fullPath),
			zap.Error(err))
		return fmt.Errorf("failed to create directories: %w", err)
	}

	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		s.logger.Error("Failed to write blob",
			zap.String("path", fullPath),
			zap.Error(err))
		return fmt.Errorf("failed to write blob: %w", err)
	}

	s.logger.Debug("Blob saved",
		zap.String("path", fullPath),
		zap.Int("size", len(data)))
	return nil
}

// Get reads the blob stored under key
func (s *LocalBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	fullPath, err := s.fullPath(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(fullPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read blob: %w", err)
	}
	return data, nil
}

// Exists reports whether key holds a blob
func (s *LocalBlobStore) Exists(ctx context.Context, key string) bool {
	fullPath, err := s.fullPath(key)
	if err != nil {
		return false
	}
	info, err := os.Stat(fullPath)
	return err == nil && !info.IsDir()
}

// Delete removes the blob under key. Missing blobs are not an error.
func (s *LocalBlobStore) Delete(ctx context.Context, key string) error {
	fullPath, err := s.fullPath(key)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Error("Failed to delete blob",
			zap.String("path", fullPath),
			zap.Error(err))
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	return nil
}

// fullPath maps a key inside baseDir
func (s *LocalBlobStore) fullPath(key string) (string, error) {
	clean, err := SanitizeKey(key)
	if err != nil {
		return "", err
	}
	fullPath := filepath.Join(s.baseDir, filepath.FromSlash(clean))

	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	absBase, err := filepath.Abs(s.baseDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve base path: %w", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes base directory: %s", key)
	}
	return fullPath, nil
}

var _ port.BlobStore = (*LocalBlobStore)(nil)
