package utils

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage writes blobs under a root directory on disk
// (UPLOADS_DIR, default ./uploads).
type LocalStorage struct {
	root string
}

func NewLocalStorage(root string) (*LocalStorage, error) {
	if strings.TrimSpace(root) == "" {
		root = "uploads"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads root %s: %w", root, err)
	}
	return &LocalStorage{root: root}, nil
}

func (s *LocalStorage) fullPath(path string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(path))
	if strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid storage path %q", path)
	}
	return filepath.Join(s.root, cleaned), nil
}

func (s *LocalStorage) WriteBytes(ctx context.Context, path string, data []byte) error {
	full, err := s.fullPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0o644)
}

func (s *LocalStorage) WriteText(ctx context.Context, path string, data string) error {
	return s.WriteBytes(ctx, path, []byte(data))
}

func (s *LocalStorage) ReadBytes(ctx context.Context, path string) ([]byte, error) {
	full, err := s.fullPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: blob %s", ErrorRecordNotFound, path)
		}
		return nil, err
	}
	return data, nil
}

func (s *LocalStorage) Exists(ctx context.Context, path string) (bool, error) {
	full, err := s.fullPath(path)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(full)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}
