package utils

import (
	"context"
	"fmt"
	"sync"
)

// Subpaths under the uploads root. Lease documents and captured signature
// images are kept apart so retention rules can differ.
const (
	StoragePathLeases     = "leases"
	StoragePathSignatures = "signatures"
)

// Storage is the blob store the lease engine writes documents and signature
// images through. Implementations: local disk, Google Cloud Storage, and an
// in-memory store for tests. Paths are slash-separated keys relative to the
// uploads root.
type Storage interface {
	WriteBytes(ctx context.Context, path string, data []byte) error
	WriteText(ctx context.Context, path string, data string) error
	ReadBytes(ctx context.Context, path string) ([]byte, error)
	Exists(ctx context.Context, path string) (bool, error)
}

// MemoryStorage keeps blobs in a map. Test double; also handy for dry runs.
type MemoryStorage struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{blobs: map[string][]byte{}}
}

func (s *MemoryStorage) WriteBytes(ctx context.Context, path string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	s.blobs[path] = buf
	return nil
}

func (s *MemoryStorage) WriteText(ctx context.Context, path string, data string) error {
	return s.WriteBytes(ctx, path, []byte(data))
}

func (s *MemoryStorage) ReadBytes(ctx context.Context, path string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[path]
	if !ok {
		return nil, fmt.Errorf("%w: blob %s", ErrorRecordNotFound, path)
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return buf, nil
}

func (s *MemoryStorage) Exists(ctx context.Context, path string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.blobs[path]
	return ok, nil
}
