package storage

import (
	"context"
	"slices"
	"sync"
)

// MemoryBlobStore is an in-process BlobStore. FailWrites makes every Set fail
// with the given error until it is cleared with nil.
type MemoryBlobStore struct {
	mu      sync.Mutex
	blob    []byte
	writes  int
	failErr error
}

func NewMemoryBlobStore(initial []byte) *MemoryBlobStore {
	return &MemoryBlobStore{blob: slices.Clone(initial)}
}

func (s *MemoryBlobStore) Get(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.blob), nil
}

func (s *MemoryBlobStore) Set(ctx context.Context, blob []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return s.failErr
	}
	s.blob = slices.Clone(blob)
	s.writes++
	return nil
}

func (s *MemoryBlobStore) FailWrites(err error) {
	s.mu.Lock()
	s.failErr = err
	s.mu.Unlock()
}

// Writes counts successful Set calls.
func (s *MemoryBlobStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
