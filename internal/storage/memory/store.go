// Package memory provides an in-memory storage.Store used by tests and
// throwaway sessions. Payloads are copied on the way in and out so callers
// cannot alias the stored document.
package memory

import (
	"context"
	"sync"

	"github.com/usha-institute/exam-registry/internal/storage"
)

type Store struct {
	mu      sync.Mutex
	buckets map[storage.Bucket][]byte
}

func NewStore() *Store {
	return &Store{buckets: make(map[storage.Bucket][]byte)}
}

func (s *Store) Load(_ context.Context, bucket storage.Bucket) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, ok := s.buckets[bucket]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(payload))
	copy(out, payload)
	return out, nil
}

func (s *Store) Save(_ context.Context, bucket storage.Bucket, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(payload))
	copy(stored, payload)
	s.buckets[bucket] = stored
	return nil
}

func (s *Store) Close() error { return nil }
