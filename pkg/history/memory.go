package history

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store. One mutex serializes appends, which
// gives the same at-most-one-concurrent-append guarantee as the SQL store.
// Used by tests and by DB-less development runs.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string][]SearchRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]SearchRecord)}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Append(_ context.Context, userID string, rec SearchRecord) error {
	rec = Normalize(rec)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[userID] = append(s.records[userID], rec)
	return nil
}

func (s *MemoryStore) Read(_ context.Context, userID string) ([]SearchRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := s.records[userID]
	out := make([]SearchRecord, len(recs))
	copy(out, recs)
	return out, nil
}
