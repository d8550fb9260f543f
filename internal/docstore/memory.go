package docstore

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"artlog/internal/metrics"
)

type memEntry struct {
	data    []byte
	version uint64
}

// MemoryStore keeps documents in a map. Transact is optimistic: the body is
// read under lock, fn runs unlocked, and the write only lands if the version
// is unchanged.
type MemoryStore struct {
	mu         sync.RWMutex
	docs       map[string]memEntry
	maxRetries int
}

func NewMemoryStore(maxRetries int) *MemoryStore {
	return &MemoryStore{docs: make(map[string]memEntry), maxRetries: maxRetries}
}

func key(collection, id string) string {
	return collection + "/" + id
}

func (s *MemoryStore) Get(_ context.Context, collection, id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.docs[key(collection, id)]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(e.data), nil
}

func (s *MemoryStore) Put(_ context.Context, collection, id string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(collection, id)
	s.docs[k] = memEntry{data: slices.Clone(data), version: s.docs[k].version + 1}
	return nil
}

func (s *MemoryStore) List(ctx context.Context, collection string) ([]Document, error) {
	return s.Where(ctx, collection, "", "")
}

func (s *MemoryStore) Where(_ context.Context, collection, field, value string) ([]Document, error) {
	prefix := collection + "/"

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Document{}
	for k, e := range s.docs {
		id, ok := strings.CutPrefix(k, prefix)
		if !ok {
			continue
		}
		if field != "" && !fieldEquals(e.data, field, value) {
			continue
		}
		out = append(out, Document{ID: id, Data: slices.Clone(e.data)})
	}
	slices.SortFunc(out, func(a, b Document) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *MemoryStore) Transact(ctx context.Context, collection, id string, fn TxFunc) error {
	k := key(collection, id)
	for attempt := 0; s.maxRetries <= 0 || attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			metrics.DocstoreConflicts.WithLabelValues(DriverMemory).Inc()
			if err := conflictBackoff(ctx, attempt); err != nil {
				return fmt.Errorf("%w: %s: %w", ErrConflict, k, err)
			}
		}

		s.mu.RLock()
		e, exists := s.docs[k]
		s.mu.RUnlock()

		next, err := fn(slices.Clone(e.data), exists)
		if err != nil {
			return err
		}
		if next == nil {
			return nil
		}

		s.mu.Lock()
		if s.docs[k].version == e.version {
			s.docs[k] = memEntry{data: slices.Clone(next), version: e.version + 1}
			s.mu.Unlock()
			return nil
		}
		s.mu.Unlock()
	}
	return fmt.Errorf("%w: %s after %d retries", ErrConflict, k, s.maxRetries)
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }
