package store

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// Memory implements Store and AtomicStore with an in-process map. It exists for
// local development without Redis and for tests; entries expire lazily on read.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry

	now func() time.Time
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

var _ AtomicStore = (*Memory)(nil)

// NewMemory returns an empty in-process store.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// SetClock overrides the store's clock. Intended for tests.
func (s *Memory) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Memory) Close() error { return nil }

func (s *Memory) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.liveEntry(key)
	if !ok {
		return "", false, nil
	}
	return e.value, true, nil
}

func (s *Memory) Put(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = memoryEntry{value: value, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *Memory) PutIfAbsent(_ context.Context, key, value string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.liveEntry(key); ok {
		return false, nil
	}
	s.entries[key] = memoryEntry{value: value, expiresAt: s.now().Add(ttl)}
	return true, nil
}

func (s *Memory) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

func (s *Memory) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.liveEntry(key)
	if !ok {
		s.entries[key] = memoryEntry{value: "1", expiresAt: s.now().Add(ttl)}
		return 1, nil
	}

	n, err := strconv.ParseInt(e.value, 10, 64)
	if err != nil {
		return 0, err
	}
	n++
	// Keep the original window; only the first increment arms the TTL.
	s.entries[key] = memoryEntry{value: strconv.FormatInt(n, 10), expiresAt: e.expiresAt}
	return n, nil
}

// liveEntry returns the entry for key, evicting it first if expired.
// Caller must hold s.mu.
func (s *Memory) liveEntry(key string) (memoryEntry, bool) {
	e, ok := s.entries[key]
	if !ok {
		return memoryEntry{}, false
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		return memoryEntry{}, false
	}
	return e, true
}
