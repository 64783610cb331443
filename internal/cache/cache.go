package cache

import (
	"sync"
	"time"

	"github.com/saforex/saforex-go/internal/metrics"
)

// Entry is a cached value with its insertion timestamp.
type Entry[T any] struct {
	Value      T
	InsertedAt time.Time
}

// Store is a bounded TTL key-value shadow of recently seen rows. Entries
// older than the TTL behave as misses but are only physically removed by
// Sweep, which callers piggyback on successful bulk loads.
type Store[T any] struct {
	mu      sync.RWMutex
	name    string
	ttl     time.Duration
	entries map[string]Entry[T]
	now     func() time.Time
}

// New creates a Store. name labels the cache in metrics.
func New[T any](name string, ttl time.Duration) *Store[T] {
	return &Store[T]{
		name:    name,
		ttl:     ttl,
		entries: make(map[string]Entry[T]),
		now:     time.Now,
	}
}

// SetClock overrides the time source. Tests only.
func (s *Store[T]) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// TTL returns the configured time-to-live.
func (s *Store[T]) TTL() time.Duration {
	return s.ttl
}

// Get returns the value for key if it is fresher than the TTL. A stale entry
// is a miss; it stays in place until the next sweep.
func (s *Store[T]) Get(key string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ent, ok := s.entries[key]
	if !ok || s.now().Sub(ent.InsertedAt) >= s.ttl {
		metrics.Get().CacheMissesTotal.WithLabelValues(s.name).Inc()
		var zero T
		return zero, false
	}
	metrics.Get().CacheHitsTotal.WithLabelValues(s.name).Inc()
	return ent.Value, true
}

// Put inserts or overwrites key with a fresh timestamp.
func (s *Store[T]) Put(key string, value T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = Entry[T]{Value: value, InsertedAt: s.now()}
}

// Delete removes key if present.
func (s *Store[T]) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Sweep removes every entry older than the TTL and returns how many were
// removed. It runs only when a load succeeds, never on a timer.
func (s *Store[T]) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, ent := range s.entries {
		if now.Sub(ent.InsertedAt) >= s.ttl {
			delete(s.entries, key)
			removed++
		}
	}

	m := metrics.Get()
	m.CacheSweepsTotal.WithLabelValues(s.name).Inc()
	m.CacheSweptEntries.WithLabelValues(s.name).Add(float64(removed))
	return removed
}

// FreshValues returns all non-expired values, in no particular order.
func (s *Store[T]) FreshValues() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	values := make([]T, 0, len(s.entries))
	for _, ent := range s.entries {
		if now.Sub(ent.InsertedAt) < s.ttl {
			values = append(values, ent.Value)
		}
	}
	return values
}

// Len returns the number of entries physically present, stale included.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
