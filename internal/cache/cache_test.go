package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestStore(ttl time.Duration) (*Store[string], *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	s := New[string]("test", ttl)
	s.SetClock(clock.Now)
	return s, clock
}

func TestGetFreshEntry(t *testing.T) {
	s, clock := newTestStore(5 * time.Minute)

	s.Put("a", "alpha")
	clock.Advance(5*time.Minute - time.Nanosecond)

	v, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, "alpha", v)
}

func TestGetExactlyTTLOldIsMiss(t *testing.T) {
	s, clock := newTestStore(5 * time.Minute)

	s.Put("a", "alpha")
	clock.Advance(5 * time.Minute)

	_, ok := s.Get("a")
	assert.False(t, ok, "entry aged exactly TTL must miss")
}

func TestGetMissingKey(t *testing.T) {
	s, _ := newTestStore(time.Minute)

	_, ok := s.Get("absent")
	assert.False(t, ok)
}

func TestStaleEntryStaysUntilSweep(t *testing.T) {
	s, clock := newTestStore(time.Minute)

	s.Put("a", "alpha")
	clock.Advance(2 * time.Minute)

	_, ok := s.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len(), "stale entries are misses but stay resident")

	removed := s.Sweep()
	assert.Equal(t, 1, removed)
	assert.Equal(t, 0, s.Len())
}

func TestSweepKeepsFreshEntries(t *testing.T) {
	s, clock := newTestStore(time.Minute)

	s.Put("old", "1")
	clock.Advance(90 * time.Second)
	s.Put("new", "2")

	removed := s.Sweep()
	assert.Equal(t, 1, removed)

	v, ok := s.Get("new")
	require.True(t, ok)
	assert.Equal(t, "2", v)
}

func TestPutRefreshesTimestamp(t *testing.T) {
	s, clock := newTestStore(time.Minute)

	s.Put("a", "v1")
	clock.Advance(50 * time.Second)
	s.Put("a", "v2")
	clock.Advance(50 * time.Second)

	v, ok := s.Get("a")
	require.True(t, ok, "overwrite must restart the entry's age")
	assert.Equal(t, "v2", v)
}

func TestDelete(t *testing.T) {
	s, _ := newTestStore(time.Minute)

	s.Put("a", "alpha")
	s.Delete("a")

	_, ok := s.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestFreshValuesExcludesStale(t *testing.T) {
	s, clock := newTestStore(time.Minute)

	s.Put("old", "1")
	clock.Advance(2 * time.Minute)
	s.Put("a", "2")
	s.Put("b", "3")

	values := s.FreshValues()
	assert.Len(t, values, 2)
	assert.ElementsMatch(t, []string{"2", "3"}, values)
}
