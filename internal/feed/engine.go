// Package feed contains the generic entity-sync engine behind every content
// store: a TTL-cached mirror of one remote table, kept current by explicit
// loads, mutation-triggered reloads and a per-table change feed.
package feed

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/saforex/saforex-go/internal/cache"
	"github.com/saforex/saforex-go/internal/postgrest"
	"github.com/saforex/saforex-go/internal/realtime"
)

// Strategy selects how an engine reacts to change-feed notifications.
type Strategy int

const (
	// StrategyReload forces a full reload on every notification.
	StrategyReload Strategy = iota

	// StrategyDebounce coalesces bursts of notifications into one forced
	// reload per debounce window. For high-churn tables.
	StrategyDebounce

	// StrategyMerge applies the notification payload directly to the
	// published list without a reload. Server-computed aggregates on the
	// merged rows can drift until the next periodic refresh.
	StrategyMerge
)

// DefaultDebounce is the reload-coalescing window for StrategyDebounce.
const DefaultDebounce = time.Second

// Table is the remote-table surface the engine consumes.
type Table[T any] interface {
	Select(ctx context.Context, q postgrest.Query) ([]T, error)
	Insert(ctx context.Context, row any) (T, error)
	Update(ctx context.Context, id string, patch map[string]any) (T, error)
	Delete(ctx context.Context, id string) error
}

// LikeStore is a like-junction table keyed by (entity id, user id).
type LikeStore interface {
	Exists(ctx context.Context, entityID, userID string) (bool, error)
	Add(ctx context.Context, entityID, userID string) error
	Remove(ctx context.Context, entityID, userID string) error
}

// Notifier delivers change-feed subscriptions.
type Notifier interface {
	Subscribe(table string, handler func(realtime.ChangeEvent)) (func(), error)
}

// Options parametrizes one engine instance. Everything entity-specific
// lives here; the engine itself is shared verbatim by all content types.
type Options[T any] struct {
	Table Table[T]
	Likes LikeStore // optional
	Feed  Notifier  // optional

	// Name is the remote table name, used for subscription topics, logs
	// and metrics labels.
	Name string

	// Key extracts the row's unique identifier.
	Key func(T) string

	// Recency extracts the field the published list is ordered by.
	Recency func(T) time.Time

	TTL      time.Duration
	PageSize int // 0 means full-table loads, no pagination

	// Select is the projected column list, including the embedded author
	// join when the list renders a name/avatar.
	Select string

	// Filters are server-side predicates applied to every load. Soft
	// deletion relies on these: archived rows never reach the client.
	Filters []postgrest.Filter

	// Ascending orders the published list oldest-first (calendar).
	Ascending bool

	// OrderColumn is the remote ordering column. Defaults to created_at;
	// tables ordered by a start or event time set it explicitly. Must
	// match what Recency extracts.
	OrderColumn string

	Strategy Strategy

	// Debounce overrides DefaultDebounce for StrategyDebounce. Tests only.
	Debounce time.Duration

	// Refresh enables a fixed-interval forced reload independent of the
	// change feed. Zero disables it.
	Refresh time.Duration

	// SoftDeleteStatus redefines Delete as a status update to this value
	// instead of a hard row delete.
	SoftDeleteStatus string

	// OnPublish is invoked with a snapshot after every list change. It must
	// not call back into the engine.
	OnPublish func([]T)

	// Clock overrides the time source. Tests only.
	Clock func() time.Time
}

// Engine mirrors one remote table into a TTL cache and an ordered
// published list. Safe for concurrent use; one instance per consumer.
type Engine[T any] struct {
	opts  Options[T]
	cache *cache.Store[T]

	mu      sync.Mutex
	items   []T
	loading bool
	hasMore bool
	lastErr error
	page    int
	closed  bool

	inflight atomic.Bool

	unsubscribe func()
	stopRefresh chan struct{}

	debounceMu    sync.Mutex
	debounceTimer *time.Timer
}

// New builds an engine. Call Start to load and begin listening.
func New[T any](opts Options[T]) *Engine[T] {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Debounce == 0 {
		opts.Debounce = DefaultDebounce
	}

	store := cache.New[T](opts.Name, opts.TTL)
	store.SetClock(opts.Clock)

	return &Engine[T]{
		opts:    opts,
		cache:   store,
		hasMore: opts.PageSize > 0,
	}
}

// SetOnPublish registers the publish callback. Call before Start.
func (e *Engine[T]) SetOnPublish(fn func([]T)) {
	e.opts.OnPublish = fn
}

// Start performs the initial load and wires the change listener and the
// periodic refresh, when configured.
func (e *Engine[T]) Start(ctx context.Context) error {
	err := e.Load(ctx, false)

	if e.opts.Feed != nil {
		cancel, serr := e.opts.Feed.Subscribe(e.opts.Name, e.onChange)
		if serr == nil {
			e.mu.Lock()
			e.unsubscribe = cancel
			e.mu.Unlock()
		} else if err == nil {
			err = serr
		}
	}

	if e.opts.Refresh > 0 {
		stop := make(chan struct{})
		e.mu.Lock()
		e.stopRefresh = stop
		e.mu.Unlock()
		go e.refreshLoop(stop)
	}

	return err
}

// Close tears down the subscription and the periodic refresh. Publications
// after Close are suppressed; in-flight remote calls are not aborted.
func (e *Engine[T]) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	unsub := e.unsubscribe
	stop := e.stopRefresh
	e.mu.Unlock()

	e.debounceMu.Lock()
	if e.debounceTimer != nil {
		e.debounceTimer.Stop()
	}
	e.debounceMu.Unlock()

	if unsub != nil {
		unsub()
	}
	if stop != nil {
		close(stop)
	}
}

func (e *Engine[T]) refreshLoop(stop chan struct{}) {
	ticker := time.NewTicker(e.opts.Refresh)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			_ = e.Load(context.Background(), true)
		}
	}
}

// Items returns a snapshot of the published list.
func (e *Engine[T]) Items() []T {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]T, len(e.items))
	copy(out, e.items)
	return out
}

// Loading reports whether a load is in progress.
func (e *Engine[T]) Loading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loading
}

// Err returns the error stored by the last failed operation, if any.
func (e *Engine[T]) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// HasMore reports whether another page is expected to exist.
func (e *Engine[T]) HasMore() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hasMore
}

// GetCached returns the cached row for id when still fresh.
func (e *Engine[T]) GetCached(id string) (T, bool) {
	return e.cache.Get(id)
}

// sortByRecency orders rows the way the published list renders them.
func (e *Engine[T]) sortByRecency(rows []T) {
	sort.SliceStable(rows, func(i, j int) bool {
		if e.opts.Ascending {
			return e.opts.Recency(rows[i]).Before(e.opts.Recency(rows[j]))
		}
		return e.opts.Recency(rows[i]).After(e.opts.Recency(rows[j]))
	})
}

// publish replaces or extends the published list. Suppressed once closed.
func (e *Engine[T]) publish(rows []T, replace bool) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	if replace {
		e.items = rows
	} else {
		e.items = append(e.items, rows...)
	}
	snapshot := make([]T, len(e.items))
	copy(snapshot, e.items)
	e.mu.Unlock()

	if e.opts.OnPublish != nil {
		e.opts.OnPublish(snapshot)
	}
}

func (e *Engine[T]) setErr(err error) {
	e.mu.Lock()
	if !e.closed {
		e.lastErr = err
	}
	e.mu.Unlock()
}

func (e *Engine[T]) setLoading(v bool) {
	e.mu.Lock()
	if !e.closed {
		e.loading = v
	}
	e.mu.Unlock()
}
