package feed

import (
	"context"
	"time"

	json "github.com/json-iterator/go"
	"github.com/saforex/saforex-go/internal/logger"
	"github.com/saforex/saforex-go/internal/realtime"
)

// onChange reacts to one change-feed notification according to the
// engine's strategy.
func (e *Engine[T]) onChange(ev realtime.ChangeEvent) {
	e.mu.Lock()
	closed := e.closed
	e.mu.Unlock()
	if closed {
		return
	}

	switch e.opts.Strategy {
	case StrategyMerge:
		e.merge(ev)
	case StrategyDebounce:
		e.debounceReload()
	default:
		_ = e.Load(context.Background(), true)
	}
}

// debounceReload coalesces notification bursts into one forced reload per
// debounce window.
func (e *Engine[T]) debounceReload() {
	e.debounceMu.Lock()
	defer e.debounceMu.Unlock()

	if e.debounceTimer != nil {
		e.debounceTimer.Stop()
	}
	e.debounceTimer = time.AfterFunc(e.opts.Debounce, func() {
		_ = e.Load(context.Background(), true)
	})
}

// merge applies the notification payload directly to the cache and the
// published list: insert prepends, update replaces in place, delete
// filters out. No reload happens, so server-computed aggregates on the
// merged row can lag until the next periodic refresh.
func (e *Engine[T]) merge(ev realtime.ChangeEvent) {
	switch ev.Type {
	case realtime.EventInsert:
		row, ok := e.decodeRow(ev.New)
		if !ok {
			return
		}
		e.cache.Put(e.opts.Key(row), row)
		e.prependItem(row)

	case realtime.EventUpdate:
		row, ok := e.decodeRow(ev.New)
		if !ok {
			return
		}
		e.cache.Put(e.opts.Key(row), row)
		e.replaceItem(row)

	case realtime.EventDelete:
		old, ok := e.decodeRow(ev.Old)
		if !ok {
			// Without the old row there is no key to drop; fall back
			// to a reload.
			_ = e.Load(context.Background(), true)
			return
		}
		id := e.opts.Key(old)
		e.cache.Delete(id)
		e.removeItem(id)
	}
}

func (e *Engine[T]) decodeRow(raw []byte) (T, bool) {
	var row T
	if len(raw) == 0 {
		return row, false
	}
	if err := json.Unmarshal(raw, &row); err != nil {
		logger.Log.Warn("undecodable change payload", logger.WithTable(e.opts.Name))
		return row, false
	}
	return row, true
}

// prependItem puts a new row at the head of the published list, replacing
// any stale copy already present.
func (e *Engine[T]) prependItem(row T) {
	id := e.opts.Key(row)

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	kept := make([]T, 0, len(e.items)+1)
	kept = append(kept, row)
	for _, item := range e.items {
		if e.opts.Key(item) != id {
			kept = append(kept, item)
		}
	}
	e.items = kept
	snapshot := make([]T, len(e.items))
	copy(snapshot, e.items)
	e.mu.Unlock()

	if e.opts.OnPublish != nil {
		e.opts.OnPublish(snapshot)
	}
}

// replaceItem swaps the row with the same key in place. Rows not currently
// published are ignored.
func (e *Engine[T]) replaceItem(row T) {
	id := e.opts.Key(row)

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	for i, item := range e.items {
		if e.opts.Key(item) == id {
			e.items[i] = row
			break
		}
	}
	snapshot := make([]T, len(e.items))
	copy(snapshot, e.items)
	e.mu.Unlock()

	if e.opts.OnPublish != nil {
		e.opts.OnPublish(snapshot)
	}
}
