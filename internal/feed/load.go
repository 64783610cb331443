package feed

import (
	"context"
	"time"

	apierr "github.com/saforex/saforex-go/internal/errors"
	"github.com/saforex/saforex-go/internal/logger"
	"github.com/saforex/saforex-go/internal/metrics"
	"github.com/saforex/saforex-go/internal/postgrest"
	"go.uber.org/zap"
)

// Load publishes the first page. When force is false and the cache holds a
// full page of fresh rows, no remote call is made. A Load while another is
// in flight is a silent no-op. On failure the previous list stays published.
func (e *Engine[T]) Load(ctx context.Context, force bool) error {
	if !e.inflight.CompareAndSwap(false, true) {
		return nil
	}
	defer e.inflight.Store(false)

	// Load always publishes the first page, so the cursor restarts
	// whether or not the cache ends up serving it.
	e.mu.Lock()
	e.page = 0
	e.mu.Unlock()

	return e.load(ctx, 0, force)
}

// LoadMore appends the next page. Valid only while hasMore and no load is
// in flight; otherwise a no-op.
func (e *Engine[T]) LoadMore(ctx context.Context) error {
	e.mu.Lock()
	if e.opts.PageSize == 0 || !e.hasMore || e.loading {
		e.mu.Unlock()
		return nil
	}
	next := e.page + 1
	e.mu.Unlock()

	if !e.inflight.CompareAndSwap(false, true) {
		return nil
	}
	defer e.inflight.Store(false)

	err := e.load(ctx, next, false)
	if err == nil {
		e.mu.Lock()
		e.page = next
		e.mu.Unlock()
	}
	return err
}

// load runs one page fetch. The caller holds the in-flight slot.
func (e *Engine[T]) load(ctx context.Context, page int, force bool) error {
	e.setLoading(true)
	defer e.setLoading(false)
	e.setErr(nil)

	// Publish straight from cache when a full first page is fresh. A full
	// cached page re-arms pagination the same way a full remote page does.
	if !force && page == 0 {
		if rows, ok := e.freshPage(); ok {
			metrics.Get().LoadsTotal.
				WithLabelValues(e.opts.Name, "cache", "ok").Inc()
			e.publish(rows, true)
			e.mu.Lock()
			e.hasMore = e.opts.PageSize > 0 && len(rows) == e.opts.PageSize
			e.mu.Unlock()
			return nil
		}
	}

	q := postgrest.Query{
		Select:    e.opts.Select,
		Filters:   e.opts.Filters,
		OrderBy:   e.recencyColumn(),
		Ascending: e.opts.Ascending,
	}
	if e.opts.PageSize > 0 {
		q.Offset = page * e.opts.PageSize
		q.Limit = e.opts.PageSize
	}

	start := e.opts.Clock()
	rows, err := e.opts.Table.Select(ctx, q)
	metrics.Get().LoadDuration.
		WithLabelValues(e.opts.Name, "remote").
		Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.Get().LoadsTotal.
			WithLabelValues(e.opts.Name, "remote", "error").Inc()
		logger.Log.Error("list load failed",
			logger.WithTable(e.opts.Name), zap.Error(err))
		e.setErr(err)
		return err
	}
	metrics.Get().LoadsTotal.
		WithLabelValues(e.opts.Name, "remote", "ok").Inc()

	for _, row := range rows {
		e.cache.Put(e.opts.Key(row), row)
	}
	e.cache.Sweep()

	e.publish(rows, page == 0)

	e.mu.Lock()
	e.hasMore = e.opts.PageSize > 0 && len(rows) == e.opts.PageSize
	e.mu.Unlock()

	return nil
}

// freshPage returns the cached first page when enough fresh rows exist:
// a full page for paginated tables, at least one row otherwise.
func (e *Engine[T]) freshPage() ([]T, bool) {
	rows := e.cache.FreshValues()
	e.sortByRecency(rows)

	if e.opts.PageSize > 0 {
		if len(rows) < e.opts.PageSize {
			return nil, false
		}
		return rows[:e.opts.PageSize], true
	}
	if len(rows) == 0 {
		return nil, false
	}
	return rows, true
}

// recencyColumn names the remote ordering column. Ascending tables order by
// their event time, everything else by creation time, except live streams
// which use their start time; the options carry it explicitly.
func (e *Engine[T]) recencyColumn() string {
	if e.opts.OrderColumn != "" {
		return e.opts.OrderColumn
	}
	return "created_at"
}

// Get returns the row with the given id, from the cache when fresh,
// otherwise with a single remote fetch that refreshes the cache.
func (e *Engine[T]) Get(ctx context.Context, id string) (T, error) {
	if row, ok := e.cache.Get(id); ok {
		return row, nil
	}

	var zero T
	rows, err := e.opts.Table.Select(ctx, postgrest.Query{
		Select:  e.opts.Select,
		Filters: append([]postgrest.Filter{postgrest.Eq("id", id)}, e.opts.Filters...),
		Limit:   1,
	})
	if err != nil {
		e.setErr(err)
		return zero, err
	}
	if len(rows) == 0 {
		return zero, apierr.NotFound(e.opts.Name + " row")
	}

	e.cache.Put(e.opts.Key(rows[0]), rows[0])
	return rows[0], nil
}
