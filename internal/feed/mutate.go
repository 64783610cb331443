package feed

import (
	"context"

	apierr "github.com/saforex/saforex-go/internal/errors"
	"github.com/saforex/saforex-go/internal/logger"
	"github.com/saforex/saforex-go/internal/metrics"
	"go.uber.org/zap"
)

// Create inserts a row and forces a reload so server-assigned fields and
// the embedded author join render the same way they do everywhere else.
// There is no optimistic-insert path for creation.
func (e *Engine[T]) Create(ctx context.Context, row any) (T, error) {
	e.setErr(nil)

	created, err := e.opts.Table.Insert(ctx, row)
	if err != nil {
		e.recordMutation("create", err)
		e.setErr(err)
		return created, err
	}
	e.recordMutation("create", nil)

	_ = e.Load(ctx, true)
	return created, nil
}

// Update patches a row and forces a reload; when the call returns, the
// published list no longer shows the pre-update value.
func (e *Engine[T]) Update(ctx context.Context, id string, patch map[string]any) (T, error) {
	e.setErr(nil)

	updated, err := e.opts.Table.Update(ctx, id, patch)
	if err != nil {
		e.recordMutation("update", err)
		e.setErr(err)
		return updated, err
	}
	e.recordMutation("update", nil)

	e.cache.Put(e.opts.Key(updated), updated)
	_ = e.Load(ctx, true)
	return updated, nil
}

// Delete removes a row. When the engine is configured with a soft-delete
// status, the row is archived instead; the loader's server-side filter
// keeps archived rows out of every subsequent load.
func (e *Engine[T]) Delete(ctx context.Context, id string) error {
	e.setErr(nil)

	if e.opts.SoftDeleteStatus != "" {
		_, err := e.opts.Table.Update(ctx, id, map[string]any{
			"status": e.opts.SoftDeleteStatus,
		})
		e.recordMutation("soft_delete", err)
		if err != nil {
			e.setErr(err)
			return err
		}
		e.cache.Delete(id)
		_ = e.Load(ctx, true)
		return nil
	}

	err := e.opts.Table.Delete(ctx, id)
	e.recordMutation("delete", err)
	if err != nil {
		e.setErr(err)
		return err
	}

	e.cache.Delete(id)
	e.removeItem(id)
	return nil
}

// ToggleLike likes the entity for userID when no like exists, or removes
// the existing like, then forces a reload to pick up the server-maintained
// like count. Two concurrent toggles can both observe "absent"; the remote
// uniqueness constraint rejects the second insert and the reload converges.
func (e *Engine[T]) ToggleLike(ctx context.Context, entityID, userID string) error {
	if e.opts.Likes == nil {
		return apierr.Validation("likes are not enabled for " + e.opts.Name)
	}
	e.setErr(nil)

	liked, err := e.opts.Likes.Exists(ctx, entityID, userID)
	if err != nil {
		e.recordMutation("toggle_like", err)
		e.setErr(err)
		return err
	}

	if liked {
		err = e.opts.Likes.Remove(ctx, entityID, userID)
	} else {
		err = e.opts.Likes.Add(ctx, entityID, userID)
		if apierr.IsConflict(err) {
			// Lost the toggle race; the row is already there.
			err = nil
		}
	}
	e.recordMutation("toggle_like", err)
	if err != nil {
		e.setErr(err)
		return err
	}

	logger.Log.Debug("like toggled",
		logger.WithTable(e.opts.Name),
		logger.WithUserID(userID),
		zap.Bool("liked", !liked),
	)
	return e.Load(ctx, true)
}

// removeItem filters id out of the published list.
func (e *Engine[T]) removeItem(id string) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	kept := e.items[:0]
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

func (e *Engine[T]) recordMutation(op string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
		logger.Log.Error("mutation failed",
			logger.WithTable(e.opts.Name),
			zap.String("operation", op),
			zap.Error(err),
		)
	}
	metrics.Get().MutationsTotal.
		WithLabelValues(e.opts.Name, op, status).Inc()
}
