package content

import (
	"context"
	"time"

	"github.com/saforex/saforex-go/internal/feed"
	"github.com/saforex/saforex-go/internal/media"
)

// Signals publishes the trading-signal list. Signals are liked through the
// signal_likes junction and may carry a chart image.
type Signals struct {
	*feed.Engine[TradingSignal]
	media *media.Helper
}

// NewSignals builds the signal store.
func NewSignals(tbl feed.Table[TradingSignal], likes feed.LikeStore, notifier feed.Notifier, uploads *media.Helper, ttl time.Duration) *Signals {
	return &Signals{
		Engine: feed.New(feed.Options[TradingSignal]{
			Table:    tbl,
			Likes:    likes,
			Feed:     notifier,
			Name:     "trading_signals",
			Key:      func(s TradingSignal) string { return s.ID },
			Recency:  func(s TradingSignal) time.Time { return s.CreatedAt },
			TTL:      ttl,
			Select:   authorJoin,
			Strategy: feed.StrategyReload,
		}),
		media: uploads,
	}
}

// UploadImage validates, downscales and stores a chart image, returning
// the public URL to attach to the signal.
func (s *Signals) UploadImage(ctx context.Context, filename string, data []byte) (string, error) {
	return s.media.Upload(ctx, filename, data)
}

// Close marks the signal closed and records its realized pip performance.
func (s *Signals) Close(ctx context.Context, id string, performancePips float64) (TradingSignal, error) {
	return s.Update(ctx, id, map[string]any{
		"status":           "closed",
		"closed_at":        time.Now().UTC().Format(time.RFC3339),
		"performance_pips": performancePips,
	})
}
