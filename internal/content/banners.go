package content

import (
	"context"
	"time"

	"github.com/saforex/saforex-go/internal/feed"
	"github.com/saforex/saforex-go/internal/postgrest"
)

// Banners publishes the active promotional banners.
type Banners struct {
	*feed.Engine[Banner]
}

// NewBanners builds the banner store.
func NewBanners(tbl feed.Table[Banner], notifier feed.Notifier, ttl time.Duration) *Banners {
	return &Banners{
		Engine: feed.New(feed.Options[Banner]{
			Table:    tbl,
			Feed:     notifier,
			Name:     "banners",
			Key:      func(b Banner) string { return b.ID },
			Recency:  func(b Banner) time.Time { return b.CreatedAt },
			TTL:      ttl,
			Filters:  []postgrest.Filter{postgrest.Eq("is_active", "true")},
			Strategy: feed.StrategyReload,
		}),
	}
}

// RecordClick bumps the banner's click counter. Read-modify-write is good
// enough here; lost clicks under concurrency are acceptable for ad stats.
func (b *Banners) RecordClick(ctx context.Context, id string) error {
	banner, err := b.Get(ctx, id)
	if err != nil {
		return err
	}
	_, err = b.Update(ctx, id, map[string]any{
		"click_count": banner.ClickCount + 1,
	})
	return err
}
