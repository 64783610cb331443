package content

import (
	"time"

	"github.com/saforex/saforex-go/internal/feed"
)

// Streams publishes the live-stream list. Liveness is time sensitive, so
// this store runs the fast-path merge strategy (change payloads applied
// directly to the list) plus a periodic forced reload every TTL as a
// backstop for drifted aggregate fields.
type Streams struct {
	*feed.Engine[LiveStream]
}

// NewStreams builds the live-stream store.
func NewStreams(tbl feed.Table[LiveStream], notifier feed.Notifier, ttl time.Duration) *Streams {
	return &Streams{
		Engine: feed.New(feed.Options[LiveStream]{
			Table:       tbl,
			Feed:        notifier,
			Name:        "live_streams",
			Key:         func(s LiveStream) string { return s.ID },
			Recency:     func(s LiveStream) time.Time { return s.StartedAt },
			TTL:         ttl,
			Select:      authorJoin,
			OrderColumn: "started_at",
			Strategy:    feed.StrategyMerge,
			Refresh:     ttl,
		}),
	}
}
