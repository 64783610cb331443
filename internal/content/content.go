// Package content instantiates the sync engine for every table the site
// publishes: trading signals, market analyses, posts, live streams, the
// economic calendar, the user directory and promotional banners.
package content

import (
	"github.com/saforex/saforex-go/internal/config"
	"github.com/saforex/saforex-go/internal/feed"
	"github.com/saforex/saforex-go/internal/media"
	"github.com/saforex/saforex-go/internal/postgrest"
	"github.com/saforex/saforex-go/internal/storage"
)

// Storage bucket per content type.
const (
	SignalImagesBucket  = "signal_images"
	AnalysisMediaBucket = "analysis_media"
	PostMediaBucket     = "post_media"
)

// Hub aggregates every content store, all sharing one table client and one
// change-feed client. The handles are explicit so tests can build stores
// against doubles instead.
type Hub struct {
	Signals  *Signals
	Analyses *Analyses
	Posts    *Posts
	Streams  *Streams
	Calendar *Calendar
	Users    *Users
	Banners  *Banners
}

// NewHub wires all stores against the live platform.
func NewHub(cfg *config.Config, client *postgrest.Client, notifier feed.Notifier, store storage.ObjectStore) *Hub {
	return &Hub{
		Signals: NewSignals(
			postgrest.NewTable[TradingSignal](client, "trading_signals"),
			postgrest.NewJunction(client, "signal_likes", "signal_id", "user_id"),
			notifier,
			media.New(store, SignalImagesBucket),
			cfg.ContentTTL,
		),
		Analyses: NewAnalyses(
			postgrest.NewTable[MarketAnalysis](client, "market_analysis"),
			postgrest.NewJunction(client, "analysis_likes", "analysis_id", "user_id"),
			notifier,
			media.New(store, AnalysisMediaBucket),
			cfg.ContentTTL,
		),
		Posts: NewPosts(
			postgrest.NewTable[ContentPost](client, "content_posts"),
			notifier,
			media.New(store, PostMediaBucket),
			cfg.ContentTTL,
		),
		Streams: NewStreams(
			postgrest.NewTable[LiveStream](client, "live_streams"),
			notifier,
			cfg.LiveTTL,
		),
		Calendar: NewCalendar(
			postgrest.NewTable[EconomicEvent](client, "economic_events"),
			notifier,
			cfg.ContentTTL,
		),
		Users: NewUsers(
			postgrest.NewTable[UserAccount](client, "users_profile"),
			cfg.ContentTTL,
		),
		Banners: NewBanners(
			postgrest.NewTable[Banner](client, "banners"),
			notifier,
			cfg.ContentTTL,
		),
	}
}

// Close tears down every store's subscription and periodic refresh.
func (h *Hub) Close() {
	h.Signals.Engine.Close()
	h.Analyses.Engine.Close()
	h.Posts.Engine.Close()
	h.Streams.Engine.Close()
	h.Calendar.Engine.Close()
	h.Users.Engine.Close()
	h.Banners.Engine.Close()
}
