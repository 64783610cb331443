package content

import (
	"context"
	"time"

	"github.com/saforex/saforex-go/internal/feed"
	"github.com/saforex/saforex-go/internal/media"
	"github.com/saforex/saforex-go/internal/postgrest"
)

// The analysis list embeds the author through a named foreign key because
// market_analysis carries more than one relation to users_profile.
const analysisJoin = "*,users_profile!market_analysis_user_profile_fk(full_name,avatar_url)"

// Analyses publishes the market-analysis list. Deleting an analysis is a
// soft delete: the row is archived and the loader's status filter keeps it
// out of every subsequent load while it stays in the backing store.
type Analyses struct {
	*feed.Engine[MarketAnalysis]
	media *media.Helper
}

// NewAnalyses builds the analysis store.
func NewAnalyses(tbl feed.Table[MarketAnalysis], likes feed.LikeStore, notifier feed.Notifier, uploads *media.Helper, ttl time.Duration) *Analyses {
	return &Analyses{
		Engine: feed.New(feed.Options[MarketAnalysis]{
			Table:            tbl,
			Likes:            likes,
			Feed:             notifier,
			Name:             "market_analysis",
			Key:              func(a MarketAnalysis) string { return a.ID },
			Recency:          func(a MarketAnalysis) time.Time { return a.CreatedAt },
			TTL:              ttl,
			Select:           analysisJoin,
			Filters:          []postgrest.Filter{postgrest.Eq("status", "published")},
			Strategy:         feed.StrategyReload,
			SoftDeleteStatus: "archived",
		}),
		media: uploads,
	}
}

// UploadMedia validates, downscales and stores an analysis chart image.
func (a *Analyses) UploadMedia(ctx context.Context, filename string, data []byte) (string, error) {
	return a.media.Upload(ctx, filename, data)
}
