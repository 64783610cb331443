package content

import (
	"context"
	"time"

	"github.com/saforex/saforex-go/internal/feed"
	"github.com/saforex/saforex-go/internal/media"
	"github.com/saforex/saforex-go/internal/postgrest"
)

// PostsPerPage is the page window for the blog-style post list.
const PostsPerPage = 10

// Posts publishes the blog-style post list, paginated. The post table
// churns fast enough that change notifications are debounced into one
// reload per window rather than reloading per event.
type Posts struct {
	*feed.Engine[ContentPost]
	media *media.Helper
}

// NewPosts builds the post store.
func NewPosts(tbl feed.Table[ContentPost], notifier feed.Notifier, uploads *media.Helper, ttl time.Duration) *Posts {
	return &Posts{
		Engine: feed.New(feed.Options[ContentPost]{
			Table:    tbl,
			Feed:     notifier,
			Name:     "content_posts",
			Key:      func(p ContentPost) string { return p.ID },
			Recency:  func(p ContentPost) time.Time { return p.CreatedAt },
			TTL:      ttl,
			PageSize: PostsPerPage,
			Select:   authorJoin,
			Filters:  []postgrest.Filter{postgrest.Eq("status", "published")},
			Strategy: feed.StrategyDebounce,
		}),
		media: uploads,
	}
}

// UploadMedia validates, downscales and stores a post image.
func (p *Posts) UploadMedia(ctx context.Context, filename string, data []byte) (string, error) {
	return p.media.Upload(ctx, filename, data)
}
