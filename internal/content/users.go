package content

import (
	"context"
	"time"

	"github.com/saforex/saforex-go/internal/feed"
)

// Users publishes the admin user directory. The directory has no change
// feed; moderation actions refresh it themselves.
type Users struct {
	*feed.Engine[UserAccount]
}

// NewUsers builds the user directory store.
func NewUsers(tbl feed.Table[UserAccount], ttl time.Duration) *Users {
	return &Users{
		Engine: feed.New(feed.Options[UserAccount]{
			Table:   tbl,
			Name:    "users_profile",
			Key:     func(u UserAccount) string { return u.ID },
			Recency: func(u UserAccount) time.Time { return u.CreatedAt },
			TTL:     ttl,
			Select:  "id,full_name,email,is_banned,last_login,created_at",
		}),
	}
}

// SetBanned bans or unbans a user. The forced reload behind Update
// guarantees the directory never shows the pre-update value afterwards.
func (u *Users) SetBanned(ctx context.Context, userID string, banned bool) error {
	_, err := u.Update(ctx, userID, map[string]any{"is_banned": banned})
	return err
}
