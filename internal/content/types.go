package content

import "time"

// AuthorProfile is the embedded slice of users_profile the lists join in
// wherever a name and avatar are rendered next to a row.
type AuthorProfile struct {
	FullName  *string `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
}

// TradingSignal is a row of trading_signals.
type TradingSignal struct {
	ID              string         `json:"id"`
	UserID          string         `json:"user_id"`
	Pair            string         `json:"pair"`
	Direction       string         `json:"direction"` // buy | sell
	EntryPrice      float64        `json:"entry_price"`
	StopLoss        *float64       `json:"stop_loss"`
	TakeProfit      *float64       `json:"take_profit"`
	Status          string         `json:"status"` // open | closed
	Notes           *string        `json:"notes"`
	ImageURL        *string        `json:"image_url"`
	LikesCount      int            `json:"likes_count"`
	PerformancePips *float64       `json:"performance_pips"`
	CreatedAt       time.Time      `json:"created_at"`
	ClosedAt        *time.Time     `json:"closed_at"`
	Author          *AuthorProfile `json:"users_profile,omitempty"`
}

// MarketAnalysis is a row of market_analysis.
type MarketAnalysis struct {
	ID         string         `json:"id"`
	UserID     string         `json:"user_id"`
	Title      string         `json:"title"`
	Content    string         `json:"content"`
	Instrument string         `json:"instrument"`
	Direction  *string        `json:"direction"` // buy | sell
	EntryPrice *float64       `json:"entry_price"`
	StopLoss   *float64       `json:"stop_loss"`
	TakeProfit *float64       `json:"take_profit"`
	Status     string         `json:"status"` // draft | published | archived
	LikesCount int            `json:"likes_count"`
	ViewsCount int            `json:"views_count"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	Author     *AuthorProfile `json:"users_profile,omitempty"`
}

// ContentPost is a row of content_posts.
type ContentPost struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	Type      string         `json:"type"` // text | image | video | link
	MediaURL  *string        `json:"media_url"`
	Status    string         `json:"status"` // draft | published | archived
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Author    *AuthorProfile `json:"users_profile,omitempty"`
}

// LiveStream is a row of live_streams.
type LiveStream struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	Title        string         `json:"title"`
	Description  *string        `json:"description"`
	URL          string         `json:"url"`
	ThumbnailURL *string        `json:"thumbnail_url"`
	IsLive       bool           `json:"is_live"`
	ViewersCount int            `json:"viewers_count"`
	StartedAt    time.Time      `json:"started_at"`
	EndedAt      *time.Time     `json:"ended_at"`
	Author       *AuthorProfile `json:"users_profile,omitempty"`
}

// EconomicEvent is a row of economic_events.
type EconomicEvent struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Country       string    `json:"country"`
	ImpactLevel   string    `json:"impact_level"` // low | medium | high
	EventTime     time.Time `json:"event_time"`
	ActualValue   *string   `json:"actual_value"`
	ForecastValue *string   `json:"forecast_value"`
	PreviousValue *string   `json:"previous_value"`
	Description   *string   `json:"description"`
	Currency      string    `json:"currency"`
	IndicatorType string    `json:"indicator_type"`
}

// UserAccount is the directory projection of users_profile.
type UserAccount struct {
	ID        string     `json:"id"`
	FullName  *string    `json:"full_name"`
	Email     *string    `json:"email"`
	IsBanned  bool       `json:"is_banned"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
}

// Banner is a row of banners.
type Banner struct {
	ID         string    `json:"id"`
	ImageURL   string    `json:"image_url"`
	LinkURL    string    `json:"link_url"`
	IsActive   bool      `json:"is_active"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	ClickCount int       `json:"click_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// authorJoin is the embedded projection used by lists that render an
// author name and avatar.
const authorJoin = "*,users_profile(full_name,avatar_url)"
