package content

import (
	"time"

	"github.com/saforex/saforex-go/internal/feed"
)

// calendarRefresh is the fixed-interval reload for economic events,
// independent of the change feed.
const calendarRefresh = 5 * time.Minute

// Calendar publishes the economic-calendar event list, soonest first.
type Calendar struct {
	*feed.Engine[EconomicEvent]
}

// NewCalendar builds the calendar store.
func NewCalendar(tbl feed.Table[EconomicEvent], notifier feed.Notifier, ttl time.Duration) *Calendar {
	return &Calendar{
		Engine: feed.New(feed.Options[EconomicEvent]{
			Table:       tbl,
			Feed:        notifier,
			Name:        "economic_events",
			Key:         func(ev EconomicEvent) string { return ev.ID },
			Recency:     func(ev EconomicEvent) time.Time { return ev.EventTime },
			TTL:         ttl,
			Ascending:   true,
			OrderColumn: "event_time",
			Strategy:    feed.StrategyReload,
			Refresh:     calendarRefresh,
		}),
	}
}
