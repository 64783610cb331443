package postgrest

import (
	"fmt"
	"net/url"
)

// Filter is a server-side equality predicate on one column.
type Filter struct {
	Column string
	Value  string
}

// Eq builds an equality filter.
func Eq(column, value string) Filter {
	return Filter{Column: column, Value: value}
}

// Query describes one table read: projected columns (including embedded
// joins), filters, ordering, and an optional page window.
type Query struct {
	Select    string
	Filters   []Filter
	OrderBy   string
	Ascending bool
	Offset    int
	Limit     int // 0 means no page window
}

// params renders the query as table API query parameters.
func (q Query) params() url.Values {
	v := url.Values{}

	sel := q.Select
	if sel == "" {
		sel = "*"
	}
	v.Set("select", sel)

	for _, f := range q.Filters {
		v.Set(f.Column, "eq."+f.Value)
	}

	if q.OrderBy != "" {
		dir := "desc"
		if q.Ascending {
			dir = "asc"
		}
		v.Set("order", fmt.Sprintf("%s.%s", q.OrderBy, dir))
	}

	if q.Limit > 0 {
		v.Set("limit", fmt.Sprintf("%d", q.Limit))
		v.Set("offset", fmt.Sprintf("%d", q.Offset))
	}

	return v
}
