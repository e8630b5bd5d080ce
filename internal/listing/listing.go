// Package listing holds the filter, period and pagination logic shared by
// every list endpoint. Both store backends consume the same Filter so the
// semantics cannot drift between them.
package listing

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DefaultLimit is applied when the request carries no limit parameter.
const DefaultLimit = 10

// saoPaulo is the civil timezone used to resolve period tokens and to stamp
// records. Falls back to a fixed UTC-3 zone when tzdata is unavailable.
var saoPaulo = loadZone()

func loadZone() *time.Location {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		return time.FixedZone("-03", -3*60*60)
	}
	return loc
}

// Zone returns the civil timezone all timestamps are interpreted in.
func Zone() *time.Location {
	return saoPaulo
}

// Filter carries the optional list parameters recognised by list endpoints.
// Zero values mean "not filtered".
type Filter struct {
	Search    string
	Status    string
	Operator  string
	Category  string
	DateStart time.Time
	DateEnd   time.Time
	Period    string
	Page      int
	Limit     int
}

// FromQuery parses the recognised filter parameters from a URL query.
// Malformed page/limit/date values are ignored rather than rejected, matching
// the permissive behaviour of the admin panel.
func FromQuery(q url.Values) Filter {
	f := Filter{
		Search:   strings.TrimSpace(q.Get("search")),
		Status:   strings.TrimSpace(q.Get("status")),
		Operator: strings.TrimSpace(q.Get("operadora")),
		Category: strings.TrimSpace(q.Get("categoria")),
		Period:   strings.TrimSpace(q.Get("period")),
		Page:     1,
		Limit:    DefaultLimit,
	}

	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 0 {
		f.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 {
		f.Limit = limit
	}
	if t, ok := parseDate(q.Get("dateStart")); ok {
		f.DateStart = t
	}
	if t, ok := parseDate(q.Get("dateEnd")); ok {
		f.DateEnd = t
	}
	return f
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, saoPaulo); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Normalize forces page and limit into valid range.
func (f Filter) Normalize() Filter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	return f
}

// Offset computes the zero-based row offset for the 1-indexed page.
func (f Filter) Offset() int {
	f = f.Normalize()
	return (f.Page - 1) * f.Limit
}

// TimeBounds resolves the effective timestamp bounds for the filter.
// An explicit start+end pair wins over a period token; a period token yields
// a lower bound only. Returned zero times mean "unbounded".
func (f Filter) TimeBounds(now time.Time) (start, end time.Time) {
	if !f.DateStart.IsZero() && !f.DateEnd.IsZero() {
		return f.DateStart, f.DateEnd
	}
	if f.Period != "" {
		if lower, ok := ResolvePeriod(f.Period, now); ok {
			return lower, time.Time{}
		}
	}
	return time.Time{}, time.Time{}
}

// ResolvePeriod maps a period token to its lower bound relative to now in the
// São Paulo timezone. Unknown tokens resolve to no bound.
func ResolvePeriod(token string, now time.Time) (time.Time, bool) {
	local := now.In(saoPaulo)
	switch token {
	case "today":
		return startOfDay(local), true
	case "week":
		// ISO week: back up to the most recent Monday.
		days := (int(local.Weekday()) + 6) % 7
		return startOfDay(local.AddDate(0, 0, -days)), true
	case "month":
		return time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, saoPaulo), true
	}
	return time.Time{}, false
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// TotalPages computes ceil(total/limit), with a floor of one page so UI
// pagers stay well-defined on empty result sets.
func TotalPages(total, limit int) int {
	if total <= 0 {
		return 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	return (total + limit - 1) / limit
}

// Result is the envelope returned by every paginated list endpoint.
type Result[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"total_pages"`
}

// NewResult wraps rows and the unpaginated total in a Result envelope.
func NewResult[T any](rows []T, total int, f Filter) Result[T] {
	f = f.Normalize()
	if rows == nil {
		rows = []T{}
	}
	return Result[T]{
		Data:       rows,
		Total:      total,
		Page:       f.Page,
		Limit:      f.Limit,
		TotalPages: TotalPages(total, f.Limit),
	}
}

// Record is implemented by entities that support in-memory filtering, used by
// the fallback store.
type Record interface {
	SearchText() []string
	StatusValue() string
	OperatorValue() string
	CategoryValue() string
	RecordTime() time.Time
}

// Apply filters, orders and paginates items in memory with the same semantics
// the Postgres store expresses in SQL. Returns the page of rows and the total
// match count before pagination.
func Apply[T Record](items []T, f Filter, now time.Time) ([]T, int) {
	f = f.Normalize()
	start, end := f.TimeBounds(now)

	matched := make([]T, 0, len(items))
	for _, item := range items {
		if !matches(item, f, start, end) {
			continue
		}
		matched = append(matched, item)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].RecordTime().After(matched[j].RecordTime())
	})

	total := len(matched)
	offset := f.Offset()
	if offset >= total {
		return []T{}, total
	}
	endIdx := offset + f.Limit
	if endIdx > total {
		endIdx = total
	}
	return matched[offset:endIdx], total
}

func matches(item Record, f Filter, start, end time.Time) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		found := false
		for _, field := range item.SearchText() {
			if strings.Contains(strings.ToLower(field), needle) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Status != "" && item.StatusValue() != f.Status {
		return false
	}
	if f.Operator != "" && !strings.EqualFold(item.OperatorValue(), f.Operator) {
		return false
	}
	if f.Category != "" && item.CategoryValue() != f.Category {
		return false
	}
	ts := item.RecordTime()
	if !start.IsZero() && ts.Before(start) {
		return false
	}
	if !end.IsZero() && ts.After(end) {
		return false
	}
	return true
}
