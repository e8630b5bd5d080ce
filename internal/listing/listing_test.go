package listing

import (
	"net/url"
	"testing"
	"time"
)

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total, limit, want int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{100, 7, 15},
	}
	for _, c := range cases {
		if got := TotalPages(c.total, c.limit); got != c.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", c.total, c.limit, got, c.want)
		}
	}
}

func TestOffset(t *testing.T) {
	f := Filter{Page: 2, Limit: 10}
	if got := f.Offset(); got != 10 {
		t.Fatalf("offset = %d, want 10", got)
	}
	if got := (Filter{}).Offset(); got != 0 {
		t.Fatalf("zero filter offset = %d, want 0", got)
	}
}

func TestResolvePeriodToday(t *testing.T) {
	now := time.Date(2025, 6, 18, 15, 30, 0, 0, Zone())
	lower, ok := ResolvePeriod("today", now)
	if !ok {
		t.Fatal("expected today to resolve")
	}
	want := time.Date(2025, 6, 18, 0, 0, 0, 0, Zone())
	if !lower.Equal(want) {
		t.Fatalf("today lower bound = %v, want %v", lower, want)
	}
}

func TestResolvePeriodWeek(t *testing.T) {
	// 2025-06-18 is a Wednesday; the most recent Monday is 2025-06-16.
	now := time.Date(2025, 6, 18, 15, 30, 0, 0, Zone())
	lower, ok := ResolvePeriod("week", now)
	if !ok {
		t.Fatal("expected week to resolve")
	}
	want := time.Date(2025, 6, 16, 0, 0, 0, 0, Zone())
	if !lower.Equal(want) {
		t.Fatalf("week lower bound = %v, want %v", lower, want)
	}

	// On a Monday the bound is that same day.
	monday := time.Date(2025, 6, 16, 9, 0, 0, 0, Zone())
	lower, _ = ResolvePeriod("week", monday)
	want = time.Date(2025, 6, 16, 0, 0, 0, 0, Zone())
	if !lower.Equal(want) {
		t.Fatalf("monday week lower bound = %v, want %v", lower, want)
	}
}

func TestResolvePeriodMonth(t *testing.T) {
	now := time.Date(2025, 6, 18, 15, 30, 0, 0, Zone())
	lower, ok := ResolvePeriod("month", now)
	if !ok {
		t.Fatal("expected month to resolve")
	}
	want := time.Date(2025, 6, 1, 0, 0, 0, 0, Zone())
	if !lower.Equal(want) {
		t.Fatalf("month lower bound = %v, want %v", lower, want)
	}
}

func TestResolvePeriodUnknown(t *testing.T) {
	if _, ok := ResolvePeriod("fortnight", time.Now()); ok {
		t.Fatal("unknown period should not resolve")
	}
}

func TestTimeBoundsExplicitRangeWinsOverPeriod(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, Zone())
	end := time.Date(2025, 1, 31, 0, 0, 0, 0, Zone())
	f := Filter{DateStart: start, DateEnd: end, Period: "today"}

	gotStart, gotEnd := f.TimeBounds(time.Now())
	if !gotStart.Equal(start) || !gotEnd.Equal(end) {
		t.Fatalf("bounds = (%v, %v), want explicit range", gotStart, gotEnd)
	}
}

func TestTimeBoundsPeriodHasNoUpperBound(t *testing.T) {
	f := Filter{Period: "today"}
	start, end := f.TimeBounds(time.Date(2025, 6, 18, 12, 0, 0, 0, Zone()))
	if start.IsZero() {
		t.Fatal("expected a lower bound")
	}
	if !end.IsZero() {
		t.Fatalf("expected no upper bound, got %v", end)
	}
}

func TestFromQueryDefaults(t *testing.T) {
	f := FromQuery(url.Values{})
	if f.Page != 1 || f.Limit != DefaultLimit {
		t.Fatalf("defaults = page %d limit %d", f.Page, f.Limit)
	}

	f = FromQuery(url.Values{"page": {"0"}, "limit": {"-3"}})
	if f.Page != 1 || f.Limit != DefaultLimit {
		t.Fatalf("invalid params should keep defaults, got page %d limit %d", f.Page, f.Limit)
	}

	f = FromQuery(url.Values{"page": {"4"}, "limit": {"25"}, "search": {" ana "}})
	if f.Page != 4 || f.Limit != 25 || f.Search != "ana" {
		t.Fatalf("parsed filter = %+v", f)
	}
}

type fakeRow struct {
	name     string
	phone    string
	status   string
	operator string
	ts       time.Time
}

func (r fakeRow) SearchText() []string  { return []string{r.name, r.phone} }
func (r fakeRow) StatusValue() string   { return r.status }
func (r fakeRow) OperatorValue() string { return r.operator }
func (r fakeRow) CategoryValue() string { return "" }
func (r fakeRow) RecordTime() time.Time { return r.ts }

func sampleRows(now time.Time) []fakeRow {
	return []fakeRow{
		{name: "Ana Souza", phone: "11999990000", status: "na-fila", operator: "Tim", ts: now.Add(-1 * time.Hour)},
		{name: "Bruno Lima", phone: "21988887777", status: "recarga-efetuada", operator: "Vivo", ts: now.Add(-2 * time.Hour)},
		{name: "Carla Dias", phone: "31977776666", status: "na-fila", operator: "Claro", ts: now.Add(-49 * time.Hour)},
	}
}

func TestApplyOrdersDescending(t *testing.T) {
	now := time.Date(2025, 6, 18, 12, 0, 0, 0, Zone())
	rows, total := Apply(sampleRows(now), Filter{}, now)
	if total != 3 {
		t.Fatalf("total = %d, want 3", total)
	}
	if rows[0].name != "Ana Souza" || rows[2].name != "Carla Dias" {
		t.Fatalf("unexpected order: %v", rows)
	}
}

func TestApplySearchIsCaseInsensitive(t *testing.T) {
	now := time.Date(2025, 6, 18, 12, 0, 0, 0, Zone())
	rows, total := Apply(sampleRows(now), Filter{Search: "BRUNO"}, now)
	if total != 1 || rows[0].name != "Bruno Lima" {
		t.Fatalf("search result = %v (total %d)", rows, total)
	}

	// Search also hits the phone column.
	rows, total = Apply(sampleRows(now), Filter{Search: "31977"}, now)
	if total != 1 || rows[0].name != "Carla Dias" {
		t.Fatalf("phone search result = %v (total %d)", rows, total)
	}
}

func TestApplyConjunctiveFilters(t *testing.T) {
	now := time.Date(2025, 6, 18, 12, 0, 0, 0, Zone())
	_, total := Apply(sampleRows(now), Filter{Status: "na-fila", Operator: "tim"}, now)
	if total != 1 {
		t.Fatalf("total = %d, want 1", total)
	}
}

func TestApplyPeriodFilter(t *testing.T) {
	now := time.Date(2025, 6, 18, 12, 0, 0, 0, Zone())
	_, total := Apply(sampleRows(now), Filter{Period: "today"}, now)
	if total != 2 {
		t.Fatalf("today total = %d, want 2", total)
	}
}

func TestApplyPagination(t *testing.T) {
	now := time.Date(2025, 6, 18, 12, 0, 0, 0, Zone())
	var rows []fakeRow
	for i := 0; i < 25; i++ {
		rows = append(rows, fakeRow{name: "x", ts: now.Add(-time.Duration(i) * time.Minute)})
	}

	page, total := Apply(rows, Filter{Page: 2, Limit: 10}, now)
	if total != 25 || len(page) != 10 {
		t.Fatalf("page 2: total %d len %d", total, len(page))
	}
	if TotalPages(total, 10) != 3 {
		t.Fatalf("total_pages = %d, want 3", TotalPages(total, 10))
	}

	page, total = Apply(rows, Filter{Page: 9, Limit: 10}, now)
	if total != 25 || len(page) != 0 {
		t.Fatalf("past-the-end page: total %d len %d", total, len(page))
	}
}

func TestNewResultEmpty(t *testing.T) {
	res := NewResult([]fakeRow(nil), 0, Filter{Page: 1, Limit: 10})
	if res.TotalPages != 1 {
		t.Fatalf("empty result total_pages = %d, want 1", res.TotalPages)
	}
	if res.Data == nil {
		t.Fatal("data should marshal as [], not null")
	}
}
