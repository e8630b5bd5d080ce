package repo

import (
	"fmt"
	"strings"
	"time"

	"thunder-recargas/internal/listing"
)

// filterColumns names the table columns a listing.Filter maps onto.
// Empty fields disable the corresponding filter for that entity.
type filterColumns struct {
	search   []string
	status   string
	operator string
	category string
	ts       string
}

// whereClause translates a listing.Filter into a SQL WHERE fragment and its
// positional arguments. Conditions are conjunctive; ordering and pagination
// are appended by the caller. extra holds pre-existing conditions (e.g. the
// active-only guard) and args their arguments.
func whereClause(f listing.Filter, cols filterColumns, now time.Time, extra []string, args []any) (string, []any) {
	conds := append([]string{}, extra...)

	next := func() string { return fmt.Sprintf("$%d", len(args)+1) }

	if f.Search != "" && len(cols.search) > 0 {
		args = append(args, "%"+f.Search+"%")
		ph := fmt.Sprintf("$%d", len(args))
		parts := make([]string, 0, len(cols.search))
		for _, col := range cols.search {
			parts = append(parts, fmt.Sprintf("%s ILIKE %s", col, ph))
		}
		conds = append(conds, "("+strings.Join(parts, " OR ")+")")
	}
	if f.Status != "" && cols.status != "" {
		conds = append(conds, fmt.Sprintf("%s = %s", cols.status, next()))
		args = append(args, f.Status)
	}
	if f.Operator != "" && cols.operator != "" {
		conds = append(conds, fmt.Sprintf("LOWER(%s) = LOWER(%s)", cols.operator, next()))
		args = append(args, f.Operator)
	}
	if f.Category != "" && cols.category != "" {
		conds = append(conds, fmt.Sprintf("%s = %s::bigint", cols.category, next()))
		args = append(args, f.Category)
	}

	start, end := f.TimeBounds(now)
	if !start.IsZero() {
		conds = append(conds, fmt.Sprintf("%s >= %s", cols.ts, next()))
		args = append(args, start)
	}
	if !end.IsZero() {
		conds = append(conds, fmt.Sprintf("%s <= %s", cols.ts, next()))
		args = append(args, end)
	}

	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// pageSuffix appends the unconditional ordering and the LIMIT/OFFSET window.
func pageSuffix(f listing.Filter, tsCol string) string {
	f = f.Normalize()
	return fmt.Sprintf("ORDER BY %s DESC LIMIT %d OFFSET %d", tsCol, f.Limit, f.Offset())
}
