package repo

import (
	"strings"
	"testing"
	"time"

	"thunder-recargas/internal/listing"
)

func TestWhereClauseEmptyFilter(t *testing.T) {
	where, args := whereClause(listing.Filter{}, recargaFilterCols, time.Now(), nil, nil)
	if where != "" {
		t.Fatalf("where = %q, want empty", where)
	}
	if len(args) != 0 {
		t.Fatalf("args = %v, want none", args)
	}
}

func TestWhereClauseSearchComposesOR(t *testing.T) {
	where, args := whereClause(listing.Filter{Search: "ana"}, recargaFilterCols, time.Now(), nil, nil)
	if want := "WHERE (nome ILIKE $1 OR telefone ILIKE $1)"; where != want {
		t.Fatalf("where = %q, want %q", where, want)
	}
	if len(args) != 1 || args[0] != "%ana%" {
		t.Fatalf("args = %v", args)
	}
}

func TestWhereClauseConjunctive(t *testing.T) {
	f := listing.Filter{Search: "ana", Status: "na-fila", Operator: "tim"}
	where, args := whereClause(f, recargaFilterCols, time.Now(), nil, nil)

	for _, fragment := range []string{
		"(nome ILIKE $1 OR telefone ILIKE $1)",
		"status = $2",
		"LOWER(operadora) = LOWER($3)",
	} {
		if !strings.Contains(where, fragment) {
			t.Fatalf("where %q missing %q", where, fragment)
		}
	}
	if strings.Count(where, " AND ") != 2 {
		t.Fatalf("filters must be conjunctive: %q", where)
	}
	if len(args) != 3 {
		t.Fatalf("args = %v", args)
	}
}

func TestWhereClausePeriodLowerBoundOnly(t *testing.T) {
	now := time.Date(2025, 6, 18, 12, 0, 0, 0, listing.Zone())
	where, args := whereClause(listing.Filter{Period: "today"}, recargaFilterCols, now, nil, nil)

	if !strings.Contains(where, `"timestamp" >= $1`) {
		t.Fatalf("where = %q, want lower bound", where)
	}
	if strings.Contains(where, "<=") {
		t.Fatalf("period must not add an upper bound: %q", where)
	}
	want := time.Date(2025, 6, 18, 0, 0, 0, 0, listing.Zone())
	if got := args[0].(time.Time); !got.Equal(want) {
		t.Fatalf("lower bound = %v, want %v", got, want)
	}
}

func TestWhereClauseExplicitRange(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, listing.Zone())
	end := time.Date(2025, 1, 31, 0, 0, 0, 0, listing.Zone())
	f := listing.Filter{DateStart: start, DateEnd: end}

	where, args := whereClause(f, recargaFilterCols, time.Now(), nil, nil)
	if !strings.Contains(where, `"timestamp" >= $1`) || !strings.Contains(where, `"timestamp" <= $2`) {
		t.Fatalf("where = %q, want inclusive range", where)
	}
	if len(args) != 2 {
		t.Fatalf("args = %v", args)
	}
}

func TestWhereClauseExtraConditions(t *testing.T) {
	where, args := whereClause(listing.Filter{Search: "caneca"}, produtoFilterCols, time.Now(), []string{"ativo = TRUE"}, nil)
	if !strings.HasPrefix(where, "WHERE ativo = TRUE AND ") {
		t.Fatalf("where = %q", where)
	}
	if len(args) != 1 {
		t.Fatalf("args = %v", args)
	}
}

func TestPageSuffix(t *testing.T) {
	got := pageSuffix(listing.Filter{Page: 2, Limit: 10}, `"timestamp"`)
	if want := `ORDER BY "timestamp" DESC LIMIT 10 OFFSET 10`; got != want {
		t.Fatalf("suffix = %q, want %q", got, want)
	}
}

func TestParseOperator(t *testing.T) {
	for _, s := range []string{"tim", "TIM", " Vivo ", "claro"} {
		if _, ok := ParseOperator(s); !ok {
			t.Errorf("ParseOperator(%q) rejected a valid carrier", s)
		}
	}
	for _, s := range []string{"", "oi", "timm"} {
		if _, ok := ParseOperator(s); ok {
			t.Errorf("ParseOperator(%q) accepted an invalid carrier", s)
		}
	}
}
