package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"thunder-recargas/internal/listing"
)

const recargaCols = `id::text, "timestamp", nome, telefone, operadora, recarga_selecionada, senha_app, status, admin_comment, created_at`

func scanRecarga(row pgx.Row) (*Recarga, error) {
	var r Recarga
	err := row.Scan(&r.ID, &r.Timestamp, &r.Nome, &r.Telefone, &r.Operadora, &r.RecargaSelecionada, &r.SenhaApp, &r.Status, &r.AdminComment, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

// InsertRecarga stores a new recharge order.
func (s *Postgres) InsertRecarga(ctx context.Context, r Recarga) (*Recarga, error) {
	q := fmt.Sprintf(`
INSERT INTO recargas ("timestamp", nome, telefone, operadora, recarga_selecionada, senha_app, status, admin_comment)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING %s;
`, recargaCols)
	inserted, err := scanRecarga(s.pool.QueryRow(ctx, q,
		r.Timestamp, r.Nome, r.Telefone, r.Operadora, r.RecargaSelecionada, r.SenhaApp, r.Status, r.AdminComment,
	))
	s.track("recargas", err)
	if err != nil {
		return nil, fmt.Errorf("insert recarga: %w", err)
	}
	return inserted, nil
}

var recargaFilterCols = filterColumns{
	search:   []string{"nome", "telefone"},
	status:   "status",
	operator: "operadora",
	ts:       `"timestamp"`,
}

// ListRecargas returns one page of recharge orders matching the filter plus
// the unpaginated total.
func (s *Postgres) ListRecargas(ctx context.Context, f listing.Filter) ([]Recarga, int, error) {
	where, args := whereClause(f, recargaFilterCols, time.Now(), nil, nil)

	var total int
	countQ := "SELECT COUNT(*) FROM recargas " + where
	if err := s.pool.QueryRow(ctx, countQ, args...).Scan(&total); err != nil {
		s.track("recargas", err)
		return nil, 0, fmt.Errorf("count recargas: %w", err)
	}

	q := fmt.Sprintf("SELECT %s FROM recargas %s %s", recargaCols, where, pageSuffix(f, `"timestamp"`))
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		s.track("recargas", err)
		return nil, 0, fmt.Errorf("list recargas: %w", err)
	}
	defer rows.Close()

	items, err := collectRecargas(rows)
	s.track("recargas", err)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// AllRecargas returns every recharge order, most recent first, for export.
func (s *Postgres) AllRecargas(ctx context.Context) ([]Recarga, error) {
	q := fmt.Sprintf(`SELECT %s FROM recargas ORDER BY "timestamp" DESC`, recargaCols)
	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		s.track("recargas", err)
		return nil, fmt.Errorf("export recargas: %w", err)
	}
	defer rows.Close()

	items, err := collectRecargas(rows)
	s.track("recargas", err)
	return items, err
}

func collectRecargas(rows pgx.Rows) ([]Recarga, error) {
	var items []Recarga
	for rows.Next() {
		var r Recarga
		if err := rows.Scan(&r.ID, &r.Timestamp, &r.Nome, &r.Telefone, &r.Operadora, &r.RecargaSelecionada, &r.SenhaApp, &r.Status, &r.AdminComment, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan recarga: %w", err)
		}
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recargas: %w", err)
	}
	return items, nil
}

// UpdateRecarga applies the non-nil fields of upd to the targeted order.
func (s *Postgres) UpdateRecarga(ctx context.Context, id string, upd RecargaUpdate) (*Recarga, error) {
	key, err := parseID(id)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`
UPDATE recargas SET
    nome = COALESCE($2, nome),
    telefone = COALESCE($3, telefone),
    operadora = COALESCE($4, operadora),
    recarga_selecionada = COALESCE($5, recarga_selecionada),
    status = COALESCE($6, status),
    admin_comment = COALESCE($7, admin_comment)
WHERE id = $1
RETURNING %s;
`, recargaCols)
	updated, err := scanRecarga(s.pool.QueryRow(ctx, q,
		key, upd.Nome, upd.Telefone, upd.Operadora, upd.RecargaSelecionada, upd.Status, upd.AdminComment,
	))
	s.track("recargas", err)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update recarga: %w", err)
	}
	return updated, nil
}

// DeleteRecarga removes a recharge order.
func (s *Postgres) DeleteRecarga(ctx context.Context, id string) error {
	key, err := parseID(id)
	if err != nil {
		return err
	}
	ct, err := s.pool.Exec(ctx, `DELETE FROM recargas WHERE id = $1`, key)
	s.track("recargas", err)
	if err != nil {
		return fmt.Errorf("delete recarga: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RechargeDashboard aggregates order counts grouped by status and operator.
func (s *Postgres) RechargeDashboard(ctx context.Context) (*DashboardData, error) {
	data := EmptyDashboard()

	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM recargas`).Scan(&data.Total); err != nil {
		s.track("recargas", err)
		return nil, fmt.Errorf("dashboard total: %w", err)
	}

	rows, err := s.pool.Query(ctx, `SELECT status, COUNT(*) FROM recargas GROUP BY status`)
	if err != nil {
		s.track("recargas", err)
		return nil, fmt.Errorf("dashboard status counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		if _, ok := data.StatusCounts[status]; ok {
			data.StatusCounts[status] = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status counts: %w", err)
	}

	opRows, err := s.pool.Query(ctx, `SELECT INITCAP(LOWER(operadora)), COUNT(*) FROM recargas GROUP BY 1`)
	if err != nil {
		s.track("recargas", err)
		return nil, fmt.Errorf("dashboard operator counts: %w", err)
	}
	defer opRows.Close()
	for opRows.Next() {
		var op string
		var count int
		if err := opRows.Scan(&op, &count); err != nil {
			return nil, fmt.Errorf("scan operator count: %w", err)
		}
		if _, ok := data.OperatorCounts[op]; ok {
			data.OperatorCounts[op] = count
		}
	}
	if err := opRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate operator counts: %w", err)
	}

	data.Variations["total"] = data.Total
	data.Variations["completed"] = data.StatusCounts[RechargeDone]
	data.Variations["pending"] = data.StatusCounts[RechargeQueued] + data.StatusCounts[RechargeProcessing]
	data.Variations["error"] = data.StatusCounts[RechargeError]

	s.track("recargas", nil)
	return data, nil
}
