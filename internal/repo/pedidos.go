package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"thunder-recargas/internal/listing"
)

const pedidoCols = `id::text, "timestamp", codigo_rastreio, nome, telefone, produto_id::text, quantidade, total, endereco, observacoes, status, admin_comment, created_at`

func scanPedido(row pgx.Row) (*Pedido, error) {
	var p Pedido
	err := row.Scan(&p.ID, &p.Timestamp, &p.CodigoRastreio, &p.Nome, &p.Telefone, &p.ProdutoID, &p.Quantidade, &p.Total, &p.Endereco, &p.Observacoes, &p.Status, &p.AdminComment, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// InsertPedido stores a new product order.
func (s *Postgres) InsertPedido(ctx context.Context, p Pedido) (*Pedido, error) {
	produtoID, err := parseID(p.ProdutoID)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`
INSERT INTO pedidos ("timestamp", codigo_rastreio, nome, telefone, produto_id, quantidade, total, endereco, observacoes, status, admin_comment)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING %s;
`, pedidoCols)
	inserted, err := scanPedido(s.pool.QueryRow(ctx, q,
		p.Timestamp, p.CodigoRastreio, p.Nome, p.Telefone, produtoID, p.Quantidade, p.Total, p.Endereco, p.Observacoes, p.Status, p.AdminComment,
	))
	s.track("pedidos", err)
	if err != nil {
		return nil, fmt.Errorf("insert pedido: %w", err)
	}
	return inserted, nil
}

var pedidoFilterCols = filterColumns{
	search: []string{"nome", "telefone", "codigo_rastreio"},
	status: "status",
	ts:     `"timestamp"`,
}

// ListPedidos returns one page of product orders matching the filter plus the
// unpaginated total.
func (s *Postgres) ListPedidos(ctx context.Context, f listing.Filter) ([]Pedido, int, error) {
	where, args := whereClause(f, pedidoFilterCols, time.Now(), nil, nil)

	var total int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM pedidos "+where, args...).Scan(&total); err != nil {
		s.track("pedidos", err)
		return nil, 0, fmt.Errorf("count pedidos: %w", err)
	}

	q := fmt.Sprintf("SELECT %s FROM pedidos %s %s", pedidoCols, where, pageSuffix(f, `"timestamp"`))
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		s.track("pedidos", err)
		return nil, 0, fmt.Errorf("list pedidos: %w", err)
	}
	defer rows.Close()

	items, err := collectPedidos(rows)
	s.track("pedidos", err)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// AllPedidos returns every product order, most recent first, for export.
func (s *Postgres) AllPedidos(ctx context.Context) ([]Pedido, error) {
	q := fmt.Sprintf(`SELECT %s FROM pedidos ORDER BY "timestamp" DESC`, pedidoCols)
	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		s.track("pedidos", err)
		return nil, fmt.Errorf("export pedidos: %w", err)
	}
	defer rows.Close()

	items, err := collectPedidos(rows)
	s.track("pedidos", err)
	return items, err
}

func collectPedidos(rows pgx.Rows) ([]Pedido, error) {
	var items []Pedido
	for rows.Next() {
		var p Pedido
		if err := rows.Scan(&p.ID, &p.Timestamp, &p.CodigoRastreio, &p.Nome, &p.Telefone, &p.ProdutoID, &p.Quantidade, &p.Total, &p.Endereco, &p.Observacoes, &p.Status, &p.AdminComment, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pedido: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pedidos: %w", err)
	}
	return items, nil
}

// UpdatePedido applies the non-nil fields of upd to the targeted order.
func (s *Postgres) UpdatePedido(ctx context.Context, id string, upd PedidoUpdate) (*Pedido, error) {
	key, err := parseID(id)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`
UPDATE pedidos SET
    status = COALESCE($2, status),
    admin_comment = COALESCE($3, admin_comment),
    endereco = COALESCE($4, endereco),
    observacoes = COALESCE($5, observacoes)
WHERE id = $1
RETURNING %s;
`, pedidoCols)
	updated, err := scanPedido(s.pool.QueryRow(ctx, q, key, upd.Status, upd.AdminComment, upd.Endereco, upd.Observacoes))
	s.track("pedidos", err)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update pedido: %w", err)
	}
	return updated, nil
}

// DeletePedido removes a product order.
func (s *Postgres) DeletePedido(ctx context.Context, id string) error {
	key, err := parseID(id)
	if err != nil {
		return err
	}
	ct, err := s.pool.Exec(ctx, `DELETE FROM pedidos WHERE id = $1`, key)
	s.track("pedidos", err)
	if err != nil {
		return fmt.Errorf("delete pedido: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
