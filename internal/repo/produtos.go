package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"thunder-recargas/internal/listing"
)

const produtoCols = `id::text, nome, descricao, preco, COALESCE(categoria_id::text, ''), ativo, destaque, estoque, imagem, created_at`

func scanProduto(row pgx.Row) (*Produto, error) {
	var p Produto
	err := row.Scan(&p.ID, &p.Nome, &p.Descricao, &p.Preco, &p.CategoriaID, &p.Ativo, &p.Destaque, &p.Estoque, &p.Imagem, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetProduto fetches a product by id.
func (s *Postgres) GetProduto(ctx context.Context, id string) (*Produto, error) {
	key, err := parseID(id)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`SELECT %s FROM produtos WHERE id = $1`, produtoCols)
	p, err := scanProduto(s.pool.QueryRow(ctx, q, key))
	s.track("produtos", err)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get produto: %w", err)
	}
	return p, nil
}

// InsertProduto stores a new product.
func (s *Postgres) InsertProduto(ctx context.Context, p Produto) (*Produto, error) {
	var categoriaID any
	if p.CategoriaID != "" {
		key, err := parseID(p.CategoriaID)
		if err != nil {
			return nil, err
		}
		categoriaID = key
	}
	q := fmt.Sprintf(`
INSERT INTO produtos (nome, descricao, preco, categoria_id, ativo, destaque, estoque, imagem)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING %s;
`, produtoCols)
	inserted, err := scanProduto(s.pool.QueryRow(ctx, q,
		p.Nome, p.Descricao, p.Preco, categoriaID, p.Ativo, p.Destaque, p.Estoque, p.Imagem,
	))
	s.track("produtos", err)
	if err != nil {
		return nil, fmt.Errorf("insert produto: %w", err)
	}
	return inserted, nil
}

var produtoFilterCols = filterColumns{
	search:   []string{"nome", "descricao"},
	category: "categoria_id",
	ts:       "created_at",
}

// ListProdutos returns one page of products. When onlyActive is set the
// soft-deleted rows are excluded, which is the public storefront view.
func (s *Postgres) ListProdutos(ctx context.Context, f listing.Filter, onlyActive bool) ([]Produto, int, error) {
	var extra []string
	if onlyActive {
		extra = []string{"ativo = TRUE"}
	}
	where, args := whereClause(f, produtoFilterCols, time.Now(), extra, nil)

	var total int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM produtos "+where, args...).Scan(&total); err != nil {
		s.track("produtos", err)
		return nil, 0, fmt.Errorf("count produtos: %w", err)
	}

	q := fmt.Sprintf("SELECT %s FROM produtos %s %s", produtoCols, where, pageSuffix(f, "created_at"))
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		s.track("produtos", err)
		return nil, 0, fmt.Errorf("list produtos: %w", err)
	}
	defer rows.Close()

	var items []Produto
	for rows.Next() {
		var p Produto
		if err := rows.Scan(&p.ID, &p.Nome, &p.Descricao, &p.Preco, &p.CategoriaID, &p.Ativo, &p.Destaque, &p.Estoque, &p.Imagem, &p.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan produto: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate produtos: %w", err)
	}
	s.track("produtos", nil)
	return items, total, nil
}

// UpdateProduto replaces the mutable fields of a product.
func (s *Postgres) UpdateProduto(ctx context.Context, id string, p Produto) (*Produto, error) {
	key, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var categoriaID any
	if p.CategoriaID != "" {
		catKey, err := parseID(p.CategoriaID)
		if err != nil {
			return nil, err
		}
		categoriaID = catKey
	}
	q := fmt.Sprintf(`
UPDATE produtos SET
    nome = $2, descricao = $3, preco = $4, categoria_id = $5,
    ativo = $6, destaque = $7, estoque = $8, imagem = $9
WHERE id = $1
RETURNING %s;
`, produtoCols)
	updated, err := scanProduto(s.pool.QueryRow(ctx, q,
		key, p.Nome, p.Descricao, p.Preco, categoriaID, p.Ativo, p.Destaque, p.Estoque, p.Imagem,
	))
	s.track("produtos", err)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update produto: %w", err)
	}
	return updated, nil
}

// DeactivateProduto flips the active flag off; rows are never removed.
func (s *Postgres) DeactivateProduto(ctx context.Context, id string) error {
	key, err := parseID(id)
	if err != nil {
		return err
	}
	ct, err := s.pool.Exec(ctx, `UPDATE produtos SET ativo = FALSE WHERE id = $1`, key)
	s.track("produtos", err)
	if err != nil {
		return fmt.Errorf("deactivate produto: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
