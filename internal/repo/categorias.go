package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const categoriaCols = `id::text, nome, descricao, ativo, created_at`

func scanCategoria(row pgx.Row) (*Categoria, error) {
	var c Categoria
	err := row.Scan(&c.ID, &c.Nome, &c.Descricao, &c.Ativo, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListCategorias returns all categories, optionally only the active ones.
func (s *Postgres) ListCategorias(ctx context.Context, onlyActive bool) ([]Categoria, error) {
	q := fmt.Sprintf(`SELECT %s FROM categorias`, categoriaCols)
	if onlyActive {
		q += " WHERE ativo = TRUE"
	}
	q += " ORDER BY nome"

	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		s.track("categorias", err)
		return nil, fmt.Errorf("list categorias: %w", err)
	}
	defer rows.Close()

	var items []Categoria
	for rows.Next() {
		var c Categoria
		if err := rows.Scan(&c.ID, &c.Nome, &c.Descricao, &c.Ativo, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan categoria: %w", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categorias: %w", err)
	}
	s.track("categorias", nil)
	return items, nil
}

// InsertCategoria stores a new category.
func (s *Postgres) InsertCategoria(ctx context.Context, c Categoria) (*Categoria, error) {
	q := fmt.Sprintf(`
INSERT INTO categorias (nome, descricao, ativo)
VALUES ($1, $2, $3)
RETURNING %s;
`, categoriaCols)
	inserted, err := scanCategoria(s.pool.QueryRow(ctx, q, c.Nome, c.Descricao, c.Ativo))
	s.track("categorias", err)
	if err != nil {
		return nil, fmt.Errorf("insert categoria: %w", err)
	}
	return inserted, nil
}

// UpdateCategoria replaces the mutable fields of a category. Deactivation
// through update is subject to the same in-use guard as DeactivateCategoria.
func (s *Postgres) UpdateCategoria(ctx context.Context, id string, c Categoria) (*Categoria, error) {
	key, err := parseID(id)
	if err != nil {
		return nil, err
	}
	if !c.Ativo {
		if err := s.ensureCategoriaUnused(ctx, key); err != nil {
			return nil, err
		}
	}
	q := fmt.Sprintf(`
UPDATE categorias SET nome = $2, descricao = $3, ativo = $4
WHERE id = $1
RETURNING %s;
`, categoriaCols)
	updated, err := scanCategoria(s.pool.QueryRow(ctx, q, key, c.Nome, c.Descricao, c.Ativo))
	s.track("categorias", err)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update categoria: %w", err)
	}
	return updated, nil
}

// DeactivateCategoria flips the active flag off, refusing while active
// products still reference the category.
func (s *Postgres) DeactivateCategoria(ctx context.Context, id string) error {
	key, err := parseID(id)
	if err != nil {
		return err
	}
	if err := s.ensureCategoriaUnused(ctx, key); err != nil {
		return err
	}
	ct, err := s.pool.Exec(ctx, `UPDATE categorias SET ativo = FALSE WHERE id = $1`, key)
	s.track("categorias", err)
	if err != nil {
		return fmt.Errorf("deactivate categoria: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Postgres) ensureCategoriaUnused(ctx context.Context, key int64) error {
	var inUse int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM produtos WHERE categoria_id = $1 AND ativo = TRUE`, key).Scan(&inUse)
	if err != nil {
		s.track("categorias", err)
		return fmt.Errorf("check categoria usage: %w", err)
	}
	if inUse > 0 {
		return ErrCategoryInUse
	}
	return nil
}
