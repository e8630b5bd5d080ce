package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// GetConfig reads the configuration singleton blob.
func (s *Postgres) GetConfig(ctx context.Context) (json.RawMessage, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM config WHERE id = $1`, ConfigID).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		s.track("config", ErrNotFound)
		return nil, ErrNotFound
	}
	s.track("config", err)
	if err != nil {
		return nil, fmt.Errorf("get config: %w", err)
	}
	return json.RawMessage(data), nil
}

// UpsertConfig writes the configuration blob against the fixed singleton id.
func (s *Postgres) UpsertConfig(ctx context.Context, data json.RawMessage, updatedAt time.Time) error {
	const q = `
INSERT INTO config (id, data, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at;
`
	_, err := s.pool.Exec(ctx, q, ConfigID, string(data), updatedAt)
	s.track("config", err)
	if err != nil {
		return fmt.Errorf("upsert config: %w", err)
	}
	return nil
}
