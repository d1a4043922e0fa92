package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// The store is deliberately a key-value table: one row per namespace, each
// holding the full serialized collection. See internal/store.
const schema = `
CREATE SCHEMA IF NOT EXISTS foodrescue;

CREATE TABLE IF NOT EXISTS foodrescue.kv_state (
	namespace  text PRIMARY KEY,
	blob       bytea NOT NULL,
	updated_at timestamptz NOT NULL DEFAULT now()
);
`

func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
