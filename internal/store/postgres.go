package store

import (
	"context"
	"fmt"
	"time"

	"foodrescue/internal/utils"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const kvTableName = "foodrescue.kv_state"

type kvRow struct {
	Namespace string    `db:"namespace"`
	Blob      []byte    `db:"blob"`
	UpdatedAt time.Time `db:"updated_at"`
}

var kvColumns = utils.StructTagValues(kvRow{})

type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func psql() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

func (s *Postgres) Get(ctx context.Context, namespace string) ([]byte, error) {

	query, args, err := psql().Select(kvColumns...).From(kvTableName).
		Where(sq.Eq{"namespace": namespace}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate namespace query: %w", err)
	}

	var row = new(kvRow)
	err = pgxscan.Get(ctx, s.pool, row, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, fmt.Errorf("failed to fetch namespace %s: %w", namespace, err)
	}

	if err != nil {
		return nil, nil
	}

	return row.Blob, nil
}

func (s *Postgres) Put(ctx context.Context, namespace string, blob []byte) error {

	query, args, err := psql().Insert(kvTableName).
		Columns("namespace", "blob", "updated_at").
		Values(namespace, blob, time.Now()).
		Suffix("ON CONFLICT (namespace) DO UPDATE SET blob = EXCLUDED.blob, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate namespace upsert for %s: %w", namespace, err)
	}

	_, err = s.pool.Exec(ctx, query, args...)

	return utils.ErrorWrapOrNil(err, "failed to persist namespace "+namespace)
}
