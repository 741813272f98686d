// Package postgres implements the storage interfaces on PostgreSQL via pgx.
// Schema is applied by database.Migrate.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func isNotFoundError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// pinger adapts a pool to storage.Pinger.
type pinger struct {
	pool *pgxpool.Pool
}

func (p pinger) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}
