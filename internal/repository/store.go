// Package repository provides PostgreSQL implementations of the service
// repositories.
package repository

import (
	"context"
	"database/sql"

	"github.com/atinyakov/listkeeper/internal/db"
	"github.com/atinyakov/listkeeper/internal/service"
)

// PostgresStore runs units of work against a PostgreSQL pool.
type PostgresStore struct {
	// DB is the pool transactions are started from.
	DB *sql.DB
}

// NewPostgresStore creates a PostgresStore over the given pool.
func NewPostgresStore(pool *sql.DB) *PostgresStore {
	return &PostgresStore{DB: pool}
}

// Do runs fn inside one transaction with every repository bound to it, so
// access checks and the writes they guard see the same snapshot.
func (s *PostgresStore) Do(ctx context.Context, fn func(ctx context.Context, repos service.Repositories) error) error {
	return db.WithTx(ctx, s.DB, nil, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, Bind(tx))
	})
}

// Bind returns the repositories executing through q.
func Bind(q db.DBTX) service.Repositories {
	return service.Repositories{
		Users: NewPostgresUserRepository(q),
		Lists: NewPostgresListRepository(q),
		Items: NewPostgresItemRepository(q),
		Links: NewPostgresLinkRepository(q),
	}
}
