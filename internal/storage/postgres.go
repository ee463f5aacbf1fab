// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"context"
	"embed"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/taibuivan/tripora/internal/platform/dberr"
	"github.com/taibuivan/tripora/internal/platform/migration"
	platformpg "github.com/taibuivan/tripora/internal/platform/postgres"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// # Queries

const (
	queryGet = `SELECT value FROM client_kv WHERE namespace = $1 AND key = $2`

	queryUpsert = `
		INSERT INTO client_kv (namespace, key, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (namespace, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

	queryDelete = `DELETE FROM client_kv WHERE namespace = $1 AND key = ANY($2)`
)

// MigratePostgres brings the client_kv table up to date.
func MigratePostgres(dsn string, logger zerolog.Logger) error {
	_, err := migration.Apply(dsn, migrationsFS, "migrations", logger)
	return err
}

// Postgres is a [Store] on the client_kv table, one row per (namespace, key).
type Postgres struct {
	pool      *pgxpool.Pool
	namespace string
	logger    zerolog.Logger
}

// NewPostgres wraps an already connected pool. The schema must be migrated.
func NewPostgres(pool *pgxpool.Pool, namespace string, logger zerolog.Logger) *Postgres {
	return &Postgres{pool: pool, namespace: namespace, logger: logger}
}

// Get implements [Store].
func (p *Postgres) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := p.pool.QueryRow(ctx, queryGet, p.namespace, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, dberr.Wrap(err, "get")
	}
	return value, true, nil
}

// Set implements [Store].
func (p *Postgres) Set(ctx context.Context, key, value string) error {
	if _, err := p.pool.Exec(ctx, queryUpsert, p.namespace, key, value); err != nil {
		return dberr.Wrap(err, "set")
	}
	return nil
}

// MultiSet implements [Store] in one transaction.
func (p *Postgres) MultiSet(ctx context.Context, entries map[string]string) error {
	err := pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for key, value := range entries {
			batch.Queue(queryUpsert, p.namespace, key, value)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return dberr.Wrap(err, "multi_set")
	}
	return nil
}

// Remove implements [Store].
func (p *Postgres) Remove(ctx context.Context, key string) error {
	return p.MultiRemove(ctx, key)
}

// MultiRemove implements [Store]. A single DELETE is atomic.
func (p *Postgres) MultiRemove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if _, err := p.pool.Exec(ctx, queryDelete, p.namespace, keys); err != nil {
		return dberr.Wrap(err, "multi_remove")
	}
	return nil
}

// Ping implements [Pinger].
func (p *Postgres) Ping(ctx context.Context) error {
	return platformpg.Ping(ctx, p.pool)
}

// Close implements [Store].
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
