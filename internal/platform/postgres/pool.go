// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package postgres opens the connection pool behind the postgres storage driver.
//
// A client process reads and writes four keys, so the pool is small and every
// statement is bounded: a stalled database must surface as a storage failure
// instead of hanging a login.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Options tunes the pool. Zero fields take the defaults below.
type Options struct {
	// MaxConns caps open connections.
	MaxConns int32
	// StatementTimeout is applied server-side to every statement.
	StatementTimeout time.Duration
}

const (
	defaultMaxConns         = 4
	defaultStatementTimeout = 5 * time.Second

	maxConnIdleTime = 5 * time.Minute
	connectTimeout  = 5 * time.Second
	pingTimeout     = 2 * time.Second
)

// NewPool connects to dsn and verifies the server answers.
func NewPool(ctx context.Context, dsn string, opts Options, logger zerolog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid DSN: %w", err)
	}

	opts = opts.withDefaults()
	poolConfig.MaxConns = opts.MaxConns
	poolConfig.MinConns = 0
	poolConfig.MaxConnIdleTime = maxConnIdleTime
	poolConfig.ConnConfig.ConnectTimeout = connectTimeout
	poolConfig.ConnConfig.RuntimeParams["application_name"] = "tripora-client"

	statementTimeout := fmt.Sprintf("SET statement_timeout = %d", opts.StatementTimeout.Milliseconds())
	poolConfig.AfterConnect = func(ctx context.Context, connection *pgx.Conn) error {
		_, err := connection.Exec(ctx, statementTimeout)
		return err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}

	if err := Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info().
		Str("host", poolConfig.ConnConfig.Host).
		Int32("max_conns", opts.MaxConns).
		Dur("statement_timeout", opts.StatementTimeout).
		Msg("postgres storage connected")

	return pool, nil
}

// Ping checks that the server answers within a short bound.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("postgres: ping failed: %w", err)
	}
	return nil
}

func (o Options) withDefaults() Options {
	if o.MaxConns <= 0 {
		o.MaxConns = defaultMaxConns
	}
	if o.StatementTimeout <= 0 {
		o.StatementTimeout = defaultStatementTimeout
	}
	return o
}
