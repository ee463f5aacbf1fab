// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis opens the client behind the redis storage driver.

It is used when several client processes (a fleet of kiosks, a test harness)
share one session and settings store instead of a device-local database.
Every command is bounded by the configured timeout so an unreachable server
surfaces as a storage failure.
*/
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Options tunes the client. Zero fields take the defaults below.
type Options struct {
	// PoolSize caps open connections.
	PoolSize int
	// Timeout bounds dialing and every read or write.
	Timeout time.Duration
}

const (
	defaultPoolSize = 4
	defaultTimeout  = 5 * time.Second
	pingTimeout     = 2 * time.Second
)

// NewClient parses redisURL, connects, and verifies the server answers.
func NewClient(ctx context.Context, redisURL string, opts Options, logger zerolog.Logger) (*goredis.Client, error) {
	options, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	if opts.PoolSize <= 0 {
		opts.PoolSize = defaultPoolSize
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	options.ClientName = "tripora-client"
	options.PoolSize = opts.PoolSize
	options.MaxIdleConns = 1
	options.DialTimeout = opts.Timeout
	options.ReadTimeout = opts.Timeout
	options.WriteTimeout = opts.Timeout

	client := goredis.NewClient(options)
	if err := Ping(ctx, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info().
		Str("addr", options.Addr).
		Int("db", options.DB).
		Int("pool_size", options.PoolSize).
		Msg("redis storage connected")

	return client, nil
}

// Ping checks that the server answers within a short bound.
func Ping(ctx context.Context, client *goredis.Client) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}
	return nil
}
