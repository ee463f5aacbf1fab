// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"context"
	"errors"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/taibuivan/tripora/internal/platform/constants"
	"github.com/taibuivan/tripora/internal/platform/dberr"
	platformredis "github.com/taibuivan/tripora/internal/platform/redis"
)

// Redis is a [Store] on a shared Redis server. Keys live under
// "tripora:kv:<namespace>:" and never expire.
type Redis struct {
	client *goredis.Client
	prefix string
	logger zerolog.Logger
}

// NewRedis wraps an already connected client.
func NewRedis(client *goredis.Client, namespace string, logger zerolog.Logger) *Redis {
	return &Redis{
		client: client,
		prefix: constants.RedisKeyPrefix + namespace + ":",
		logger: logger,
	}
}

// Get implements [Store].
func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, dberr.Wrap(err, "get")
	}
	return value, true, nil
}

// Set implements [Store].
func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return dberr.Wrap(err, "set")
	}
	return nil
}

// MultiSet implements [Store] inside a MULTI/EXEC transaction.
func (r *Redis) MultiSet(ctx context.Context, entries map[string]string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		for key, value := range entries {
			pipe.Set(ctx, r.prefix+key, value, 0)
		}
		return nil
	})
	if err != nil {
		return dberr.Wrap(err, "multi_set")
	}
	return nil
}

// Remove implements [Store].
func (r *Redis) Remove(ctx context.Context, key string) error {
	return r.MultiRemove(ctx, key)
}

// MultiRemove implements [Store]. A single DEL is atomic.
func (r *Redis) MultiRemove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = r.prefix + key
	}

	if err := r.client.Del(ctx, prefixed...).Err(); err != nil {
		return dberr.Wrap(err, "multi_remove")
	}
	return nil
}

// Ping implements [Pinger].
func (r *Redis) Ping(ctx context.Context) error {
	return platformredis.Ping(ctx, r.client)
}

// Close implements [Store].
func (r *Redis) Close() error {
	return r.client.Close()
}
