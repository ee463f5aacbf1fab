// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/taibuivan/tripora/internal/platform/dberr"
)

// LevelDB is the device-local [Store]. Every write is synced to disk before
// it returns, so a successful write survives a crash.
type LevelDB struct {
	db        *leveldb.DB
	namespace string
	sync      *opt.WriteOptions
	logger    zerolog.Logger
}

// OpenLevelDB opens (creating if needed) the database directory at path.
func OpenLevelDB(path, namespace string, logger zerolog.Logger) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("storage: open leveldb at %s: %w", path, err)
	}

	logger.Debug().Str("path", path).Msg("leveldb opened")

	return &LevelDB{
		db:        db,
		namespace: namespace,
		sync:      &opt.WriteOptions{Sync: true},
		logger:    logger,
	}, nil
}

// Get implements [Store].
func (l *LevelDB) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	value, err := l.db.Get(l.key(key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, dberr.Wrap(err, "get")
	}
	return string(value), true, nil
}

// Set implements [Store].
func (l *LevelDB) Set(ctx context.Context, key, value string) error {
	return l.MultiSet(ctx, map[string]string{key: value})
}

// MultiSet implements [Store]. The entries are written as one batch.
func (l *LevelDB) MultiSet(ctx context.Context, entries map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	batch := new(leveldb.Batch)
	for key, value := range entries {
		batch.Put(l.key(key), []byte(value))
	}

	if err := l.db.Write(batch, l.sync); err != nil {
		return dberr.Wrap(err, "multi_set")
	}
	return nil
}

// Remove implements [Store].
func (l *LevelDB) Remove(ctx context.Context, key string) error {
	return l.MultiRemove(ctx, key)
}

// MultiRemove implements [Store]. The deletions are written as one batch.
func (l *LevelDB) MultiRemove(ctx context.Context, keys ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	batch := new(leveldb.Batch)
	for _, key := range keys {
		batch.Delete(l.key(key))
	}

	if err := l.db.Write(batch, l.sync); err != nil {
		return dberr.Wrap(err, "multi_remove")
	}
	return nil
}

// Close implements [Store].
func (l *LevelDB) Close() error {
	return l.db.Close()
}

func (l *LevelDB) key(key string) []byte {
	return []byte(l.namespace + ":" + key)
}
