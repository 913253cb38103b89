// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/AleutianAI/AleutianCoach/services/planner/datatypes"
)

// Config holds configuration for the BadgerDB-backed cache.
type Config struct {
	// Path is the directory for BadgerDB files.
	// Required unless InMemory is true.
	Path string

	// InMemory enables in-memory mode (no disk persistence).
	// Useful for testing.
	InMemory bool

	// SyncWrites enables synchronous writes. The cache is best-effort, so
	// the default is false; a lost write is just a future miss.
	SyncWrites bool

	// Logger receives BadgerDB's internal logging. Nil disables it.
	Logger *slog.Logger

	// Clock supplies the current time for expiry checks and entry
	// timestamps. Nil means time.Now. Tests inject a fake clock to cross
	// the TTL boundary without sleeping.
	Clock func() time.Time
}

// DefaultConfig returns the production configuration rooted at path.
func DefaultConfig(path string) Config {
	return Config{Path: path}
}

// InMemoryConfig returns a configuration for tests.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// BadgerStore implements Store over an embedded BadgerDB.
type BadgerStore struct {
	db    *badger.DB
	clock func() time.Time
}

var _ Store = (*BadgerStore)(nil)

// NewBadgerStore opens the cache database described by cfg.
//
// # Outputs
//
//   - *BadgerStore: The opened store. Caller must Close() it.
//   - error: Non-nil if the path is invalid or the database cannot open.
func NewBadgerStore(cfg Config) (*BadgerStore, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent cache")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create cache directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites)
	opts = opts.WithNumVersionsToKeep(1)

	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	return &BadgerStore{db: db, clock: clock}, nil
}

// Close releases the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// Get implements Store. Expired rows are reported as misses even when
// BadgerDB still holds them; the entry's own ExpiresAt is authoritative.
func (s *BadgerStore) Get(ctx context.Context, key string) (*Entry, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, fmt.Errorf("context cancelled: %w", err)
	}

	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache read %s: %w", key, err)
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		// A corrupt row is indistinguishable from a miss for callers.
		return nil, false, fmt.Errorf("cache decode %s: %w", key, err)
	}

	if !s.clock().Before(entry.ExpiresAt) {
		return nil, false, nil
	}

	return &entry, true, nil
}

// Put implements Store. The stored entry carries its own CreatedAt and
// ExpiresAt; the BadgerDB TTL is set as well so expired rows get reclaimed.
func (s *BadgerStore) Put(ctx context.Context, key string, program datatypes.TrainingProgram, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	now := s.clock()
	entry := Entry{
		Key:       key,
		Program:   program,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), raw).WithTTL(ttl)
		return txn.SetEntry(e)
	})
	if err != nil {
		return fmt.Errorf("cache write %s: %w", key, err)
	}
	return nil
}
