// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package cache provides the TTL-bounded program cache for the planner.
//
// # Description
//
// The cache is an optimization layered over the correctness-critical
// history write path: a failed read is treated as a miss and a failed
// write is logged and swallowed, so cache trouble never blocks a user
// from receiving an already-computed program.
//
// Expiry is a predicate evaluated at read time against the entry's own
// ExpiresAt field. There is no background eviction requirement; the
// BadgerDB implementation additionally sets a storage-level TTL so dead
// entries eventually leave disk.
//
// # Thread Safety
//
// All Store implementations must be safe for concurrent use.
package cache

import (
	"context"
	"time"

	"github.com/AleutianAI/AleutianCoach/services/planner/datatypes"
)

// DefaultTTL is the fixed lifetime of a cached program entry.
const DefaultTTL = 24 * time.Hour

// Entry is one immutable cached program. Entries are never mutated in
// place; a fresh generation for the same key replaces the whole entry.
type Entry struct {
	Key       string                     `json:"key"`
	Program   datatypes.TrainingProgram  `json:"program"`
	CreatedAt time.Time                  `json:"created_at"`
	ExpiresAt time.Time                  `json:"expires_at"`
}

// Store is the cache adapter contract.
type Store interface {
	// Get returns the live entry for key. The second return is false on a
	// miss, which covers both "no row" and "row past its ExpiresAt". A
	// non-nil error signals a store failure; callers treat it as a miss.
	Get(ctx context.Context, key string) (*Entry, bool, error)

	// Put upserts the entry for key with the given TTL, replacing any
	// previous entry. Callers log and swallow a Put error.
	Put(ctx context.Context, key string, program datatypes.TrainingProgram, ttl time.Duration) error
}
