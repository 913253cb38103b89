// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package history persists the append-only program history.
//
// # Description
//
// Every program returned to a user, whether freshly generated or replayed
// from the cache, produces exactly one new record. Records are never
// updated or deleted by the planner. Unlike the cache, a failed append is
// fatal for the request: history is the system of record.
package history

import (
	"context"
	"time"

	"github.com/AleutianAI/AleutianCoach/services/planner/datatypes"
)

// Record sources.
const (
	SourceFresh    = "fresh"
	SourceCacheHit = "cache-hit"
)

// Record is one durable history row.
type Record struct {
	ID        string                    `json:"id"`
	UserID    string                    `json:"user_id"`
	Source    string                    `json:"source"`
	CreatedAt time.Time                 `json:"created_at"`
	Program   datatypes.TrainingProgram `json:"program"`
}

// Store is the history persistence contract.
type Store interface {
	// Append writes one new record. It never overwrites existing rows.
	Append(ctx context.Context, rec Record) error

	// ListByUser returns up to limit records for a user, newest first.
	// limit <= 0 means a store-chosen default.
	ListByUser(ctx context.Context, userID string, limit int) ([]Record, error)
}
