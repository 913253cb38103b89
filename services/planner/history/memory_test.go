// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package history

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_AppendAndList(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Append(ctx, Record{
			ID:        fmt.Sprintf("rec-%d", i),
			UserID:    "user-1",
			Source:    SourceFresh,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}
	require.NoError(t, store.Append(ctx, Record{
		ID:     "rec-other",
		UserID: "user-2",
		Source: SourceCacheHit,
	}))

	records, err := store.ListByUser(ctx, "user-1", 0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	// Newest first.
	assert.Equal(t, "rec-2", records[0].ID)
	assert.Equal(t, "rec-0", records[2].ID)

	limited, err := store.ListByUser(ctx, "user-1", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	assert.Equal(t, 4, store.Len())
}

func TestMemoryStore_ListUnknownUser(t *testing.T) {
	store := NewMemoryStore()
	records, err := store.ListByUser(context.Background(), "ghost", 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}
