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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianCoach/services/planner/datatypes"
)

func testProgram() datatypes.TrainingProgram {
	return datatypes.TrainingProgram{
		Days: []datatypes.Day{
			{
				Label: datatypes.FocusPush,
				Exercises: []datatypes.ExercisePrescription{
					{Name: "barbell bench press", Sets: 4, Reps: datatypes.RepScheme{Low: 5, High: 5}, Anchor: true},
				},
			},
		},
		GeneratedAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
}

func newTestStore(t *testing.T, clock func() time.Time) *BadgerStore {
	t.Helper()
	cfg := InMemoryConfig()
	cfg.Clock = clock
	store, err := NewBadgerStore(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestBadgerStore_PutGetRoundTrip(t *testing.T) {
	store := newTestStore(t, nil)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "plan:v1:u1:standard:abc", testProgram(), DefaultTTL))

	entry, ok, err := store.Get(ctx, "plan:v1:u1:standard:abc")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "plan:v1:u1:standard:abc", entry.Key)
	require.Len(t, entry.Program.Days, 1)
	assert.Equal(t, datatypes.FocusPush, entry.Program.Days[0].Label)
	assert.Equal(t, entry.CreatedAt.Add(DefaultTTL), entry.ExpiresAt)
}

func TestBadgerStore_MissOnAbsentKey(t *testing.T) {
	store := newTestStore(t, nil)

	entry, ok, err := store.Get(context.Background(), "plan:v1:nobody:standard:xyz")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, entry)
}

func TestBadgerStore_ExpiryIsAReadTimePredicate(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	store := newTestStore(t, clock)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "k", testProgram(), DefaultTTL))

	// Inside the TTL window: hit.
	now = now.Add(23 * time.Hour)
	_, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	// Past the TTL window: miss, even though the row may still exist.
	now = now.Add(2 * time.Hour)
	entry, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, entry)
}

func TestBadgerStore_PutReplacesEntry(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	store := newTestStore(t, clock)
	ctx := context.Background()

	first := testProgram()
	require.NoError(t, store.Put(ctx, "k", first, DefaultTTL))

	now = now.Add(time.Hour)
	second := testProgram()
	second.Days[0].Label = datatypes.FocusPull
	require.NoError(t, store.Put(ctx, "k", second, DefaultTTL))

	entry, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, datatypes.FocusPull, entry.Program.Days[0].Label)
	assert.Equal(t, now, entry.CreatedAt.UTC())
}

func TestBadgerStore_RequiresPathWhenPersistent(t *testing.T) {
	_, err := NewBadgerStore(Config{})
	assert.Error(t, err)
}
