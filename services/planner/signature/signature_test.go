// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package signature

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_OrderIndependent(t *testing.T) {
	a := map[string]string{
		"goal":          "hypertrophy",
		"days_per_week": "6",
		"equipment":     "barbell",
		"injuries":      "none",
	}
	// Same facts, inserted in a different order.
	b := map[string]string{}
	b["injuries"] = "none"
	b["equipment"] = "barbell"
	b["days_per_week"] = "6"
	b["goal"] = "hypertrophy"

	keyA, err := Build("user-1", true, a)
	require.NoError(t, err)
	keyB, err := Build("user-1", true, b)
	require.NoError(t, err)

	assert.Equal(t, keyA, keyB)
}

func TestBuild_DistinctInputsDistinctKeys(t *testing.T) {
	facts := map[string]string{"goal": "strength"}

	base, err := Build("user-1", false, facts)
	require.NoError(t, err)

	otherUser, err := Build("user-2", false, facts)
	require.NoError(t, err)
	assert.NotEqual(t, base, otherUser)

	otherTier, err := Build("user-1", true, facts)
	require.NoError(t, err)
	assert.NotEqual(t, base, otherTier)

	otherFacts, err := Build("user-1", false, map[string]string{"goal": "hypertrophy"})
	require.NoError(t, err)
	assert.NotEqual(t, base, otherFacts)
}

func TestBuild_KeyIsHumanTraceable(t *testing.T) {
	key, err := Build("user-42", true, map[string]string{"goal": "strength"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, "plan:v1:user-42:premium:"))
	parts := strings.Split(key, ":")
	require.Len(t, parts, 5)
	assert.Len(t, parts[4], 64) // sha256 hex digest
}

func TestBuild_EmptyUserID(t *testing.T) {
	_, err := Build("", false, nil)
	assert.ErrorIs(t, err, ErrEmptyUserID)

	_, err = Build("   ", false, nil)
	assert.ErrorIs(t, err, ErrEmptyUserID)
}

func TestBuild_EmptyFacts(t *testing.T) {
	key, err := Build("user-1", false, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, key)

	same, err := Build("user-1", false, map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, key, same)
}
