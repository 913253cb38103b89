// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package validate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianCoach/services/planner/datatypes"
)

func intReps(n int) json.RawMessage {
	raw, _ := json.Marshal(n)
	return raw
}

func strReps(s string) json.RawMessage {
	raw, _ := json.Marshal(s)
	return raw
}

func validRaw() *datatypes.RawProgramDraft {
	rpe := 8.0
	return &datatypes.RawProgramDraft{
		Version: datatypes.RawDraftVersion,
		Days: []datatypes.RawDay{
			{
				Label: "push",
				Exercises: []datatypes.RawExercise{
					{Name: "barbell bench press", Sets: 4, Reps: intReps(5), RPE: &rpe, Load: "185x5", Role: "anchor"},
					{Name: "cable fly", Sets: 3, Reps: strReps("10-12"), Role: "accessory"},
				},
			},
		},
	}
}

func TestDraft_Valid(t *testing.T) {
	draft, err := Draft(validRaw())
	require.NoError(t, err)
	require.Len(t, draft.Days, 1)
	require.Len(t, draft.Days[0].Exercises, 2)

	bench := draft.Days[0].Exercises[0]
	assert.True(t, bench.Anchor)
	assert.Equal(t, datatypes.RepScheme{Low: 5, High: 5}, bench.Reps)
	assert.Equal(t, "185x5", bench.LoadText)
	assert.Equal(t, 1, bench.Priority)

	fly := draft.Days[0].Exercises[1]
	assert.False(t, fly.Anchor)
	assert.Equal(t, datatypes.RepScheme{Low: 10, High: 12}, fly.Reps)
	assert.Equal(t, 2, fly.Priority)
}

func TestDraft_NilAndEmpty(t *testing.T) {
	_, err := Draft(nil)
	assert.ErrorIs(t, err, ErrInvalidDraft)

	_, err = Draft(&datatypes.RawProgramDraft{})
	assert.ErrorIs(t, err, ErrInvalidDraft)
}

func TestDraft_UnknownVersionRejected(t *testing.T) {
	raw := validRaw()
	raw.Version = "v9"
	_, err := Draft(raw)
	assert.ErrorIs(t, err, ErrInvalidDraft)
}

func TestDraft_DayWithoutExercises(t *testing.T) {
	raw := validRaw()
	raw.Days = append(raw.Days, datatypes.RawDay{Label: "rest"})
	_, err := Draft(raw)
	assert.ErrorIs(t, err, ErrInvalidDraft)
}

func TestDraft_NonPositiveSets(t *testing.T) {
	raw := validRaw()
	raw.Days[0].Exercises[0].Sets = 0
	_, err := Draft(raw)
	assert.ErrorIs(t, err, ErrInvalidDraft)
}

func TestDraft_BadReps(t *testing.T) {
	raw := validRaw()
	raw.Days[0].Exercises[0].Reps = strReps("a few")
	_, err := Draft(raw)
	assert.ErrorIs(t, err, ErrInvalidDraft)

	raw = validRaw()
	raw.Days[0].Exercises[0].Reps = intReps(0)
	_, err = Draft(raw)
	assert.ErrorIs(t, err, ErrInvalidDraft)

	raw = validRaw()
	raw.Days[0].Exercises[0].Reps = strReps("12-8") // high < low
	_, err = Draft(raw)
	assert.ErrorIs(t, err, ErrInvalidDraft)
}

func TestDraft_RPEOutOfRange(t *testing.T) {
	raw := validRaw()
	bad := 11.0
	raw.Days[0].Exercises[0].RPE = &bad
	_, err := Draft(raw)
	assert.ErrorIs(t, err, ErrInvalidDraft)
}

func TestDraft_AnchorHeuristicWithoutRole(t *testing.T) {
	raw := &datatypes.RawProgramDraft{
		Days: []datatypes.RawDay{
			{
				Label: "lower",
				Exercises: []datatypes.RawExercise{
					{Name: "Back Squat", Sets: 5, Reps: intReps(5)},
					{Name: "Leg Extension", Sets: 3, Reps: strReps("12-15")},
				},
			},
		},
	}
	draft, err := Draft(raw)
	require.NoError(t, err)
	assert.True(t, draft.Days[0].Exercises[0].Anchor)
	assert.False(t, draft.Days[0].Exercises[1].Anchor)
}

func TestDraft_GeneratorRoleOverridesHeuristic(t *testing.T) {
	raw := &datatypes.RawProgramDraft{
		Days: []datatypes.RawDay{
			{
				Label: "lower",
				Exercises: []datatypes.RawExercise{
					// Squat variant the generator itself demoted.
					{Name: "goblet squat", Sets: 3, Reps: intReps(10), Role: "accessory"},
				},
			},
		},
	}
	draft, err := Draft(raw)
	require.NoError(t, err)
	assert.False(t, draft.Days[0].Exercises[0].Anchor)
}

func TestDraft_ExplicitPriorityHonored(t *testing.T) {
	raw := validRaw()
	raw.Days[0].Exercises[1].Priority = 9
	draft, err := Draft(raw)
	require.NoError(t, err)
	assert.Equal(t, 9, draft.Days[0].Exercises[1].Priority)
}

func TestParseRepScheme(t *testing.T) {
	scheme, err := ParseRepScheme(strReps("8"))
	require.NoError(t, err)
	assert.Equal(t, datatypes.RepScheme{Low: 8, High: 8}, scheme)

	scheme, err = ParseRepScheme(strReps(" 8 - 12 "))
	require.NoError(t, err)
	assert.Equal(t, datatypes.RepScheme{Low: 8, High: 12}, scheme)

	_, err = ParseRepScheme(nil)
	assert.Error(t, err)

	_, err = ParseRepScheme(json.RawMessage(`[8]`))
	assert.Error(t, err)
}
