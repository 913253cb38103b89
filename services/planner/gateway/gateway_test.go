// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianCoach/services/planner/datatypes"
)

// stubLLM implements LLMClient for gateway tests.
type stubLLM struct {
	response string
	err      error
	prompts  []string
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, params GenerationParams) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.response, s.err
}

const validDraftJSON = `{
  "version": "v1",
  "days": [
    {
      "label": "push day",
      "exercises": [
        {"name": "barbell bench press", "sets": 4, "reps": 5, "rpe": 8, "load": "heavy", "role": "anchor"},
        {"name": "cable fly", "sets": 3, "reps": "10-12", "role": "accessory"}
      ]
    }
  ]
}`

func TestLLMGateway_ParsesBareJSON(t *testing.T) {
	stub := &stubLLM{response: validDraftJSON}
	g := NewLLMGateway(stub)

	draft, err := g.GeneratePlan(context.Background(), PlanRequest{
		UserID: "user-1",
		Cohort: datatypes.Cohort{TrainingFocus: "hypertrophy", ExperienceLevel: "advanced", DaysPerWeek: 6},
	})
	require.NoError(t, err)
	require.Len(t, draft.Days, 1)
	assert.Equal(t, "push day", draft.Days[0].Label)
	require.Len(t, draft.Days[0].Exercises, 2)
	assert.Equal(t, "anchor", draft.Days[0].Exercises[0].Role)
}

func TestLLMGateway_ParsesFencedJSON(t *testing.T) {
	stub := &stubLLM{response: "Here is your plan:\n```json\n" + validDraftJSON + "\n```\nEnjoy!"}
	g := NewLLMGateway(stub)

	draft, err := g.GeneratePlan(context.Background(), PlanRequest{UserID: "u"})
	require.NoError(t, err)
	assert.Equal(t, "v1", draft.Version)
}

func TestLLMGateway_NoJSONInOutput(t *testing.T) {
	stub := &stubLLM{response: "I cannot produce a plan right now."}
	g := NewLLMGateway(stub)

	_, err := g.GeneratePlan(context.Background(), PlanRequest{UserID: "u"})
	assert.ErrorIs(t, err, ErrNoDraft)
}

func TestLLMGateway_BackendErrorPropagates(t *testing.T) {
	boom := errors.New("upstream timeout")
	stub := &stubLLM{err: boom}
	g := NewLLMGateway(stub)

	_, err := g.GeneratePlan(context.Background(), PlanRequest{UserID: "u"})
	assert.ErrorIs(t, err, boom)
}

func TestBuildPrompt_FactsAreSorted(t *testing.T) {
	stub := &stubLLM{response: validDraftJSON}
	g := NewLLMGateway(stub)

	req := PlanRequest{
		UserID: "u",
		Facts:  map[string]string{"zeta": "1", "alpha": "2"},
		Cohort: datatypes.Cohort{TrainingFocus: "strength", ExperienceLevel: "beginner", DaysPerWeek: 3},
		PersonalRecords: datatypes.PersonalRecords{
			"squat": 140,
			"bench": 100,
		},
	}
	_, err := g.GeneratePlan(context.Background(), req)
	require.NoError(t, err)
	_, err = g.GeneratePlan(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, stub.prompts, 2)
	assert.Equal(t, stub.prompts[0], stub.prompts[1])
	assert.Less(t,
		indexOf(t, stub.prompts[0], "alpha"),
		indexOf(t, stub.prompts[0], "zeta"))
	assert.Less(t,
		indexOf(t, stub.prompts[0], "bench"),
		indexOf(t, stub.prompts[0], "squat"))
}

func indexOf(t *testing.T, haystack, needle string) int {
	t.Helper()
	idx := -1
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			idx = i
			break
		}
	}
	require.GreaterOrEqual(t, idx, 0, "expected %q in prompt", needle)
	return idx
}

func TestExtractJSONObject_IgnoresBracesInStrings(t *testing.T) {
	text := `prefix {"days": [{"label": "leg {day}", "exercises": []}]} suffix`
	payload := extractJSONObject(text)
	assert.Equal(t, `{"days": [{"label": "leg {day}", "exercises": []}]}`, payload)
}
