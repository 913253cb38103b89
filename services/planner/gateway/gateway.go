// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package gateway invokes the generative model that drafts weekly training
// programs. The model is a black box: it may be slow, fail transiently, or
// return partially-correct structure. The gateway issues exactly one call
// per invocation and never retries; retry policy, if any, belongs to the
// caller.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/AleutianAI/AleutianCoach/services/planner/datatypes"
)

// ErrNoDraft is returned when the model's output contains no decodable
// draft object at all.
var ErrNoDraft = errors.New("no decodable draft in model output")

// plannerSystemPrompt instructs the model to answer with a bare JSON draft.
const plannerSystemPrompt = `You are a strength and conditioning coach. ` +
	`Respond with a single JSON object and nothing else. The object has a ` +
	`"version" field set to "v1" and a "days" array; each day has a "label" ` +
	`and an "exercises" array; each exercise has "name", "sets" (integer), ` +
	`"reps" (integer or "low-high" string), optional "rpe" (number), ` +
	`optional "load" (free text), optional "role" ("anchor" or "accessory") ` +
	`and optional "priority" (integer, 1 = most important).`

// PlanRequest carries the profile and constraints for one generation call.
type PlanRequest struct {
	UserID          string
	Facts           map[string]string
	Cohort          datatypes.Cohort
	PersonalRecords datatypes.PersonalRecords
}

// Gateway is the consumed interface for the generative model.
type Gateway interface {
	// GeneratePlan returns the unvalidated draft for the request, or an
	// error when the upstream call fails. The draft is not trusted until
	// the validate package has checked it.
	GeneratePlan(ctx context.Context, req PlanRequest) (*datatypes.RawProgramDraft, error)
}

// LLMGateway implements Gateway over any LLMClient backend.
type LLMGateway struct {
	client LLMClient
	params GenerationParams
}

var _ Gateway = (*LLMGateway)(nil)

// NewLLMGateway wraps a generation backend. A low temperature is used by
// default: the draft is corrected deterministically downstream, but less
// drift means fewer corrections.
func NewLLMGateway(client LLMClient) *LLMGateway {
	temp := float32(0.4)
	maxTokens := 4096
	return &LLMGateway{
		client: client,
		params: GenerationParams{Temperature: &temp, MaxTokens: &maxTokens},
	}
}

// GeneratePlan implements Gateway.
func (g *LLMGateway) GeneratePlan(ctx context.Context, req PlanRequest) (*datatypes.RawProgramDraft, error) {
	prompt := buildPrompt(req)

	slog.Info("Requesting training plan draft",
		"user_id", req.UserID,
		"focus", req.Cohort.TrainingFocus,
		"days_per_week", req.Cohort.DaysPerWeek,
	)

	text, err := g.client.Generate(ctx, prompt, g.params)
	if err != nil {
		return nil, fmt.Errorf("generate draft: %w", err)
	}

	draft, err := DecodeDraft(text)
	if err != nil {
		return nil, err
	}
	return draft, nil
}

// buildPrompt renders the user profile into the generation prompt. Facts
// are emitted in sorted order so prompts for identical profiles are
// identical, which keeps upstream prompt caches effective.
func buildPrompt(req PlanRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a one-week training program.\n")
	fmt.Fprintf(&b, "Training focus: %s\n", req.Cohort.TrainingFocus)
	fmt.Fprintf(&b, "Experience level: %s\n", req.Cohort.ExperienceLevel)
	fmt.Fprintf(&b, "Training days per week: %d\n", req.Cohort.DaysPerWeek)

	if len(req.Facts) > 0 {
		names := make([]string, 0, len(req.Facts))
		for name := range req.Facts {
			names = append(names, name)
		}
		sort.Strings(names)
		b.WriteString("Athlete profile:\n")
		for _, name := range names {
			fmt.Fprintf(&b, "  - %s: %s\n", name, req.Facts[name])
		}
	}

	if len(req.PersonalRecords) > 0 {
		lifts := make([]string, 0, len(req.PersonalRecords))
		for lift := range req.PersonalRecords {
			lifts = append(lifts, lift)
		}
		sort.Strings(lifts)
		b.WriteString("One-rep maxes:\n")
		for _, lift := range lifts {
			fmt.Fprintf(&b, "  - %s: %g\n", lift, req.PersonalRecords[lift])
		}
	}

	return b.String()
}

// DecodeDraft extracts the draft JSON object from raw model output.
// Models wrap answers in code fences or prose more often than not, so the
// decoder scans for the outermost object rather than trusting the whole
// body to be JSON.
func DecodeDraft(text string) (*datatypes.RawProgramDraft, error) {
	payload := extractJSONObject(text)
	if payload == "" {
		return nil, fmt.Errorf("%w: output length %d", ErrNoDraft, len(text))
	}

	var draft datatypes.RawProgramDraft
	if err := json.Unmarshal([]byte(payload), &draft); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoDraft, err)
	}
	return &draft, nil
}

// extractJSONObject returns the first balanced top-level JSON object in
// text, or "" when there is none. Braces inside JSON strings are ignored.
func extractJSONObject(text string) string {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
