// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validate turns the loosely-typed generator output into the strict
// internal draft the rule stages operate on.
//
// Structural integrity is a precondition for every downstream stage, so a
// validation failure is fatal for the request: it is not something the
// split enforcer or volume harmonizer can repair.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/AleutianAI/AleutianCoach/services/planner/datatypes"
)

// ErrInvalidDraft is the sentinel wrapped by every validation failure.
var ErrInvalidDraft = errors.New("invalid training program draft")

var validate = validator.New()

// checkedExercise carries the numeric constraints enforced per exercise.
type checkedExercise struct {
	Name     string   `validate:"required"`
	Sets     int      `validate:"gt=0,lte=20"`
	RepsLow  int      `validate:"gt=0,lte=100"`
	RepsHigh int      `validate:"gtefield=RepsLow,lte=100"`
	RPE      *float64 `validate:"omitempty,gte=1,lte=10"`
}

// compoundPatterns marks exercises treated as anchor movements when the
// generator did not flag a role itself.
var compoundPatterns = []string{
	"squat", "deadlift", "bench press", "overhead press",
	"military press", "barbell row", "pull-up", "pullup", "chin-up", "dip",
}

// Draft validates raw into a typed TrainingProgramDraft.
//
// # Description
//
// Checks performed:
//   - draft version is absent or the supported one; anything else is an
//     unknown-critical field and the draft is rejected
//   - at least one day; at least one exercise per day
//   - positive set counts, positive reps (fixed or low-high range)
//   - RPE, when present, within 1..10
//
// Alongside validation, the anchor flag and weekly priority order are
// materialized: the generator's role/priority fields are honored when
// present, with a compound-lift name heuristic and declaration order as
// fallbacks.
//
// # Outputs
//
//   - *datatypes.TrainingProgramDraft: The typed draft, never nil on success.
//   - error: Wraps ErrInvalidDraft; fatal for the request.
func Draft(raw *datatypes.RawProgramDraft) (*datatypes.TrainingProgramDraft, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: draft is nil", ErrInvalidDraft)
	}
	if raw.Version != "" && raw.Version != datatypes.RawDraftVersion {
		return nil, fmt.Errorf("%w: unknown draft version %q", ErrInvalidDraft, raw.Version)
	}
	if len(raw.Days) == 0 {
		return nil, fmt.Errorf("%w: draft has no days", ErrInvalidDraft)
	}

	draft := &datatypes.TrainingProgramDraft{
		Days: make([]datatypes.Day, 0, len(raw.Days)),
	}

	seq := 0
	for dayIdx, rawDay := range raw.Days {
		if len(rawDay.Exercises) == 0 {
			return nil, fmt.Errorf("%w: day %d has no exercises", ErrInvalidDraft, dayIdx+1)
		}

		day := datatypes.Day{
			Label:     strings.TrimSpace(rawDay.Label),
			Exercises: make([]datatypes.ExercisePrescription, 0, len(rawDay.Exercises)),
		}

		for exIdx, rawEx := range rawDay.Exercises {
			seq++

			reps, err := ParseRepScheme(rawEx.Reps)
			if err != nil {
				return nil, fmt.Errorf("%w: day %d exercise %d (%s): %v",
					ErrInvalidDraft, dayIdx+1, exIdx+1, rawEx.Name, err)
			}

			checked := checkedExercise{
				Name:     strings.TrimSpace(rawEx.Name),
				Sets:     rawEx.Sets,
				RepsLow:  reps.Low,
				RepsHigh: reps.High,
				RPE:      rawEx.RPE,
			}
			if err := validate.Struct(checked); err != nil {
				return nil, fmt.Errorf("%w: day %d exercise %d (%s): %v",
					ErrInvalidDraft, dayIdx+1, exIdx+1, rawEx.Name, err)
			}

			priority := rawEx.Priority
			if priority <= 0 {
				priority = seq
			}

			day.Exercises = append(day.Exercises, datatypes.ExercisePrescription{
				Name:     checked.Name,
				Sets:     rawEx.Sets,
				Reps:     reps,
				RPE:      rawEx.RPE,
				LoadText: strings.TrimSpace(rawEx.Load),
				Anchor:   isAnchor(rawEx.Role, checked.Name),
				Priority: priority,
			})
		}

		draft.Days = append(draft.Days, day)
	}

	return draft, nil
}

// ParseRepScheme decodes a reps value that is either a JSON integer or a
// "low-high" string ("8-12", or "8" for a fixed count).
func ParseRepScheme(raw json.RawMessage) (datatypes.RepScheme, error) {
	if len(raw) == 0 {
		return datatypes.RepScheme{}, errors.New("reps missing")
	}

	var fixed int
	if err := json.Unmarshal(raw, &fixed); err == nil {
		return datatypes.RepScheme{Low: fixed, High: fixed}, nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return datatypes.RepScheme{}, fmt.Errorf("reps is neither integer nor string: %s", string(raw))
	}

	text = strings.TrimSpace(text)
	low, high, found := strings.Cut(text, "-")
	if !found {
		n, err := strconv.Atoi(text)
		if err != nil {
			return datatypes.RepScheme{}, fmt.Errorf("unparseable reps %q", text)
		}
		return datatypes.RepScheme{Low: n, High: n}, nil
	}

	lo, err := strconv.Atoi(strings.TrimSpace(low))
	if err != nil {
		return datatypes.RepScheme{}, fmt.Errorf("unparseable rep range %q", text)
	}
	hi, err := strconv.Atoi(strings.TrimSpace(high))
	if err != nil {
		return datatypes.RepScheme{}, fmt.Errorf("unparseable rep range %q", text)
	}
	return datatypes.RepScheme{Low: lo, High: hi}, nil
}

// isAnchor resolves the anchor flag from the generator's role when given,
// falling back to the compound-lift name heuristic.
func isAnchor(role, name string) bool {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "anchor", "primary":
		return true
	case "accessory", "secondary":
		return false
	}

	lower := strings.ToLower(name)
	for _, pattern := range compoundPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}
