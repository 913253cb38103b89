// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package rules

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/AleutianAI/AleutianCoach/services/planner/datatypes"
)

// DefaultWeightUnit is appended to merged weight suggestions.
const DefaultWeightUnit = "kg"

// loadIncrement is the plate-math rounding step for suggested weights.
const loadIncrement = 2.5

// Canonical personal-record keys a major lift resolves to.
const (
	PRKeySquat         = "squat"
	PRKeyBench         = "bench"
	PRKeyDeadlift      = "deadlift"
	PRKeyOverheadPress = "overhead_press"
)

// majorLiftPatterns maps exercise-name fragments to the canonical PR key.
// Checked in order: deadlift variants must win before the squat fragment
// can match names like "romanian deadlift".
var majorLiftPatterns = []struct {
	fragment string
	key      string
}{
	{"deadlift", PRKeyDeadlift},
	{"bench press", PRKeyBench},
	{"bench", PRKeyBench},
	{"overhead press", PRKeyOverheadPress},
	{"military press", PRKeyOverheadPress},
	{"shoulder press", PRKeyOverheadPress},
	{"ohp", PRKeyOverheadPress},
	{"squat", PRKeySquat},
}

// MergeWeightSuggestions appends an absolute load hint to every major-lift
// prescription the athlete has a personal record for, in place.
//
// # Description
//
// Only the four canonical barbell lifts are matched; accessories and
// unrecognized movements keep their load text untouched. The working
// percentage of 1RM comes from the prescribed RPE when present, otherwise
// from the low end of the rep scheme. The weight is rounded to the nearest
// 2.5 and appended to the existing load text:
//
//	"185x5"  ->  "185x5 | ~120 kg (85% 1RM)"
//
// A prescription whose intensity cannot be resolved from the charts is
// left alone; a missing PR likewise.
func MergeWeightSuggestions(draft *datatypes.TrainingProgramDraft, prs datatypes.PersonalRecords, tables *Tables, unit string) {
	if len(prs) == 0 {
		return
	}
	if unit == "" {
		unit = DefaultWeightUnit
	}

	for d := range draft.Days {
		for i := range draft.Days[d].Exercises {
			ex := &draft.Days[d].Exercises[i]

			key, ok := MatchMajorLift(ex.Name)
			if !ok {
				continue
			}
			oneRM, ok := prs[key]
			if !ok || oneRM <= 0 {
				continue
			}
			percent, ok := workingPercent(ex, tables)
			if !ok {
				continue
			}

			weight := roundToIncrement(oneRM*percent/100, loadIncrement)
			suggestion := fmt.Sprintf("~%s %s (%s%% 1RM)",
				formatNumber(weight), unit, formatNumber(percent))

			if ex.LoadText == "" {
				ex.LoadText = suggestion
			} else {
				ex.LoadText = ex.LoadText + " | " + suggestion
			}
		}
	}
}

// MatchMajorLift resolves an exercise name to its canonical PR key.
func MatchMajorLift(name string) (string, bool) {
	lower := strings.ToLower(name)
	for _, p := range majorLiftPatterns {
		if strings.Contains(lower, p.fragment) {
			return p.key, true
		}
	}
	return "", false
}

// workingPercent picks the %1RM for a prescription, preferring RPE over
// the rep-count fallback.
func workingPercent(ex *datatypes.ExercisePrescription, tables *Tables) (float64, bool) {
	if ex.RPE != nil {
		if percent, ok := tables.PercentForRPE(*ex.RPE); ok {
			return percent, true
		}
	}
	return tables.PercentForReps(ex.Reps.Low)
}

func roundToIncrement(v, step float64) float64 {
	return math.Round(v/step) * step
}

// formatNumber renders a weight or percentage without trailing zeros, so
// 120 prints as "120" and 87.5 as "87.5".
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
