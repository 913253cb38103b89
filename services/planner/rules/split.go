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
	"strings"

	"github.com/AleutianAI/AleutianCoach/services/planner/datatypes"
)

// pplTemplate is the canonical six-day split for advanced hypertrophy
// athletes, Monday-anchored, no rest day inserted by this rule.
var pplTemplate = []string{
	datatypes.FocusPush,
	datatypes.FocusPull,
	datatypes.FocusLegs,
	datatypes.FocusPush,
	datatypes.FocusPull,
	datatypes.FocusLegs,
}

// labelSynonyms maps keywords found in free-text day labels to canonical
// tags. Checked in order; the most specific phrases come first.
var labelSynonyms = []struct {
	keyword string
	tag     string
}{
	{"lower body", datatypes.FocusLegs},
	{"upper body", datatypes.FocusUpper},
	{"full body", datatypes.FocusFullBody},
	{"total body", datatypes.FocusFullBody},
	{"push", datatypes.FocusPush},
	{"chest", datatypes.FocusPush},
	{"pull", datatypes.FocusPull},
	{"back", datatypes.FocusPull},
	{"leg", datatypes.FocusLegs},
	{"lower", datatypes.FocusLower},
	{"upper", datatypes.FocusUpper},
	{"rest", datatypes.FocusRest},
	{"off", datatypes.FocusRest},
	{"recovery", datatypes.FocusRest},
	{"strength", datatypes.FocusStrength},
	{"power", datatypes.FocusStrength},
	{"conditioning", datatypes.FocusConditioning},
	{"cardio", datatypes.FocusConditioning},
	{"metcon", datatypes.FocusConditioning},
}

// muscleToBucket assigns each muscle group to the push/pull/legs bucket
// used when a label has to be inferred from exercise content. Core work is
// deliberately neutral.
var muscleToBucket = map[string]string{
	"chest":      datatypes.FocusPush,
	"shoulders":  datatypes.FocusPush,
	"triceps":    datatypes.FocusPush,
	"back":       datatypes.FocusPull,
	"biceps":     datatypes.FocusPull,
	"quads":      datatypes.FocusLegs,
	"hamstrings": datatypes.FocusLegs,
	"glutes":     datatypes.FocusLegs,
	"calves":     datatypes.FocusLegs,
}

// EnforceSplit rewrites the draft's day-focus labels in place.
//
// # Description
//
// For the (hypertrophy, advanced, 6 days/week) cohort the day-label
// sequence is overwritten with the fixed Push/Pull/Legs template,
// regardless of what the generator produced; any days past the sixth are
// dropped. For every other cohort the day ordering and count are left
// alone and each free-text label is normalized onto the canonical focus
// vocabulary, using the day's exercise content as a tie breaker so no raw,
// ungoverned string survives.
//
// Pure function over the draft; no I/O.
func EnforceSplit(draft *datatypes.TrainingProgramDraft, cohort datatypes.Cohort, tables *Tables) {
	if isAdvancedHypertrophySixDay(cohort) {
		if len(draft.Days) > len(pplTemplate) {
			draft.Days = draft.Days[:len(pplTemplate)]
		}
		for i := range draft.Days {
			draft.Days[i].Label = pplTemplate[i]
		}
		return
	}

	for i := range draft.Days {
		draft.Days[i].Label = normalizeLabel(draft.Days[i], tables)
	}
}

func isAdvancedHypertrophySixDay(cohort datatypes.Cohort) bool {
	return strings.EqualFold(cohort.TrainingFocus, datatypes.TrainingFocusHypertrophy) &&
		strings.EqualFold(cohort.ExperienceLevel, datatypes.ExperienceAdvanced) &&
		cohort.DaysPerWeek == 6
}

// normalizeLabel maps a day's free-text label onto the canonical
// vocabulary. Exact canonical tags pass through unchanged (case fixed);
// otherwise keyword synonyms are tried, and finally the label is inferred
// from where the day's working sets actually land.
func normalizeLabel(day datatypes.Day, tables *Tables) string {
	label := strings.ToLower(strings.TrimSpace(day.Label))

	for _, canonical := range []string{
		datatypes.FocusPush, datatypes.FocusPull, datatypes.FocusLegs,
		datatypes.FocusUpper, datatypes.FocusLower, datatypes.FocusFullBody,
		datatypes.FocusStrength, datatypes.FocusConditioning, datatypes.FocusRest,
	} {
		if label == strings.ToLower(canonical) {
			return canonical
		}
	}

	for _, syn := range labelSynonyms {
		if strings.Contains(label, syn.keyword) {
			return syn.tag
		}
	}

	return inferLabelFromContent(day, tables)
}

// inferLabelFromContent buckets the day's resolved working sets into
// push/pull/legs and returns the dominant bucket, or Full Body when no
// bucket holds a strict majority.
func inferLabelFromContent(day datatypes.Day, tables *Tables) string {
	buckets := map[string]int{}
	total := 0
	for _, ex := range day.Exercises {
		for _, group := range tables.MuscleGroupsFor(ex.Name) {
			if bucket, ok := muscleToBucket[group]; ok {
				buckets[bucket] += ex.Sets
				total += ex.Sets
			}
		}
	}
	if total == 0 {
		return datatypes.FocusFullBody
	}
	for _, bucket := range []string{datatypes.FocusPush, datatypes.FocusPull, datatypes.FocusLegs} {
		if buckets[bucket]*2 > total {
			return bucket
		}
	}
	return datatypes.FocusFullBody
}
