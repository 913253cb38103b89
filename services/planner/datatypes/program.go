// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes holds the shared domain types for the planner service:
// the typed weekly training program, the loosely-typed draft returned by the
// generation backends, user cohort descriptors, and harmonization advisories.
package datatypes

import (
	"fmt"
	"time"
)

// Canonical day-focus vocabulary. Free-text labels coming back from the
// generator are normalized onto these tags before a program leaves the
// service.
const (
	FocusPush         = "Push"
	FocusPull         = "Pull"
	FocusLegs         = "Legs"
	FocusUpper        = "Upper"
	FocusLower        = "Lower"
	FocusFullBody     = "Full Body"
	FocusStrength     = "Strength"
	FocusConditioning = "Conditioning"
	FocusRest         = "Rest"
)

// Training focus values accepted in a cohort.
const (
	TrainingFocusHypertrophy    = "hypertrophy"
	TrainingFocusStrength       = "strength"
	TrainingFocusPowerlifting   = "powerlifting"
	TrainingFocusGeneralFitness = "general_fitness"
)

// Experience levels accepted in a cohort.
const (
	ExperienceBeginner     = "beginner"
	ExperienceIntermediate = "intermediate"
	ExperienceAdvanced     = "advanced"
)

// Cohort identifies the slice of users a set of program rules applies to.
type Cohort struct {
	TrainingFocus   string `json:"training_focus" binding:"required"`
	ExperienceLevel string `json:"experience_level" binding:"required"`
	DaysPerWeek     int    `json:"days_per_week" binding:"required,gt=0,lte=7"`
}

// PersonalRecords maps a canonical lift name (squat, bench, deadlift,
// overhead_press) to the user's one-rep-max weight. Read-only to the
// planner; supplied by the caller.
type PersonalRecords map[string]float64

// RepScheme is a prescribed repetition count. High equals Low for a fixed
// rep count; a range such as "8-12" carries Low=8, High=12.
type RepScheme struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

// Fixed reports whether the scheme prescribes a single rep count.
func (r RepScheme) Fixed() bool { return r.Low == r.High }

func (r RepScheme) String() string {
	if r.Fixed() {
		return fmt.Sprintf("%d", r.Low)
	}
	return fmt.Sprintf("%d-%d", r.Low, r.High)
}

// ExercisePrescription is one exercise slot within a training day.
//
// Sets is mutated by the volume harmonizer, LoadText by the weight
// suggestion merger. Anchor exercises are never touched by volume
// adjustments. Priority is the declared emphasis order across the whole
// week; a higher value means lower priority, so harmonization adjusts the
// highest Priority values first.
type ExercisePrescription struct {
	Name     string    `json:"name"`
	Sets     int       `json:"sets"`
	Reps     RepScheme `json:"reps"`
	RPE      *float64  `json:"rpe,omitempty"`
	LoadText string    `json:"load_text,omitempty"`
	Anchor   bool      `json:"anchor"`
	Priority int       `json:"priority"`
}

// Day is one training day of the weekly draft, Monday-anchored by position.
type Day struct {
	Label     string                 `json:"label"`
	Exercises []ExercisePrescription `json:"exercises"`
}

// TrainingProgramDraft is the schema-validated weekly draft flowing through
// the rule stages. It is mutated in place by the split enforcer, volume
// harmonizer and weight suggestion merger.
type TrainingProgramDraft struct {
	Days []Day `json:"days"`
}

// VolumeAdvisory records one harmonization decision for a muscle group:
// what the weekly set count was, what it became, the acceptance band, and a
// note explaining the outcome. Advisories are informational and never fail
// a request.
type VolumeAdvisory struct {
	MuscleGroup  string `json:"muscle_group"`
	OriginalSets int    `json:"original_sets"`
	FinalSets    int    `json:"final_sets"`
	TargetLow    int    `json:"target_low"`
	TargetHigh   int    `json:"target_high"`
	Note         string `json:"note"`
}

// TrainingProgram is the final user-facing artifact: the harmonized weekly
// draft plus any advisories accumulated while producing it.
type TrainingProgram struct {
	Days        []Day            `json:"days"`
	Advisories  []VolumeAdvisory `json:"advisories,omitempty"`
	GeneratedAt time.Time        `json:"generated_at"`
}
