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
	"sort"

	"github.com/AleutianAI/AleutianCoach/services/planner/datatypes"
)

// DefaultDaySetBudget caps the total working sets a single training day can
// grow to during harmonization. Raising accessory volume never pushes a day
// past this ceiling.
const DefaultDaySetBudget = 30

// accessoryFloor is the minimum set count an accessory is lowered to.
const accessoryFloor = 1

// exerciseRef addresses one prescription inside the draft.
type exerciseRef struct {
	day int
	idx int
}

// harmonizer carries the mutable tally state for one Harmonize run.
type harmonizer struct {
	draft     *datatypes.TrainingProgramDraft
	tables    *Tables
	dayBudget int

	groupsFor map[exerciseRef][]string
	tally     map[string]int
	daySets   []int
}

// Harmonize adjusts weekly per-muscle-group volume into the cohort's
// acceptance band, in place.
//
// # Description
//
// Working sets are tallied per muscle group across the whole week, with an
// exercise counting toward every group it maps to. Groups are then visited
// in alphabetical order; under-target groups gain sets on their accessory
// exercises (lowest priority first, one set per pass) and over-target
// groups lose sets the same way. Anchor lifts are never touched, no
// accessory drops below one set, and no day grows past dayBudget total
// sets. Because an exercise can serve several groups, the tally is kept
// live: an adjustment made for one group is visible to every group
// processed after it.
//
// Returns one advisory per muscle group whose volume changed or remains
// outside the band. Exercises that resolve to no muscle group are skipped
// entirely.
func Harmonize(draft *datatypes.TrainingProgramDraft, cohort datatypes.Cohort, tables *Tables, dayBudget int) []datatypes.VolumeAdvisory {
	target, governed := tables.TargetRange(cohort.TrainingFocus, cohort.ExperienceLevel)
	if !governed {
		return nil
	}
	if dayBudget <= 0 {
		dayBudget = DefaultDaySetBudget
	}

	h := &harmonizer{
		draft:     draft,
		tables:    tables,
		dayBudget: dayBudget,
		groupsFor: make(map[exerciseRef][]string),
		tally:     make(map[string]int),
		daySets:   make([]int, len(draft.Days)),
	}

	for d, day := range draft.Days {
		for i, ex := range day.Exercises {
			h.daySets[d] += ex.Sets
			groups := tables.MuscleGroupsFor(ex.Name)
			if len(groups) == 0 {
				continue
			}
			h.groupsFor[exerciseRef{day: d, idx: i}] = groups
			for _, g := range groups {
				h.tally[g] += ex.Sets
			}
		}
	}

	original := make(map[string]int, len(h.tally))
	for g, n := range h.tally {
		original[g] = n
	}

	groups := make([]string, 0, len(h.tally))
	for g := range h.tally {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	for _, g := range groups {
		switch {
		case h.tally[g] < target.Low:
			h.raise(g, target.Low)
		case h.tally[g] > target.High:
			h.lower(g, target.High)
		}
	}

	advisories := make([]datatypes.VolumeAdvisory, 0, len(groups))
	for _, g := range groups {
		final := h.tally[g]
		if final == original[g] && target.Contains(final) {
			continue
		}
		advisories = append(advisories, datatypes.VolumeAdvisory{
			MuscleGroup:  g,
			OriginalSets: original[g],
			FinalSets:    final,
			TargetLow:    target.Low,
			TargetHigh:   target.High,
			Note:         advisoryNote(original[g], final, target),
		})
	}
	return advisories
}

// accessories returns the adjustable prescriptions counting toward group,
// lowest priority first. Anchors are excluded outright.
func (h *harmonizer) accessories(group string) []exerciseRef {
	var refs []exerciseRef
	for ref, groups := range h.groupsFor {
		if h.exercise(ref).Anchor {
			continue
		}
		for _, g := range groups {
			if g == group {
				refs = append(refs, ref)
				break
			}
		}
	}
	sort.Slice(refs, func(i, j int) bool {
		pi := h.exercise(refs[i]).Priority
		pj := h.exercise(refs[j]).Priority
		if pi != pj {
			return pi > pj // higher value = lower priority, adjusted first
		}
		if refs[i].day != refs[j].day {
			return refs[i].day > refs[j].day
		}
		return refs[i].idx > refs[j].idx
	})
	return refs
}

func (h *harmonizer) exercise(ref exerciseRef) *datatypes.ExercisePrescription {
	return &h.draft.Days[ref.day].Exercises[ref.idx]
}

// raise adds sets one at a time, cycling the group's accessories from the
// lowest priority upward, until the tally reaches low or nothing can take
// another set without busting its day budget.
func (h *harmonizer) raise(group string, low int) {
	refs := h.accessories(group)
	if len(refs) == 0 {
		return
	}
	for h.tally[group] < low {
		added := false
		for _, ref := range refs {
			if h.tally[group] >= low {
				break
			}
			if h.daySets[ref.day] >= h.dayBudget {
				continue
			}
			h.addSet(ref, 1)
			added = true
		}
		if !added {
			return
		}
	}
}

// lower removes sets one at a time, same accessory order, respecting the
// one-set floor, until the tally drops to high or every accessory is at
// the floor.
func (h *harmonizer) lower(group string, high int) {
	refs := h.accessories(group)
	if len(refs) == 0 {
		return
	}
	for h.tally[group] > high {
		removed := false
		for _, ref := range refs {
			if h.tally[group] <= high {
				break
			}
			if h.exercise(ref).Sets <= accessoryFloor {
				continue
			}
			h.addSet(ref, -1)
			removed = true
		}
		if !removed {
			return
		}
	}
}

// addSet applies a set delta to one prescription and keeps the per-day and
// per-group tallies consistent.
func (h *harmonizer) addSet(ref exerciseRef, delta int) {
	h.exercise(ref).Sets += delta
	h.daySets[ref.day] += delta
	for _, g := range h.groupsFor[ref] {
		h.tally[g] += delta
	}
}

func advisoryNote(original, final int, target Range) string {
	switch {
	case final < target.Low:
		return fmt.Sprintf("weekly volume %d below target %d-%d; no adjustable accessory capacity remains", final, target.Low, target.High)
	case final > target.High:
		return fmt.Sprintf("weekly volume %d above target %d-%d; anchor work and the accessory set floor prevent further reduction", final, target.Low, target.High)
	case final > original:
		return fmt.Sprintf("raised weekly volume from %d to %d to meet target %d-%d", original, final, target.Low, target.High)
	case final < original:
		return fmt.Sprintf("lowered weekly volume from %d to %d to meet target %d-%d", original, final, target.Low, target.High)
	default:
		return fmt.Sprintf("weekly volume %d within target %d-%d", final, target.Low, target.High)
	}
}
