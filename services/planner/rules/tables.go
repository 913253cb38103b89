// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package rules implements the deterministic correction stages applied to a
// validated training program draft: split enforcement, weekly volume
// harmonization, and weight suggestion merging. All stages are pure
// functions over the draft; none performs I/O.
package rules

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var defaultTablesYAML []byte

// Range is a closed acceptance band of weekly sets per muscle group.
type Range struct {
	Low  int `yaml:"low"`
	High int `yaml:"high"`
}

// Contains reports whether n falls inside the band.
func (r Range) Contains(n int) bool { return n >= r.Low && n <= r.High }

// rawTables mirrors the YAML document.
type rawTables struct {
	MuscleGroups  map[string][]string `yaml:"muscle_groups"`
	VolumeTargets []struct {
		Focus      string `yaml:"focus"`
		Experience string `yaml:"experience"`
		Low        int    `yaml:"low"`
		High       int    `yaml:"high"`
	} `yaml:"volume_targets"`
	RPEPercent []struct {
		RPE     float64 `yaml:"rpe"`
		Percent float64 `yaml:"percent"`
	} `yaml:"rpe_percent"`
	RepPercent []struct {
		Reps    int     `yaml:"reps"`
		Percent float64 `yaml:"percent"`
	} `yaml:"rep_percent"`
}

// Tables holds the static configuration data consumed by the rule stages:
// exercise-to-muscle-group resolution, weekly volume acceptance bands, and
// the RPE / rep-count intensity charts. Lookups that miss are reported via
// the boolean return, never by panicking: unresolved entries are an
// expected input, handled by skipping.
type Tables struct {
	muscleGroups  map[string][]string
	fragments     []string // muscleGroups keys, longest first
	volumeTargets map[string]map[string]Range
	rpePercent    map[float64]float64
	repPercent    map[int]float64
}

// LoadDefaultTables parses the tables compiled into the binary.
func LoadDefaultTables() (*Tables, error) {
	return parseTables(defaultTablesYAML)
}

// LoadTablesFromFile parses a deployment-specific override file.
func LoadTablesFromFile(path string) (*Tables, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule tables %s: %w", path, err)
	}
	return parseTables(raw)
}

func parseTables(data []byte) (*Tables, error) {
	var raw rawTables
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse rule tables: %w", err)
	}
	if len(raw.MuscleGroups) == 0 {
		return nil, fmt.Errorf("rule tables define no muscle groups")
	}
	if len(raw.VolumeTargets) == 0 {
		return nil, fmt.Errorf("rule tables define no volume targets")
	}

	t := &Tables{
		muscleGroups:  make(map[string][]string, len(raw.MuscleGroups)),
		volumeTargets: make(map[string]map[string]Range),
		rpePercent:    make(map[float64]float64, len(raw.RPEPercent)),
		repPercent:    make(map[int]float64, len(raw.RepPercent)),
	}

	for fragment, groups := range raw.MuscleGroups {
		key := strings.ToLower(strings.TrimSpace(fragment))
		t.muscleGroups[key] = groups
		t.fragments = append(t.fragments, key)
	}
	// Longest fragment first so the most specific name wins.
	sort.Slice(t.fragments, func(i, j int) bool {
		if len(t.fragments[i]) != len(t.fragments[j]) {
			return len(t.fragments[i]) > len(t.fragments[j])
		}
		return t.fragments[i] < t.fragments[j]
	})

	for _, target := range raw.VolumeTargets {
		focus := strings.ToLower(target.Focus)
		if t.volumeTargets[focus] == nil {
			t.volumeTargets[focus] = make(map[string]Range)
		}
		t.volumeTargets[focus][strings.ToLower(target.Experience)] = Range{
			Low:  target.Low,
			High: target.High,
		}
	}

	for _, entry := range raw.RPEPercent {
		t.rpePercent[entry.RPE] = entry.Percent
	}
	for _, entry := range raw.RepPercent {
		t.repPercent[entry.Reps] = entry.Percent
	}

	return t, nil
}

// MuscleGroupsFor resolves the muscle groups an exercise counts toward.
// Resolution is a longest-fragment containment match against the table;
// unknown names return nil and are simply not tallied.
func (t *Tables) MuscleGroupsFor(exerciseName string) []string {
	name := strings.ToLower(strings.TrimSpace(exerciseName))
	if name == "" {
		return nil
	}
	for _, fragment := range t.fragments {
		if strings.Contains(name, fragment) {
			return t.muscleGroups[fragment]
		}
	}
	return nil
}

// TargetRange returns the weekly acceptance band for a cohort, or false
// when the focus is not governed by the harmonizer.
func (t *Tables) TargetRange(focus, experience string) (Range, bool) {
	byExperience, ok := t.volumeTargets[strings.ToLower(focus)]
	if !ok {
		return Range{}, false
	}
	if r, ok := byExperience[strings.ToLower(experience)]; ok {
		return r, true
	}
	if r, ok := byExperience["*"]; ok {
		return r, true
	}
	return Range{}, false
}

// PercentForRPE returns the %1RM for a prescribed RPE, matching the nearest
// charted value within half an RPE point.
func (t *Tables) PercentForRPE(rpe float64) (float64, bool) {
	if percent, ok := t.rpePercent[rpe]; ok {
		return percent, true
	}
	bestDiff := math.MaxFloat64
	bestCharted := math.MaxFloat64
	var best float64
	for charted, percent := range t.rpePercent {
		diff := math.Abs(charted - rpe)
		// Ties resolve to the lower charted RPE for determinism.
		if diff < bestDiff || (diff == bestDiff && charted < bestCharted) {
			bestDiff = diff
			bestCharted = charted
			best = percent
		}
	}
	if bestDiff > 0.5 {
		return 0, false
	}
	return best, true
}

// PercentForReps returns the %1RM for a prescribed rep count, matching the
// nearest charted count.
func (t *Tables) PercentForReps(reps int) (float64, bool) {
	if reps <= 0 || len(t.repPercent) == 0 {
		return 0, false
	}
	if percent, ok := t.repPercent[reps]; ok {
		return percent, true
	}
	bestDiff := math.MaxInt32
	bestCharted := math.MaxInt32
	var best float64
	for charted, percent := range t.repPercent {
		diff := charted - reps
		if diff < 0 {
			diff = -diff
		}
		// Ties resolve to the lower charted rep count for determinism.
		if diff < bestDiff || (diff == bestDiff && charted < bestCharted) {
			bestDiff = diff
			bestCharted = charted
			best = percent
		}
	}
	return best, true
}
