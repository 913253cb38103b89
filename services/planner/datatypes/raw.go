// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

import "encoding/json"

// RawDraftVersion is the draft schema version this service understands.
// Drafts carrying any other non-empty version are rejected by validation
// rather than partially interpreted.
const RawDraftVersion = "v1"

// RawProgramDraft is the unvalidated structure decoded from a generation
// backend. Every field is optional at this layer; the validate package is
// the only component allowed to turn it into a TrainingProgramDraft.
type RawProgramDraft struct {
	Version string   `json:"version,omitempty"`
	Days    []RawDay `json:"days"`
}

// RawDay mirrors Day before validation.
type RawDay struct {
	Label     string        `json:"label"`
	Exercises []RawExercise `json:"exercises"`
}

// RawExercise mirrors ExercisePrescription before validation. Reps is kept
// as raw JSON because generators emit either an integer or a "low-high"
// string; Role is the generator's own anchor/accessory flag and may be
// absent.
type RawExercise struct {
	Name     string          `json:"name"`
	Sets     int             `json:"sets"`
	Reps     json.RawMessage `json:"reps"`
	RPE      *float64        `json:"rpe,omitempty"`
	Load     string          `json:"load,omitempty"`
	Role     string          `json:"role,omitempty"`
	Priority int             `json:"priority,omitempty"`
}
