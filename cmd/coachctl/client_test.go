// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadStringMap(t *testing.T) {
	facts, err := readStringMap("")
	require.NoError(t, err)
	assert.Nil(t, facts)

	path := filepath.Join(t.TempDir(), "facts.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"age":"31","injuries":"none"}`), 0o644))

	facts, err = readStringMap(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"age": "31", "injuries": "none"}, facts)

	_, err = readStringMap(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestReadRecords(t *testing.T) {
	records, err := readRecords("")
	require.NoError(t, err)
	assert.Nil(t, records)

	path := filepath.Join(t.TempDir(), "records.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"squat":140,"bench":100}`), 0o644))

	records, err = readRecords(path)
	require.NoError(t, err)
	assert.Equal(t, 140.0, records["squat"])
	assert.Equal(t, 100.0, records["bench"])

	path = filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"squat":"heavy"}`), 0o644))
	_, err = readRecords(path)
	assert.Error(t, err)
}

func TestCommandWiring(t *testing.T) {
	names := map[string]bool{}
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}
	assert.True(t, names["plan"])
	assert.True(t, names["history"])
	assert.True(t, names["health"])
}
