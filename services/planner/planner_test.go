// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package planner

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		LLMBackend:     "openai",
		CacheInMemory:  true,
		GinMode:        "test",
		DisableTracing: true,
	}
}

func TestApplyConfigDefaults(t *testing.T) {
	cfg := applyConfigDefaults(Config{})

	assert.Equal(t, 12310, cfg.Port)
	assert.Equal(t, "openai", cfg.LLMBackend)
	assert.Equal(t, "aleutian-otel-collector:4317", cfg.OTelEndpoint)
	assert.Equal(t, "./data/plan_cache", cfg.CachePath)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.Equal(t, "kg", cfg.WeightUnit)
	assert.Equal(t, 30, cfg.DaySetBudget)
}

func TestApplyConfigDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := applyConfigDefaults(Config{
		Port:         9999,
		LLMBackend:   "anthropic",
		CacheTTL:     time.Hour,
		WeightUnit:   "lb",
		DaySetBudget: 25,
	})

	assert.Equal(t, 9999, cfg.Port)
	assert.Equal(t, "anthropic", cfg.LLMBackend)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, "lb", cfg.WeightUnit)
	assert.Equal(t, 25, cfg.DaySetBudget)
}

func TestNew_LightweightMode(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")

	svc, err := New(testConfig())
	require.NoError(t, err)
	require.NotNil(t, svc.Router())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	svc.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/metrics", nil)
	svc.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNew_UnknownBackendFails(t *testing.T) {
	cfg := testConfig()
	cfg.LLMBackend = "carrier-pigeon"

	_, err := New(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generation backend")
}

func TestNew_InvalidRuleTablesPath(t *testing.T) {
	cfg := testConfig()
	cfg.RuleTablesPath = "/nonexistent/tables.yaml"

	_, err := New(cfg)
	assert.Error(t, err)
}
