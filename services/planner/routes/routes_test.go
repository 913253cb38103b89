// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/AleutianAI/AleutianCoach/services/planner/history"
	"github.com/AleutianAI/AleutianCoach/services/planner/pipeline"
)

type noopGenerator struct{}

func (noopGenerator) GeneratePlan(context.Context, pipeline.Request) (*pipeline.Result, error) {
	return &pipeline.Result{Source: history.SourceFresh}, nil
}

func TestSetupRoutes_Registered(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupRoutes(router, noopGenerator{}, history.NewMemoryStore())

	cases := []struct {
		method string
		path   string
		want   int
	}{
		{"GET", "/health", http.StatusOK},
		{"GET", "/metrics", http.StatusOK},
		{"GET", "/v1/plans/history/user-42", http.StatusOK},
		{"POST", "/v1/plans", http.StatusBadRequest}, // no body
		{"GET", "/nope", http.StatusNotFound},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(tc.method, tc.path, nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, tc.want, w.Code, "%s %s", tc.method, tc.path)
	}
}
