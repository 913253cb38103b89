// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers contains the gin HTTP handlers for the planner service.
// Handlers translate between the wire format and the pipeline; they hold no
// planning logic themselves.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AleutianCoach/services/planner/datatypes"
	"github.com/AleutianAI/AleutianCoach/services/planner/history"
	"github.com/AleutianAI/AleutianCoach/services/planner/pipeline"
)

// PlanGenerator is the consumed slice of the pipeline.
type PlanGenerator interface {
	GeneratePlan(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
}

// GeneratePlanRequest is the wire format of POST /v1/plans.
type GeneratePlanRequest struct {
	UserID          string                    `json:"user_id" binding:"required"`
	Premium         bool                      `json:"premium"`
	Facts           map[string]string         `json:"facts"`
	Cohort          datatypes.Cohort          `json:"cohort" binding:"required"`
	PersonalRecords datatypes.PersonalRecords `json:"personal_records"`
}

// GeneratePlan handles POST /v1/plans.
//
// Upstream failures map to 502 so callers can distinguish "try again" from
// a malformed request; persistence failures map to 500. Error bodies carry
// a generic message only, details go to the log.
func GeneratePlan(generator PlanGenerator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GeneratePlanRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		result, err := generator.GeneratePlan(c.Request.Context(), pipeline.Request{
			UserID:          req.UserID,
			Premium:         req.Premium,
			Facts:           req.Facts,
			Cohort:          req.Cohort,
			PersonalRecords: req.PersonalRecords,
		})
		if err != nil {
			status, message := classifyPipelineError(err)
			slog.Error("Plan generation failed", "user_id", req.UserID, "status", status, "error", err)
			c.JSON(status, gin.H{"error": message})
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func classifyPipelineError(err error) (int, string) {
	switch {
	case errors.Is(err, pipeline.ErrBadRequest):
		return http.StatusBadRequest, "Invalid plan request"
	case errors.Is(err, pipeline.ErrGateway):
		return http.StatusBadGateway, "Plan generation backend unavailable"
	case errors.Is(err, pipeline.ErrValidation):
		return http.StatusBadGateway, "Plan generation produced an unusable draft"
	case errors.Is(err, pipeline.ErrPersistence):
		return http.StatusInternalServerError, "Failed to record the plan"
	default:
		return http.StatusInternalServerError, "Internal error"
	}
}

// GetPlanHistory handles GET /v1/plans/history/:userId.
func GetPlanHistory(store history.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing user id"})
			return
		}

		limit := 0
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
				return
			}
			limit = parsed
		}

		records, err := store.ListByUser(c.Request.Context(), userID, limit)
		if err != nil {
			slog.Error("History list failed", "user_id", userID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read plan history"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"user_id": userID,
			"count":   len(records),
			"records": records,
		})
	}
}

// HealthCheck handles GET /health.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "planner"})
}
