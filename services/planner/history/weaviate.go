// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"

	"github.com/AleutianAI/AleutianCoach/services/planner/datatypes"
)

const defaultListLimit = 50

// WeaviateStore implements Store against the Weaviate system of record.
type WeaviateStore struct {
	client *weaviate.Client
}

var _ Store = (*WeaviateStore)(nil)

// NewWeaviateStore wraps an initialized Weaviate client. The caller is
// responsible for ensuring the TrainingProgramRecord schema exists
// (datatypes.EnsurePlannerSchema).
func NewWeaviateStore(client *weaviate.Client) *WeaviateStore {
	return &WeaviateStore{client: client}
}

// Append implements Store.
func (s *WeaviateStore) Append(ctx context.Context, rec Record) error {
	programJSON, err := json.Marshal(rec.Program)
	if err != nil {
		return fmt.Errorf("marshal program snapshot: %w", err)
	}

	properties := map[string]interface{}{
		"record_id":    rec.ID,
		"user_id":      rec.UserID,
		"source":       rec.Source,
		"created_at":   rec.CreatedAt.UnixMilli(),
		"program_json": string(programJSON),
	}

	_, err = s.client.Data().Creator().
		WithClassName(datatypes.HistoryClassName).
		WithProperties(properties).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("append history record for user %s: %w", rec.UserID, err)
	}

	slog.Info("Appended program history record",
		"record_id", rec.ID,
		"user_id", rec.UserID,
		"source", rec.Source,
	)
	return nil
}

// weaviateHistoryResponse mirrors the GraphQL Get response shape.
type weaviateHistoryResponse struct {
	Get struct {
		TrainingProgramRecord []weaviateHistoryRow `json:"TrainingProgramRecord"`
	} `json:"Get"`
}

type weaviateHistoryRow struct {
	RecordID    string  `json:"record_id"`
	UserID      string  `json:"user_id"`
	Source      string  `json:"source"`
	CreatedAt   float64 `json:"created_at"`
	ProgramJSON string  `json:"program_json"`
}

// ListByUser implements Store.
func (s *WeaviateStore) ListByUser(ctx context.Context, userID string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	fields := []graphql.Field{
		{Name: "record_id"},
		{Name: "user_id"},
		{Name: "source"},
		{Name: "created_at"},
		{Name: "program_json"},
	}

	whereFilter := filters.Where().
		WithPath([]string{"user_id"}).
		WithOperator(filters.Equal).
		WithValueString(userID)

	sortBy := graphql.Sort{
		Path:  []string{"created_at"},
		Order: graphql.Desc,
	}

	result, err := s.client.GraphQL().Get().
		WithClassName(datatypes.HistoryClassName).
		WithWhere(whereFilter).
		WithSort(sortBy).
		WithLimit(limit).
		WithFields(fields...).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("query history for user %s: %w", userID, err)
	}

	// Marshal to JSON and unmarshal into a typed struct for compile-time
	// safety, rather than walking map[string]interface{} by hand.
	jsonBytes, err := json.Marshal(result.Data)
	if err != nil {
		return nil, fmt.Errorf("marshal weaviate response: %w", err)
	}
	var typed weaviateHistoryResponse
	if err := json.Unmarshal(jsonBytes, &typed); err != nil {
		return nil, fmt.Errorf("unmarshal weaviate response: %w", err)
	}

	records := make([]Record, 0, len(typed.Get.TrainingProgramRecord))
	for _, row := range typed.Get.TrainingProgramRecord {
		var program datatypes.TrainingProgram
		if err := json.Unmarshal([]byte(row.ProgramJSON), &program); err != nil {
			slog.Warn("Skipping history row with unreadable program snapshot",
				"record_id", row.RecordID, "error", err)
			continue
		}
		records = append(records, Record{
			ID:        row.RecordID,
			UserID:    row.UserID,
			Source:    row.Source,
			CreatedAt: time.UnixMilli(int64(row.CreatedAt)).UTC(),
			Program:   program,
		})
	}
	return records, nil
}
