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

import (
	"context"
	"log"
	"log/slog"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate/entities/models"
)

// HistoryClassName is the Weaviate class holding append-only program history.
const HistoryClassName = "TrainingProgramRecord"

// GetTrainingProgramRecordSchema returns the class definition for the
// program history system of record. Rows are append-only: the planner never
// updates or deletes them.
func GetTrainingProgramRecordSchema() *models.Class {
	indexFilterable := new(bool)
	*indexFilterable = true

	return &models.Class{
		Class:       HistoryClassName,
		Description: "One durable row per training program returned to a user, fresh or replayed from cache.",
		Vectorizer:  "none",
		Properties: []*models.Property{
			{
				Name:            "record_id",
				DataType:        []string{"text"},
				Description:     "UUID assigned when the row was appended.",
				IndexFilterable: indexFilterable,
				Tokenization:    "field",
			},
			{
				Name:            "user_id",
				DataType:        []string{"text"},
				Description:     "The user the program was produced for.",
				IndexFilterable: indexFilterable,
				Tokenization:    "field",
			},
			{
				Name:            "source",
				DataType:        []string{"text"},
				Description:     "Whether the program came from a fresh generation or a cache hit.",
				IndexFilterable: indexFilterable,
				Tokenization:    "field",
			},
			{
				Name:            "created_at",
				DataType:        []string{"number"},
				Description:     "Timestamp (Unix ms) of when the row was appended.",
				IndexFilterable: indexFilterable,
			},
			{
				Name:        "program_json",
				DataType:    []string{"text"},
				Description: "Serialized snapshot of the returned program.",
			},
		},
	}
}

// EnsurePlannerSchema creates the planner's Weaviate classes if they do not
// exist yet. Creation failure is fatal: without the history class there is
// no system of record.
func EnsurePlannerSchema(client *weaviate.Client) {
	class := GetTrainingProgramRecordSchema()
	slog.Info("Checking schema", "class", class.Class)

	_, err := client.Schema().ClassGetter().WithClassName(class.Class).Do(context.Background())
	if err != nil {
		slog.Info("Schema not found, creating it...", "class", class.Class)
		if err := client.Schema().ClassCreator().WithClass(class).Do(context.Background()); err != nil {
			log.Fatalf("Failed to create schema for class %s: %v", class.Class, err)
		}
		slog.Info("Successfully created schema", "class", class.Class)
	} else {
		slog.Info("Schema already exists", "class", class.Class)
	}
}
