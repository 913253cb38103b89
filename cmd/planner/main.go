// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command planner starts the AleutianCoach training plan HTTP server.
//
// This is the main entry point for the containerized planner service.
// It reads configuration from environment variables and starts the server.
//
// # Environment Variables
//
//   - PLANNER_PORT: HTTP server port (default: 12310)
//   - LLM_BACKEND_TYPE: generation provider - openai, claude, anthropic (default: openai)
//   - WEAVIATE_SERVICE_URL: Weaviate history DB URL (optional; lightweight mode without it)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OpenTelemetry collector (default: aleutian-otel-collector:4317)
//   - PLAN_CACHE_PATH: BadgerDB directory for the program cache (default: ./data/plan_cache)
//   - PLAN_CACHE_TTL_HOURS: cache entry lifetime in hours (default: 24)
//   - PLAN_RULE_TABLES: path to a rule tables override file (optional)
//   - PLAN_WEIGHT_UNIT: unit for merged weight suggestions (default: kg)
//
// # Usage
//
//	# Build
//	go build -o planner ./cmd/planner
//
//	# Run
//	./planner
package main

import (
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/AleutianAI/AleutianCoach/services/planner"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Build configuration from environment variables
	cfg := planner.Config{
		Port:           getEnvInt("PLANNER_PORT", 12310),
		LLMBackend:     getEnvString("LLM_BACKEND_TYPE", "openai"),
		WeaviateURL:    os.Getenv("WEAVIATE_SERVICE_URL"),
		OTelEndpoint:   getEnvString("OTEL_EXPORTER_OTLP_ENDPOINT", "aleutian-otel-collector:4317"),
		CachePath:      getEnvString("PLAN_CACHE_PATH", "./data/plan_cache"),
		CacheTTL:       time.Duration(getEnvInt("PLAN_CACHE_TTL_HOURS", 24)) * time.Hour,
		RuleTablesPath: os.Getenv("PLAN_RULE_TABLES"),
		WeightUnit:     getEnvString("PLAN_WEIGHT_UNIT", "kg"),
	}

	slog.Info("Starting planner",
		"port", cfg.Port,
		"llm_backend", cfg.LLMBackend,
		"weaviate_url", cfg.WeaviateURL,
	)

	svc, err := planner.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create planner: %v", err)
	}

	// Run the server (blocks until shutdown)
	if err := svc.Run(); err != nil {
		log.Fatalf("Planner error: %v", err)
	}
}

// getEnvString returns the environment variable value or a default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable parsed as int, or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
		slog.Warn("Invalid integer environment variable, using default", "key", key, "default", defaultValue)
	}
	return defaultValue
}
