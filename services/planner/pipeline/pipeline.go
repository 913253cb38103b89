// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package pipeline orchestrates one plan request end to end: cache lookup,
// generation, validation, rule-based correction, history persistence, and
// cache population.
//
// # Description
//
// The pipeline is deliberately not deduplicating concurrent identical
// requests: two simultaneous misses for the same signature both call the
// generator and the second Put wins. Collapsing them would serve one
// caller a plan whose generation another caller aborted, and the cost of
// the duplicate call is bounded by the cache TTL.
//
// # Limitations
//
//   - At-least-once semantics on the history side: a request that dies
//     between the cache write and the response can produce a record the
//     user never saw. Consumers of history must tolerate that.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/AleutianAI/AleutianCoach/services/planner/cache"
	"github.com/AleutianAI/AleutianCoach/services/planner/datatypes"
	"github.com/AleutianAI/AleutianCoach/services/planner/gateway"
	"github.com/AleutianAI/AleutianCoach/services/planner/history"
	"github.com/AleutianAI/AleutianCoach/services/planner/observability"
	"github.com/AleutianAI/AleutianCoach/services/planner/rules"
	"github.com/AleutianAI/AleutianCoach/services/planner/signature"
	"github.com/AleutianAI/AleutianCoach/services/planner/validate"
)

// Config wires the pipeline's collaborators. Cache, History, Gateway and
// Tables are required; the rest default sensibly.
type Config struct {
	Cache   cache.Store
	History history.Store
	Gateway gateway.Gateway
	Tables  *rules.Tables

	CacheTTL     time.Duration
	WeightUnit   string
	DaySetBudget int
	Logger       *slog.Logger

	// Clock and NewID exist for tests.
	Clock func() time.Time
	NewID func() string
}

func applyConfigDefaults(cfg *Config) {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = cache.DefaultTTL
	}
	if cfg.WeightUnit == "" {
		cfg.WeightUnit = rules.DefaultWeightUnit
	}
	if cfg.DaySetBudget <= 0 {
		cfg.DaySetBudget = rules.DefaultDaySetBudget
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
}

// Request is one plan generation request.
type Request struct {
	UserID          string
	Premium         bool
	Facts           map[string]string
	Cohort          datatypes.Cohort
	PersonalRecords datatypes.PersonalRecords
}

// Result carries the finished program plus provenance for the caller.
type Result struct {
	Program  datatypes.TrainingProgram `json:"program"`
	Source   string                    `json:"source"`
	CacheKey string                    `json:"cache_key"`
	RecordID string                    `json:"record_id"`
}

// Pipeline executes plan requests. Safe for concurrent use.
type Pipeline struct {
	cfg Config
}

// New validates the configuration and returns a ready pipeline.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Cache == nil {
		return nil, fmt.Errorf("pipeline: cache store is required")
	}
	if cfg.History == nil {
		return nil, fmt.Errorf("pipeline: history store is required")
	}
	if cfg.Gateway == nil {
		return nil, fmt.Errorf("pipeline: gateway is required")
	}
	if cfg.Tables == nil {
		return nil, fmt.Errorf("pipeline: rule tables are required")
	}
	applyConfigDefaults(&cfg)
	return &Pipeline{cfg: cfg}, nil
}

// GeneratePlan produces a training program for the request.
//
// # Description
//
// The request signature is looked up in the cache first; a live entry is
// returned as-is with a cache-hit history record. On a miss the generator
// is called once, its draft validated and corrected by the rule stages,
// and the result recorded and cached. Exactly one history row is written
// per program returned, hit or fresh.
//
// A cache read error is treated as a miss and a cache write error is
// logged and swallowed. A history append error aborts the request.
//
// Generation continues on a detached context: once the expensive call is
// in flight, an abandoning caller does not stop the result from being
// persisted and cached for the next request.
func (p *Pipeline) GeneratePlan(ctx context.Context, req Request) (*Result, error) {
	key, err := signature.Build(req.UserID, req.Premium, req.Facts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	log := p.cfg.Logger.With("user_id", req.UserID, "cache_key", key)

	if entry, ok := p.lookupCache(ctx, key, log); ok {
		rec, err := p.appendHistory(ctx, req.UserID, history.SourceCacheHit, entry.Program, log)
		if err != nil {
			observability.PlansTotal.WithLabelValues(history.SourceCacheHit, "error").Inc()
			return nil, err
		}
		observability.PlansTotal.WithLabelValues(history.SourceCacheHit, "ok").Inc()
		return &Result{
			Program:  entry.Program,
			Source:   history.SourceCacheHit,
			CacheKey: key,
			RecordID: rec.ID,
		}, nil
	}

	// Detached from the caller: an abandoned request still completes, so
	// the work is not lost to the next identical request.
	genCtx := context.WithoutCancel(ctx)

	start := time.Now()
	raw, err := p.cfg.Gateway.GeneratePlan(genCtx, gateway.PlanRequest{
		UserID:          req.UserID,
		Facts:           req.Facts,
		Cohort:          req.Cohort,
		PersonalRecords: req.PersonalRecords,
	})
	observability.GatewayLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		observability.PlansTotal.WithLabelValues(history.SourceFresh, "error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	draft, err := validate.Draft(raw)
	if err != nil {
		observability.PlansTotal.WithLabelValues(history.SourceFresh, "error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	rules.EnforceSplit(draft, req.Cohort, p.cfg.Tables)
	advisories := rules.Harmonize(draft, req.Cohort, p.cfg.Tables, p.cfg.DaySetBudget)
	rules.MergeWeightSuggestions(draft, req.PersonalRecords, p.cfg.Tables, p.cfg.WeightUnit)
	observability.VolumeAdvisories.Add(float64(len(advisories)))

	program := datatypes.TrainingProgram{
		Days:        draft.Days,
		Advisories:  advisories,
		GeneratedAt: p.cfg.Clock().UTC(),
	}

	rec, err := p.appendHistory(genCtx, req.UserID, history.SourceFresh, program, log)
	if err != nil {
		observability.PlansTotal.WithLabelValues(history.SourceFresh, "error").Inc()
		return nil, err
	}

	if err := p.cfg.Cache.Put(genCtx, key, program, p.cfg.CacheTTL); err != nil {
		// Cache population is best effort; the program is already durable.
		log.Warn("Program cache write failed", "error", err)
	}

	observability.PlansTotal.WithLabelValues(history.SourceFresh, "ok").Inc()
	return &Result{
		Program:  program,
		Source:   history.SourceFresh,
		CacheKey: key,
		RecordID: rec.ID,
	}, nil
}

// lookupCache reads the cache, degrading any store error to a miss.
func (p *Pipeline) lookupCache(ctx context.Context, key string, log *slog.Logger) (*cache.Entry, bool) {
	entry, ok, err := p.cfg.Cache.Get(ctx, key)
	if err != nil {
		log.Warn("Program cache read failed, treating as miss", "error", err)
		observability.CacheLookups.WithLabelValues("error").Inc()
		observability.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	if !ok {
		observability.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	observability.CacheLookups.WithLabelValues("hit").Inc()
	return entry, true
}

// appendHistory writes the mandatory history row for a returned program.
func (p *Pipeline) appendHistory(ctx context.Context, userID, source string, program datatypes.TrainingProgram, log *slog.Logger) (history.Record, error) {
	rec := history.Record{
		ID:        p.cfg.NewID(),
		UserID:    userID,
		Source:    source,
		CreatedAt: p.cfg.Clock().UTC(),
		Program:   program,
	}
	if err := p.cfg.History.Append(ctx, rec); err != nil {
		observability.HistoryAppends.WithLabelValues(source, "error").Inc()
		log.Error("History append failed", "source", source, "error", err)
		return history.Record{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	observability.HistoryAppends.WithLabelValues(source, "ok").Inc()
	return rec, nil
}
