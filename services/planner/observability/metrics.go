// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability exposes the planner's Prometheus metrics. Metrics
// are registered on the default registerer at package load; the /metrics
// endpoint is wired by the routes package.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "aleutian"
	subsystem = "planner"
)

// PlansTotal counts finished plan requests by source (fresh, cache-hit)
// and status (ok, error).
var PlansTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "plans_total",
		Help:      "Finished plan requests by source and status.",
	},
	[]string{"source", "status"},
)

// CacheLookups counts cache reads by outcome (hit, miss, error). A store
// error is also counted as a miss by the pipeline, so hit+miss equals the
// total number of lookups.
var CacheLookups = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "cache_lookups_total",
		Help:      "Program cache lookups by outcome.",
	},
	[]string{"outcome"},
)

// GatewayLatency observes wall time of generation backend calls.
var GatewayLatency = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "gateway_latency_seconds",
		Help:      "Latency of generation backend calls.",
		Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 80},
	},
)

// VolumeAdvisories counts harmonization advisories attached to fresh plans.
var VolumeAdvisories = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "volume_advisories_total",
		Help:      "Volume harmonization advisories attached to fresh plans.",
	},
)

// HistoryAppends counts history writes by source and status.
var HistoryAppends = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "history_appends_total",
		Help:      "History record writes by source and status.",
	},
	[]string{"source", "status"},
)
