// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package planner assembles the training plan service: the generation
// pipeline, its cache and history stores, and the HTTP surface.
//
// # Description
//
// The planner produces weekly training programs through one expensive
// generative call per unique request signature, followed by deterministic
// rule-based correction. Components are wired by New:
//   - BadgerDB-backed program cache (in-memory in tests)
//   - Weaviate-backed history, or in-process history in lightweight mode
//   - OpenAI or Anthropic generation backend
//   - OpenTelemetry tracing and Prometheus metrics
//
// # Usage
//
//	cfg := planner.Config{Port: 12310, LLMBackend: "openai"}
//	svc, err := planner.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	log.Fatal(svc.Run())
package planner

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/AleutianAI/AleutianCoach/services/planner/cache"
	"github.com/AleutianAI/AleutianCoach/services/planner/datatypes"
	"github.com/AleutianAI/AleutianCoach/services/planner/gateway"
	"github.com/AleutianAI/AleutianCoach/services/planner/history"
	"github.com/AleutianAI/AleutianCoach/services/planner/pipeline"
	"github.com/AleutianAI/AleutianCoach/services/planner/routes"
	"github.com/AleutianAI/AleutianCoach/services/planner/rules"
)

// =============================================================================
// Interface Definition
// =============================================================================

// Service defines the contract for the planner service.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use. Run() blocks and should
// only be called once per instance.
type Service interface {
	// Run starts the HTTP server and blocks until shutdown or error.
	Run() error

	// Router returns the underlying Gin engine for testing.
	Router() *gin.Engine
}

// =============================================================================
// Configuration
// =============================================================================

// Config holds planner configuration options. All fields have defaults
// applied by New, so the zero value is a runnable (lightweight) service.
type Config struct {
	// Port is the HTTP server port. Default: 12310
	Port int

	// LLMBackend specifies the generation provider.
	// Valid values: "openai", "claude", "anthropic". Default: "openai"
	LLMBackend string

	// WeaviateURL is the history database URL. If empty or invalid the
	// service runs in lightweight mode with in-process history.
	// Example: "http://localhost:8080"
	WeaviateURL string

	// OTelEndpoint is the OpenTelemetry collector endpoint.
	// Default: "aleutian-otel-collector:4317"
	OTelEndpoint string

	// CachePath is the BadgerDB directory for the program cache.
	// Default: "./data/plan_cache"
	CachePath string

	// CacheInMemory switches the program cache to a non-persistent Badger
	// instance. Used by tests and ephemeral deployments.
	CacheInMemory bool

	// CacheTTL is the lifetime of a cached program. Default: 24h
	CacheTTL time.Duration

	// RuleTablesPath overrides the compiled-in rule tables when set.
	RuleTablesPath string

	// WeightUnit is the unit appended to merged weight suggestions.
	// Default: "kg"
	WeightUnit string

	// DaySetBudget caps the total sets one training day can grow to
	// during harmonization. Default: 30
	DaySetBudget int

	// GinMode sets the Gin framework mode.
	// Valid values: "debug", "release", "test". Default: GIN_MODE or "debug"
	GinMode string

	// DisableTracing skips OTel exporter setup. Used by tests.
	DisableTracing bool
}

func applyConfigDefaults(cfg Config) Config {
	if cfg.Port == 0 {
		cfg.Port = 12310
	}
	if cfg.LLMBackend == "" {
		cfg.LLMBackend = "openai"
	}
	if cfg.OTelEndpoint == "" {
		cfg.OTelEndpoint = "aleutian-otel-collector:4317"
	}
	if cfg.CachePath == "" {
		cfg.CachePath = "./data/plan_cache"
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = cache.DefaultTTL
	}
	if cfg.WeightUnit == "" {
		cfg.WeightUnit = rules.DefaultWeightUnit
	}
	if cfg.DaySetBudget <= 0 {
		cfg.DaySetBudget = rules.DefaultDaySetBudget
	}
	return cfg
}

// =============================================================================
// Implementation
// =============================================================================

// service implements Service for production use.
type service struct {
	config        Config
	router        *gin.Engine
	cacheStore    *cache.BadgerStore
	historyStore  history.Store
	pipeline      *pipeline.Pipeline
	tracerCleanup func(context.Context)
}

var _ Service = (*service)(nil)

// =============================================================================
// Constructor
// =============================================================================

// New creates a planner Service with the given configuration.
//
// # Description
//
// Initialization order:
//  1. Apply configuration defaults
//  2. OpenTelemetry tracing (unless disabled)
//  3. Rule tables (compiled-in or file override)
//  4. History store: Weaviate when configured, else lightweight mode
//  5. BadgerDB program cache
//  6. Generation backend and pipeline
//  7. HTTP routes
//
// A missing Weaviate endpoint is not fatal; a missing generation backend
// credential is.
func New(cfg Config) (Service, error) {
	s := &service{
		config: applyConfigDefaults(cfg),
	}

	if !s.config.DisableTracing {
		cleanup, err := s.initTracer()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize tracer: %w", err)
		}
		s.tracerCleanup = cleanup
	}

	tables, err := s.loadTables()
	if err != nil {
		s.cleanup()
		return nil, err
	}

	s.initHistory()

	if err := s.initCache(); err != nil {
		s.cleanup()
		return nil, fmt.Errorf("failed to open program cache: %w", err)
	}

	gw, err := s.initGateway()
	if err != nil {
		s.cleanup()
		return nil, fmt.Errorf("failed to initialize generation backend: %w", err)
	}

	s.pipeline, err = pipeline.New(pipeline.Config{
		Cache:        s.cacheStore,
		History:      s.historyStore,
		Gateway:      gw,
		Tables:       tables,
		CacheTTL:     s.config.CacheTTL,
		WeightUnit:   s.config.WeightUnit,
		DaySetBudget: s.config.DaySetBudget,
		Logger:       slog.Default(),
	})
	if err != nil {
		s.cleanup()
		return nil, err
	}

	s.initRouter()

	return s, nil
}

// =============================================================================
// Service Interface Methods
// =============================================================================

// Run starts the HTTP server and blocks until shutdown or error. Cleanup
// is automatic on return.
func (s *service) Run() error {
	defer s.cleanup()

	addr := fmt.Sprintf(":%d", s.config.Port)
	slog.Info("Starting planner server", "port", s.config.Port)

	return s.router.Run(addr)
}

// Router returns the underlying Gin engine for testing.
func (s *service) Router() *gin.Engine {
	return s.router
}

// =============================================================================
// Private Initialization Methods
// =============================================================================

// initTracer sets up the OTLP trace exporter over insecure gRPC,
// appropriate for internal networks.
func (s *service) initTracer() (func(context.Context), error) {
	ctx := context.Background()

	conn, err := grpc.NewClient(s.config.OTelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("planner-service")))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))

	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	cleanup := func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}

	return cleanup, nil
}

func (s *service) loadTables() (*rules.Tables, error) {
	if s.config.RuleTablesPath != "" {
		tables, err := rules.LoadTablesFromFile(s.config.RuleTablesPath)
		if err != nil {
			return nil, err
		}
		slog.Info("Loaded rule tables override", "path", s.config.RuleTablesPath)
		return tables, nil
	}
	return rules.LoadDefaultTables()
}

// initHistory selects the history backend. Weaviate is the system of
// record; without it the service still runs, but history does not survive
// a restart.
func (s *service) initHistory() {
	weaviateURL := strings.Trim(s.config.WeaviateURL, "\"' ")

	if weaviateURL == "" || !strings.Contains(weaviateURL, "http") {
		slog.Warn("Weaviate URL not configured, running in lightweight mode: history is in-process only")
		s.historyStore = history.NewMemoryStore()
		return
	}

	parsedURL, err := url.Parse(weaviateURL)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		slog.Warn("WEAVIATE_SERVICE_URL is invalid, running in lightweight mode",
			"url", weaviateURL, "error", err)
		s.historyStore = history.NewMemoryStore()
		return
	}

	client, err := weaviate.NewClient(weaviate.Config{
		Host:   parsedURL.Host,
		Scheme: parsedURL.Scheme,
	})
	if err != nil {
		slog.Warn("Failed to create Weaviate client, running in lightweight mode", "error", err)
		s.historyStore = history.NewMemoryStore()
		return
	}

	datatypes.EnsurePlannerSchema(client)
	s.historyStore = history.NewWeaviateStore(client)
	slog.Info("Weaviate history store initialized", "url", weaviateURL)
}

func (s *service) initCache() error {
	var cfg cache.Config
	if s.config.CacheInMemory {
		cfg = cache.InMemoryConfig()
	} else {
		cfg = cache.DefaultConfig(s.config.CachePath)
	}

	store, err := cache.NewBadgerStore(cfg)
	if err != nil {
		return err
	}
	s.cacheStore = store
	return nil
}

func (s *service) initGateway() (gateway.Gateway, error) {
	var client gateway.LLMClient
	var err error

	switch s.config.LLMBackend {
	case "openai":
		client, err = gateway.NewOpenAIClient()
		slog.Info("Using OpenAI generation backend")
	case "claude", "anthropic":
		client, err = gateway.NewAnthropicClient()
		slog.Info("Using Anthropic (Claude) generation backend")
	default:
		return nil, fmt.Errorf("unknown LLM backend %q", s.config.LLMBackend)
	}
	if err != nil {
		return nil, err
	}

	return gateway.NewLLMGateway(client), nil
}

func (s *service) initRouter() {
	if s.config.GinMode != "" {
		gin.SetMode(s.config.GinMode)
	}
	s.router = gin.Default()
	s.router.Use(otelgin.Middleware("planner-service"))

	routes.SetupRoutes(s.router, s.pipeline, s.historyStore)
}

// cleanup releases resources on Run exit or failed initialization.
func (s *service) cleanup() {
	if s.cacheStore != nil {
		if err := s.cacheStore.Close(); err != nil {
			slog.Warn("Program cache close error", "error", err)
		}
	}
	if s.tracerCleanup != nil {
		s.tracerCleanup(context.Background())
	}
}
