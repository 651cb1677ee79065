package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/civicstack/grievance/config"
	"github.com/civicstack/grievance/internal/api"
	"github.com/civicstack/grievance/internal/engine"
	"github.com/civicstack/grievance/internal/logger"
	"github.com/civicstack/grievance/internal/metrics"
	middlewares "github.com/civicstack/grievance/internal/middleware"
	"github.com/civicstack/grievance/internal/priority"
	"github.com/civicstack/grievance/internal/rules"
	"github.com/civicstack/grievance/internal/store"
)

// Version information (set by build)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("Starting grievance analysis service",
		"version", Version,
		"build_time", BuildTime,
		"git_commit", GitCommit,
	)

	// Initialize metrics
	if cfg.Metrics.Enabled {
		metrics.Init()
		logger.Info("Metrics enabled", "port", cfg.Metrics.Port)
	}

	ctx := context.Background()

	// Load classification rules: operator-supplied tables or the built-in set
	ruleSet := rules.Default()
	if cfg.Engine.RulesPath != "" {
		ruleSet, err = rules.LoadFile(cfg.Engine.RulesPath)
		if err != nil {
			logger.Fatal("Failed to load rules", "path", cfg.Engine.RulesPath, "error", err)
		}
		logger.Info("Loaded rule tables", "path", cfg.Engine.RulesPath, "categories", len(ruleSet.Categories))
	}

	// Initialize analysis engine
	eng, err := engine.New(engine.Config{
		Rules:               ruleSet,
		SimilarityThreshold: cfg.Engine.SimilarityThreshold,
		Weights: priority.Weights{
			Urgency:          cfg.Engine.UrgencyWeight,
			Confidence:       cfg.Engine.ConfidenceWeight,
			DuplicatePenalty: cfg.Engine.DuplicatePenalty,
		},
	})
	if err != nil {
		logger.Fatal("Failed to initialize engine", "error", err)
	}

	// Initialize stores
	corpusStore := store.NewInMemoryCorpus()
	deptStore := store.NewInMemoryDepartments(nil)
	if cfg.Engine.DepartmentsPath != "" {
		seedDepts, err := store.LoadDepartmentsFile(cfg.Engine.DepartmentsPath)
		if err != nil {
			logger.Fatal("Failed to load departments", "path", cfg.Engine.DepartmentsPath, "error", err)
		}
		for _, d := range seedDepts {
			if err := deptStore.Upsert(ctx, d); err != nil {
				logger.Fatal("Failed to seed department", "id", d.ID, "error", err)
			}
		}
		logger.Info("Seeded departments", "path", cfg.Engine.DepartmentsPath, "count", len(seedDepts))
	}

	// Setup HTTP server
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewares.Logging)
	r.Use(middlewares.Metrics)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.ReadTimeout))
	r.Use(middlewares.Security)
	r.Use(middlewares.RateLimit(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst))

	// Initialize API handlers
	apiHandler := api.NewHandler(eng, corpusStore, deptStore, Version, BuildTime, GitCommit)
	apiHandler.RegisterRoutes(r)

	// Metrics endpoint
	if cfg.Metrics.Enabled {
		go startMetricsServer(cfg.Metrics.Port, cfg.Metrics.Path)
	}

	// HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting HTTP server", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}

func startMetricsServer(port int, path string) {
	mux := http.NewServeMux()
	mux.Handle(path, metrics.Handler())

	addr := fmt.Sprintf(":%d", port)
	logger.Info("Starting metrics server", "address", addr, "path", path)

	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("Metrics server failed", "error", err)
	}
}
