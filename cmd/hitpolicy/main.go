package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	corecfg "github.com/aevon-lab/hitpolicy/internal/core/config"
	"github.com/aevon-lab/hitpolicy/internal/core/hitpolicy"
	"github.com/aevon-lab/hitpolicy/internal/evaluation"
	"github.com/aevon-lab/hitpolicy/internal/server"
)

func main() {
	configPath := flag.String("config", "hitpolicy.yaml", "Path to configuration file")
	flag.Parse()

	// 0. Initialize Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 1. Load Configuration (and aggregation definitions)
	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded config",
		"server", cfg.Server,
		"evaluation", cfg.Evaluation,
		"definitions", len(cfg.Definitions),
		"policies", hitpolicy.PolicyNames(),
	)

	// 2. Initialize Evaluation
	evaluationSvc := evaluation.NewService(
		hitpolicy.NewMemoryDefinitionRepository(cfg.Definitions),
		evaluation.Options{
			WorkerCount:   cfg.Evaluation.WorkerCount,
			MaxBatchSize:  cfg.Evaluation.MaxBatchSize,
			MaxBodySizeMB: cfg.Server.MaxBodySizeMB,
		},
	)

	// 3. Initialize Server
	srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), cfg.Server.Mode, map[string]server.HealthChecker{
		"evaluation": evaluationSvc,
	})
	evaluationSvc.RegisterRoutes(srv.Engine)

	// 4. Start Services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Signal handler → triggers the shutdown sequence below.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}

	slog.Info("Shutdown complete")
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
