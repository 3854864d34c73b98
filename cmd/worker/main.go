package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/deloreyj/conversa/internal/clients/openai"
	"github.com/deloreyj/conversa/internal/data/repos/packs"
	"github.com/deloreyj/conversa/internal/db"
	"github.com/deloreyj/conversa/internal/pkg/logger"
	"github.com/deloreyj/conversa/internal/temporalx"
	"github.com/deloreyj/conversa/internal/temporalx/packgen"
	"github.com/deloreyj/conversa/internal/temporalx/temporalworker"
)

func main() {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	packRepo := packs.NewPackRepo(thePG, log)

	aiClient, err := openai.NewClient(log)
	if err != nil {
		log.Error("Could not init OpenAI client", "error", err)
		os.Exit(1)
	}

	temporalClient, err := temporalx.NewClient(log)
	if err != nil {
		log.Error("Could not connect to Temporal", "error", err)
		os.Exit(1)
	}
	if temporalClient == nil {
		log.Error("TEMPORAL_ADDRESS is required for the worker")
		os.Exit(1)
	}
	defer temporalClient.Close()

	acts := packgen.NewActivities(log, aiClient, thePG, packRepo)
	runner, err := temporalworker.NewRunner(log, temporalClient, acts)
	if err != nil {
		log.Error("Could not init Temporal worker", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runner.Start(ctx); err != nil {
		log.Error("Could not start Temporal worker", "error", err)
		os.Exit(1)
	}

	log.Info("Worker running; waiting for shutdown signal")
	<-ctx.Done()
	log.Info("Shutting down worker")
}
