package main

import (
	"context"
	"fmt"
	"os"

	"github.com/deloreyj/conversa/internal/clients/openai"
	"github.com/deloreyj/conversa/internal/data/repos/packs"
	"github.com/deloreyj/conversa/internal/db"
	httpserver "github.com/deloreyj/conversa/internal/http"
	"github.com/deloreyj/conversa/internal/http/handlers"
	"github.com/deloreyj/conversa/internal/pkg/logger"
	"github.com/deloreyj/conversa/internal/services"
	"github.com/deloreyj/conversa/internal/temporalx"
	"github.com/deloreyj/conversa/internal/temporalx/packgen"
	"github.com/deloreyj/conversa/internal/temporalx/temporalworker"
	"github.com/deloreyj/conversa/internal/utils"
)

func main() {
	// Logger
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

	// Postgres
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

	// Repos
	log.Info("Setting up Repos from main...")
	packRepo := packs.NewPackRepo(thePG, log)

	// Clients
	aiClient, err := openai.NewClient(log)
	if err != nil {
		log.Error("Could not init OpenAI client", "error", err)
		os.Exit(1)
	}

	// Temporal
	temporalCfg := temporalx.LoadConfig()
	temporalClient, err := temporalx.NewClient(log)
	if err != nil {
		log.Error("Could not connect to Temporal", "error", err)
		os.Exit(1)
	}
	if temporalClient != nil {
		defer temporalClient.Close()
	}

	// Embedded worker: EMBEDDED_WORKER=false splits the worker into its own
	// process (cmd/worker).
	if temporalClient != nil && utils.GetEnv("EMBEDDED_WORKER", "true", log) == "true" {
		acts := packgen.NewActivities(log, aiClient, thePG, packRepo)
		runner, err := temporalworker.NewRunner(log, temporalClient, acts)
		if err != nil {
			log.Error("Could not init Temporal worker", "error", err)
			os.Exit(1)
		}
		if err := runner.Start(context.Background()); err != nil {
			log.Error("Could not start Temporal worker", "error", err)
			os.Exit(1)
		}
	}

	// Services
	log.Info("Setting up Services from main...")
	generationService := services.NewGenerationService(log, temporalClient, temporalCfg.TaskQueue)
	packService := services.NewPackService(thePG, log, packRepo, generationService)

	// Handlers
	generationHandler := handlers.NewGenerationHandler(generationService)
	packHandler := handlers.NewPackHandler(packService)
	healthHandler := handlers.NewHealthHandler()

	// Server
	srv := httpserver.NewServer(httpserver.RouterConfig{
		Log:               log,
		GenerationHandler: generationHandler,
		PackHandler:       packHandler,
		HealthHandler:     healthHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Starting API server", "port", port)
	if err := srv.Run(":" + port); err != nil {
		log.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
