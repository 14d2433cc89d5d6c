// Command server runs the VentureForge API together with the research job
// scheduler.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ventureforge/forge/internal/app"
	"github.com/ventureforge/forge/internal/config"
	"github.com/ventureforge/forge/internal/db"
	"github.com/ventureforge/forge/internal/db/repos"
	"github.com/ventureforge/forge/internal/logger"
	"github.com/ventureforge/forge/internal/research"
	"github.com/ventureforge/forge/internal/scheduler"
	"github.com/ventureforge/forge/internal/services"
)

// shutdownTimeout bounds how long shutdown waits for the in-flight cycle
const shutdownTimeout = 30 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		// A missing .env file is fine; the environment may be set directly.
		logger.Debugf("No .env file loaded: %v", err)
	}
	logger.InitializeAndConfigure()

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		logger.Fatal("JWT_SECRET must be set")
	}

	database, err := db.New(cfg.DB)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	jobRepo := repos.NewJobRepository(database)
	resultRepo := repos.NewResultRepository(database)
	userRepo := repos.NewUserRepository(database)

	provider, err := research.NewGeminiClient(research.GeminiOptions{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Model:   cfg.GeminiModel,
		Timeout: cfg.ProviderTimeout,
	})
	if err != nil {
		logger.Fatalf("Failed to create research provider: %v", err)
	}

	// Jobs stuck in running from a previous crash would otherwise never be
	// selected again.
	if reclaimed, err := jobRepo.ReclaimStale(context.Background(), cfg.StaleRunningAfter); err != nil {
		logger.Errorf("Failed to reclaim stale running jobs: %v", err)
	} else if reclaimed > 0 {
		logger.Infof("Reclaimed %d stale running jobs", reclaimed)
	}

	store := services.NewSchedulerStore(jobRepo, resultRepo)
	executor := scheduler.NewExecutor(store, provider, cfg.ProviderTimeout)
	dispatcher := scheduler.NewDispatcher(executor, cfg.ConcurrencyLimit)
	driver := scheduler.NewDriver(store, dispatcher, cfg.TickInterval, cfg.BackoffInterval)

	if err := driver.Start(); err != nil {
		logger.Fatalf("Failed to start scheduler: %v", err)
	}

	jobService := services.NewJobService(jobRepo, resultRepo, driver, cfg.DefaultScheduledTime)
	userService := services.NewUserService(userRepo, cfg.JWTSecret)

	fiberApp := app.New(jobService, userService)

	go func() {
		if err := fiberApp.Listen(cfg.ListenAddress); err != nil {
			logger.Fatalf("Server error: %v", err)
		}
	}()
	logger.Infof("Listening on %s", cfg.ListenAddress)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := driver.Stop(ctx); err != nil {
		logger.Errorf("Scheduler did not stop cleanly: %v", err)
	}
	if err := fiberApp.ShutdownWithContext(ctx); err != nil {
		logger.Errorf("Server did not stop cleanly: %v", err)
	}
}
