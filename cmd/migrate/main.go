// Command migrate runs the database migrations and exits.
package main

import (
	"github.com/joho/godotenv"

	"github.com/ventureforge/forge/internal/config"
	"github.com/ventureforge/forge/internal/db"
	"github.com/ventureforge/forge/internal/logger"
)

func main() {
	_ = godotenv.Load()
	logger.InitializeAndConfigure()

	cfg := config.Load()
	if _, err := db.New(cfg.DB); err != nil {
		logger.Fatalf("Migration failed: %v", err)
	}
	logger.Info("Migrations complete")
}
