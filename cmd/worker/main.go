package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/caltrack/caltrack/internal/config"
	"github.com/caltrack/caltrack/internal/database"
	"github.com/caltrack/caltrack/internal/tracker"
	"github.com/caltrack/caltrack/internal/worker"
)

// Standalone worker process: runs only the reset task consumer, for
// deployments that keep background work off the web server.
func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	logger := worker.NewLogger(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Init(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Error("database close failed", "error", err.Error())
		}
	}()

	store := tracker.NewStore(db, logger)

	// Blocks until SIGINT/SIGTERM; asynq handles shutdown itself.
	if err := worker.Run(cfg, store); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
