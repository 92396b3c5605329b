package main

import (
	"os"

	"github.com/joho/godotenv"

	"LearningAssistant/internal/app"
	"LearningAssistant/internal/config"
	"LearningAssistant/internal/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
