package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"weathermail.app/internal/app"
	"weathermail.app/internal/config"
	"weathermail.app/pkg/logger"
)

func main() {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found or error loading it")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger.SetupDefault(cfg.Log.Level)
	slog.Info("Configuration loaded successfully",
		"port", cfg.Server.Port,
		"forecast_timezone", cfg.Forecast.Timezone,
		"gemini_model", cfg.Narrative.Model)

	application, err := app.NewApplication(cfg)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}

	// Cancelled on SIGINT/SIGTERM; the HTTP server drains in-flight requests before returning
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("Starting weather mail service...")
	if err := application.Start(ctx); err != nil {
		slog.Error("Application stopped with error", "error", err)
		os.Exit(1)
	}
}
