package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"clozesmith/config"
	"clozesmith/llmclient"
	"clozesmith/store"
	"clozesmith/web"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	// Initialize logger with default level to load config
	tempLogger, err := config.InitLogger("info")
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	// Load config (which includes log level setting)
	cfg := config.Load(tempLogger)

	// Re-initialize logger with configured level
	logger, err := config.InitLogger(cfg.LogLevel)
	if err != nil {
		fmt.Printf("Failed to re-initialize logger with configured level: %v\n", err)
		os.Exit(1)
	}
	defer config.Cleanup()

	library, err := store.Open(cfg.LibraryPath)
	if err != nil {
		logger.Fatal("Failed to open card library", zap.Error(err), zap.String("path", cfg.LibraryPath))
	}
	defer library.Close()

	// Sessions signed with an ephemeral secret survive only until restart;
	// set SESSION_SECRET to keep logins across deploys.
	secret := cfg.SessionSecret
	if secret == "" {
		secret = uuid.NewString() + uuid.NewString()
		logger.Warn("SESSION_SECRET not set, sessions will not survive a restart")
	}

	client := llmclient.New(cfg, logger)

	webServer := web.NewServer(cfg, logger, library, client, []byte(secret))

	// Create context that listens for interrupt signals
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Start web server
	port := fmt.Sprintf(":%d", cfg.WebPort)
	logger.Info("Starting clozesmith web server",
		zap.String("port", port),
		zap.String("llm_host", cfg.LLMHost),
		zap.String("default_model", cfg.DefaultModel))
	if err := webServer.Start(ctx, port); err != nil {
		logger.Error("Web server error", zap.Error(err))
		os.Exit(1)
	}
}
