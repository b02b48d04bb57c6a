// Package cli provides common CLI initialization utilities.
// This package consolidates repeated initialization patterns across
// cmd/provision, cmd/adduser, and cmd/report.
package cli

import (
	"os"

	"github.com/joho/godotenv"

	"expenses/internal/config"
	"expenses/internal/log"
	"expenses/internal/storage"
)

// SetupLogger initializes structured logging from the configured level
// and sets it as the default logger.
func SetupLogger(cfg *config.Config) *log.Logger {
	level, err := cfg.SlogLevel()
	if err != nil {
		// Validate already reports this; fall back to info here.
		level = log.DefaultConfig().Level
	}
	logger := log.New(log.Config{Level: level, Component: log.ComponentApp})
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig() *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger := log.New(log.DefaultConfig())
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// InitRepository opens the SQLite repository (running migrations) or
// exits the process on failure.
func InitRepository(logger *log.Logger, dbPath string) *storage.Repository {
	repo, err := storage.NewRepository(dbPath)
	if err != nil {
		logger.Error("Failed to initialize repository", log.FieldError, err, log.FieldDBPath, dbPath)
		os.Exit(1)
	}
	return repo
}
