// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir      string // Base directory for the ledger data files (always absolute)
	Port         int
	LogLevel     string
	DevMode      bool
	ResettleMode string // "corrected" (default) or "additive" legacy arithmetic

	// Daily refresh (odds fetch + pick generation)
	RefreshCron string // cron spec with seconds field, empty disables
	OddsAPIKey  string
	OddsBaseURL string
	LLMAPIKey   string
	LLMBaseURL  string
	LLMModel    string

	// Backups
	BackupDir    string // defaults to <DataDir>/backups
	BackupCron   string // empty disables scheduled backups
	BackupRetain int    // number of backup archives to keep
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("DUGOUT_DATA_DIR", "")
	if dataDir == "" {
		dataDir = "./data"
	}

	// Always resolve to absolute path
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	// Ensure directory exists
	if err := os.MkdirAll(absDataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	backupDir := getEnv("DUGOUT_BACKUP_DIR", "")
	if backupDir == "" {
		backupDir = filepath.Join(absDataDir, "backups")
	}

	cfg := &Config{
		DataDir:      absDataDir,
		Port:         getEnvAsInt("PORT", 8090),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		DevMode:      getEnvAsBool("DEV_MODE", false),
		ResettleMode: getEnv("RESETTLE_MODE", "corrected"),
		RefreshCron:  getEnv("REFRESH_CRON", "0 0 9 * * *"), // 09:00 daily
		OddsAPIKey:   getEnv("ODDS_API_KEY", ""),
		OddsBaseURL:  getEnv("ODDS_API_BASE_URL", "https://api.the-odds-api.com"),
		LLMAPIKey:    getEnv("LLM_API_KEY", ""),
		LLMBaseURL:   getEnv("LLM_BASE_URL", "https://api.openai.com/v1"),
		LLMModel:     getEnv("LLM_MODEL", "gpt-4o-mini"),
		BackupDir:    backupDir,
		BackupCron:   getEnv("BACKUP_CRON", "0 30 3 * * *"), // 03:30 daily
		BackupRetain: getEnvAsInt("BACKUP_RETAIN", 14),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.ResettleMode != "corrected" && c.ResettleMode != "additive" {
		return fmt.Errorf("invalid RESETTLE_MODE %q (want corrected or additive)", c.ResettleMode)
	}
	if c.BackupRetain < 1 {
		return fmt.Errorf("BACKUP_RETAIN must be at least 1")
	}

	// Note: odds/LLM credentials are optional; without them the daily
	// refresh is disabled and games are ingested manually.
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
