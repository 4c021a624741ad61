// Package config provides configuration for the botbackup tool.
// All settings come from environment variables with sensible defaults;
// there is no configuration file.
package config

import (
	"os"
	"strconv"
)

// Defaults match the deployment layout described in the bot's README:
// the service keeps its database under /opt/bot/data and the nightly
// timer writes snapshots to /opt/bot/backups.
const (
	DefaultDBPath        = "/opt/bot/data/bot.db"
	DefaultBackupDir     = "/opt/bot/backups"
	DefaultRetentionDays = 14
	DefaultLogLevel      = "warn"
)

// Config holds all settings for the botbackup tool.
type Config struct {
	// DBPath is the path to the live SQLite database file.
	// Env var: DB_PATH
	DBPath string

	// BackupDir is the directory that holds snapshot files.
	// Env var: BACKUP_DIR
	BackupDir string

	// RetentionDays is the age in days beyond which snapshots are pruned.
	// Env var: RETENTION_DAYS
	RetentionDays int

	// LogLevel is the zerolog level for diagnostics. The default of "warn"
	// keeps a successful run silent.
	// Env var: LOG_LEVEL
	LogLevel string

	// Schedule is an optional cron expression. When set, the tool runs as a
	// long-lived service instead of a one-shot invocation.
	// Env var: BACKUP_SCHEDULE
	Schedule string

	// MetricsAddr is an optional listen address for the Prometheus scrape
	// endpoint in service mode. Empty disables metrics.
	// Env var: METRICS_ADDR
	MetricsAddr string
}

// Load reads configuration from environment variables, applying defaults
// for anything unset or unparsable.
func Load() *Config {
	cfg := &Config{
		DBPath:        getEnv("DB_PATH", DefaultDBPath),
		BackupDir:     getEnv("BACKUP_DIR", DefaultBackupDir),
		RetentionDays: getEnvInt("RETENTION_DAYS", DefaultRetentionDays),
		LogLevel:      getEnv("LOG_LEVEL", DefaultLogLevel),
		Schedule:      getEnv("BACKUP_SCHEDULE", ""),
		MetricsAddr:   getEnv("METRICS_ADDR", ""),
	}

	// Retention must be non-negative; zero means "keep nothing older
	// than now".
	if cfg.RetentionDays < 0 {
		cfg.RetentionDays = DefaultRetentionDays
	}

	return cfg
}

// getEnv retrieves a string environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default
// value. If the environment variable exists but cannot be parsed as an
// integer, it returns the default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
