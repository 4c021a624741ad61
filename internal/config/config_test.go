package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"DB_PATH", "BACKUP_DIR", "RETENTION_DAYS", "LOG_LEVEL", "BACKUP_SCHEDULE", "METRICS_ADDR"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()
	assert.Equal(t, DefaultDBPath, cfg.DBPath)
	assert.Equal(t, DefaultBackupDir, cfg.BackupDir)
	assert.Equal(t, DefaultRetentionDays, cfg.RetentionDays)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Empty(t, cfg.Schedule)
	assert.Empty(t, cfg.MetricsAddr)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_PATH", "/srv/bot/bot.db")
	t.Setenv("BACKUP_DIR", "/srv/bot/backups")
	t.Setenv("RETENTION_DAYS", "30")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("BACKUP_SCHEDULE", "0 3 * * *")
	t.Setenv("METRICS_ADDR", "127.0.0.1:9180")

	cfg := Load()
	assert.Equal(t, "/srv/bot/bot.db", cfg.DBPath)
	assert.Equal(t, "/srv/bot/backups", cfg.BackupDir)
	assert.Equal(t, 30, cfg.RetentionDays)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "0 3 * * *", cfg.Schedule)
	assert.Equal(t, "127.0.0.1:9180", cfg.MetricsAddr)
}

func TestLoadRetentionZero(t *testing.T) {
	clearEnv(t)
	t.Setenv("RETENTION_DAYS", "0")

	cfg := Load()
	assert.Equal(t, 0, cfg.RetentionDays)
}

func TestLoadRetentionUnparsable(t *testing.T) {
	clearEnv(t)
	t.Setenv("RETENTION_DAYS", "fourteen")

	cfg := Load()
	assert.Equal(t, DefaultRetentionDays, cfg.RetentionDays)
}

func TestLoadRetentionNegative(t *testing.T) {
	clearEnv(t)
	t.Setenv("RETENTION_DAYS", "-7")

	cfg := Load()
	assert.Equal(t, DefaultRetentionDays, cfg.RetentionDays)
}
