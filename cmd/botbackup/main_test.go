package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skwatch/botbackup/internal/backup"
)

func TestNewLoggerLevels(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, newLogger("debug").GetLevel())
	assert.Equal(t, zerolog.WarnLevel, newLogger("warn").GetLevel())
	assert.Equal(t, zerolog.WarnLevel, newLogger("bogus").GetLevel(), "unknown level falls back to warn")
}

func TestOneshotMissingSourceExitCode(t *testing.T) {
	tmpDir := t.TempDir()

	runner, err := backup.NewRunner(backup.Config{
		DBPath:        filepath.Join(tmpDir, "missing.db"),
		BackupDir:     filepath.Join(tmpDir, "backups"),
		RetentionDays: 14,
	}, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, exitSourceMissing, oneshot(context.Background(), runner))
}

func TestOneshotFailureExitCode(t *testing.T) {
	tmpDir := t.TempDir()

	// A directory squatting on the backup path makes MkdirAll fail.
	blocked := filepath.Join(tmpDir, "blocked")
	require.NoError(t, os.WriteFile(blocked, []byte("file"), 0o644))

	runner, err := backup.NewRunner(backup.Config{
		DBPath:        filepath.Join(tmpDir, "missing.db"),
		BackupDir:     filepath.Join(blocked, "backups"),
		RetentionDays: 14,
	}, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, exitFailure, oneshot(context.Background(), runner))
}

func TestListEmptyDirectory(t *testing.T) {
	tmpDir := t.TempDir()

	runner, err := backup.NewRunner(backup.Config{
		DBPath:        filepath.Join(tmpDir, "bot.db"),
		BackupDir:     tmpDir,
		RetentionDays: 14,
	}, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, exitOK, list(runner))
}
