package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Runner performs one backup-and-prune pass per call to Run.
type Runner struct {
	cfg    Config
	logger zerolog.Logger
	now    func() time.Time // swapped out in tests
}

// NewRunner validates cfg and returns a Runner.
func NewRunner(cfg Config, logger zerolog.Logger) (*Runner, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if cfg.BackupDir == "" {
		return nil, fmt.Errorf("backup directory is required")
	}
	if cfg.RetentionDays < 0 {
		return nil, fmt.Errorf("retention days must not be negative")
	}

	return &Runner{
		cfg:    cfg,
		logger: logger.With().Str("component", "backup").Logger(),
		now:    time.Now,
	}, nil
}

// Run executes the linear backup sequence: ensure the backup directory
// exists, validate the source, snapshot it, prune old snapshots. The first
// failing step aborts the run. Prune deletion failures are soft; they are
// logged and reported in the Result without failing the run.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	start := r.now()
	runID := uuid.NewString()
	logger := r.logger.With().Str("run_id", runID).Logger()

	if err := os.MkdirAll(r.cfg.BackupDir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup directory: %w", err)
	}

	// Check-then-snapshot is racy against a concurrent delete of the
	// source; the snapshot step fails on its own if the file vanishes.
	info, err := os.Stat(r.cfg.DBPath)
	if err != nil || !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, r.cfg.DBPath)
	}

	name := snapshotPrefix + start.Format(snapshotTimeLayout) + snapshotSuffix
	destPath := filepath.Join(r.cfg.BackupDir, name)

	if err := snapshotSQLite(ctx, r.cfg.DBPath, destPath); err != nil {
		return nil, err
	}

	snapInfo, err := os.Stat(destPath)
	if err != nil {
		return nil, fmt.Errorf("stat snapshot: %w", err)
	}

	pruned, pruneErrs := pruneSnapshots(r.cfg.BackupDir, r.cfg.RetentionDays, r.now())
	for _, perr := range pruneErrs {
		logger.Warn().Err(perr).Msg("prune: skipping snapshot")
	}

	result := &Result{
		RunID:        runID,
		SnapshotPath: destPath,
		Size:         snapInfo.Size(),
		Duration:     r.now().Sub(start),
		Pruned:       pruned,
		PruneErrors:  pruneErrs,
	}

	logger.Info().
		Str("snapshot", destPath).
		Int64("size_bytes", result.Size).
		Dur("duration", result.Duration).
		Int("pruned", pruned).
		Msg("backup completed")

	return result, nil
}

// List returns the snapshots currently in the backup directory, newest
// first.
func (r *Runner) List() ([]Info, error) {
	return listSnapshots(r.cfg.BackupDir)
}

// Restore replaces the live database with the given snapshot. The bot must
// be stopped first. A pre-restore copy of the current database is taken so
// a failed restore can roll back.
func (r *Runner) Restore(ctx context.Context, snapshotPath string) error {
	if _, err := os.Stat(snapshotPath); err != nil {
		return fmt.Errorf("snapshot not found: %w", err)
	}

	preRestore := r.cfg.DBPath + ".pre-restore"
	if _, err := os.Stat(r.cfg.DBPath); err == nil {
		if err := snapshotSQLite(ctx, r.cfg.DBPath, preRestore); err != nil {
			return fmt.Errorf("pre-restore snapshot: %w", err)
		}
		defer func() { _ = os.Remove(preRestore) }()
	}

	if err := restoreSQLite(ctx, snapshotPath, r.cfg.DBPath); err != nil {
		if _, statErr := os.Stat(preRestore); statErr == nil {
			if rbErr := restoreSQLite(ctx, preRestore, r.cfg.DBPath); rbErr != nil {
				return fmt.Errorf("restore failed and rollback failed: %v (restore error: %w)", rbErr, err)
			}
			return fmt.Errorf("restore failed, rolled back to previous state: %w", err)
		}
		return err
	}

	r.logger.Info().Str("snapshot", snapshotPath).Msg("database restored")
	return nil
}
