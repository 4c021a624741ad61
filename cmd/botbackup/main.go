// Command botbackup snapshots the bot's SQLite database into the backup
// directory and prunes snapshots older than the retention window.
//
// By default it performs a single backup-and-prune pass and exits; a
// systemd timer (or cron) is expected to invoke it nightly. All
// configuration comes from environment variables; see internal/config.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/skwatch/botbackup/internal/backup"
	"github.com/skwatch/botbackup/internal/config"
	"github.com/skwatch/botbackup/internal/metrics"
)

// Exit statuses: 0 success, 1 source database missing, 2 any other failure.
const (
	exitOK            = 0
	exitSourceMissing = 1
	exitFailure       = 2
)

var (
	listFlag     = flag.Bool("list", false, "List snapshots in the backup directory and exit")
	restoreFlag  = flag.String("restore", "", "Restore the database from the given snapshot file and exit")
	scheduleFlag = flag.String("schedule", "", "Cron expression; run as a long-lived service (overrides BACKUP_SCHEDULE)")
)

func main() {
	os.Exit(run())
}

func run() int {
	flag.Parse()

	cfg := config.Load()
	if *scheduleFlag != "" {
		cfg.Schedule = *scheduleFlag
	}

	logger := newLogger(cfg.LogLevel)

	runner, err := backup.NewRunner(backup.Config{
		DBPath:        cfg.DBPath,
		BackupDir:     cfg.BackupDir,
		RetentionDays: cfg.RetentionDays,
	}, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "botbackup: %v\n", err)
		return exitFailure
	}

	ctx := context.Background()

	switch {
	case *listFlag:
		return list(runner)
	case *restoreFlag != "":
		return restore(ctx, runner, *restoreFlag)
	case cfg.Schedule != "":
		return serve(ctx, cfg, runner, logger)
	default:
		return oneshot(ctx, runner)
	}
}

// newLogger builds the stderr logger. Unknown levels fall back to warn so a
// misconfigured LOG_LEVEL still keeps the success path silent.
func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.WarnLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}

// oneshot performs a single backup-and-prune pass. Success prints nothing.
func oneshot(ctx context.Context, runner *backup.Runner) int {
	if _, err := runner.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "botbackup: %v\n", err)
		if errors.Is(err, backup.ErrSourceNotFound) {
			return exitSourceMissing
		}
		return exitFailure
	}
	return exitOK
}

func list(runner *backup.Runner) int {
	snaps, err := runner.List()
	if err != nil {
		fmt.Fprintf(os.Stderr, "botbackup: %v\n", err)
		return exitFailure
	}

	if len(snaps) == 0 {
		fmt.Println("No snapshots found")
		return exitOK
	}

	for _, s := range snaps {
		fmt.Printf("%s\t%.2f MB\t%s\n", s.Path, float64(s.Size)/(1024*1024), s.ModTime.Format(time.RFC3339))
	}
	return exitOK
}

func restore(ctx context.Context, runner *backup.Runner, snapshotPath string) int {
	if err := runner.Restore(ctx, snapshotPath); err != nil {
		fmt.Fprintf(os.Stderr, "botbackup: %v\n", err)
		return exitFailure
	}
	fmt.Println("Database restored successfully")
	return exitOK
}

func serve(ctx context.Context, cfg *config.Config, runner *backup.Runner, logger zerolog.Logger) int {
	var recorder *metrics.Recorder
	if cfg.MetricsAddr != "" {
		recorder = metrics.NewRecorder()
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", recorder.Handler())
			logger.Info().Str("addr", cfg.MetricsAddr).Msg("metrics listener started")
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				logger.Error().Err(err).Msg("metrics listener failed")
			}
		}()
	}

	service := backup.NewService(runner, cfg.Schedule, recorder, logger)
	if err := service.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "botbackup: %v\n", err)
		return exitFailure
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	service.Stop()
	return exitOK
}
