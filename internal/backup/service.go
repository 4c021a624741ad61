package backup

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/skwatch/botbackup/internal/metrics"
)

// Service runs the backup sequence on a cron schedule. The usual deployment
// drives one-shot runs from a systemd timer; Service covers hosts without
// one. A run that outlasts its interval serializes against the next tick
// rather than overlapping it.
type Service struct {
	runner   *Runner
	schedule string
	recorder *metrics.Recorder
	logger   zerolog.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	running bool

	runMu sync.Mutex
}

// NewService creates a scheduled backup service. recorder may be nil, in
// which case no metrics are recorded.
func NewService(runner *Runner, schedule string, recorder *metrics.Recorder, logger zerolog.Logger) *Service {
	return &Service{
		runner:   runner,
		schedule: schedule,
		recorder: recorder,
		logger:   logger.With().Str("component", "backup_service").Logger(),
		cron:     cron.New(),
	}
}

// Start registers the schedule and starts the cron loop. A run that fails
// is logged and the service keeps going; the next tick tries again.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("backup service already running")
	}

	if _, err := s.cron.AddFunc(s.schedule, func() {
		s.runOnce(ctx)
	}); err != nil {
		return fmt.Errorf("schedule backup: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info().Str("schedule", s.schedule).Msg("backup service started")
	return nil
}

// Stop halts the cron loop and waits for any in-flight run to finish.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	<-s.cron.Stop().Done()
	s.running = false
	s.logger.Info().Msg("backup service stopped")
}

func (s *Service) runOnce(ctx context.Context) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	result, err := s.runner.Run(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("scheduled backup failed")
		s.recorder.RunFailed()
		return
	}

	s.recorder.RunSucceeded(result.Duration, result.Size, result.Pruned)
}
