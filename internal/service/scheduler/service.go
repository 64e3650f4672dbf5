// Package scheduler runs the achievements reconciliation job on a schedule.
package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/spacemetall/salesboard/internal/config"
	"github.com/spacemetall/salesboard/internal/models"
	"github.com/spacemetall/salesboard/pkg/logger"
)

// JobRunner interface for the achievements job.
type JobRunner interface {
	Run(ctx context.Context) models.JobResult
}

// Service handles scheduled achievements job runs.
type Service struct {
	config *config.SchedulerConfig
	job    JobRunner
	log    *logger.Logger
	cron   *cron.Cron
}

// NewService creates a new scheduler service.
func NewService(cfg *config.SchedulerConfig, job JobRunner, log *logger.Logger) *Service {
	return &Service{
		config: cfg,
		job:    job,
		log:    log,
	}
}

// Start initializes and starts the cron scheduler.
func (s *Service) Start() error {
	if !s.config.Enabled {
		s.log.Info().Msg("Scheduler is disabled in configuration")
		return nil
	}

	location, err := time.LoadLocation(s.config.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", s.config.Timezone, err)
	}

	s.cron = cron.New(cron.WithLocation(location))

	cronExpr, err := buildCronExpression(s.config.Time)
	if err != nil {
		return fmt.Errorf("failed to build cron expression: %w", err)
	}

	_, err = s.cron.AddFunc(cronExpr, func() {
		s.runJob(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to register achievements job: %w", err)
	}

	s.cron.Start()

	entries := s.cron.Entries()
	nextRun := ""
	if len(entries) > 0 {
		nextRun = entries[0].Next.Format(time.RFC3339)
	}

	s.log.Info().
		Str("schedule", cronExpr).
		Str("timezone", s.config.Timezone).
		Str("time", s.config.Time).
		Str("next_run", nextRun).
		Msg("Scheduler started successfully")

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Service) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.log.Info().Msg("Scheduler stopped")
	}
}

// buildCronExpression turns a "HH:MM" daily time into a cron expression.
func buildCronExpression(timeOfDay string) (string, error) {
	parts := strings.Split(timeOfDay, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid time format %q, expected HH:MM", timeOfDay)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour %q", parts[0])
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute %q", parts[1])
	}

	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}

// runJob executes one scheduled achievements job run.
func (s *Service) runJob(ctx context.Context) {
	start := time.Now()
	s.log.Info().Msg("Running scheduled achievements job")

	result := s.job.Run(ctx)

	if len(result.Errors) > 0 {
		s.log.Error().
			Strs("errors", result.Errors).
			Int("rows_read", result.RowsRead).
			Dur("duration", time.Since(start)).
			Msg("Scheduled achievements job finished with errors")
		return
	}

	s.log.Info().
		Int("rows_read", result.RowsRead).
		Int("rows_filtered", result.RowsFiltered).
		Int("achievements_updated", result.AchievementsUpdated).
		Dur("duration", time.Since(start)).
		Msg("Scheduled achievements job finished")
}
