package worker

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/caltrack/caltrack/internal/config"
)

// StartScheduler creates and starts an Asynq Scheduler that enqueues the
// nightly daily-reset batch for the previous day. Returns a stop function
// for graceful shutdown.
func StartScheduler(cfg *config.Config) (stop func(), err error) {
	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	location, err := time.LoadLocation(cfg.ResetTimezone)
	if err != nil {
		slog.Warn("Invalid timezone, using UTC", "timezone", cfg.ResetTimezone, "error", err)
		location = time.UTC
	}

	logger := NewLogger(cfg.LogLevel, cfg.LogFormat)

	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: location,
			LogLevel: asynq.InfoLevel,
			Logger:   &asynqLoggerAdapter{logger: logger},
		},
	)

	// Empty payload: the handler resolves "yesterday" at processing time,
	// since a payload baked in at registration would pin a stale date.
	task := asynq.NewTask(
		TaskDailyReset,
		nil,
		asynq.MaxRetry(3),
		asynq.Timeout(10*time.Minute),
		asynq.Retention(24*time.Hour),
		asynq.Unique(24*time.Hour), // Prevent duplicate if scheduler runs twice
	)

	entryID, err := scheduler.Register(cfg.ResetSchedule, task)
	if err != nil {
		return nil, fmt.Errorf("failed to register reset schedule: %w", err)
	}

	if err := scheduler.Start(); err != nil {
		return nil, fmt.Errorf("failed to start scheduler: %w", err)
	}

	slog.Info(
		"Scheduler started",
		"schedule", cfg.ResetSchedule,
		"timezone", cfg.ResetTimezone,
		"entry_id", entryID,
	)

	return func() { scheduler.Shutdown() }, nil
}
