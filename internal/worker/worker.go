package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/caltrack/caltrack/internal/config"
	"github.com/caltrack/caltrack/internal/tracker"
)

// asynqLoggerAdapter wraps slog.Logger to implement asynq.Logger interface
type asynqLoggerAdapter struct {
	logger *slog.Logger
}

func (a *asynqLoggerAdapter) Debug(args ...interface{}) {
	a.logger.Debug(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Info(args ...interface{}) {
	a.logger.Info(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Warn(args ...interface{}) {
	a.logger.Warn(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Error(args ...interface{}) {
	a.logger.Error(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Fatal(args ...interface{}) {
	a.logger.Error(fmt.Sprint(args...))
	panic(fmt.Sprint(args...))
}

// Run starts the Asynq worker server and blocks until shutdown signal.
// Use this for standalone worker mode.
func Run(cfg *config.Config, store *tracker.Store) error {
	srv, mux, err := newServer(cfg, store)
	if err != nil {
		return err
	}
	return srv.Run(mux)
}

// Start starts the Asynq worker in non-blocking mode and returns a stop
// function. Use this for embedded mode so the caller can coordinate shutdown.
func Start(cfg *config.Config, store *tracker.Store) (stop func(), err error) {
	srv, mux, err := newServer(cfg, store)
	if err != nil {
		return nil, err
	}
	if err := srv.Start(mux); err != nil {
		return nil, fmt.Errorf("failed to start worker: %w", err)
	}
	return func() { srv.Shutdown() }, nil
}

func newServer(cfg *config.Config, store *tracker.Store) (*asynq.Server, *asynq.ServeMux, error) {
	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	logger := NewLogger(cfg.LogLevel, cfg.LogFormat)

	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency:     2,
			ShutdownTimeout: 30 * time.Second,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Error("Task failed", "type", task.Type(), "error", err.Error())
			}),
			Logger: &asynqLoggerAdapter{logger: logger},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskDailyReset, handleDailyReset(logger, store))

	logger.Info("Worker starting", "concurrency", 2, "redis", cfg.RedisURL)
	return srv, mux, nil
}

// handleDailyReset runs the batch recomputation for one calendar day: every
// user with an intake or burn event that day gets their summary rebuilt.
// Per-user failures are logged inside the store and do not fail the task.
func handleDailyReset(logger *slog.Logger, store *tracker.Store) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload struct {
			BatchID string `json:"batch_id"`
			Date    string `json:"date"`
		}
		if len(task.Payload()) > 0 {
			if err := json.Unmarshal(task.Payload(), &payload); err != nil {
				// Invalid payload - don't retry
				return fmt.Errorf("invalid payload: %w", asynq.SkipRetry)
			}
		}

		// Scheduled runs carry no payload; they always process yesterday.
		day := time.Now().UTC().AddDate(0, 0, -1)
		if payload.Date != "" {
			parsed, err := time.Parse(time.DateOnly, payload.Date)
			if err != nil {
				return fmt.Errorf("invalid date %q: %w", payload.Date, asynq.SkipRetry)
			}
			day = parsed
		}

		logger.Info("Processing summary:daily-reset task",
			"batch_id", payload.BatchID,
			"date", day.Format(time.DateOnly),
		)

		processed, err := store.ResetDay(ctx, day)
		if err != nil {
			// Could not even enumerate active users - retryable
			return fmt.Errorf("daily reset failed: %w", err)
		}

		logger.Info("Daily reset completed",
			"batch_id", payload.BatchID,
			"date", day.Format(time.DateOnly),
			"users_processed", processed,
		)
		return nil
	}
}
