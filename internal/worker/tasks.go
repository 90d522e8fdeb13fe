package worker

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Task type constants
const (
	TaskDailyReset = "summary:daily-reset"
)

// Package-level Asynq client (singleton)
var client *asynq.Client

// InitClient initializes the global Asynq client for task enqueueing.
// Must be called before any EnqueueX functions.
func InitClient(redisURL string) error {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return err
	}

	client = asynq.NewClient(opt)
	return nil
}

// CloseClient closes the Asynq client connection gracefully.
func CloseClient() error {
	if client != nil {
		return client.Close()
	}
	return nil
}

// EnqueueDailyReset enqueues an on-demand daily-reset batch for the given
// calendar day. Returns the batch ID used in logs.
func EnqueueDailyReset(day time.Time) (string, error) {
	batchID := uuid.New().String()
	payload, err := json.Marshal(map[string]string{
		"batch_id": batchID,
		"date":     day.UTC().Format(time.DateOnly),
	})
	if err != nil {
		return "", err
	}

	task := asynq.NewTask(
		TaskDailyReset,
		payload,
		asynq.MaxRetry(3),
		asynq.Timeout(10*time.Minute),
		asynq.Retention(24*time.Hour),
	)

	if _, err := client.Enqueue(task); err != nil {
		return "", err
	}
	return batchID, nil
}
