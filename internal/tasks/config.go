package tasks

import "time"

// Config tunes the background queue that runs downloads and enrichment.
type Config struct {
	// Workers is how many tasks may execute at once.
	Workers int

	// MaxRetries bounds attempts before a task is marked failed.
	MaxRetries int

	// RetryDelay is the backoff between attempts.
	RetryDelay time.Duration

	// TaskTimeout caps a single task execution.
	TaskTimeout time.Duration

	// ReleaseAfter returns a task claimed by a dead worker to the queue.
	ReleaseAfter time.Duration

	// CleanupInterval is how often finished tasks are swept.
	CleanupInterval time.Duration

	// RetentionDuration is how long finished task records are kept.
	RetentionDuration time.Duration
}

// DefaultConfig mirrors the environment-variable defaults in the config
// package.
func DefaultConfig() Config {
	return Config{
		Workers:           2,
		MaxRetries:        3,
		RetryDelay:        1 * time.Minute,
		TaskTimeout:       5 * time.Minute,
		ReleaseAfter:      15 * time.Minute,
		CleanupInterval:   1 * time.Hour,
		RetentionDuration: 24 * time.Hour,
	}
}
