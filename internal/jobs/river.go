// Package jobs runs queued email delivery on River.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pankhokiudaan/server/internal/config"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/riverqueue/river/rivertype"
	"github.com/rs/zerolog"
)

const (
	JobKindFormNotification = "form_notification"

	// QueueNotifications keeps email delivery apart from anything else that
	// may share the River schema.
	QueueNotifications = "notifications"
)

const (
	DefaultNotificationMaxAttempts = 8
	DefaultNotificationWorkers     = 2
)

// RetryConfig controls per-kind retry behavior.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// RetryPolicy implements River's ClientRetryPolicy with per-kind exponential backoff.
type RetryPolicy struct {
	Default RetryConfig
	ByKind  map[string]RetryConfig
}

func NewRetryPolicy(cfg config.JobsConfig) *RetryPolicy {
	attempts := cfg.NotificationMaxAttempts
	if attempts <= 0 {
		attempts = DefaultNotificationMaxAttempts
	}
	return &RetryPolicy{
		Default: RetryConfig{
			MaxAttempts: 5,
			BaseDelay:   30 * time.Second,
			MaxDelay:    30 * time.Minute,
		},
		ByKind: map[string]RetryConfig{
			JobKindFormNotification: {
				MaxAttempts: attempts,
				BaseDelay:   15 * time.Second,
				MaxDelay:    1 * time.Hour,
			},
		},
	}
}

// NextRetry doubles the delay after each attempt up to the kind's ceiling.
func (p *RetryPolicy) NextRetry(job *rivertype.JobRow) time.Time {
	cfg := p.configFor(job.Kind)
	if cfg.BaseDelay == 0 {
		return time.Now()
	}

	attempt := max(job.Attempt, 1)
	delay := time.Duration(float64(cfg.BaseDelay) * math.Pow(2, float64(attempt-1)))
	if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
		delay = cfg.MaxDelay
	}

	if job.AttemptedAt != nil {
		return job.AttemptedAt.Add(delay)
	}
	return time.Now().Add(delay)
}

func (p *RetryPolicy) configFor(kind string) RetryConfig {
	if cfg, ok := p.ByKind[kind]; ok {
		return cfg
	}
	return p.Default
}

// NewClientConfig builds the River configuration for the notification queue.
func NewClientConfig(workers *river.Workers, cfg config.JobsConfig, logger zerolog.Logger, hooks []rivertype.Hook) *river.Config {
	policy := NewRetryPolicy(cfg)
	workerCount := cfg.NotificationWorkers
	if workerCount <= 0 {
		workerCount = DefaultNotificationWorkers
	}
	return &river.Config{
		Workers:      workers,
		RetryPolicy:  policy,
		MaxAttempts:  policy.Default.MaxAttempts,
		Queues:       map[string]river.QueueConfig{QueueNotifications: {MaxWorkers: workerCount}},
		Hooks:        hooks,
		ErrorHandler: NewErrorHandler(logger),
		// River logs through slog; keep it to warnings so request logs stay readable.
		Logger: slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})),
	}
}

// NewClient creates a River client using pgx v5.
func NewClient(pool *pgxpool.Pool, workers *river.Workers, cfg config.JobsConfig, logger zerolog.Logger, hooks []rivertype.Hook) (*river.Client[pgx.Tx], error) {
	return river.NewClient(riverpgxv5.New(pool), NewClientConfig(workers, cfg, logger, hooks))
}

// Migrate brings River's own tables up to date.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return fmt.Errorf("create river migrator: %w", err)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil); err != nil {
		return fmt.Errorf("run river migrations: %w", err)
	}
	return nil
}
