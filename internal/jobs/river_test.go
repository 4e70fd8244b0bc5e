package jobs

import (
	"testing"
	"time"

	"github.com/pankhokiudaan/server/internal/config"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRetryPolicyDefaults(t *testing.T) {
	policy := NewRetryPolicy(config.JobsConfig{})

	cfg := policy.configFor(JobKindFormNotification)
	assert.Equal(t, DefaultNotificationMaxAttempts, cfg.MaxAttempts)
	assert.Equal(t, 15*time.Second, cfg.BaseDelay)
	assert.Equal(t, time.Hour, cfg.MaxDelay)

	assert.Equal(t, policy.Default, policy.configFor("something_else"))
}

func TestNewRetryPolicyHonoursConfiguredAttempts(t *testing.T) {
	policy := NewRetryPolicy(config.JobsConfig{NotificationMaxAttempts: 3})
	assert.Equal(t, 3, policy.configFor(JobKindFormNotification).MaxAttempts)
}

func TestRetryPolicyNextRetryBackoff(t *testing.T) {
	policy := NewRetryPolicy(config.JobsConfig{})
	attemptedAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{attempt: 0, want: 15 * time.Second},
		{attempt: 1, want: 15 * time.Second},
		{attempt: 2, want: 30 * time.Second},
		{attempt: 3, want: time.Minute},
		{attempt: 20, want: time.Hour},
	}
	for _, tt := range tests {
		job := &rivertype.JobRow{Kind: JobKindFormNotification, Attempt: tt.attempt, AttemptedAt: &attemptedAt}
		assert.Equal(t, attemptedAt.Add(tt.want), policy.NextRetry(job), "attempt %d", tt.attempt)
	}
}

func TestRetryPolicyWithoutAttemptedAt(t *testing.T) {
	policy := NewRetryPolicy(config.JobsConfig{})
	before := time.Now()

	next := policy.NextRetry(&rivertype.JobRow{Kind: JobKindFormNotification, Attempt: 1})
	assert.WithinDuration(t, before.Add(15*time.Second), next, time.Second)
}

func TestNewClientConfig(t *testing.T) {
	workers := river.NewWorkers()
	cfg := NewClientConfig(workers, config.JobsConfig{NotificationWorkers: 4}, zerolog.Nop(), nil)

	require.Contains(t, cfg.Queues, QueueNotifications)
	assert.Equal(t, 4, cfg.Queues[QueueNotifications].MaxWorkers)
	assert.Same(t, workers, cfg.Workers)
	assert.NotNil(t, cfg.ErrorHandler)
	assert.NotNil(t, cfg.Logger)

	cfg = NewClientConfig(workers, config.JobsConfig{}, zerolog.Nop(), nil)
	assert.Equal(t, DefaultNotificationWorkers, cfg.Queues[QueueNotifications].MaxWorkers)
}
