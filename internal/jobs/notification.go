package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pankhokiudaan/server/internal/notify"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/rs/zerolog"
)

// NotificationArgs carries one rendered email.
type NotificationArgs struct {
	Message notify.Message `json:"message"`
}

func (NotificationArgs) Kind() string { return JobKindFormNotification }

func (NotificationArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{Queue: QueueNotifications}
}

// NotificationWorker sends queued emails through the configured provider.
type NotificationWorker struct {
	river.WorkerDefaults[NotificationArgs]
	Sender notify.Sender
	Logger zerolog.Logger
}

func (w *NotificationWorker) Timeout(*river.Job[NotificationArgs]) time.Duration {
	return time.Minute
}

func (w *NotificationWorker) Work(ctx context.Context, job *river.Job[NotificationArgs]) error {
	if w.Sender == nil {
		return errors.New("email sender not configured")
	}
	msg := job.Args.Message
	if msg.To == "" {
		return river.JobCancel(errors.New("notification has no recipient"))
	}
	if err := w.Sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("send %s notification: %w", msg.Form, err)
	}
	w.Logger.Debug().
		Int64("job_id", job.ID).
		Str("form", string(msg.Form)).
		Int("attempt", job.Attempt).
		Msg("queued notification sent")
	return nil
}

// Inserter is the part of a River client that enqueues jobs.
type Inserter interface {
	InsertMany(ctx context.Context, params []river.InsertManyParams) ([]*rivertype.JobInsertResult, error)
}

// Queue is a notify.Delivery that enqueues every message as its own job so
// a failed confirmation never resends the organisation copy.
type Queue struct {
	inserter Inserter
}

func NewQueue(inserter Inserter) *Queue {
	return &Queue{inserter: inserter}
}

func (q *Queue) Deliver(ctx context.Context, msgs ...notify.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	params := make([]river.InsertManyParams, 0, len(msgs))
	for _, msg := range msgs {
		params = append(params, river.InsertManyParams{
			Args:       NotificationArgs{Message: msg},
			InsertOpts: &river.InsertOpts{Tags: []string{string(msg.Form)}},
		})
	}
	if _, err := q.inserter.InsertMany(ctx, params); err != nil {
		return fmt.Errorf("enqueue notifications: %w", err)
	}
	return nil
}

func (*Queue) Outcome() string { return "queued" }

var _ notify.Delivery = (*Queue)(nil)

// NewWorkers registers the notification worker.
func NewWorkers(sender notify.Sender, logger zerolog.Logger) *river.Workers {
	workers := river.NewWorkers()
	river.AddWorker(workers, &NotificationWorker{
		Sender: sender,
		Logger: logger.With().Str("component", "jobs").Logger(),
	})
	return workers
}
