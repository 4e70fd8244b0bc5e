package notify

import (
	"context"
	"fmt"

	"github.com/pankhokiudaan/server/internal/config"
	"github.com/rs/zerolog"
)

// Delivery hands the messages of one submission to a transport. Messages are
// delivered in order; the organisation copy always goes first.
type Delivery interface {
	Deliver(ctx context.Context, msgs ...Message) error
	// Outcome labels a successful Deliver for metrics ("sent", "queued",
	// "disabled").
	Outcome() string
}

// Direct sends each message inline and stops at the first failure.
type Direct struct {
	Sender Sender
}

func (d Direct) Deliver(ctx context.Context, msgs ...Message) error {
	for i, msg := range msgs {
		if err := d.Sender.Send(ctx, msg); err != nil {
			return fmt.Errorf("send message %d of %d: %w", i+1, len(msgs), err)
		}
	}
	return nil
}

func (Direct) Outcome() string { return "sent" }

// Disabled logs submissions instead of emailing them.
type Disabled struct {
	Logger zerolog.Logger
}

func (d Disabled) Deliver(ctx context.Context, msgs ...Message) error {
	for _, msg := range msgs {
		d.Logger.Info().
			Str("form", string(msg.Form)).
			Str("subject", msg.Subject).
			Msg("email disabled, skipping notification")
	}
	return nil
}

func (Disabled) Outcome() string { return "disabled" }

// NewSender builds the Sender for the configured provider.
func NewSender(cfg config.EmailConfig, logger zerolog.Logger) (Sender, error) {
	switch cfg.Provider {
	case "resend":
		return NewResendSender(cfg, logger)
	case "smtp", "":
		return NewSMTPSender(cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported email provider %q", cfg.Provider)
	}
}
