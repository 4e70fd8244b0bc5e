package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/pankhokiudaan/server/internal/config"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// ResendSender delivers mail through the Resend HTTP API.
type ResendSender struct {
	client *resend.Client
	from   string
	logger zerolog.Logger
}

func NewResendSender(cfg config.EmailConfig, logger zerolog.Logger) (*ResendSender, error) {
	if err := validateAddress(cfg.From); err != nil {
		return nil, fmt.Errorf("invalid sender email in config: %w", err)
	}
	if cfg.ResendAPIKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}
	return newResendSender(resend.NewClient(cfg.ResendAPIKey), fromHeader(cfg.From, cfg.FromName), logger), nil
}

func newResendSender(client *resend.Client, from string, logger zerolog.Logger) *ResendSender {
	return &ResendSender{
		client: client,
		from:   from,
		logger: logger.With().Str("component", "resend").Logger(),
	}
}

// Send posts one email. Rate limit responses are reported, not retried here;
// queued delivery retries them with backoff.
func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	if err := validateAddress(msg.To); err != nil {
		return fmt.Errorf("invalid recipient email: %w", err)
	}
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{msg.To},
		Subject: headerValue(msg.Subject),
		Html:    msg.HTML,
	}
	if msg.ReplyTo != "" {
		if err := validateAddress(msg.ReplyTo); err != nil {
			return fmt.Errorf("invalid reply-to email: %w", err)
		}
		params.ReplyTo = msg.ReplyTo
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		var rateLimitErr *resend.RateLimitError
		if errors.As(err, &rateLimitErr) {
			s.logger.Warn().
				Str("limit", rateLimitErr.Limit).
				Str("remaining", rateLimitErr.Remaining).
				Str("reset", rateLimitErr.Reset).
				Msg("resend rate limit exceeded")
			return fmt.Errorf("email rate limit exceeded (resets in %s seconds): %w", rateLimitErr.Reset, err)
		}
		return fmt.Errorf("resend API error: %w", err)
	}

	s.logger.Debug().
		Str("email_id", sent.Id).
		Str("form", string(msg.Form)).
		Msg("email sent via Resend")
	return nil
}
