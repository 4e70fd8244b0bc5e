package notify

import (
	"context"

	"github.com/pankhokiudaan/server/internal/apperr"
	"github.com/pankhokiudaan/server/internal/config"
	"github.com/rs/zerolog"
)

// Observer receives one outcome per handled submission.
type Observer interface {
	ObserveNotification(form, result string)
}

type outcomeText struct {
	success string
	failure string
}

var outcomes = map[Kind]outcomeText{
	KindContact: {
		success: "Your message has been sent successfully!",
		failure: "Failed to send message. Please try again later.",
	},
	KindPodcastGuest: {
		success: "Your suggestion has been received successfully!",
		failure: "Failed to submit suggestion. Please try again later.",
	},
	KindDisabilityInclusion: {
		success: "Your support request has been received successfully!",
		failure: "Failed to submit request. Please try again later.",
	},
	KindUdaanTalk: {
		success: "Your registration has been received successfully!",
		failure: "Failed to submit registration. Please try again later.",
	},
}

// Relay validates public submissions and hands the resulting emails to a
// Delivery. Nothing is stored.
type Relay struct {
	delivery   Delivery
	recipients map[Kind]string
	logger     zerolog.Logger
	observer   Observer
}

// NewRelay wires the recipients from cfg. A form without its own inbox
// falls back to the sender address.
func NewRelay(cfg config.EmailConfig, delivery Delivery, logger zerolog.Logger) *Relay {
	fallback := func(addr string) string {
		if addr == "" {
			return cfg.From
		}
		return addr
	}
	return &Relay{
		delivery: delivery,
		recipients: map[Kind]string{
			KindContact:             fallback(cfg.Recipients.Contact),
			KindPodcastGuest:        fallback(cfg.Recipients.PodcastGuest),
			KindDisabilityInclusion: fallback(cfg.Recipients.DisabilityInclusion),
			KindUdaanTalk:           fallback(cfg.Recipients.UdaanTalk),
		},
		logger: logger.With().Str("component", "notify").Logger(),
	}
}

func (r *Relay) WithObserver(o Observer) *Relay {
	r.observer = o
	return r
}

// Submit validates f, renders both emails and delivers them. It returns the
// message to show the submitter.
func (r *Relay) Submit(ctx context.Context, f Form) (string, error) {
	kind := f.Kind()
	text := outcomes[kind]

	f.normalize()
	if err := check(f); err != nil {
		r.observe(kind, "invalid")
		return "", err
	}

	msgs, err := r.compose(f)
	if err != nil {
		r.observe(kind, "failed")
		return "", apperr.Internal(text.failure, err)
	}
	if err := r.delivery.Deliver(ctx, msgs...); err != nil {
		r.observe(kind, "failed")
		r.logger.Error().Err(err).Str("form", string(kind)).Msg("notification delivery failed")
		return "", apperr.Internal(text.failure, err)
	}

	r.observe(kind, r.delivery.Outcome())
	r.logger.Info().Str("form", string(kind)).Str("delivery", r.delivery.Outcome()).Msg("form submission handled")
	return text.success, nil
}

// compose renders the organisation email followed by the confirmation.
func (r *Relay) compose(f Form) ([]Message, error) {
	kind := f.Kind()
	orgHTML, err := render(orgTemplate(kind), f)
	if err != nil {
		return nil, err
	}
	confirmHTML, err := render(confirmationTemplate(kind), f)
	if err != nil {
		return nil, err
	}
	return []Message{
		{
			Form:    kind,
			To:      r.recipients[kind],
			ReplyTo: f.Submitter(),
			Subject: f.orgSubject(),
			HTML:    orgHTML,
		},
		{
			Form:    kind,
			To:      f.Submitter(),
			Subject: f.confirmationSubject(),
			HTML:    confirmHTML,
		},
	}, nil
}

func (r *Relay) observe(kind Kind, result string) {
	if r.observer != nil {
		r.observer.ObserveNotification(string(kind), result)
	}
}
