package notify

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

// Message is a rendered email ready for a Sender. It is also the payload of
// queued notification jobs, so it must stay JSON friendly.
type Message struct {
	Form    Kind   `json:"form"`
	To      string `json:"to"`
	ReplyTo string `json:"reply_to,omitempty"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Sender delivers a single message through a mail provider.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

var errHeaderInjection = errors.New("address contains newline characters")

// validateAddress checks an address for format and header injection.
func validateAddress(address string) error {
	if strings.ContainsAny(address, "\r\n") {
		return errHeaderInjection
	}
	if _, err := mail.ParseAddress(address); err != nil {
		return fmt.Errorf("invalid email format: %w", err)
	}
	return nil
}

// headerValue flattens a value onto a single header line.
func headerValue(v string) string {
	return strings.Join(strings.Fields(v), " ")
}

// fromHeader formats the From header, with a display name when one is set.
func fromHeader(address, name string) string {
	if name == "" {
		return address
	}
	return (&mail.Address{Name: name, Address: address}).String()
}
