package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/pankhokiudaan/server/internal/config"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeMessage(t *testing.T) {
	now := time.Date(2025, 8, 15, 10, 0, 0, 0, time.UTC)
	raw := string(composeMessage(
		fromHeader("hello@pankhokiudaan.org", "Pankho Ki Udaan"),
		Message{
			To:      "team@pankhokiudaan.org",
			ReplyTo: "asha@example.com",
			Subject: "Contact Form: Hi\r\nBcc: victim@example.com",
			HTML:    "<p>body</p>",
		},
		now,
	))

	headers, body, ok := strings.Cut(raw, "\r\n\r\n")
	require.True(t, ok)
	assert.Equal(t, "<p>body</p>", body)
	assert.Contains(t, headers, `From: "Pankho Ki Udaan" <hello@pankhokiudaan.org>`)
	assert.Contains(t, headers, "Reply-To: asha@example.com")
	assert.Contains(t, headers, "Subject: Contact Form: Hi Bcc: victim@example.com")
	assert.NotContains(t, headers, "\r\nBcc:")
	assert.Contains(t, headers, "Content-Type: text/html; charset=UTF-8")
}

func TestComposeMessageEncodesNonASCIISubject(t *testing.T) {
	raw := string(composeMessage("a@example.com", Message{To: "b@example.com", Subject: "पंखों की उड़ान"}, time.Now()))
	assert.Contains(t, raw, "Subject: =?utf-8?q?")
}

func TestValidateAddress(t *testing.T) {
	assert.NoError(t, validateAddress("asha@example.com"))
	assert.ErrorIs(t, validateAddress("asha@example.com\r\nBcc: x@example.com"), errHeaderInjection)
	assert.Error(t, validateAddress("not an email"))
}

func TestSMTPSenderRejectsBadRecipient(t *testing.T) {
	sender, err := NewSMTPSender(config.EmailConfig{From: "hello@pankhokiudaan.org", SMTPHost: "localhost", SMTPPort: 2525}, zerolog.Nop())
	require.NoError(t, err)

	err = sender.Send(context.Background(), Message{To: "bad\naddress@example.com"})
	assert.ErrorContains(t, err, "invalid recipient email")
}

func TestNewSender(t *testing.T) {
	smtpSender, err := NewSender(config.EmailConfig{Provider: "smtp", From: "a@example.com", SMTPHost: "smtp.example.com", SMTPPort: 465}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &SMTPSender{}, smtpSender)

	resendSender, err := NewSender(config.EmailConfig{Provider: "resend", From: "a@example.com", ResendAPIKey: "re_test"}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &ResendSender{}, resendSender)

	_, err = NewSender(config.EmailConfig{Provider: "resend", From: "a@example.com"}, zerolog.Nop())
	assert.Error(t, err)

	_, err = NewSender(config.EmailConfig{Provider: "pigeon", From: "a@example.com"}, zerolog.Nop())
	assert.Error(t, err)
}

func newMockResend(t *testing.T, handler http.HandlerFunc) *ResendSender {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := resend.NewClient("test-api-key")
	baseURL, err := url.Parse(server.URL)
	require.NoError(t, err)
	client.BaseURL = baseURL

	return newResendSender(client, "Pankho Ki Udaan <hello@pankhokiudaan.org>", zerolog.Nop())
}

func TestResendSenderSuccess(t *testing.T) {
	var got resend.SendEmailRequest
	sender := newMockResend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "email-123"})
	})

	err := sender.Send(context.Background(), Message{
		Form:    KindContact,
		To:      "team@pankhokiudaan.org",
		ReplyTo: "asha@example.com",
		Subject: "Contact Form: Hi",
		HTML:    "<p>Hi</p>",
	})
	require.NoError(t, err)

	assert.Equal(t, "Pankho Ki Udaan <hello@pankhokiudaan.org>", got.From)
	assert.Equal(t, []string{"team@pankhokiudaan.org"}, got.To)
	assert.Equal(t, "asha@example.com", got.ReplyTo)
	assert.Equal(t, "Contact Form: Hi", got.Subject)
	assert.Equal(t, "<p>Hi</p>", got.Html)
}

func TestResendSenderAPIError(t *testing.T) {
	sender := newMockResend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"Invalid from"}`))
	})

	err := sender.Send(context.Background(), Message{To: "team@pankhokiudaan.org", Subject: "x", HTML: "y"})
	assert.ErrorContains(t, err, "resend API error")
}

func TestResendSenderRateLimited(t *testing.T) {
	sender := newMockResend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("ratelimit-limit", "2")
		w.Header().Set("ratelimit-remaining", "0")
		w.Header().Set("ratelimit-reset", "1")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"statusCode":429,"name":"rate_limit_exceeded","message":"Too many requests"}`))
	})

	err := sender.Send(context.Background(), Message{To: "team@pankhokiudaan.org", Subject: "x", HTML: "y"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
}
