package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/pankhokiudaan/server/internal/config"
	"github.com/rs/zerolog"
)

// implicitTLSPort is the SMTPS port where TLS starts before the greeting.
const implicitTLSPort = 465

const smtpTimeout = 30 * time.Second

// SMTPSender delivers mail through an authenticated SMTP relay.
type SMTPSender struct {
	host     string
	port     int
	user     string
	password string
	from     string
	fromName string
	logger   zerolog.Logger
}

func NewSMTPSender(cfg config.EmailConfig, logger zerolog.Logger) (*SMTPSender, error) {
	if err := validateAddress(cfg.From); err != nil {
		return nil, fmt.Errorf("invalid sender email in config: %w", err)
	}
	if cfg.SMTPHost == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	return &SMTPSender{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.From,
		fromName: cfg.FromName,
		logger:   logger.With().Str("component", "smtp").Logger(),
	}, nil
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := validateAddress(msg.To); err != nil {
		return fmt.Errorf("invalid recipient email: %w", err)
	}
	if msg.ReplyTo != "" {
		if err := validateAddress(msg.ReplyTo); err != nil {
			return fmt.Errorf("invalid reply-to email: %w", err)
		}
	}
	body := composeMessage(fromHeader(s.from, s.fromName), msg, time.Now())

	client, err := s.dial(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if s.user != "" {
		auth := smtp.PlainAuth("", s.user, s.password, s.host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}
	if err := client.Mail(s.from); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("open data writer: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("write email body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close data writer: %w", err)
	}
	if err := client.Quit(); err != nil {
		return fmt.Errorf("quit SMTP connection: %w", err)
	}

	s.logger.Debug().Str("form", string(msg.Form)).Msg("email sent via SMTP")
	return nil
}

// dial connects with implicit TLS on port 465 and upgrades with STARTTLS on
// any other port.
func (s *SMTPSender) dial(ctx context.Context) (*smtp.Client, error) {
	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))
	tlsConfig := &tls.Config{
		ServerName: s.host,
		MinVersion: tls.VersionTLS12,
	}

	var (
		conn net.Conn
		err  error
	)
	if s.port == implicitTLSPort {
		dialer := &tls.Dialer{NetDialer: &net.Dialer{Timeout: smtpTimeout}, Config: tlsConfig}
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	} else {
		dialer := &net.Dialer{Timeout: smtpTimeout}
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to SMTP server: %w", err)
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(smtpTimeout)
	}
	_ = conn.SetDeadline(deadline)

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("SMTP handshake: %w", err)
	}
	if s.port != implicitTLSPort {
		if err := client.StartTLS(tlsConfig); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("start TLS: %w", err)
		}
	}
	return client, nil
}

// composeMessage builds the RFC 5322 message for msg. Subject lines are
// Q-encoded so non-ASCII names survive.
func composeMessage(from string, msg Message, now time.Time) []byte {
	var buf bytes.Buffer
	writeHeader := func(key, value string) {
		buf.WriteString(key)
		buf.WriteString(": ")
		buf.WriteString(value)
		buf.WriteString("\r\n")
	}
	writeHeader("From", headerValue(from))
	writeHeader("To", headerValue(msg.To))
	if msg.ReplyTo != "" {
		writeHeader("Reply-To", headerValue(msg.ReplyTo))
	}
	writeHeader("Subject", mime.QEncoding.Encode("utf-8", headerValue(msg.Subject)))
	writeHeader("Date", now.Format(time.RFC1123Z))
	writeHeader("MIME-Version", "1.0")
	writeHeader("Content-Type", "text/html; charset=UTF-8")
	buf.WriteString("\r\n")
	buf.WriteString(msg.HTML)
	return buf.Bytes()
}
