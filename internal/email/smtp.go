package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// SMTPSender sends email through an SMTP relay. It speaks STARTTLS with
// PLAIN authentication when configured with TLS and credentials, and plain
// unauthenticated SMTP otherwise (local debug servers).
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	useTLS   bool
	logger   *slog.Logger
}

// NewSMTPSender creates a new SMTP sender.
// If logger is nil, a default logger will be used.
func NewSMTPSender(host string, port int, username, password string, useTLS bool, logger *slog.Logger) *SMTPSender {
	if logger == nil {
		logger = slog.Default()
	}

	return &SMTPSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		useTLS:   useTLS,
		logger:   logger.With(slog.String("component", "smtp_sender")),
	}
}

// Ensure SMTPSender implements Sender
var _ Sender = (*SMTPSender)(nil)

// Send delivers the message over SMTP. The connection is per-call; contact
// form volume does not justify connection pooling.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := validateHeaders(msg); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", s.host, s.port)

	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("smtp dial %s: %w", addr, err)
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			s.logger.Debug("smtp connection close failed", slog.String("error", closeErr.Error()))
		}
	}()

	// Honor context cancellation between protocol steps; net/smtp itself
	// does not take a context.
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.useTLS {
		tlsConfig := &tls.Config{ServerName: s.host}
		if err := client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}

	if s.username != "" {
		auth := smtp.PlainAuth("", s.username, s.password, s.host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(msg.From); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := writer.Write(buildMessage(msg)); err != nil {
		return fmt.Errorf("smtp write body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("smtp close body: %w", err)
	}

	if err := client.Quit(); err != nil {
		return fmt.Errorf("smtp quit: %w", err)
	}

	s.logger.Debug("email delivered",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject))
	return nil
}

// validateHeaders rejects messages whose header fields would allow header
// injection through embedded line breaks.
func validateHeaders(msg Message) error {
	for _, field := range []string{msg.From, msg.To, msg.Subject} {
		if strings.ContainsAny(field, "\r\n") {
			return fmt.Errorf("invalid header field %q: contains line break", field)
		}
	}
	return nil
}

// buildMessage assembles the RFC 5322 wire format with CRLF line endings.
func buildMessage(msg Message) []byte {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("From: %s\r\n", msg.From))
	b.WriteString(fmt.Sprintf("To: %s\r\n", msg.To))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	return []byte(b.String())
}
