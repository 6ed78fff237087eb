package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/paranoialabs/paranoia/internal/port/outbound"
)

// LogMailer writes messages to the structured log instead of delivering
// them. Default in development and whenever no SMTP relay is configured.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a log-only mailer.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{logger: logger}
}

// Send logs the message.
func (m *LogMailer) Send(ctx context.Context, msg outbound.Message) error {
	m.logger.Info("mail (log-only delivery)",
		"message_id", msg.ID,
		"template", msg.TemplateKey,
		"to", msg.To,
		"subject", msg.Subject)
	return nil
}

// SMTPMailer delivers messages through a plain SMTP relay.
type SMTPMailer struct {
	addr string
	from string
}

// NewSMTPMailer creates a mailer relaying through addr (host:port) with the
// given envelope sender.
func NewSMTPMailer(addr, from string) *SMTPMailer {
	return &SMTPMailer{addr: addr, from: from}
}

// Send delivers the message via SMTP.
func (m *SMTPMailer) Send(ctx context.Context, msg outbound.Message) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&b, "Message-ID: <%s>\r\n", msg.ID)
	b.WriteString("\r\n")
	b.WriteString(msg.Body)

	if err := smtp.SendMail(m.addr, nil, m.from, []string{msg.To}, []byte(b.String())); err != nil {
		return fmt.Errorf("smtp delivery failed: %w", err)
	}
	return nil
}

// Compile-time interface verification.
var (
	_ outbound.Mailer = (*LogMailer)(nil)
	_ outbound.Mailer = (*SMTPMailer)(nil)
)
