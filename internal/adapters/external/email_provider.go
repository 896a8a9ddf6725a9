package external

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"weathermail.app/internal/ports"
	"weathermail.app/pkg/errors"
)

const defaultSMTPTimeout = 30 * time.Second

// EmailProviderConfig represents SMTP configuration
type EmailProviderConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	FromAddr string
	Timeout  time.Duration
}

// smtpSender performs a single SMTP transaction and reports every failure.
type smtpSender struct {
	host     string
	port     int
	username string
	password string
	fromAddr string
	timeout  time.Duration
}

func (s *smtpSender) send(ctx context.Context, params ports.EmailParams) error {
	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))

	dialer := &net.Dialer{Timeout: s.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return errors.NewMailTransportError("failed to connect to SMTP server", err)
	}

	deadline := time.Now().Add(s.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := conn.SetDeadline(deadline); err != nil {
		_ = conn.Close()
		return errors.NewMailTransportError("failed to set SMTP deadline", err)
	}

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		_ = conn.Close()
		return errors.NewMailTransportError("failed to greet SMTP server", err)
	}
	defer func() {
		// Close after a successful Quit is a no-op error we do not care about
		_ = client.Close()
	}()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: s.host}); err != nil {
			return errors.NewMailTransportError("failed to establish secure TLS connection", err)
		}
	}

	if s.username != "" && s.password != "" {
		auth := smtp.PlainAuth("", s.username, s.password, s.host)
		if err := client.Auth(auth); err != nil {
			return errors.NewMailTransportError("failed to authenticate", err)
		}
	}

	if err := client.Mail(s.fromAddr); err != nil {
		return errors.NewMailTransportError("failed to set sender", err)
	}
	if err := client.Rcpt(params.To); err != nil {
		return errors.NewMailTransportError("failed to set recipient", err)
	}

	writer, err := client.Data()
	if err != nil {
		return errors.NewMailTransportError("failed to get data writer", err)
	}
	if _, err := writer.Write([]byte(buildMessage(s.fromAddr, params))); err != nil {
		_ = writer.Close()
		return errors.NewMailTransportError("failed to write message", err)
	}
	if err := writer.Close(); err != nil {
		return errors.NewMailTransportError("server rejected message", err)
	}

	if err := client.Quit(); err != nil {
		return errors.NewMailTransportError("failed to close SMTP session", err)
	}
	return nil
}

// buildMessage renders a plain-text message with From/To/Subject headers.
// Line breaks in the body are normalised to CRLF.
func buildMessage(from string, params ports.EmailParams) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", params.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", params.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")

	body := strings.ReplaceAll(params.Body, "\r\n", "\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return b.String()
}

// SMTPMailer implements the Mailer port on top of SMTP.
// Delivery failures are logged and counted but never returned to the caller.
type SMTPMailer struct {
	sender  *smtpSender
	logger  ports.Logger
	metrics ports.MetricsRecorder
}

// NewSMTPMailer creates a new SMTP mailer
func NewSMTPMailer(config EmailProviderConfig, logger ports.Logger, metrics ports.MetricsRecorder) *SMTPMailer {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultSMTPTimeout
	}

	username := config.Username
	if username == "" {
		username = config.FromAddr
	}

	return &SMTPMailer{
		sender: &smtpSender{
			host:     config.Host,
			port:     config.Port,
			username: username,
			password: config.Password,
			fromAddr: config.FromAddr,
			timeout:  timeout,
		},
		logger:  logger,
		metrics: metrics,
	}
}

// SendEmail delivers one message, absorbing any transport failure
func (m *SMTPMailer) SendEmail(ctx context.Context, params ports.EmailParams) {
	if err := m.sender.send(ctx, params); err != nil {
		m.metrics.RecordEmail(false)
		m.logger.Error("Failed to send email",
			ports.F("to", params.To),
			ports.F("subject", params.Subject),
			ports.F("error", err.Error()))
		return
	}

	m.metrics.RecordEmail(true)
	m.logger.Info("Email sent",
		ports.F("to", params.To),
		ports.F("subject", params.Subject))
}

// ValidateConfiguration validates the email provider configuration
func (m *SMTPMailer) ValidateConfiguration() error {
	if m.sender.host == "" {
		return errors.NewConfigurationError("SMTP host cannot be empty", nil)
	}
	if m.sender.port < 1 || m.sender.port > 65535 {
		return errors.NewConfigurationError("SMTP port must be between 1 and 65535", nil)
	}
	if m.sender.fromAddr == "" {
		return errors.NewConfigurationError("from address cannot be empty", nil)
	}
	return nil
}
