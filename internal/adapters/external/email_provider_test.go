package external

import (
	"bufio"
	"context"
	"encoding/base64"
	"io"
	"net"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"weathermail.app/internal/mocks"
	"weathermail.app/internal/ports"
)

// fakeSMTPServer speaks just enough SMTP for net/smtp to deliver one message
type fakeSMTPServer struct {
	listener   net.Listener
	rejectRcpt bool

	mu       sync.Mutex
	commands []string
	messages []string
	authLine string
}

func startFakeSMTPServer(t *testing.T, rejectRcpt bool) *fakeSMTPServer {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := &fakeSMTPServer{listener: listener, rejectRcpt: rejectRcpt}
	t.Cleanup(func() { _ = listener.Close() })

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			go s.serve(conn)
		}
	}()
	return s
}

func (s *fakeSMTPServer) port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

func (s *fakeSMTPServer) serve(conn net.Conn) {
	defer func() { _ = conn.Close() }()
	tp := textproto.NewConn(conn)
	_ = tp.PrintfLine("220 localhost ESMTP fake")

	for {
		line, err := tp.ReadLine()
		if err != nil {
			return
		}
		verb := strings.ToUpper(strings.SplitN(line, " ", 2)[0])

		s.mu.Lock()
		s.commands = append(s.commands, verb)
		s.mu.Unlock()

		switch verb {
		case "EHLO", "HELO":
			_ = tp.PrintfLine("250-localhost")
			_ = tp.PrintfLine("250 AUTH PLAIN")
		case "AUTH":
			s.mu.Lock()
			s.authLine = line
			s.mu.Unlock()
			_ = tp.PrintfLine("235 2.7.0 Authentication successful")
		case "RCPT":
			if s.rejectRcpt {
				_ = tp.PrintfLine("550 5.1.1 No such user")
				continue
			}
			_ = tp.PrintfLine("250 OK")
		case "DATA":
			_ = tp.PrintfLine("354 End data with <CR><LF>.<CR><LF>")
			data, err := io.ReadAll(tp.DotReader())
			if err != nil {
				return
			}
			s.mu.Lock()
			s.messages = append(s.messages, string(data))
			s.mu.Unlock()
			_ = tp.PrintfLine("250 OK queued")
		case "QUIT":
			_ = tp.PrintfLine("221 Bye")
			return
		default:
			_ = tp.PrintfLine("250 OK")
		}
	}
}

func (s *fakeSMTPServer) snapshot() (commands, messages []string, authLine string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.commands...), append([]string(nil), s.messages...), s.authLine
}

func TestSMTPMailer_SendEmail_DeliversPlainTextMessage(t *testing.T) {
	server := startFakeSMTPServer(t, false)
	logger := mocks.NewLogger()
	metrics := mocks.NewMetricsRecorder()

	mailer := NewSMTPMailer(EmailProviderConfig{
		Host:     "127.0.0.1",
		Port:     server.port(),
		Password: "app-password",
		FromAddr: "reports@example.com",
		Timeout:  2 * time.Second,
	}, logger, metrics)

	mailer.SendEmail(context.Background(), ports.EmailParams{
		To:      "user@example.com",
		Subject: "Weather Report for Kyiv",
		Body:    "Hello!\nIt is sunny.",
	})

	commands, messages, authLine := server.snapshot()
	assert.Equal(t, []string{"EHLO", "AUTH", "MAIL", "RCPT", "DATA", "QUIT"}, commands)

	require.True(t, strings.HasPrefix(authLine, "AUTH PLAIN "))
	creds, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(authLine, "AUTH PLAIN "))
	require.NoError(t, err)
	assert.Equal(t, "\x00reports@example.com\x00app-password", string(creds))

	require.Len(t, messages, 1)
	msg := messages[0]
	assert.Contains(t, msg, "From: reports@example.com\n")
	assert.Contains(t, msg, "To: user@example.com\n")
	assert.Contains(t, msg, "Subject: Weather Report for Kyiv\n")
	assert.Contains(t, msg, "Content-Type: text/plain; charset=UTF-8\n")
	assert.True(t, strings.HasSuffix(msg, "\nHello!\nIt is sunny.\n"), msg)

	assert.Equal(t, 1, metrics.EmailsSent)
	assert.Equal(t, 0, metrics.EmailsFailed)
	assert.True(t, logger.HasMessage("INFO", "Email sent"))
}

func TestSMTPMailer_SendEmail_RejectedRecipientIsSwallowed(t *testing.T) {
	server := startFakeSMTPServer(t, true)
	logger := mocks.NewLogger()
	metrics := mocks.NewMetricsRecorder()

	mailer := NewSMTPMailer(EmailProviderConfig{
		Host:     "127.0.0.1",
		Port:     server.port(),
		FromAddr: "reports@example.com",
		Timeout:  2 * time.Second,
	}, logger, metrics)

	assert.NotPanics(t, func() {
		mailer.SendEmail(context.Background(), ports.EmailParams{To: "ghost@example.com", Subject: "s", Body: "b"})
	})

	_, messages, _ := server.snapshot()
	assert.Empty(t, messages)
	assert.Equal(t, 1, metrics.EmailsFailed)
	assert.True(t, logger.HasMessage("ERROR", "Failed to send email"))
}

func TestSMTPMailer_SendEmail_UnreachableServerIsSwallowed(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	logger := mocks.NewLogger()
	metrics := mocks.NewMetricsRecorder()
	mailer := NewSMTPMailer(EmailProviderConfig{
		Host:     "127.0.0.1",
		Port:     port,
		FromAddr: "reports@example.com",
		Timeout:  time.Second,
	}, logger, metrics)

	mailer.SendEmail(context.Background(), ports.EmailParams{To: "user@example.com", Subject: "s", Body: "b"})

	assert.Equal(t, 1, metrics.EmailsFailed)
	require.True(t, logger.HasMessage("ERROR", "Failed to send email"))
}

func TestSMTPSender_SendReturnsMailTransportError(t *testing.T) {
	sender := &smtpSender{host: "127.0.0.1", port: 1, fromAddr: "a@example.com", timeout: 200 * time.Millisecond}

	err := sender.send(context.Background(), ports.EmailParams{To: "b@example.com"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to SMTP server")
}

func TestBuildMessage(t *testing.T) {
	msg := buildMessage("from@example.com", ports.EmailParams{
		To:      "to@example.com",
		Subject: "Weather Report for Zürich",
		Body:    "line one\nline two",
	})

	reader := textproto.NewReader(bufio.NewReader(strings.NewReader(msg)))
	header, err := reader.ReadMIMEHeader()
	require.NoError(t, err)

	assert.Equal(t, "from@example.com", header.Get("From"))
	assert.Equal(t, "to@example.com", header.Get("To"))
	assert.Equal(t, "=?utf-8?q?Weather_Report_for_Z=C3=BCrich?=", header.Get("Subject"))
	assert.Equal(t, "text/plain; charset=UTF-8", header.Get("Content-Type"))
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\nline one\r\nline two"))
}

func TestSMTPMailer_ValidateConfiguration(t *testing.T) {
	tests := []struct {
		name        string
		config      EmailProviderConfig
		expectError bool
	}{
		{
			name:   "Valid Production Config",
			config: EmailProviderConfig{Host: "smtp.gmail.com", Port: 587, Password: "password123", FromAddr: "noreply@example.com"},
		},
		{
			name:        "Missing Host",
			config:      EmailProviderConfig{Port: 587, FromAddr: "app@example.com"},
			expectError: true,
		},
		{
			name:        "Invalid Port",
			config:      EmailProviderConfig{Host: "smtp.example.com", Port: 0, FromAddr: "app@example.com"},
			expectError: true,
		},
		{
			name:        "Missing From Address",
			config:      EmailProviderConfig{Host: "smtp.example.com", Port: 587},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mailer := NewSMTPMailer(tt.config, mocks.NewLogger(), mocks.NewMetricsRecorder())
			err := mailer.ValidateConfiguration()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
