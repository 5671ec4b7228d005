package digest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// ErrDelivery marks a sink that rejected the rendered payload.
var ErrDelivery = errors.New("digest delivery failed")

const defaultSubject = "Daily Car Digest"

// Sink is the outbound hand-off for a rendered digest.
type Sink interface {
	Deliver(ctx context.Context, payload, recipient string) error
}

// ConsoleSink writes the digest to the log. The default when no mail
// transport is configured.
type ConsoleSink struct {
	logger *log.Logger
}

func NewConsoleSink(logger *log.Logger) *ConsoleSink {
	if logger == nil {
		logger = log.Default()
	}
	return &ConsoleSink{logger: logger}
}

func (s *ConsoleSink) Deliver(_ context.Context, payload, recipient string) error {
	if s == nil {
		return fmt.Errorf("%w: nil sink", ErrDelivery)
	}
	s.logger.Printf("digest | to=%s subject=%q\n%s", recipient, defaultSubject, payload)
	return nil
}

// SMTPSink sends the digest as an HTML email over authenticated SMTP.
type SMTPSink struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func NewSMTPSink(host, port, username, password, from string) *SMTPSink {
	return &SMTPSink{
		host:     strings.TrimSpace(host),
		port:     strings.TrimSpace(port),
		username: strings.TrimSpace(username),
		password: password,
		from:     strings.TrimSpace(from),
	}
}

func (s *SMTPSink) Deliver(_ context.Context, payload, recipient string) error {
	if s == nil || s.host == "" {
		return fmt.Errorf("%w: smtp host not configured", ErrDelivery)
	}
	from := s.from
	if from == "" {
		from = s.username
	}

	var msg strings.Builder
	msg.WriteString("From: " + from + "\r\n")
	msg.WriteString("To: " + recipient + "\r\n")
	msg.WriteString("Subject: " + defaultSubject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(payload)

	addr := s.host + ":" + s.port
	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	if err := smtp.SendMail(addr, auth, from, []string{recipient}, []byte(msg.String())); err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	return nil
}
