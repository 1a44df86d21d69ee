package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/miayudatic/helpdesk/internal/config"
)

// Message is one outbound email.
type Message struct {
	To      []string
	Subject string
	Body    string
	HTML    bool
}

// Sender delivers a message to all recipients, best-effort. A failure leaves
// any store mutation that preceded it untouched; callers surface the error
// separately from the operation result.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender sends mail through a plain SMTP session.
type SMTPSender struct {
	cfg config.SMTPConfig
}

// NewSMTPSender constructs the sender.
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if !s.cfg.Enabled {
		return nil
	}
	if len(msg.To) == 0 {
		return fmt.Errorf("no recipients specified")
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "From: %s <%s>\r\n", s.cfg.FromName, s.cfg.From)
	fmt.Fprintf(&builder, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&builder, "Subject: %s\r\n", msg.Subject)
	if msg.HTML {
		builder.WriteString("MIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n")
	}
	builder.WriteString("\r\n")
	builder.WriteString(msg.Body)

	var auth smtp.Auth
	if s.cfg.Username != "" && s.cfg.Password != "" {
		switch s.cfg.AuthType {
		case "login":
			auth = &loginAuth{username: s.cfg.Username, password: s.cfg.Password}
		default:
			auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
		}
	}

	addr := s.cfg.Host + ":" + strconv.Itoa(s.cfg.Port)
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("connect to SMTP server: %w", err)
	}
	defer client.Close()

	if s.cfg.StartTLS {
		tlsConfig := &tls.Config{ServerName: s.cfg.Host}
		if err = client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("start TLS: %w", err)
		}
	}

	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication: %w", err)
		}
	}

	if err = client.Mail(s.cfg.From); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	for _, to := range msg.To {
		if err = client.Rcpt(to); err != nil {
			return fmt.Errorf("set recipient %s: %w", to, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("initiate data transfer: %w", err)
	}
	if _, err = w.Write([]byte(builder.String())); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("close data transfer: %w", err)
	}

	if err = client.Quit(); err != nil {
		return fmt.Errorf("quit SMTP session: %w", err)
	}
	return nil
}

// loginAuth implements SMTP LOGIN authentication.
type loginAuth struct {
	username, password string
}

func (a *loginAuth) Start(_ *smtp.ServerInfo) (string, []byte, error) {
	return "LOGIN", []byte{}, nil
}

func (a *loginAuth) Next(fromServer []byte, more bool) ([]byte, error) {
	if more {
		switch string(fromServer) {
		case "Username:":
			return []byte(a.username), nil
		case "Password:":
			return []byte(a.password), nil
		default:
			return nil, fmt.Errorf("unexpected server challenge: %s", fromServer)
		}
	}
	return nil, nil
}
