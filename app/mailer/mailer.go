// Package mailer sends plain-text notification emails.
package mailer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/smtp"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"inkwell/app/config"
)

// Message is a plain-text email.
type Message struct {
	From    string
	To      []string
	Subject string
	Body    string
}

// Mailer delivers messages. Send blocks until the message is handed off or fails.
type Mailer interface {
	Send(msg Message) error
}

// New builds the mailer selected by the configuration.
func New(cfg config.MailConfig, logger *zap.Logger) (Mailer, error) {
	switch cfg.Backend {
	case config.MailSMTP:
		return NewSMTPMailer(cfg), nil
	case config.MailConsole:
		return NewConsoleMailer(os.Stdout, logger), nil
	default:
		return nil, fmt.Errorf("unknown mail backend %q", cfg.Backend)
	}
}

// Bytes renders the message with RFC 5322 headers.
func (m Message) Bytes() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", m.From)
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(m.To, ", "))
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", m.Subject))
	fmt.Fprintf(&buf, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	buf.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(strings.ReplaceAll(m.Body, "\n", "\r\n"))
	buf.WriteString("\r\n")
	return buf.Bytes()
}

func (m Message) validate() error {
	if m.From == "" {
		return errors.New("message has no sender")
	}
	if len(m.To) == 0 {
		return errors.New("message has no recipients")
	}
	return nil
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer delivers through an SMTP relay.
type SMTPMailer struct {
	addr string
	auth smtp.Auth
	send sendFunc
}

func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	m := &SMTPMailer{
		addr: net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		send: smtp.SendMail,
	}
	if cfg.Username != "" {
		m.auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return m
}

func (m *SMTPMailer) Send(msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}
	if err := m.send(m.addr, m.auth, msg.From, msg.To, msg.Bytes()); err != nil {
		return fmt.Errorf("send mail via %s: %w", m.addr, err)
	}
	return nil
}

// ConsoleMailer writes messages to w instead of delivering them.
type ConsoleMailer struct {
	w      io.Writer
	logger *zap.Logger
}

func NewConsoleMailer(w io.Writer, logger *zap.Logger) *ConsoleMailer {
	return &ConsoleMailer{w: w, logger: logger}
}

func (m *ConsoleMailer) Send(msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}
	m.logger.Info("mail sent to console",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject))
	if _, err := fmt.Fprintf(m.w, "%s\n%s\n", msg.Bytes(), strings.Repeat("-", 79)); err != nil {
		return fmt.Errorf("write mail: %w", err)
	}
	return nil
}
