package mailer

import (
	"bytes"
	"errors"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inkwell/app/config"
)

func testMessage() Message {
	return Message{
		From:    "blog@example.com",
		To:      []string{"friend@example.com"},
		Subject: `Jane (jane@example.com) recommends you reading "Héllo"`,
		Body:    "Read \"Héllo\" at http://example.com/hello/\n\nJane's comments: enjoy",
	}
}

func TestMessageBytes(t *testing.T) {
	out := string(testMessage().Bytes())
	assert.Contains(t, out, "From: blog@example.com\r\n")
	assert.Contains(t, out, "To: friend@example.com\r\n")
	assert.Contains(t, out, "Subject: =?utf-8?q?")
	assert.Contains(t, out, "\r\n\r\nRead \"Héllo\" at http://example.com/hello/\r\n\r\nJane's comments: enjoy")
}

func TestSMTPMailer(t *testing.T) {
	m := NewSMTPMailer(config.MailConfig{Host: "smtp.example.com", Port: 2525, Username: "u", Password: "p"})

	var gotAddr, gotFrom string
	var gotTo []string
	calls := 0
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		calls++
		gotAddr, gotFrom, gotTo = addr, from, to
		assert.NotNil(t, a)
		return nil
	}

	require.NoError(t, m.Send(testMessage()))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "smtp.example.com:2525", gotAddr)
	assert.Equal(t, "blog@example.com", gotFrom)
	assert.Equal(t, []string{"friend@example.com"}, gotTo)

	t.Run("transport error is returned", func(t *testing.T) {
		boom := errors.New("connection refused")
		m.send = func(string, smtp.Auth, string, []string, []byte) error { return boom }
		err := m.Send(testMessage())
		assert.ErrorIs(t, err, boom)
	})

	t.Run("message without recipients", func(t *testing.T) {
		msg := testMessage()
		msg.To = nil
		assert.Error(t, m.Send(msg))
	})
}

func TestConsoleMailer(t *testing.T) {
	var buf bytes.Buffer
	m := NewConsoleMailer(&buf, zap.NewNop())

	require.NoError(t, m.Send(testMessage()))
	assert.Contains(t, buf.String(), "To: friend@example.com")
	assert.Contains(t, buf.String(), "Jane's comments: enjoy")
}

func TestNew(t *testing.T) {
	m, err := New(config.MailConfig{Backend: config.MailConsole}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &ConsoleMailer{}, m)

	m, err = New(config.MailConfig{Backend: config.MailSMTP, Host: "localhost", Port: 25}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &SMTPMailer{}, m)

	_, err = New(config.MailConfig{Backend: "pigeon"}, zap.NewNop())
	assert.Error(t, err)
}
