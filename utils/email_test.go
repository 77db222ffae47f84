package utils

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

func TestMailerSendsThroughSender(t *testing.T) {
	var sent []*gomail.Message
	m := NewMailerWithSender("shop@example.com", func(msg *gomail.Message) error {
		sent = append(sent, msg)
		return nil
	})

	require.NoError(t, m.Send("buyer@example.com", "Hello", "<p>hi</p>"))
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"buyer@example.com"}, sent[0].GetHeader("To"))
	assert.Equal(t, []string{"shop@example.com"}, sent[0].GetHeader("From"))

	var buf bytes.Buffer
	_, err := sent[0].WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "<p>hi</p>")
}

func TestMailerWrapsSendError(t *testing.T) {
	m := NewMailerWithSender("shop@example.com", func(*gomail.Message) error {
		return errors.New("smtp down")
	})
	err := m.Send("buyer@example.com", "Hello", "body")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp down")
}

func TestDisabledMailerIsNoop(t *testing.T) {
	m := NewMailer(EmailConfig{})
	assert.False(t, m.Enabled())
	assert.NoError(t, m.Send("buyer@example.com", "Hello", "body"))

	var nilMailer *Mailer
	assert.False(t, nilMailer.Enabled())
}

func TestOrderOutcomeEmail(t *testing.T) {
	subject, body := OrderOutcomeEmail("ORD-1-2", "0xabc", "completed", "")
	assert.Contains(t, subject, "complete")
	assert.Contains(t, body, "0xabc")

	subject, body = OrderOutcomeEmail("ORD-1-2", "0xabc", "failed", "Transaction reverted on-chain")
	assert.Contains(t, subject, "could not be completed")
	assert.Contains(t, body, "Transaction reverted on-chain")
}
