package utils

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// EmailConfig holds SMTP settings
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer sends HTML mail over SMTP. A Mailer without a host drops messages.
type Mailer struct {
	config EmailConfig
	send   func(*gomail.Message) error
}

// NewMailer builds a Mailer dialing cfg.Host for every message
func NewMailer(cfg EmailConfig) *Mailer {
	m := &Mailer{config: cfg}
	if cfg.Host != "" {
		dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
		m.send = func(msg *gomail.Message) error {
			return dialer.DialAndSend(msg)
		}
	}
	return m
}

// NewMailerWithSender builds a Mailer that hands messages to send instead of SMTP
func NewMailerWithSender(from string, send func(*gomail.Message) error) *Mailer {
	return &Mailer{config: EmailConfig{From: from}, send: send}
}

// Enabled reports whether messages will actually be sent
func (m *Mailer) Enabled() bool {
	return m != nil && m.send != nil
}

// Send sends an HTML email
func (m *Mailer) Send(to, subject, body string) error {
	if !m.Enabled() {
		LogDebug("Mail disabled, dropping %q to %s", subject, to)
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.config.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	if err := m.send(msg); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}

// OrderOutcomeEmail renders the message sent when an order's payment settles
func OrderOutcomeEmail(orderNumber, txHash, status, reason string) (subject, body string) {
	if status == "completed" {
		subject = fmt.Sprintf("Your %s order %s is complete", AppName, orderNumber)
		body = fmt.Sprintf(`
		<h2>Payment confirmed</h2>
		<p>Order <strong>%s</strong> has been confirmed on-chain.</p>
		<p>Transaction: <code>%s</code></p>
	`, orderNumber, txHash)
		return subject, body
	}

	subject = fmt.Sprintf("Your %s order %s could not be completed", AppName, orderNumber)
	body = fmt.Sprintf(`
		<h2>Payment failed</h2>
		<p>Order <strong>%s</strong> was marked as failed.</p>
		<p>Reason: %s</p>
		<p>Transaction: <code>%s</code></p>
	`, orderNumber, reason, txHash)
	return subject, body
}
