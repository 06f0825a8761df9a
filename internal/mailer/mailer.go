// Package mailer sends best-effort notification mail over SMTP. It is
// configured for Mailtrap (smtp.mailtrap.io), which is sufficient for the
// review-notification volume this marketplace produces.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer is the notification interface the services depend on. A nil Mailer
// means notifications are disabled.
type Mailer interface {
	Send(recipient, subject, body string) error
}

// SMTPMailer sends mail through Mailtrap's SMTP endpoint.
type SMTPMailer struct {
	sender   string
	smtpUser string
	smtpPass string
}

// NewSMTPMailer creates an SMTPMailer. All three values are required.
func NewSMTPMailer(sender, smtpUser, smtpPass string) (*SMTPMailer, error) {
	if sender == "" || smtpUser == "" || smtpPass == "" {
		return nil, fmt.Errorf("sender, SMTP username and password must all be provided")
	}
	return &SMTPMailer{sender: sender, smtpUser: smtpUser, smtpPass: smtpPass}, nil
}

// Send delivers one message. The Content-Type is inferred from the body.
func (m *SMTPMailer) Send(recipient, subject, body string) error {
	if recipient == "" {
		return fmt.Errorf("recipient email address cannot be empty")
	}
	if subject == "" {
		return fmt.Errorf("email subject cannot be empty")
	}

	smtpHost := "smtp.mailtrap.io"
	smtpAddr := smtpHost + ":2525"

	contentType := "text/plain; charset=UTF-8"
	lower := strings.ToLower(body)
	if strings.Contains(lower, "<html>") || strings.Contains(lower, "<p>") {
		contentType = "text/html; charset=UTF-8"
	}

	message := []byte(fmt.Sprintf("To: %s\r\n"+
		"From: %s\r\n"+
		"Subject: %s\r\n"+
		"Content-Type: %s\r\n"+
		"\r\n"+
		"%s\r\n", recipient, m.sender, subject, contentType, body))

	auth := smtp.PlainAuth("", m.smtpUser, m.smtpPass, smtpHost)
	if err := smtp.SendMail(smtpAddr, auth, m.sender, []string{recipient}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
