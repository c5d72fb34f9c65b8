package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"bgpanel/config"
)

// Sender delivers panel mail. Handlers depend on the interface so tests can
// capture outgoing messages.
type Sender interface {
	Send(to, subject, body string) error
}

type smtpSender struct {
	addr string
	from string
}

func NewSMTPSender(cfg config.MailConfig) Sender {
	return &smtpSender{addr: cfg.SMTPAddr, from: cfg.From}
}

func (s *smtpSender) Send(to, subject, body string) error {
	if s.addr == "" {
		return fmt.Errorf("smtp address is not configured")
	}
	msg := strings.Join([]string{
		"From: " + s.from,
		"To: " + to,
		"Subject: " + subject,
		"Date: " + time.Now().UTC().Format(time.RFC1123Z),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")
	return smtp.SendMail(s.addr, nil, s.from, []string{to}, []byte(msg))
}

// ResetMail builds the password reset notification sent to a user.
func ResetMail(newPassword, requestIP string) (subject, body string) {
	subject = "Reset Password"
	body = fmt.Sprintf(
		"Your password has been reset to:\n\n%s\n\nWith IP: %s\n",
		newPassword, requestIP)
	return subject, body
}
