package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPMailer delivers verification and recovery mail over plain SMTP with
// AUTH. Nothing in the message bodies is user-controlled beyond the address.
type SMTPMailer struct {
	addr string
	auth smtp.Auth
	from string
}

// NewSMTPMailer creates a mailer for the given SMTP endpoint.
func NewSMTPMailer(host, port, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		addr: host + ":" + port,
		auth: smtp.PlainAuth("", username, password, host),
		from: from,
	}
}

// SendVerificationCode mails a six-digit verification code.
func (m *SMTPMailer) SendVerificationCode(ctx context.Context, to, code string) error {
	body := fmt.Sprintf("Your verification code is %s.\r\nIt expires in 30 minutes.\r\n", code)
	return m.send(ctx, to, "Email verification code", body)
}

// SendTemporaryPassword mails a freshly issued temporary password.
func (m *SMTPMailer) SendTemporaryPassword(ctx context.Context, to, password string) error {
	body := fmt.Sprintf("Your temporary password is %s\r\nPlease change it after logging in.\r\n", password)
	return m.send(ctx, to, "Temporary password issued", body)
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	return smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg.String()))
}
