package infra

import (
	"fmt"
	"net/smtp"

	"citycut/internal/config"

	"github.com/jordan-wright/email"
	"github.com/sony/gobreaker"
)

// Mailer wraps SMTP configuration for sending the scheduled report emails.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
	cb       *gobreaker.CircuitBreaker
	send     func(e *email.Email, addr string, auth smtp.Auth) error
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		cb:       NewBreaker("smtp", DefaultBreakerConfig()),
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// Enabled reports whether an SMTP host is configured.
func (m *Mailer) Enabled() bool { return m.host != "" }

// SendReport mails body to recipients with the PDF at pdfPath attached.
func (m *Mailer) SendReport(to []string, subject, body, pdfPath string) error {
	if len(to) == 0 {
		return fmt.Errorf("mailer: no recipients")
	}
	e := email.NewEmail()
	e.From = fmt.Sprintf("CityCut Reports <%s>", m.user)
	e.To = to
	e.Subject = subject
	e.Text = []byte(body)

	if pdfPath != "" {
		if _, err := e.AttachFile(pdfPath); err != nil {
			return fmt.Errorf("mailer: attach PDF: %w", err)
		}
	}

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return guard(m.cb, func() error { return m.send(e, m.addr, auth) })
}
