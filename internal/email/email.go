package email

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"careconnect/internal/config"
)

// Service handles sending email notifications over SMTP. When SMTP is not
// configured the service is a no-op.
type Service struct {
	cfg     *config.Config
	enabled bool
}

// NewService creates a new email service.
func NewService(cfg *config.Config) *Service {
	s := &Service{
		cfg:     cfg,
		enabled: cfg.IsEmailEnabled(),
	}

	if s.enabled {
		slog.Info("email notifications enabled", "smtp_host", cfg.SMTPHost, "smtp_port", cfg.SMTPPort)
	} else {
		slog.Info("email notifications disabled (SMTP not configured)")
	}

	return s
}

// IsEnabled returns true if email is enabled.
func (s *Service) IsEnabled() bool {
	return s.enabled
}

// Send sends a plain-text email to the specified recipients.
func (s *Service) Send(to []string, subject, body string) error {
	if !s.enabled || len(to) == 0 {
		return nil
	}

	from := s.cfg.SMTPFrom
	if s.cfg.SMTPFromName != "" {
		from = fmt.Sprintf("%s <%s>", s.cfg.SMTPFromName, s.cfg.SMTPFrom)
	}

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(to, ", ")))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)
	msg.WriteString("\r\n")

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" && s.cfg.SMTPPassword != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}

	return smtp.SendMail(addr, auth, s.cfg.SMTPFrom, to, []byte(msg.String()))
}

// SendAsync sends an email in a background goroutine, logging failures
// instead of surfacing them; notification delivery never blocks or fails a
// moderation request.
func (s *Service) SendAsync(to []string, subject, body string) {
	if !s.enabled || len(to) == 0 {
		return
	}
	go func() {
		if err := s.Send(to, subject, body); err != nil {
			slog.Error("failed to send email", "subject", subject, "error", err)
		}
	}()
}
