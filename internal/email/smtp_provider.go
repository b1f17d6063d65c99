package email

import (
	"fmt"

	"tranzit_backend/internal/config"

	"gopkg.in/gomail.v2"
)

// SMTPProvider реализует Provider поверх gomail
type SMTPProvider struct {
	cfg      *config.Config
	renderer *TemplateManager
}

// NewSMTPProvider создает новый SMTP провайдер
func NewSMTPProvider(cfg *config.Config) *SMTPProvider {
	return &SMTPProvider{
		cfg:      cfg,
		renderer: NewTemplateManager(),
	}
}

// Send отправляет HTML-письмо
func (p *SMTPProvider) Send(to, subject, htmlBody string) error {
	if err := p.Validate(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", p.cfg.Email.FromEmail, p.cfg.Email.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(
		p.cfg.Email.SMTPHost,
		p.cfg.Email.SMTPPort,
		p.cfg.Email.SMTPUsername,
		p.cfg.Email.SMTPPassword,
	)

	return d.DialAndSend(m)
}

// SendVerification отправляет письмо подтверждения адреса
func (p *SMTPProvider) SendVerification(to string, token string) error {
	body, err := p.renderer.Render(TemplateVerification, TemplateData{
		"VerifyLink": fmt.Sprintf("%s?token=%s", p.cfg.Email.VerifyURL, token),
	})
	if err != nil {
		return fmt.Errorf("failed to render verification template: %w", err)
	}

	return p.Send(to, "Подтверждение регистрации", body)
}

// Validate проверяет конфигурацию SMTP
func (p *SMTPProvider) Validate() error {
	if p.cfg.Email.SMTPHost == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if p.cfg.Email.SMTPPort <= 0 || p.cfg.Email.SMTPPort > 65535 {
		return fmt.Errorf("invalid SMTP port: %d", p.cfg.Email.SMTPPort)
	}
	return nil
}
