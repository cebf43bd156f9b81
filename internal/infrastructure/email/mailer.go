// Package email implementa el colaborador de salida de correo.
package email

import (
	"fmt"

	"github.com/rs/zerolog/log"
	gomail "gopkg.in/gomail.v2"

	"github.com/tu-usuario/venturelink-api/pkg/config"
)

// SMTPMailer envía correos vía SMTP. Cada Send abre y cierra su propia
// conexión: el volumen de este core (códigos de recuperación) no justifica
// mantener un dialer vivo.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer construye el mailer con la configuración SMTP.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

// Send envía un correo de texto plano.
func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("enviar email a %s: %w", to, err)
	}
	return nil
}

// LogMailer escribe el correo en el log en lugar de enviarlo. Se usa en
// desarrollo cuando no hay SMTP_HOST configurado.
type LogMailer struct{}

// NewLogMailer construye el mailer de desarrollo.
func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

// Send loguea el correo y nunca falla.
func (m *LogMailer) Send(to, subject, body string) error {
	log.Info().
		Str("to", to).
		Str("subject", subject).
		Str("body", body).
		Msg("email simulado (sin SMTP_HOST)")
	return nil
}
