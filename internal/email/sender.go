// Package email — шлюз уведомлений. Отправка писем best-effort:
// вызывающий код логирует ошибку и продолжает, письмо никогда не
// блокирует и не откатывает основную операцию.
package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	log "github.com/sirupsen/logrus"

	"fictionhub/internal/config"
)

// Sender отправляет письмо получателю.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// NewSender выбирает реализацию по конфигурации:
// "smtp" — настоящая отправка, иначе — только лог (для разработки и тестов).
func NewSender(cfg *config.Config) Sender {
	switch cfg.EmailSender {
	case "smtp":
		return &SMTPSender{
			host: cfg.SMTPHost,
			port: cfg.SMTPPort,
			user: cfg.SMTPUser,
			pass: cfg.SMTPPass,
			from: cfg.SMTPFrom,
		}
	default:
		return &LogSender{}
	}
}

// LogSender пишет письмо в лог вместо отправки.
type LogSender struct{}

func (s *LogSender) Send(_ context.Context, to, subject, body string) error {
	log.WithFields(log.Fields{
		"to":      to,
		"subject": subject,
		"body":    body,
	}).Info("Письмо (log-режим, не отправлено)")
	return nil
}

// SMTPSender отправляет письма через SMTP с PLAIN-аутентификацией.
type SMTPSender struct {
	host string
	port int
	user string
	pass string
	from string
}

func (s *SMTPSender) Send(_ context.Context, to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", s.host, s.port)

	var msg strings.Builder
	msg.WriteString("From: " + s.from + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body + "\r\n")

	var auth smtp.Auth
	if s.user != "" {
		auth = smtp.PlainAuth("", s.user, s.pass, s.host)
	}

	if err := smtp.SendMail(addr, auth, s.from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("ошибка отправки письма на %s: %w", to, err)
	}
	return nil
}
