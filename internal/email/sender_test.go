package email

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"fictionhub/internal/config"
)

func TestNewSenderPicksLogByDefault(t *testing.T) {
	s := NewSender(&config.Config{EmailSender: "log"})
	assert.IsType(t, &LogSender{}, s)

	s = NewSender(&config.Config{EmailSender: ""})
	assert.IsType(t, &LogSender{}, s)
}

func TestNewSenderPicksSMTP(t *testing.T) {
	s := NewSender(&config.Config{
		EmailSender: "smtp",
		SMTPHost:    "mail.example.com",
		SMTPPort:    587,
		SMTPFrom:    "noreply@example.com",
	})
	assert.IsType(t, &SMTPSender{}, s)
}

func TestLogSenderNeverFails(t *testing.T) {
	s := &LogSender{}
	assert.NoError(t, s.Send(context.Background(), "a@example.com", "Hi", "body"))
}
