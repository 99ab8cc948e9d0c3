package confirmation

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	log "github.com/sirupsen/logrus"

	"fictionhub/internal/email"
)

// Service генерирует коды подтверждения и рассылает их почтой.
type Service struct {
	store  *Store
	sender email.Sender
}

// NewService создаёт сервис подтверждения.
func NewService(store *Store, sender email.Sender) *Service {
	return &Service{store: store, sender: sender}
}

// generateCode возвращает случайный шестизначный код.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("ошибка генерации кода: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Request генерирует код для адреса и отправляет его письмом.
func (s *Service) Request(ctx context.Context, to string) error {
	code, err := generateCode()
	if err != nil {
		return err
	}
	s.store.Put(to, code)

	body := fmt.Sprintf("Your confirmation code is %s. It expires in 5 minutes.", code)
	if err := s.sender.Send(ctx, to, "Confirmation code", body); err != nil {
		return fmt.Errorf("ошибка отправки кода подтверждения: %w", err)
	}

	log.WithField("email", to).Debug("Код подтверждения отправлен")
	return nil
}

// Confirm проверяет код для адреса.
func (s *Service) Confirm(email, code string) bool {
	return s.store.Verify(email, code)
}
