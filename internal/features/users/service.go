// Package users — service.go содержит бизнес-логику учётных записей:
// регистрация с проверкой уникальности, вход с выпуском JWT,
// чтение и обновление профилей.
package users

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"fictionhub/internal/auth"
	"fictionhub/internal/common"
)

// Service управляет учётными записями.
type Service struct {
	repo   *Repository
	tokens *auth.TokenManager
}

// NewService создаёт сервис пользователей.
func NewService(repo *Repository, tokens *auth.TokenManager) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Register создаёт нового пользователя. Email должен быть уникальным.
func (s *Service) Register(ctx context.Context, login, email, password string) (*User, error) {
	login = strings.TrimSpace(login)
	email = strings.TrimSpace(email)

	if login == "" || email == "" || password == "" {
		return nil, common.ErrEmptyContent
	}

	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.ErrAlreadyExists
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &User{Login: login, Email: email, PasswordHash: hash}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("ошибка регистрации: %w", err)
	}

	log.WithFields(log.Fields{
		"user_id": u.ID,
		"login":   u.Login,
	}).Info("Новый пользователь зарегистрирован")

	return u, nil
}

// Login проверяет логин/пароль и возвращает JWT вместе с пользователем и профилем.
func (s *Service) Login(ctx context.Context, login, password string) (string, *User, *Profile, error) {
	u, err := s.repo.GetByLogin(ctx, login)
	if err != nil {
		// Не раскрываем, существует ли логин
		return "", nil, nil, common.ErrInvalidCredentials
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return "", nil, nil, common.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID, u.Login)
	if err != nil {
		return "", nil, nil, err
	}

	profile, err := s.repo.GetProfile(ctx, u.ID)
	if err != nil {
		// Профиль создаётся при регистрации; его отсутствие — аномалия, но вход не ломаем
		log.WithError(err).WithField("user_id", u.ID).Warn("Профиль не найден при входе")
		profile = &Profile{UserID: u.ID}
	}

	return token, u, profile, nil
}

// Get возвращает пользователя по id.
func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// List возвращает всех пользователей.
func (s *Service) List(ctx context.Context) ([]*User, error) {
	return s.repo.List(ctx)
}

// GetWithProfile возвращает пользователя вместе с профилем.
func (s *Service) GetWithProfile(ctx context.Context, id int64) (*User, *Profile, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	p, err := s.repo.GetProfile(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return u, p, nil
}

// GetFullProfile возвращает профиль со статистикой для страницы пользователя.
func (s *Service) GetFullProfile(ctx context.Context, id int64) (*User, *Profile, *Statistics, error) {
	u, p, err := s.GetWithProfile(ctx, id)
	if err != nil {
		return nil, nil, nil, err
	}
	st, err := s.repo.GetStatistics(ctx, id)
	if err != nil {
		return nil, nil, nil, err
	}
	return u, p, st, nil
}

// UpdateProfile обновляет описание и аватар профиля.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, upd ProfileUpdate) error {
	return s.repo.UpdateProfile(ctx, userID, upd)
}

// Update обновляет учётную запись и профиль, возвращает свежие данные.
func (s *Service) Update(ctx context.Context, userID int64, upd UserUpdate) (*User, *Profile, error) {
	if err := s.repo.Update(ctx, userID, upd); err != nil {
		return nil, nil, err
	}
	return s.GetWithProfile(ctx, userID)
}

// Delete удаляет учётную запись со всеми связанными записями.
func (s *Service) Delete(ctx context.Context, userID int64) error {
	return s.repo.Delete(ctx, userID)
}

// SetProfileImage сохраняет URL загруженного аватара.
func (s *Service) SetProfileImage(ctx context.Context, userID int64, url string) error {
	return s.repo.UpdateProfile(ctx, userID, ProfileUpdate{ProfileImage: &url})
}
