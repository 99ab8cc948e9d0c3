package reports

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"fictionhub/internal/common"
)

// Notifier извещает модераторов о новой жалобе. Реализуется консолью
// модерации; уведомление не влияет на судьбу самой жалобы.
type Notifier interface {
	NotifyNewReport(rep *Report)
}

// Storage — всё, что сервису нужно от хранилища жалоб. Боевая
// реализация — *Repository.
type Storage interface {
	Create(ctx context.Context, rep *Report) error
	GetByID(ctx context.Context, id int64) (*Report, error)
	Recent(ctx context.Context, limit int) ([]*Report, error)
	StoryExists(ctx context.Context, storyID int64) (bool, error)
}

const (
	maxReasonLen  = 100
	maxDetailsLen = 1000
)

// Service — бизнес-логика жалоб.
type Service struct {
	repo     Storage
	notifier Notifier
}

// NewService создаёт сервис жалоб. notifier может быть nil.
func NewService(repo Storage, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

// Create регистрирует жалобу и извещает модераторов. Ошибка
// уведомления только логируется: жалоба уже сохранена.
func (s *Service) Create(ctx context.Context, storyID, reporterID int64, reason, details string) (*Report, error) {
	reason = strings.TrimSpace(reason)
	details = strings.TrimSpace(details)
	if reason == "" {
		return nil, fmt.Errorf("%w: report reason is required", common.ErrInvalidInput)
	}
	if len(reason) > maxReasonLen {
		return nil, fmt.Errorf("%w: report reason is limited to %d characters", common.ErrInvalidInput, maxReasonLen)
	}
	if len(details) > maxDetailsLen {
		return nil, fmt.Errorf("%w: report details are limited to %d characters", common.ErrInvalidInput, maxDetailsLen)
	}

	exists, err := s.repo.StoryExists(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, common.ErrNotFound
	}

	rep := &Report{StoryID: storyID, ReporterID: reporterID, Reason: reason, Details: details}
	if err := s.repo.Create(ctx, rep); err != nil {
		return nil, err
	}

	full, err := s.repo.GetByID(ctx, rep.ID)
	if err != nil {
		log.WithError(err).WithField("report_id", rep.ID).
			Warn("Жалоба сохранена, но не удалось загрузить её для уведомления")
		return rep, nil
	}
	if s.notifier != nil {
		s.notifier.NotifyNewReport(full)
	}
	return full, nil
}

// Recent возвращает последние жалобы.
func (s *Service) Recent(ctx context.Context, limit int) ([]*Report, error) {
	return s.repo.Recent(ctx, limit)
}

// Get возвращает жалобу.
func (s *Service) Get(ctx context.Context, id int64) (*Report, error) {
	return s.repo.GetByID(ctx, id)
}
