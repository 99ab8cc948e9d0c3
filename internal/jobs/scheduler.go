// Package jobs — фоновые задачи по расписанию: уборка истёкших кодов
// подтверждения и ежедневная сводка по жалобам для модераторов.
package jobs

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"fictionhub/internal/features/confirmation"
	"fictionhub/internal/features/reports"
	"fictionhub/internal/moderation"
)

// Scheduler управляет cron-задачами.
type Scheduler struct {
	cron    *cron.Cron
	codes   *confirmation.Store
	reports *reports.Repository
	console *moderation.Console
}

// NewScheduler создаёт планировщик.
func NewScheduler(codes *confirmation.Store, rep *reports.Repository, console *moderation.Console) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		codes:   codes,
		reports: rep,
		console: console,
	}
}

// Start регистрирует задачи и запускает планировщик.
func (s *Scheduler) Start(ctx context.Context) error {
	// Каждый час: выметаем истёкшие коды подтверждения.
	_, err := s.cron.AddFunc("0 * * * *", func() {
		removed := s.codes.Sweep()
		if removed > 0 {
			log.WithField("removed", removed).Info("Истёкшие коды подтверждения удалены")
		}
	})
	if err != nil {
		return fmt.Errorf("ошибка регистрации уборки кодов: %w", err)
	}

	// Каждый день в 9 утра: сводка по жалобам за сутки.
	_, err = s.cron.AddFunc("0 9 * * *", func() {
		s.reportDigest(ctx)
	})
	if err != nil {
		return fmt.Errorf("ошибка регистрации сводки жалоб: %w", err)
	}

	s.cron.Start()
	log.Info("Планировщик фоновых задач запущен")
	return nil
}

// Stop останавливает планировщик и ждёт завершения бегущих задач.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info("Планировщик фоновых задач остановлен")
}

// reportDigest шлёт модераторам число жалоб за последние сутки.
// Пустые сутки не беспокоим.
func (s *Scheduler) reportDigest(ctx context.Context) {
	count, err := s.reports.CountSince(ctx, 24)
	if err != nil {
		log.WithError(err).Error("Ошибка подсчёта жалоб для сводки")
		return
	}
	if count == 0 {
		return
	}
	s.console.Broadcast(fmt.Sprintf("Daily digest: %d new report(s) in the last 24 hours. Use /reports to review.", count))
}
