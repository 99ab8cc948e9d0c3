package moderation

import (
	"context"

	"fictionhub/internal/features/reports"
	"fictionhub/internal/features/stories"
	"fictionhub/internal/features/users"
)

// Store — всё, что консоли нужно от платформы. Узкий интерфейс
// позволяет подменять хранилище фальшивкой в тестах.
type Store interface {
	RecentReports(ctx context.Context, limit int) ([]*reports.Report, error)
	GetStory(ctx context.Context, id int64) (*stories.StoryDetails, error)
	DeleteStoryCascade(ctx context.Context, id int64) error
	GetUser(ctx context.Context, id int64) (*users.User, error)
}

// repoStore — боевая реализация Store поверх репозиториев платформы.
type repoStore struct {
	reports *reports.Repository
	stories *stories.Repository
	users   *users.Repository
}

// NewStore собирает Store из репозиториев.
func NewStore(rep *reports.Repository, st *stories.Repository, us *users.Repository) Store {
	return &repoStore{reports: rep, stories: st, users: us}
}

func (s *repoStore) RecentReports(ctx context.Context, limit int) ([]*reports.Report, error) {
	return s.reports.Recent(ctx, limit)
}

func (s *repoStore) GetStory(ctx context.Context, id int64) (*stories.StoryDetails, error) {
	return s.stories.GetByID(ctx, id)
}

func (s *repoStore) DeleteStoryCascade(ctx context.Context, id int64) error {
	return s.stories.DeleteCascade(ctx, id)
}

func (s *repoStore) GetUser(ctx context.Context, id int64) (*users.User, error) {
	return s.users.GetByID(ctx, id)
}
