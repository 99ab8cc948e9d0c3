package comments

import (
	"context"
	"strings"

	"fictionhub/internal/common"
)

// Service — бизнес-логика комментариев.
type Service struct {
	repo *Repository
}

// NewService создаёт сервис комментариев.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create добавляет комментарий к истории.
func (s *Service) Create(ctx context.Context, storyID, authorID int64, content string) (*Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, common.ErrEmptyContent
	}
	c := &Comment{StoryID: storyID, AuthorID: authorID, Content: content}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, c.ID)
}

// Get возвращает комментарий.
func (s *Service) Get(ctx context.Context, id int64) (*Comment, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByStory возвращает комментарии истории.
func (s *Service) ListByStory(ctx context.Context, storyID int64) ([]*Comment, error) {
	return s.repo.ListByStory(ctx, storyID)
}

// Delete удаляет комментарий. Разрешено автору комментария или автору
// истории, под которой он оставлен.
func (s *Service) Delete(ctx context.Context, userID, commentID int64) error {
	c, err := s.repo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if c.AuthorID != userID {
		storyAuthorID, err := s.repo.StoryAuthor(ctx, c.StoryID)
		if err != nil {
			return err
		}
		if storyAuthorID != userID {
			return common.ErrForbidden
		}
	}
	return s.repo.Delete(ctx, commentID)
}
