package parts

import (
	"context"
	"fmt"
	"strings"

	"fictionhub/internal/common"
)

// Service — бизнес-логика частей историй.
type Service struct {
	repo *Repository
}

// NewService создаёт сервис частей.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Add добавляет часть в конец истории.
func (s *Service) Add(ctx context.Context, storyID, authorID int64, content string) (*Part, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, common.ErrEmptyContent
	}
	p := &Part{StoryID: storyID, AuthorID: authorID, Content: content}
	if err := s.repo.Add(ctx, p); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, p.ID)
}

// Get возвращает часть.
func (s *Service) Get(ctx context.Context, id int64) (*Part, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByStory возвращает части истории по порядку.
func (s *Service) ListByStory(ctx context.Context, storyID int64) ([]*Part, error) {
	return s.repo.ListByStory(ctx, storyID)
}

// Update меняет текст части. Разрешено автору части или автору истории.
func (s *Service) Update(ctx context.Context, userID, storyAuthorID, partID int64, content string) (*Part, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, common.ErrEmptyContent
	}
	p, err := s.repo.GetByID(ctx, partID)
	if err != nil {
		return nil, err
	}
	if p.AuthorID != userID && storyAuthorID != userID {
		return nil, common.ErrForbidden
	}
	if err := s.repo.UpdateContent(ctx, partID, content); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, partID)
}

// Delete удаляет часть. Разрешено автору части или автору истории.
func (s *Service) Delete(ctx context.Context, userID, storyAuthorID, partID int64) error {
	p, err := s.repo.GetByID(ctx, partID)
	if err != nil {
		return err
	}
	if p.AuthorID != userID && storyAuthorID != userID {
		return common.ErrForbidden
	}
	return s.repo.Delete(ctx, partID)
}

// ValidateReorder проверяет, что orders задаёт биекцию между частями
// истории и номерами 1..N: каждая часть присутствует, каждый номер
// встречается ровно один раз. Ошибка называет виновную часть или номер.
func ValidateReorder(existing []int64, orders map[int64]int) error {
	if len(orders) != len(existing) {
		return fmt.Errorf("%w: expected %d parts, got %d", common.ErrBadPartOrder, len(existing), len(orders))
	}
	seen := make(map[int]struct{}, len(orders))
	for _, id := range existing {
		order, ok := orders[id]
		if !ok {
			return fmt.Errorf("%w: part %d is missing", common.ErrBadPartOrder, id)
		}
		if order < 1 || order > len(existing) {
			return fmt.Errorf("%w: part %d has position %d outside 1..%d", common.ErrBadPartOrder, id, order, len(existing))
		}
		if _, dup := seen[order]; dup {
			return fmt.Errorf("%w: position %d is assigned twice", common.ErrBadPartOrder, order)
		}
		seen[order] = struct{}{}
	}
	return nil
}

// Reorder переставляет части истории. Разрешено только автору истории.
func (s *Service) Reorder(ctx context.Context, userID, storyID, storyAuthorID int64, orders map[int64]int) error {
	if storyAuthorID != userID {
		return common.ErrForbidden
	}
	existing, err := s.repo.IDsByStory(ctx, storyID)
	if err != nil {
		return err
	}
	if err := ValidateReorder(existing, orders); err != nil {
		return err
	}
	return s.repo.Reorder(ctx, storyID, orders)
}
