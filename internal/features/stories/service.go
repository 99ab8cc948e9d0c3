package stories

import (
	"context"
	"fmt"
	"strings"

	"fictionhub/internal/common"
)

// Service — бизнес-логика историй.
type Service struct {
	repo *Repository
}

// NewService создаёт сервис историй.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// NormalizeTags приводит теги к каноническому виду: обрезает пробелы,
// переводит в нижний регистр, выбрасывает пустые и дубликаты. Порядок
// первых вхождений сохраняется.
func NormalizeTags(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Create создаёт историю от имени автора. Непустой firstPart
// становится первой частью истории в той же транзакции.
func (s *Service) Create(ctx context.Context, authorID int64, title, annotation, coverImage string, private bool, tags []string, firstPart string) (*StoryDetails, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: story title is required", common.ErrInvalidInput)
	}

	story := &Story{
		AuthorID:   authorID,
		Title:      title,
		Annotation: strings.TrimSpace(annotation),
		CoverImage: coverImage,
		Editable:   true,
		Private:    private,
	}
	if err := s.repo.Create(ctx, story, NormalizeTags(tags), strings.TrimSpace(firstPart)); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, story.ID)
}

// Get возвращает историю с агрегатами. Приватную историю видит только
// её автор: аноним получает ErrUnauthorized, чужой — ErrForbidden.
func (s *Service) Get(ctx context.Context, viewerID, id int64) (*StoryDetails, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Private && d.AuthorID != viewerID {
		if viewerID == 0 {
			return nil, common.ErrUnauthorized
		}
		return nil, common.ErrForbidden
	}
	return d, nil
}

// List возвращает истории, видимые зрителю.
func (s *Service) List(ctx context.Context, viewerID int64) ([]*StoryDetails, error) {
	return s.repo.List(ctx, viewerID)
}

// ListByAuthor — истории, начатые пользователем.
func (s *Service) ListByAuthor(ctx context.Context, authorID, viewerID int64) ([]*StoryDetails, error) {
	return s.repo.ListByAuthor(ctx, authorID, viewerID)
}

// ListContributions — чужие истории с частями пользователя.
func (s *Service) ListContributions(ctx context.Context, userID, viewerID int64) ([]*StoryDetails, error) {
	return s.repo.ListContributions(ctx, userID, viewerID)
}

// Update меняет историю. Разрешено только автору.
func (s *Service) Update(ctx context.Context, userID, storyID int64, upd StoryUpdate) (*StoryDetails, error) {
	authorID, err := s.repo.AuthorOf(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if authorID != userID {
		return nil, common.ErrForbidden
	}
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return nil, fmt.Errorf("%w: story title is required", common.ErrInvalidInput)
	}
	if upd.Tags != nil {
		upd.Tags = NormalizeTags(upd.Tags)
	}
	if err := s.repo.Update(ctx, storyID, upd); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, storyID)
}

// Delete удаляет историю со всем содержимым. Разрешено только автору;
// модерация ходит в репозиторий напрямую.
func (s *Service) Delete(ctx context.Context, userID, storyID int64) error {
	authorID, err := s.repo.AuthorOf(ctx, storyID)
	if err != nil {
		return err
	}
	if authorID != userID {
		return common.ErrForbidden
	}
	return s.repo.DeleteCascade(ctx, storyID)
}
