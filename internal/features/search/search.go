// Package search — поиск историй по подстроке и тегу с постраничной
// выдачей.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"fictionhub/internal/features/stories"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

// Query — параметры поиска.
type Query struct {
	Text     string
	Tag      string
	Page     int
	PageSize int
}

// Result — страница результатов.
type Result struct {
	Stories  []*stories.StoryDetails
	Total    int
	Page     int
	PageSize int
}

// Service выполняет поиск историй.
type Service struct {
	pool *pgxpool.Pool
	repo *stories.Repository
}

// NewService создаёт сервис поиска.
func NewService(pool *pgxpool.Pool, repo *stories.Repository) *Service {
	return &Service{pool: pool, repo: repo}
}

// Normalize приводит параметры к допустимым границам: страница не
// меньше первой, размер страницы в пределах 1..50, по умолчанию 10.
func (q Query) Normalize() Query {
	q.Text = strings.TrimSpace(q.Text)
	q.Tag = strings.ToLower(strings.TrimSpace(q.Tag))
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = defaultPageSize
	}
	if q.PageSize > maxPageSize {
		q.PageSize = maxPageSize
	}
	return q
}

// Search ищет истории по подстроке в заголовке, аннотации или тексте
// частей без учёта регистра, с необязательным фильтром по тегу.
// Приватные истории попадают в выдачу только для их автора, viewerID
// нулевой для анонимного запроса.
func (s *Service) Search(ctx context.Context, viewerID int64, q Query) (*Result, error) {
	q = q.Normalize()

	where := `WHERE ($1 = '' OR s.title ILIKE '%' || $1 || '%' OR s.annotation ILIKE '%' || $1 || '%'
	              OR EXISTS (
	                  SELECT 1 FROM story_parts p
	                  WHERE p.story_id = s.id AND p.content ILIKE '%' || $1 || '%'))
	          AND ($2 = '' OR EXISTS (
	              SELECT 1 FROM story_tags st JOIN tags t ON t.id = st.tag_id
	              WHERE st.story_id = s.id AND t.name = $2))
	          AND (NOT s.is_private OR s.author_id = $3)`

	var total int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM stories s `+where, q.Text, q.Tag, viewerID).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("ошибка подсчёта результатов поиска: %w", err)
	}

	ids := make([]int64, 0, q.PageSize)
	rows, err := s.pool.Query(ctx,
		`SELECT s.id FROM stories s `+where+` ORDER BY s.created_at DESC LIMIT $4 OFFSET $5`,
		q.Text, q.Tag, viewerID, q.PageSize, (q.Page-1)*q.PageSize)
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска историй: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("ошибка чтения результата поиска: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	found := make([]*stories.StoryDetails, 0, len(ids))
	for _, id := range ids {
		d, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		found = append(found, d)
	}

	return &Result{Stories: found, Total: total, Page: q.Page, PageSize: q.PageSize}, nil
}
