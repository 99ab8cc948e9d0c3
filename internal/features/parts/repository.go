package parts

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fictionhub/internal/common"
)

// Repository — доступ к частям историй в PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository создаёт репозиторий частей.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Add добавляет часть в конец истории одной транзакцией: номер
// вычисляется как max+1, при первом вкладе чужого автора растёт его
// счётчик участия.
func (r *Repository) Add(ctx context.Context, p *Part) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	var storyAuthorID int64
	var editable bool
	err = tx.QueryRow(ctx,
		`SELECT author_id, editable FROM stories WHERE id = $1 FOR UPDATE`,
		p.StoryID,
	).Scan(&storyAuthorID, &editable)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.ErrNotFound
		}
		return fmt.Errorf("ошибка получения истории: %w", err)
	}
	if !editable {
		return common.ErrStoryNotEditable
	}

	var hadParts bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM story_parts WHERE story_id = $1 AND author_id = $2)`,
		p.StoryID, p.AuthorID,
	).Scan(&hadParts)
	if err != nil {
		return fmt.Errorf("ошибка проверки вклада автора: %w", err)
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO story_parts (story_id, author_id, part_order, content)
		 VALUES ($1, $2,
		         (SELECT COALESCE(MAX(part_order), 0) + 1 FROM story_parts WHERE story_id = $1),
		         $3)
		 RETURNING id, part_order, created_at`,
		p.StoryID, p.AuthorID, p.Content,
	).Scan(&p.ID, &p.Order, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка добавления части: %w", err)
	}

	if !hadParts && p.AuthorID != storyAuthorID {
		_, err = tx.Exec(ctx,
			`UPDATE user_statistics SET stories_contributed = stories_contributed + 1 WHERE user_id = $1`,
			p.AuthorID)
		if err != nil {
			return fmt.Errorf("ошибка обновления статистики участника: %w", err)
		}
	}

	return tx.Commit(ctx)
}

const partQuery = `
	SELECT p.id, p.story_id, p.author_id, u.login, p.part_order, p.content, p.created_at
	FROM story_parts p
	JOIN users u ON u.id = p.author_id`

func scanPart(row pgx.Row) (*Part, error) {
	var p Part
	err := row.Scan(&p.ID, &p.StoryID, &p.AuthorID, &p.AuthorLogin, &p.Order, &p.Content, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID возвращает часть по идентификатору.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Part, error) {
	p, err := scanPart(r.pool.QueryRow(ctx, partQuery+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения части: %w", err)
	}
	return p, nil
}

// ListByStory возвращает части истории по порядку.
func (r *Repository) ListByStory(ctx context.Context, storyID int64) ([]*Part, error) {
	rows, err := r.pool.Query(ctx, partQuery+` WHERE p.story_id = $1 ORDER BY p.part_order`, storyID)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки частей: %w", err)
	}
	defer rows.Close()

	list := make([]*Part, 0)
	for rows.Next() {
		p, err := scanPart(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения части: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// UpdateContent меняет текст части.
func (r *Repository) UpdateContent(ctx context.Context, id int64, content string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE story_parts SET content = $2 WHERE id = $1`, id, content)
	if err != nil {
		return fmt.Errorf("ошибка обновления части: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

// Delete удаляет часть и сдвигает номера последующих частей вниз,
// сохраняя плотную нумерацию 1..N.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	var storyID int64
	var order int
	err = tx.QueryRow(ctx,
		`DELETE FROM story_parts WHERE id = $1 RETURNING story_id, part_order`, id,
	).Scan(&storyID, &order)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.ErrNotFound
		}
		return fmt.Errorf("ошибка удаления части: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE story_parts SET part_order = part_order - 1
		 WHERE story_id = $1 AND part_order > $2`,
		storyID, order)
	if err != nil {
		return fmt.Errorf("ошибка перенумерации частей: %w", err)
	}

	return tx.Commit(ctx)
}

// Reorder задаёт новые номера частям истории. orders — отображение
// id части в новый номер; валидность перестановки проверяет сервис.
func (r *Repository) Reorder(ctx context.Context, storyID int64, orders map[int64]int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	// Уникальность (story_id, part_order) объявлена отложенной,
	// поэтому промежуточные состояния внутри транзакции допустимы.
	for id, order := range orders {
		tag, err := tx.Exec(ctx,
			`UPDATE story_parts SET part_order = $3 WHERE id = $1 AND story_id = $2`,
			id, storyID, order)
		if err != nil {
			return fmt.Errorf("ошибка перенумерации части %d: %w", id, err)
		}
		if tag.RowsAffected() == 0 {
			return common.ErrBadPartOrder
		}
	}

	return tx.Commit(ctx)
}

// IDsByStory возвращает идентификаторы частей истории.
func (r *Repository) IDsByStory(ctx context.Context, storyID int64) ([]int64, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id FROM story_parts WHERE story_id = $1 ORDER BY part_order`, storyID)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки частей: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("ошибка чтения идентификатора части: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
