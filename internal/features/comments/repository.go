package comments

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fictionhub/internal/common"
)

// Repository — доступ к комментариям в PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository создаёт репозиторий комментариев.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create сохраняет комментарий и увеличивает счётчик полученных
// комментариев у автора истории одной транзакцией. Комментарии автора
// под собственной историей счётчик не трогают.
func (r *Repository) Create(ctx context.Context, c *Comment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	var storyAuthorID int64
	err = tx.QueryRow(ctx, `SELECT author_id FROM stories WHERE id = $1`, c.StoryID).Scan(&storyAuthorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.ErrNotFound
		}
		return fmt.Errorf("ошибка получения истории: %w", err)
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO comments (story_id, author_id, content)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		c.StoryID, c.AuthorID, c.Content,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания комментария: %w", err)
	}

	if storyAuthorID != c.AuthorID {
		_, err = tx.Exec(ctx,
			`UPDATE user_statistics SET comments_received = comments_received + 1 WHERE user_id = $1`,
			storyAuthorID)
		if err != nil {
			return fmt.Errorf("ошибка обновления статистики автора: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// GetByID возвращает комментарий.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Comment, error) {
	var c Comment
	err := r.pool.QueryRow(ctx,
		`SELECT c.id, c.story_id, c.author_id, u.login, c.content, c.created_at
		 FROM comments c JOIN users u ON u.id = c.author_id
		 WHERE c.id = $1`, id,
	).Scan(&c.ID, &c.StoryID, &c.AuthorID, &c.AuthorLogin, &c.Content, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения комментария: %w", err)
	}
	return &c, nil
}

// ListByStory возвращает комментарии истории от новых к старым.
func (r *Repository) ListByStory(ctx context.Context, storyID int64) ([]*Comment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT c.id, c.story_id, c.author_id, u.login, c.content, c.created_at
		 FROM comments c JOIN users u ON u.id = c.author_id
		 WHERE c.story_id = $1
		 ORDER BY c.created_at DESC`, storyID)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки комментариев: %w", err)
	}
	defer rows.Close()

	list := make([]*Comment, 0)
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.StoryID, &c.AuthorID, &c.AuthorLogin, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка чтения комментария: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// StoryAuthor возвращает автора истории.
func (r *Repository) StoryAuthor(ctx context.Context, storyID int64) (int64, error) {
	var authorID int64
	err := r.pool.QueryRow(ctx, `SELECT author_id FROM stories WHERE id = $1`, storyID).Scan(&authorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, common.ErrNotFound
		}
		return 0, fmt.Errorf("ошибка получения автора истории: %w", err)
	}
	return authorID, nil
}

// Delete удаляет комментарий.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления комментария: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}
