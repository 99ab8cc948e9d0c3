// Package likes реализует лайки историй: одна отметка на пару
// (история, пользователь); повторный лайк снимает отметку.
package likes

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fictionhub/internal/common"
)

// Repository — доступ к лайкам в PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository создаёт репозиторий лайков.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Toggle ставит или снимает лайк одной транзакцией вместе со счётчиком
// полученных лайков автора истории. Возвращает true, если лайк
// поставлен, и итоговое число лайков у истории.
func (r *Repository) Toggle(ctx context.Context, storyID, userID int64) (bool, int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, 0, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	var storyAuthorID int64
	err = tx.QueryRow(ctx, `SELECT author_id FROM stories WHERE id = $1 FOR UPDATE`, storyID).Scan(&storyAuthorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, 0, common.ErrNotFound
		}
		return false, 0, fmt.Errorf("ошибка получения истории: %w", err)
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM likes WHERE story_id = $1 AND user_id = $2`, storyID, userID)
	if err != nil {
		return false, 0, fmt.Errorf("ошибка снятия лайка: %w", err)
	}

	liked := tag.RowsAffected() == 0
	delta := -1
	if liked {
		delta = 1
		_, err = tx.Exec(ctx,
			`INSERT INTO likes (story_id, user_id) VALUES ($1, $2)`, storyID, userID)
		if err != nil {
			return false, 0, fmt.Errorf("ошибка установки лайка: %w", err)
		}
	}

	_, err = tx.Exec(ctx,
		`UPDATE user_statistics SET likes_received = likes_received + $2 WHERE user_id = $1`,
		storyAuthorID, delta)
	if err != nil {
		return false, 0, fmt.Errorf("ошибка обновления статистики автора: %w", err)
	}

	var count int
	err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM likes WHERE story_id = $1`, storyID).Scan(&count)
	if err != nil {
		return false, 0, fmt.Errorf("ошибка подсчёта лайков: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, 0, err
	}
	return liked, count, nil
}

// IsLiked сообщает, лайкнул ли пользователь историю.
func (r *Repository) IsLiked(ctx context.Context, storyID, userID int64) (bool, error) {
	var liked bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM likes WHERE story_id = $1 AND user_id = $2)`,
		storyID, userID,
	).Scan(&liked)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки лайка: %w", err)
	}
	return liked, nil
}

// Count возвращает число лайков истории.
func (r *Repository) Count(ctx context.Context, storyID int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM likes WHERE story_id = $1`, storyID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта лайков: %w", err)
	}
	return count, nil
}
