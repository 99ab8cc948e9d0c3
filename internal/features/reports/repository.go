package reports

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fictionhub/internal/common"
)

// Repository — доступ к жалобам в PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository создаёт репозиторий жалоб.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// StoryExists проверяет, что история существует.
func (r *Repository) StoryExists(ctx context.Context, storyID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM stories WHERE id = $1)`, storyID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки истории: %w", err)
	}
	return exists, nil
}

// Create сохраняет жалобу. Повторная жалоба того же пользователя на ту
// же историю возвращает common.ErrAlreadyExists.
func (r *Repository) Create(ctx context.Context, rep *Report) error {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM reports WHERE story_id = $1 AND reporter_id = $2)`,
		rep.StoryID, rep.ReporterID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("ошибка проверки жалобы: %w", err)
	}
	if exists {
		return common.ErrAlreadyExists
	}

	err = r.pool.QueryRow(ctx,
		`INSERT INTO reports (story_id, reporter_id, reason, details)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		rep.StoryID, rep.ReporterID, rep.Reason, rep.Details,
	).Scan(&rep.ID, &rep.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания жалобы: %w", err)
	}
	return nil
}

const reportQuery = `
	SELECT r.id, r.story_id, s.title, s.author_id, a.login, r.reporter_id, u.login, r.reason, r.details, r.created_at
	FROM reports r
	JOIN stories s ON s.id = r.story_id
	JOIN users a ON a.id = s.author_id
	JOIN users u ON u.id = r.reporter_id`

func scanReport(row pgx.Row) (*Report, error) {
	var rep Report
	err := row.Scan(
		&rep.ID, &rep.StoryID, &rep.StoryTitle, &rep.StoryAuthorID, &rep.StoryAuthorLogin,
		&rep.ReporterID, &rep.ReporterLogin, &rep.Reason, &rep.Details, &rep.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

// GetByID возвращает жалобу с данными истории и автора жалобы.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Report, error) {
	rep, err := scanReport(r.pool.QueryRow(ctx, reportQuery+` WHERE r.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения жалобы: %w", err)
	}
	return rep, nil
}

// Recent возвращает последние жалобы, не старше limit штук.
func (r *Repository) Recent(ctx context.Context, limit int) ([]*Report, error) {
	rows, err := r.pool.Query(ctx, reportQuery+` ORDER BY r.created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки жалоб: %w", err)
	}
	defer rows.Close()

	list := make([]*Report, 0, limit)
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения жалобы: %w", err)
		}
		list = append(list, rep)
	}
	return list, rows.Err()
}

// CountSince возвращает число жалоб, созданных за последние hours часов.
func (r *Repository) CountSince(ctx context.Context, hours int) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM reports WHERE created_at > NOW() - $1 * INTERVAL '1 hour'`,
		hours,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта жалоб: %w", err)
	}
	return count, nil
}
