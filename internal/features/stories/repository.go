package stories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fictionhub/internal/common"
)

// Repository — доступ к историям в PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository создаёт репозиторий историй.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create сохраняет историю, её теги и необязательную первую часть
// одной транзакцией и увеличивает счётчик начатых историй автора.
func (r *Repository) Create(ctx context.Context, s *Story, tags []string, firstPart string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO stories (author_id, title, annotation, cover_image, editable, is_private)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		s.AuthorID, s.Title, s.Annotation, s.CoverImage, s.Editable, s.Private,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания истории: %w", err)
	}

	if err := attachTags(ctx, tx, s.ID, tags); err != nil {
		return err
	}

	if firstPart != "" {
		_, err = tx.Exec(ctx,
			`INSERT INTO story_parts (story_id, author_id, content, part_order)
			 VALUES ($1, $2, $3, 1)`,
			s.ID, s.AuthorID, firstPart)
		if err != nil {
			return fmt.Errorf("ошибка создания первой части: %w", err)
		}
	}

	_, err = tx.Exec(ctx,
		`UPDATE user_statistics SET stories_started = stories_started + 1 WHERE user_id = $1`,
		s.AuthorID)
	if err != nil {
		return fmt.Errorf("ошибка обновления статистики автора: %w", err)
	}

	return tx.Commit(ctx)
}

// attachTags переводит список имён тегов в связки story_tags.
// Существующие теги переиспользуются, новые создаются.
func attachTags(ctx context.Context, tx pgx.Tx, storyID int64, tags []string) error {
	for _, name := range tags {
		var tagID int64
		err := tx.QueryRow(ctx,
			`INSERT INTO tags (name) VALUES ($1)
			 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			 RETURNING id`,
			name,
		).Scan(&tagID)
		if err != nil {
			return fmt.Errorf("ошибка сохранения тега %q: %w", name, err)
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO story_tags (story_id, tag_id) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`,
			storyID, tagID)
		if err != nil {
			return fmt.Errorf("ошибка привязки тега %q: %w", name, err)
		}
	}
	return nil
}

const detailsQuery = `
	SELECT s.id, s.author_id, s.title, s.annotation, s.cover_image, s.editable, s.is_private, s.created_at,
	       u.login,
	       (SELECT COUNT(*) FROM story_parts p WHERE p.story_id = s.id),
	       (SELECT COUNT(*) FROM likes l WHERE l.story_id = s.id),
	       (SELECT COUNT(*) FROM comments c WHERE c.story_id = s.id)
	FROM stories s
	JOIN users u ON u.id = s.author_id`

func scanDetails(row pgx.Row) (*StoryDetails, error) {
	var d StoryDetails
	err := row.Scan(
		&d.ID, &d.AuthorID, &d.Title, &d.Annotation, &d.CoverImage, &d.Editable, &d.Private, &d.CreatedAt,
		&d.AuthorLogin, &d.PartsCount, &d.LikesCount, &d.CommentsCount,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// GetByID возвращает историю со счётчиками и тегами.
func (r *Repository) GetByID(ctx context.Context, id int64) (*StoryDetails, error) {
	d, err := scanDetails(r.pool.QueryRow(ctx, detailsQuery+` WHERE s.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения истории: %w", err)
	}
	d.Tags, err = r.tagsFor(ctx, id)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *Repository) tagsFor(ctx context.Context, storyID int64) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT t.name FROM tags t
		 JOIN story_tags st ON st.tag_id = t.id
		 WHERE st.story_id = $1
		 ORDER BY t.name`,
		storyID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения тегов: %w", err)
	}
	defer rows.Close()

	tags := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("ошибка чтения тега: %w", err)
		}
		tags = append(tags, name)
	}
	return tags, rows.Err()
}

func (r *Repository) collect(ctx context.Context, query string, args ...any) ([]*StoryDetails, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки историй: %w", err)
	}
	defer rows.Close()

	list := make([]*StoryDetails, 0)
	for rows.Next() {
		d, err := scanDetails(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения истории: %w", err)
		}
		list = append(list, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, d := range list {
		if d.Tags, err = r.tagsFor(ctx, d.ID); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// List возвращает истории от новых к старым. Приватные истории видит
// только их автор, viewerID нулевой для анонимного запроса.
func (r *Repository) List(ctx context.Context, viewerID int64) ([]*StoryDetails, error) {
	return r.collect(ctx, detailsQuery+`
		WHERE NOT s.is_private OR s.author_id = $1
		ORDER BY s.created_at DESC`, viewerID)
}

// ListByAuthor — истории, начатые пользователем.
func (r *Repository) ListByAuthor(ctx context.Context, authorID, viewerID int64) ([]*StoryDetails, error) {
	return r.collect(ctx, detailsQuery+`
		WHERE s.author_id = $1 AND (NOT s.is_private OR s.author_id = $2)
		ORDER BY s.created_at DESC`, authorID, viewerID)
}

// ListContributions — чужие истории, в которые пользователь писал части.
func (r *Repository) ListContributions(ctx context.Context, userID, viewerID int64) ([]*StoryDetails, error) {
	return r.collect(ctx, detailsQuery+`
		WHERE s.id IN (SELECT DISTINCT p.story_id FROM story_parts p WHERE p.author_id = $1)
		  AND s.author_id <> $1
		  AND (NOT s.is_private OR s.author_id = $2)
		ORDER BY s.created_at DESC`, userID, viewerID)
}

// Update применяет частичное обновление. Теги при ненулевом срезе
// пересобираются заново.
func (r *Repository) Update(ctx context.Context, id int64, upd StoryUpdate) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE stories SET
			title      = COALESCE($2, title),
			annotation = COALESCE($3, annotation),
			cover_image = COALESCE($4, cover_image),
			editable   = COALESCE($5, editable),
			is_private = COALESCE($6, is_private)
		 WHERE id = $1`,
		id, upd.Title, upd.Annotation, upd.CoverImage, upd.Editable, upd.Private)
	if err != nil {
		return fmt.Errorf("ошибка обновления истории: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}

	if upd.Tags != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM story_tags WHERE story_id = $1`, id); err != nil {
			return fmt.Errorf("ошибка очистки тегов: %w", err)
		}
		if err := attachTags(ctx, tx, id, upd.Tags); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// AuthorOf возвращает автора истории.
func (r *Repository) AuthorOf(ctx context.Context, id int64) (int64, error) {
	var authorID int64
	err := r.pool.QueryRow(ctx, `SELECT author_id FROM stories WHERE id = $1`, id).Scan(&authorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, common.ErrNotFound
		}
		return 0, fmt.Errorf("ошибка получения автора истории: %w", err)
	}
	return authorID, nil
}

// AccessInfo возвращает автора и признак приватности истории.
func (r *Repository) AccessInfo(ctx context.Context, id int64) (authorID int64, private bool, err error) {
	err = r.pool.QueryRow(ctx,
		`SELECT author_id, is_private FROM stories WHERE id = $1`, id,
	).Scan(&authorID, &private)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, common.ErrNotFound
		}
		return 0, false, fmt.Errorf("ошибка получения истории: %w", err)
	}
	return authorID, private, nil
}

// DeleteCascade удаляет историю со всем содержимым одной транзакцией:
// комментарии, лайки, жалобы, теги, части и сама история. Либо всё,
// либо ничего.
func (r *Repository) DeleteCascade(ctx context.Context, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, q := range []string{
		`DELETE FROM comments WHERE story_id = $1`,
		`DELETE FROM likes WHERE story_id = $1`,
		`DELETE FROM reports WHERE story_id = $1`,
		`DELETE FROM story_tags WHERE story_id = $1`,
		`DELETE FROM story_parts WHERE story_id = $1`,
	} {
		if _, err := tx.Exec(ctx, q, id); err != nil {
			return fmt.Errorf("ошибка каскадного удаления истории: %w", err)
		}
	}

	tag, err := tx.Exec(ctx, `DELETE FROM stories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления истории: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}

	return tx.Commit(ctx)
}
