// Package users — repository.go отвечает за все операции с таблицами
// users, user_profiles и user_statistics в БД.
package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fictionhub/internal/common"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create регистрирует пользователя: учётная запись, пустой профиль
// и нулевая статистика создаются в одной транзакции — либо всё, либо ничего.
func (r *Repository) Create(ctx context.Context, u *User) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO users (login, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, u.Login, u.Email, u.PasswordHash).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания пользователя: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO user_profiles (user_id, description, profile_image)
		VALUES ($1, '', '')
	`, u.ID); err != nil {
		return fmt.Errorf("ошибка создания профиля: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO user_statistics (user_id)
		VALUES ($1)
	`, u.ID); err != nil {
		return fmt.Errorf("ошибка создания статистики: %w", err)
	}

	return tx.Commit(ctx)
}

// GetByID: если не найден — common.ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id int64) (*User, error) {
	query := `
		SELECT id, login, email, password_hash, created_at
		FROM users WHERE id = $1
	`
	var u User
	err := r.db.QueryRow(ctx, query, id).Scan(&u.ID, &u.Login, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка чтения пользователя (id=%d): %w", id, err)
	}
	return &u, nil
}

// GetByLogin: если не найден — common.ErrNotFound.
func (r *Repository) GetByLogin(ctx context.Context, login string) (*User, error) {
	query := `
		SELECT id, login, email, password_hash, created_at
		FROM users WHERE login = $1
	`
	var u User
	err := r.db.QueryRow(ctx, query, login).Scan(&u.ID, &u.Login, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка чтения пользователя (login=%s): %w", login, err)
	}
	return &u, nil
}

func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки email: %w", err)
	}
	return exists, nil
}

func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки существования: %w", err)
	}
	return exists, nil
}

func (r *Repository) List(ctx context.Context) ([]*User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, login, email, password_hash, created_at
		FROM users ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса пользователей: %w", err)
	}
	defer rows.Close()

	var out []*User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Login, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки: %w", err)
		}
		out = append(out, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения строк: %w", err)
	}
	return out, nil
}

// GetProfile возвращает профиль пользователя.
func (r *Repository) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	var p Profile
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, description, profile_image
		FROM user_profiles WHERE user_id = $1
	`, userID).Scan(&p.ID, &p.UserID, &p.Description, &p.ProfileImage)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка чтения профиля (user_id=%d): %w", userID, err)
	}
	return &p, nil
}

// GetStatistics возвращает статистику пользователя.
func (r *Repository) GetStatistics(ctx context.Context, userID int64) (*Statistics, error) {
	var s Statistics
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, stories_started, stories_contributed, likes_received, comments_received
		FROM user_statistics WHERE user_id = $1
	`, userID).Scan(&s.ID, &s.UserID, &s.StoriesStarted, &s.StoriesContributed, &s.LikesReceived, &s.CommentsReceived)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка чтения статистики (user_id=%d): %w", userID, err)
	}
	return &s, nil
}

// UpdateProfile обновляет только переданные поля профиля.
func (r *Repository) UpdateProfile(ctx context.Context, userID int64, upd ProfileUpdate) error {
	query := `
		UPDATE user_profiles
		SET description = COALESCE($2, description),
		    profile_image = COALESCE($3, profile_image)
		WHERE user_id = $1
	`
	tag, err := r.db.Exec(ctx, query, userID, upd.Description, upd.ProfileImage)
	if err != nil {
		return fmt.Errorf("ошибка обновления профиля: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

// Update обновляет учётную запись и профиль (частично).
func (r *Repository) Update(ctx context.Context, userID int64, upd UserUpdate) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE users
		SET login = COALESCE($2, login), email = COALESCE($3, email)
		WHERE id = $1
	`, userID, upd.Login, upd.Email)
	if err != nil {
		return fmt.Errorf("ошибка обновления пользователя: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `
		UPDATE user_profiles
		SET description = COALESCE($2, description),
		    profile_image = COALESCE($3, profile_image)
		WHERE user_id = $1
	`, userID, upd.Description, upd.ProfileImage); err != nil {
		return fmt.Errorf("ошибка обновления профиля: %w", err)
	}

	return tx.Commit(ctx)
}

// Delete удаляет пользователя со всем его содержимым в одной
// транзакции: лайки, комментарии, жалобы, части в чужих историях
// (с перенумерацией), собственные истории целиком, профиль,
// статистика и сама учётная запись.
func (r *Repository) Delete(ctx context.Context, userID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, q := range []string{
		`DELETE FROM likes WHERE user_id = $1`,
		`DELETE FROM comments WHERE author_id = $1`,
		`DELETE FROM reports WHERE reporter_id = $1`,

		// Содержимое собственных историй.
		`DELETE FROM comments WHERE story_id IN (SELECT id FROM stories WHERE author_id = $1)`,
		`DELETE FROM likes WHERE story_id IN (SELECT id FROM stories WHERE author_id = $1)`,
		`DELETE FROM reports WHERE story_id IN (SELECT id FROM stories WHERE author_id = $1)`,
		`DELETE FROM story_tags WHERE story_id IN (SELECT id FROM stories WHERE author_id = $1)`,
		`DELETE FROM story_parts WHERE story_id IN (SELECT id FROM stories WHERE author_id = $1)`,

		// Части в чужих историях.
		`DELETE FROM story_parts WHERE author_id = $1`,
		`DELETE FROM stories WHERE author_id = $1`,
	} {
		if _, err := tx.Exec(ctx, q, userID); err != nil {
			return fmt.Errorf("ошибка каскадного удаления пользователя: %w", err)
		}
	}

	// Перенумеровываем оставшиеся части, чтобы нумерация внутри
	// каждой истории снова шла плотно с единицы.
	if _, err := tx.Exec(ctx, `
		UPDATE story_parts p SET part_order = x.rn
		FROM (SELECT id, ROW_NUMBER() OVER (PARTITION BY story_id ORDER BY part_order) AS rn
		      FROM story_parts) x
		WHERE p.id = x.id AND p.part_order <> x.rn
	`); err != nil {
		return fmt.Errorf("ошибка перенумерации частей: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM user_profiles WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("ошибка удаления профиля: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM user_statistics WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("ошибка удаления статистики: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("ошибка удаления пользователя: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}

	return tx.Commit(ctx)
}
