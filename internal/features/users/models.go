// Package users управляет учётными записями: регистрацией, входом,
// профилями и статистикой. models.go описывает структуры таблиц
// users, user_profiles и user_statistics.
package users

import "time"

// User — учётная запись платформы.
type User struct {
	ID           int64     `db:"id"`
	Login        string    `db:"login"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// Profile — публичные данные профиля (один к одному с users).
type Profile struct {
	ID           int64  `db:"id"`
	UserID       int64  `db:"user_id"`
	Description  string `db:"description"`
	ProfileImage string `db:"profile_image"`
}

// Statistics — счётчики активности пользователя (один к одному с users).
type Statistics struct {
	ID                 int64 `db:"id"`
	UserID             int64 `db:"user_id"`
	StoriesStarted     int   `db:"stories_started"`
	StoriesContributed int   `db:"stories_contributed"`
	LikesReceived      int   `db:"likes_received"`
	CommentsReceived   int   `db:"comments_received"`
}

// ProfileUpdate — частичное обновление профиля (nil — поле не трогаем).
type ProfileUpdate struct {
	Description  *string
	ProfileImage *string
}

// UserUpdate — частичное обновление учётной записи и профиля.
type UserUpdate struct {
	Login        *string
	Email        *string
	Description  *string
	ProfileImage *string
}
