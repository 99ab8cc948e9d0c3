// Package common — errors.go определяет пользовательские ошибки,
// которые используются во всех модулях платформы.
// Эти ошибки позволяют обработчикам различать типы проблем
// и отдавать клиенту правильный HTTP-статус или сообщение в чат.
package common

import "errors"

// Общие ошибки персистентности
var (
	// ErrNotFound — запись не найдена (репозитории переводят pgx.ErrNoRows в неё)
	ErrNotFound = errors.New("запись не найдена")
	// ErrAlreadyExists — нарушение уникальности (email, повторный репорт)
	ErrAlreadyExists = errors.New("запись уже существует")
)

// Ошибки доступа
var (
	// ErrForbidden — действие запрещено для текущего пользователя
	ErrForbidden = errors.New("доступ запрещён")
	// ErrUnauthorized — пользователь не аутентифицирован
	ErrUnauthorized = errors.New("требуется аутентификация")
	// ErrInvalidCredentials — неверный логин или пароль
	ErrInvalidCredentials = errors.New("неверный логин или пароль")
)

// Ошибки валидации. Тексты английские: именно они уходят клиенту
// в теле 400-го ответа.
var (
	// ErrEmptyContent — пустой текст там, где он обязателен
	ErrEmptyContent = errors.New("content cannot be empty")
	// ErrStoryNotEditable — история закрыта для добавления частей
	ErrStoryNotEditable = errors.New("story is not editable")
	// ErrBadPartOrder — набор id частей не является перестановкой существующих
	ErrBadPartOrder = errors.New("invalid part order")
	// ErrInvalidInput — прочие нарушения ограничений на входные данные
	ErrInvalidInput = errors.New("invalid input")
)
