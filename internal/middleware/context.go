// Package middleware содержит промежуточные HTTP-обработчики:
// аутентификацию по JWT, логирование запросов и работу с контекстом.
package middleware

import "context"

type ctxKey int

const userIDKey ctxKey = iota

// WithUserID кладёт id аутентифицированного пользователя в контекст запроса.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFrom достаёт id пользователя из контекста.
// ok == false — запрос не аутентифицирован.
func UserIDFrom(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}
