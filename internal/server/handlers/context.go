package handlers

import "context"

type contextKey string

const (
	// UserIDKey ключ для хранения user_id в контексте
	UserIDKey contextKey = "user_id"
	// EmailKey ключ для хранения email в контексте
	EmailKey contextKey = "email"
)

// UserIDFromContext возвращает пользователя, положенного AuthMiddleware
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}
