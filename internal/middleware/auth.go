package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/runningplanet/crew-service/internal/service"
)

// ContextKey это кастомный тип для ключей контекста
type ContextKey string

const (
	// MemberIDKey ключ контекста для ID участника
	MemberIDKey ContextKey = "member_id"
	// NicknameKey ключ контекста для никнейма участника
	NicknameKey ContextKey = "nickname"
)

// AuthMiddleware создает middleware для валидации JWT токенов
func AuthMiddleware(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Получаем токен из заголовка Authorization
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, `{"error":{"code":"UNAUTHORIZED","message":"missing authorization header"}}`, http.StatusUnauthorized)
				return
			}

			// Проверяем формат Bearer
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, `{"error":{"code":"UNAUTHORIZED","message":"invalid authorization header format"}}`, http.StatusUnauthorized)
				return
			}

			token := parts[1]

			// Валидируем токен
			claims, err := authService.ValidateToken(token)
			if err != nil {
				http.Error(w, `{"error":{"code":"UNAUTHORIZED","message":"invalid or expired token"}}`, http.StatusUnauthorized)
				return
			}

			// Добавляем claims в контекст
			ctx := context.WithValue(r.Context(), MemberIDKey, claims.MemberID)
			ctx = context.WithValue(ctx, NicknameKey, claims.Nickname)

			// Вызываем следующий обработчик
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetMemberIDFromContext извлекает ID участника из контекста
func GetMemberIDFromContext(ctx context.Context) int64 {
	memberID, ok := ctx.Value(MemberIDKey).(int64)
	if !ok {
		return 0
	}
	return memberID
}

// GetNicknameFromContext извлекает никнейм участника из контекста
func GetNicknameFromContext(ctx context.Context) string {
	nickname, ok := ctx.Value(NicknameKey).(string)
	if !ok {
		return ""
	}
	return nickname
}
