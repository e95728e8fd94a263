// Package middlewarectx содержит HTTP middleware для обработки и проверки JWT токенов.
//
// JWTMiddleware ищет токен сначала в cookie "user-token", затем в заголовке
// Authorization, проверяет его через сервис аутентификации и в случае успеха
// добавляет в контекст email и uid пользователя для дальнейшего использования
// в обработчиках.
//
// В случае ошибки проверки возвращает HTTP 401 Unauthorized с сообщением об ошибке.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/course-catalog/internal/http/response"
	"github.com/magabrotheeeer/course-catalog/internal/lib/jwt"
	"github.com/magabrotheeeer/course-catalog/internal/lib/sl"
)

// TokenCookie имя cookie, в которой хранится JWT после входа.
const TokenCookie = "user-token"

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// Email — ключ для email пользователя в контексте
	Email Key = "email"
	// UserUID — ключ для uid пользователя в контексте
	UserUID Key = "uid"
)

// Service описывает интерфейс сервиса для валидации JWT токена.
type Service interface {
	ValidateToken(ctx context.Context, token string) (*jwt.CustomClaims, error)
}

// TokenFromRequest извлекает JWT из запроса: сначала из cookie,
// затем из заголовка Authorization с префиксом Bearer.
func TokenFromRequest(r *http.Request) (string, bool) {
	if cookie, err := r.Cookie(TokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer "), true
	}
	return "", false
}

// JWTMiddleware возвращает HTTP middleware, который проверяет JWT
// из cookie или заголовка Authorization.
//
// Если токен валиден, добавляет email и uid пользователя в контекст запроса,
// иначе возвращает ошибку с HTTP статусом 401 Unauthorized.
func JWTMiddleware(auth Service, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "auth.JWTMiddleware"

			log = log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			tokenStr, ok := TokenFromRequest(r)
			if !ok {
				log.Error("missing authentication token")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authentication required"))
				return
			}

			claims, err := auth.ValidateToken(r.Context(), tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}
			ctx := context.WithValue(r.Context(), Email, claims.Email)
			ctx = context.WithValue(ctx, UserUID, claims.UserUID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
