package middlewarectx

import (
	"log/slog"
	"net/http"
	"strings"
)

// AnonymousOnly возвращает middleware для конечных точек регистрации и входа.
// Если запрос пришёл с валидным токеном, пользователь уже аутентифицирован —
// вместо обработчика выполняется редирект на стартовую страницу его роли.
// Невалидный или отсутствующий токен пропускает запрос дальше.
func AnonymousOnly(parser TokenParser, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
				if claims, err := parser.ParseToken(tokenStr); err == nil {
					log.Info("authenticated user on anonymous-only endpoint",
						slog.String("role", claims.Role))
					http.Redirect(w, r, dashboardPath(claims.Role), http.StatusSeeOther)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
