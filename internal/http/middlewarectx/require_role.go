package middlewarectx

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/antonligaev/premium-platform/internal/http/response"
)

// RequireRole возвращает middleware, пропускающий только пользователей
// с заданной ролью. Аутентифицированный пользователь с другой ролью
// получает 403 с фиксированным сообщением, а не редирект: это легальный
// пользователь, просто не той роли.
func RequireRole(role string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			callerRole, ok := r.Context().Value(Role).(string)
			if !ok || callerRole == "" {
				log.Error("user identification missing")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			if callerRole != role {
				log.Error("role mismatch",
					slog.String("required", role), slog.String("actual", callerRole))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error(
					fmt.Sprintf("only members of '%s' can access this resource", role)))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
