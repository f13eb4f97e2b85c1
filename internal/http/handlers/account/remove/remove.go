// Package remove реализует HTTP-обработчик удаления аккаунта пользователя.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/antonligaev/premium-platform/internal/http/middlewarectx"
	"github.com/antonligaev/premium-platform/internal/http/response"
	"github.com/antonligaev/premium-platform/internal/lib/sl"
)

// Service описывает интерфейс бизнес-логики удаления аккаунта.
type Service interface {
	DeleteAccount(ctx context.Context, userUID string) (int64, error)
}

// Handler обрабатывает HTTP-запросы удаления аккаунта.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить аккаунт
// @Description Удаляет аккаунт текущего пользователя вместе с его данными
// @Tags Account
// @Produce  json
// @Success 200 {object} map[string]any "Аккаунт удален"
// @Failure 401 {object} response.Response "Нет авторизации"
// @Failure 500 {object} response.Response "Ошибка при удалении"
// @Router /account [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := middlewarectx.UserUIDFromContext(r.Context())
	if !ok {
		log.Error("missing user uid in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	res, err := h.service.DeleteAccount(r.Context(), userUID)
	if err != nil {
		log.Error("failed to delete account", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to delete account"))
		return
	}

	email, _ := middlewarectx.EmailFromContext(r.Context())
	log.Info("account deleted",
		slog.String("email", email),
		slog.Int64("deleted_count", res))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"deleted_count": res,
	}))
}
