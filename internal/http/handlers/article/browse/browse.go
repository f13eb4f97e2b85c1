// Package browse реализует HTTP-обработчик ленты статей для читателей.
//
// Состав ленты зависит от тарифа: премиальные статьи попадают в выдачу
// только при активной подписке премиального тарифа.
package browse

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/antonligaev/premium-platform/internal/http/middlewarectx"
	"github.com/antonligaev/premium-platform/internal/http/response"
	"github.com/antonligaev/premium-platform/internal/lib/sl"
	"github.com/antonligaev/premium-platform/internal/models"
)

// Service описывает интерфейс бизнес-логики ленты статей.
type Service interface {
	Browse(ctx context.Context, userUID string) ([]*models.Article, bool, error)
}

// Handler обрабатывает HTTP-запросы ленты статей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Лента статей
// @Description Возвращает статьи, доступные текущему читателю по его тарифу
// @Tags Articles
// @Produce  json
// @Success 200 {object} map[string]any "Лента статей"
// @Failure 401 {object} response.Response "Нет авторизации"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Router /client/browse-articles [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.browse"

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

	articles, hasSubscription, err := h.service.Browse(r.Context(), userUID)
	if err != nil {
		log.Error("failed to browse articles", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to browse articles"))
		return
	}

	log.Info("articles browsed",
		slog.Int("list_count", len(articles)),
		slog.Bool("has_subscription", hasSubscription))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"articles":         articles,
		"list_count":       len(articles),
		"has_subscription": hasSubscription,
	}))
}
