// Package list реализует HTTP-обработчик списка статей текущего автора.
package list

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

// Service описывает интерфейс бизнес-логики списка статей автора.
type Service interface {
	ListByAuthor(ctx context.Context, authorUID string) ([]*models.Article, error)
}

// Handler обрабатывает HTTP-запросы списка статей автора.
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
// @Summary Список статей автора
// @Description Возвращает все статьи текущего автора, включая премиальные
// @Tags Articles
// @Produce  json
// @Success 200 {object} map[string]any "Список статей"
// @Failure 401 {object} response.Response "Нет авторизации"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Router /writer/my-articles [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	authorUID, ok := middlewarectx.UserUIDFromContext(r.Context())
	if !ok {
		log.Error("missing user uid in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	articles, err := h.service.ListByAuthor(r.Context(), authorUID)
	if err != nil {
		log.Error("failed to list articles", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list articles"))
		return
	}

	log.Info("articles listed", slog.Int("list_count", len(articles)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"articles":   articles,
		"list_count": len(articles),
	}))
}
