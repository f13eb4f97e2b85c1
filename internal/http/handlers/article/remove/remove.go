// Package remove реализует HTTP-обработчик удаления статьи.
//
// Статья загружается шлюзом владения: до обработчика доходят только
// запросы автора этой статьи.
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

// Service описывает интерфейс бизнес-логики удаления статьи.
type Service interface {
	Remove(ctx context.Context, id int) (int64, error)
}

// Handler обрабатывает HTTP-запросы удаления статьи.
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
// @Summary Удалить статью по ID
// @Description Удаляет статью текущего автора. Возвращает количество удалённых записей.
// @Tags Articles
// @Produce  json
// @Param id path int true "ID статьи"
// @Success 200 {object} map[string]any "Статья удалена"
// @Failure 500 {object} response.Response "Ошибка при удалении"
// @Router /writer/articles/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	article, ok := middlewarectx.ArticleFromContext(r.Context())
	if !ok {
		log.Error("missing article in context")
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to delete article"))
		return
	}

	res, err := h.service.Remove(r.Context(), article.ID)
	if err != nil {
		log.Error("failed to delete article", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to delete article"))
		return
	}

	log.Info("article deleted", slog.Int("id", article.ID), slog.Int64("deleted_count", res))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"deleted_count": res,
	}))
}
