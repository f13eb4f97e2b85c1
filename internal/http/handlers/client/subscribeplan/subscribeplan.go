// Package subscribeplan реализует HTTP-обработчик витрины тарифов.
//
// Читатель с действующей подпиской перенаправляется на свою панель:
// витрина доступна только новым подписчикам.
package subscribeplan

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

// Service описывает интерфейс бизнес-логики витрины тарифов.
type Service interface {
	ActiveSubscription(ctx context.Context, userUID string) (*models.Subscription, *models.PlanChoice, error)
	ListPlans(ctx context.Context) ([]*models.PlanChoice, error)
}

// Handler обрабатывает HTTP-запросы витрины тарифов.
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
// @Summary Витрина тарифов
// @Description Возвращает активные тарифы каталога. Читатель с действующей подпиской перенаправляется на панель.
// @Tags Client
// @Produce  json
// @Success 200 {object} map[string]any "Список тарифов"
// @Success 303 {string} string "Перенаправление на панель"
// @Failure 401 {object} response.Response "Нет авторизации"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Router /client/subscribe-plan [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.client.subscribeplan"

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

	sub, _, err := h.service.ActiveSubscription(r.Context(), userUID)
	if err != nil {
		log.Error("failed to check subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list plans"))
		return
	}
	if sub != nil {
		log.Info("user already subscribed, redirecting to dashboard")
		http.Redirect(w, r, "/api/v1/client/dashboard", http.StatusSeeOther)
		return
	}

	plans, err := h.service.ListPlans(r.Context())
	if err != nil {
		log.Error("failed to list plans", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list plans"))
		return
	}

	log.Info("plans listed", slog.Int("list_count", len(plans)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"plans":      plans,
		"list_count": len(plans),
	}))
}
