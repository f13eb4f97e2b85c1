// Package dashboard реализует HTTP-обработчик панели читателя.
package dashboard

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

// Service описывает интерфейс бизнес-логики панели читателя.
type Service interface {
	LatestSubscription(ctx context.Context, userUID string) (*models.Subscription, *models.PlanChoice, error)
}

// Handler обрабатывает HTTP-запросы панели читателя.
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
// @Summary Панель читателя
// @Description Показывает текущую подписку читателя. Неактивная подписка помечается, отсутствие подписки сообщается отдельно.
// @Tags Client
// @Produce  json
// @Success 200 {object} map[string]any "Состояние подписки"
// @Failure 401 {object} response.Response "Нет авторизации"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Router /client/dashboard [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.client.dashboard"

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

	sub, plan, err := h.service.LatestSubscription(r.Context(), userUID)
	if err != nil {
		log.Error("failed to load subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to load dashboard"))
		return
	}

	if sub == nil {
		log.Info("no subscription for user")
		render.JSON(w, r, response.OKWithData(map[string]any{
			"subscription": "No subscription yet.",
		}))
		return
	}

	planLabel := plan.Name
	if !sub.IsActive {
		planLabel += " (inactive)"
	}

	log.Info("dashboard loaded", slog.String("plan", plan.Code), slog.Bool("is_active", sub.IsActive))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"subscription": planLabel,
		"plan_code":    plan.Code,
		"cost":         sub.Cost,
		"is_active":    sub.IsActive,
	}))
}
