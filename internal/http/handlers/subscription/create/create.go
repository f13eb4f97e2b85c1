// Package create реализует HTTP-обработчик оформления подписки.
//
// Вызывается после завершения checkout на стороне платёжного провайдера:
// идентификатор подписки провайдера и код тарифа приходят в параметрах пути.
package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/antonligaev/premium-platform/internal/http/middlewarectx"
	"github.com/antonligaev/premium-platform/internal/http/response"
	"github.com/antonligaev/premium-platform/internal/lib/sl"
	"github.com/antonligaev/premium-platform/internal/models"
	"github.com/antonligaev/premium-platform/internal/services/subscription"
)

// Service описывает интерфейс бизнес-логики оформления подписки.
type Service interface {
	Create(ctx context.Context, userUID, providerSubID, planCode string) (*models.Subscription, error)
}

// Handler обрабатывает HTTP-запросы оформления подписки.
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
// @Summary Оформить подписку
// @Description Фиксирует подписку, оформленную у платёжного провайдера. Повторное оформление перенаправляет на панель.
// @Tags Subscriptions
// @Produce  json
// @Param providerSubID path string true "ID подписки у провайдера"
// @Param planCode path string true "Код тарифа"
// @Success 200 {object} map[string]any "Подписка оформлена"
// @Success 303 {string} string "Перенаправление на панель"
// @Failure 401 {object} response.Response "Нет авторизации"
// @Failure 404 {object} response.Response "Неизвестный тариф"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Router /client/create-subscription/{providerSubID}/{planCode} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.create"

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

	providerSubID := chi.URLParam(r, "providerSubID")
	planCode := chi.URLParam(r, "planCode")
	if providerSubID == "" || planCode == "" {
		log.Error("missing path parameters")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request"))
		return
	}

	sub, err := h.service.Create(r.Context(), userUID, providerSubID, planCode)
	if err != nil {
		switch {
		case errors.Is(err, subscription.ErrSubscriptionExists):
			log.Info("user already subscribed, redirecting to dashboard")
			http.Redirect(w, r, "/api/v1/client/dashboard", http.StatusSeeOther)
		case errors.Is(err, subscription.ErrPlanNotFound):
			log.Error("unknown plan code", slog.String("plan_code", planCode))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("plan not found"))
		default:
			log.Error("failed to create subscription", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to create subscription"))
		}
		return
	}

	log.Info("subscription created",
		slog.Int("id", sub.ID),
		slog.String("plan_code", sub.PlanCode),
		slog.String("cost", sub.Cost))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id":        sub.ID,
		"plan_code": sub.PlanCode,
		"cost":      sub.Cost,
	}))
}
