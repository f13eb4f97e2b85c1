// Package updateconfirm реализует второй шаг смены тарифа подписки.
//
// Вызывается после возврата клиента со страницы подтверждения провайдера.
// Запись о незавершённой смене одноразовая: повторный вызов сообщает,
// что подтверждать нечего.
package updateconfirm

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/antonligaev/premium-platform/internal/http/middlewarectx"
	"github.com/antonligaev/premium-platform/internal/http/response"
	"github.com/antonligaev/premium-platform/internal/lib/sl"
	"github.com/antonligaev/premium-platform/internal/models"
	"github.com/antonligaev/premium-platform/internal/services/subscription"
)

// Service описывает интерфейс бизнес-логики подтверждения смены тарифа.
type Service interface {
	ConfirmPlanChange(ctx context.Context, userUID string) (*models.PlanChoice, error)
}

// Handler обрабатывает HTTP-запросы подтверждения смены тарифа.
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
// @Summary Подтвердить смену тарифа
// @Description Сверяет состояние подписки у провайдера с незавершённой сменой и переносит подписку на новый тариф.
// @Tags Subscriptions
// @Produce  json
// @Success 200 {object} map[string]any "Тариф изменен"
// @Failure 401 {object} response.Response "Нет авторизации"
// @Failure 404 {object} response.Response "Нет незавершённой смены тарифа"
// @Failure 409 {object} response.Response "Провайдер не подтвердил смену"
// @Failure 502 {object} response.Response "Ошибка провайдера"
// @Router /client/update-subscription-confirmed [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.updateconfirm"

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

	plan, err := h.service.ConfirmPlanChange(r.Context(), userUID)
	if err != nil {
		switch {
		case errors.Is(err, subscription.ErrNoPendingChange):
			log.Info("no pending plan change for user")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("no pending plan change"))
		case errors.Is(err, subscription.ErrProviderStateMismatch):
			log.Error("provider state mismatch", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("plan change was not confirmed by the provider"))
		default:
			log.Error("failed to confirm plan change", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error("failed to confirm plan change"))
		}
		return
	}

	log.Info("plan change confirmed", slog.String("plan_code", plan.Code))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"plan_code": plan.Code,
		"plan_name": plan.Name,
	}))
}
