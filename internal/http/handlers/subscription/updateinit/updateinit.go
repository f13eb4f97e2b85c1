// Package updateinit реализует первый шаг смены тарифа подписки.
//
// Провайдер возвращает ссылку подтверждения, по которой переходит
// клиент; локальная запись на этом шаге не меняется.
package updateinit

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/antonligaev/premium-platform/internal/http/middlewarectx"
	"github.com/antonligaev/premium-platform/internal/http/response"
	"github.com/antonligaev/premium-platform/internal/lib/sl"
	"github.com/antonligaev/premium-platform/internal/models"
	"github.com/antonligaev/premium-platform/internal/services/subscription"
)

// Request входные данные: код нового тарифа.
type Request struct {
	PlanCode string `json:"plan_code" validate:"required"`
}

// Service описывает интерфейс бизнес-логики начала смены тарифа.
type Service interface {
	InitiatePlanChange(ctx context.Context, sub *models.Subscription, newPlanCode, returnURL, cancelURL string) (string, error)
}

// Handler обрабатывает HTTP-запросы начала смены тарифа.
type Handler struct {
	log       *slog.Logger
	service   Service
	returnURL string
	cancelURL string
	validate  *validator.Validate
}

// New создает новый Handler. returnURL и cancelURL передаются провайдеру
// как адреса возврата после подтверждения или отказа.
func New(log *slog.Logger, service Service, returnURL, cancelURL string) *Handler {
	return &Handler{
		log:       log,
		service:   service,
		returnURL: returnURL,
		cancelURL: cancelURL,
		validate:  validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Начать смену тарифа
// @Description Запрашивает у провайдера смену тарифа и возвращает ссылку подтверждения. Запись о незавершённой смене живёт ограниченное время.
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Param id path int true "ID подписки"
// @Param request body Request true "Код нового тарифа"
// @Success 200 {object} map[string]any "Ссылка подтверждения"
// @Failure 400 {object} response.Response "Некорректный запрос или совпадающий тариф"
// @Failure 404 {object} response.Response "Неизвестный тариф"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Failure 502 {object} response.Response "Ошибка провайдера"
// @Router /client/update-subscription/{id} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.updateinit"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sub, ok := middlewarectx.SubscriptionFromContext(r.Context())
	if !ok {
		log.Error("missing subscription in context")
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to update subscription"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	approveURL, err := h.service.InitiatePlanChange(r.Context(), sub, req.PlanCode, h.returnURL, h.cancelURL)
	if err != nil {
		switch {
		case errors.Is(err, subscription.ErrPlanNotFound):
			log.Error("unknown plan code", slog.String("plan_code", req.PlanCode))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("plan not found"))
		case errors.Is(err, subscription.ErrSamePlan):
			log.Info("requested plan matches the current one")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("new plan matches the current one"))
		default:
			log.Error("failed to initiate plan change", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error("failed to update subscription"))
		}
		return
	}

	log.Info("plan change initiated",
		slog.Int("id", sub.ID),
		slog.String("plan_code", req.PlanCode))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"approve_url": approveURL,
	}))
}
