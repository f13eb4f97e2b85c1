// Package cancel реализует HTTP-обработчик отмены подписки.
//
// Подписка загружается шлюзом владения. Локальная запись удаляется
// только после подтверждения отмены платёжным провайдером.
package cancel

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/antonligaev/premium-platform/internal/http/middlewarectx"
	"github.com/antonligaev/premium-platform/internal/http/response"
	"github.com/antonligaev/premium-platform/internal/lib/sl"
	"github.com/antonligaev/premium-platform/internal/models"
)

const defaultReason = "customer requested cancellation"

// Request входные данные отмены. Причина необязательна.
type Request struct {
	Reason string `json:"reason"`
}

// Service описывает интерфейс бизнес-логики отмены подписки.
type Service interface {
	Cancel(ctx context.Context, sub *models.Subscription, reason string) error
}

// Handler обрабатывает HTTP-запросы отмены подписки.
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
// @Summary Отменить подписку
// @Description Отменяет подписку у платёжного провайдера и удаляет локальную запись. При отказе провайдера локальная запись не меняется.
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Param id path int true "ID подписки"
// @Param request body Request false "Причина отмены"
// @Success 200 {object} map[string]any "Подписка отменена"
// @Failure 400 {object} response.Response "Некорректный JSON"
// @Failure 502 {object} response.Response "Провайдер отклонил отмену"
// @Router /client/cancel-subscription/{id} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.cancel"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sub, ok := middlewarectx.SubscriptionFromContext(r.Context())
	if !ok {
		log.Error("missing subscription in context")
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to cancel subscription"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if req.Reason == "" {
		req.Reason = defaultReason
	}

	if err := h.service.Cancel(r.Context(), sub, req.Reason); err != nil {
		log.Error("failed to cancel subscription", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("failed to cancel subscription"))
		return
	}

	log.Info("subscription cancelled", slog.Int("id", sub.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": sub.ID,
	}))
}
