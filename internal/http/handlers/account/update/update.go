// Package update реализует HTTP-обработчик изменения данных аккаунта.
package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/antonligaev/premium-platform/internal/http/middlewarectx"
	"github.com/antonligaev/premium-platform/internal/http/response"
	"github.com/antonligaev/premium-platform/internal/lib/sl"
)

// Request входные данные для обновления аккаунта.
type Request struct {
	DisplayName string `json:"display_name" validate:"required,min=3,max=50"`
}

// Service описывает интерфейс бизнес-логики обновления аккаунта.
type Service interface {
	UpdateDisplayName(ctx context.Context, userUID, displayName string) error
}

// Handler обрабатывает HTTP-запросы обновления аккаунта.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Обновить данные аккаунта
// @Description Меняет отображаемое имя текущего пользователя
// @Tags Account
// @Accept  json
// @Produce  json
// @Param request body Request true "Новые данные аккаунта"
// @Success 200 {object} map[string]any "Аккаунт обновлен"
// @Failure 400 {object} response.Response "Некорректный JSON"
// @Failure 401 {object} response.Response "Нет авторизации"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Failure 500 {object} response.Response "Ошибка сервера"
// @Router /account [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.update"

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

	if err := h.service.UpdateDisplayName(r.Context(), userUID, req.DisplayName); err != nil {
		log.Error("failed to update account", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to update account"))
		return
	}

	log.Info("account updated", slog.String("display_name", req.DisplayName))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"display_name": req.DisplayName,
	}))
}
