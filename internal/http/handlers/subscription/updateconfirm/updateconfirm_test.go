package updateconfirm

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/antonligaev/premium-platform/internal/http/middlewarectx"
	"github.com/antonligaev/premium-platform/internal/models"
	"github.com/antonligaev/premium-platform/internal/services/subscription"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) ConfirmPlanChange(ctx context.Context, userUID string) (*models.PlanChoice, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlanChoice), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestUpdateConfirmHandler(t *testing.T) {
	tests := []struct {
		name           string
		userUID        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "успешное подтверждение",
			userUID: "user-1",
			setupMock: func(m *MockService) {
				m.On("ConfirmPlanChange", mock.Anything, "user-1").
					Return(&models.PlanChoice{Code: "PRM", Name: "Premium", Cost: "9.00"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"plan_code":"PRM"`,
		},
		{
			name:    "повторный вызов сообщает об отсутствии операции",
			userUID: "user-1",
			setupMock: func(m *MockService) {
				m.On("ConfirmPlanChange", mock.Anything, "user-1").
					Return(nil, subscription.ErrNoPendingChange)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"no pending plan change"`,
		},
		{
			name:    "провайдер не подтвердил смену",
			userUID: "user-1",
			setupMock: func(m *MockService) {
				m.On("ConfirmPlanChange", mock.Anything, "user-1").
					Return(nil, subscription.ErrProviderStateMismatch)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `"error":"plan change was not confirmed by the provider"`,
		},
		{
			name:    "ошибка провайдера",
			userUID: "user-1",
			setupMock: func(m *MockService) {
				m.On("ConfirmPlanChange", mock.Anything, "user-1").
					Return(nil, errors.New("provider unavailable"))
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `"error":"failed to confirm plan change"`,
		},
		{
			name:           "нет пользователя в контексте",
			userUID:        "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(newNoopLogger(), mockService)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/client/update-subscription-confirmed", nil)
			if tt.userUID != "" {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, tt.userUID))
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())
			mockService.AssertExpectations(t)
		})
	}
}
