package dashboard

import (
	"context"
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
)

type MockService struct {
	mock.Mock
}

func (m *MockService) LatestSubscription(ctx context.Context, userUID string) (*models.Subscription, *models.PlanChoice, error) {
	args := m.Called(ctx, userUID)
	var sub *models.Subscription
	var plan *models.PlanChoice
	if args.Get(0) != nil {
		sub = args.Get(0).(*models.Subscription)
	}
	if args.Get(1) != nil {
		plan = args.Get(1).(*models.PlanChoice)
	}
	return sub, plan, args.Error(2)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestDashboardHandler(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "активная подписка показывается с названием тарифа",
			setupMock: func(m *MockService) {
				m.On("LatestSubscription", mock.Anything, "user-1").Return(
					&models.Subscription{ID: 5, PlanCode: "STD", Cost: "3.00", IsActive: true},
					&models.PlanChoice{Code: "STD", Name: "Standard"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"subscription":"Standard"`,
		},
		{
			name: "неактивная подписка получает пометку",
			setupMock: func(m *MockService) {
				m.On("LatestSubscription", mock.Anything, "user-1").Return(
					&models.Subscription{ID: 5, PlanCode: "STD", Cost: "3.00", IsActive: false},
					&models.PlanChoice{Code: "STD", Name: "Standard"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"subscription":"Standard (inactive)"`,
		},
		{
			name: "без подписки показывается заглушка",
			setupMock: func(m *MockService) {
				m.On("LatestSubscription", mock.Anything, "user-1").Return(nil, nil, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"subscription":"No subscription yet."`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(newNoopLogger(), mockService)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/client/dashboard", nil)
			req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, "user-1"))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())
			mockService.AssertExpectations(t)
		})
	}
}
