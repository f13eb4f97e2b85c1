package subscribeplan

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

func (m *MockService) ActiveSubscription(ctx context.Context, userUID string) (*models.Subscription, *models.PlanChoice, error) {
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

func (m *MockService) ListPlans(ctx context.Context) ([]*models.PlanChoice, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.PlanChoice), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestSubscribePlanHandler(t *testing.T) {
	tests := []struct {
		name           string
		userUID        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
		expectedLoc    string
	}{
		{
			name:    "новому подписчику показывается витрина",
			userUID: "user-1",
			setupMock: func(m *MockService) {
				m.On("ActiveSubscription", mock.Anything, "user-1").Return(nil, nil, nil)
				m.On("ListPlans", mock.Anything).Return([]*models.PlanChoice{
					{Code: "STD", Name: "Standard", Cost: "3.00", IsActive: true},
					{Code: "PRM", Name: "Premium", Cost: "9.00", IsPremium: true, IsActive: true},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"list_count":2`,
		},
		{
			name:    "подписанный клиент уводится на панель",
			userUID: "user-1",
			setupMock: func(m *MockService) {
				m.On("ActiveSubscription", mock.Anything, "user-1").Return(
					&models.Subscription{ID: 5, UserUID: "user-1", PlanCode: "STD", IsActive: true},
					&models.PlanChoice{Code: "STD"}, nil)
			},
			expectedStatus: http.StatusSeeOther,
			expectedLoc:    "/api/v1/client/dashboard",
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

			req := httptest.NewRequest(http.MethodGet, "/api/v1/client/subscribe-plan", nil)
			if tt.userUID != "" {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, tt.userUID))
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
					"response body should contain %s, got %s", tt.expectedBody, w.Body.String())
			}
			if tt.expectedLoc != "" {
				assert.Equal(t, tt.expectedLoc, w.Header().Get("Location"))
			}
			mockService.AssertExpectations(t)
		})
	}
}
