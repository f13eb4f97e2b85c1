package middlewarectx

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/antonligaev/premium-platform/internal/lib/jwt"
	"github.com/antonligaev/premium-platform/internal/models"
	"github.com/antonligaev/premium-platform/internal/storage/repository"
)

type MockTokenParser struct {
	mock.Mock
}

func (m *MockTokenParser) ParseToken(tokenStr string) (*jwt.CustomClaims, error) {
	args := m.Called(tokenStr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jwt.CustomClaims), args.Error(1)
}

type MockArticleGetter struct {
	mock.Mock
}

func (m *MockArticleGetter) GetArticleByOwner(ctx context.Context, id int, authorUID string) (*models.Article, error) {
	args := m.Called(ctx, id, authorUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Article), args.Error(1)
}

type MockSubscriptionGetter struct {
	mock.Mock
}

func (m *MockSubscriptionGetter) GetSubscriptionByOwner(ctx context.Context, id int, userUID string) (*models.Subscription, error) {
	args := m.Called(ctx, id, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func requestWithRole(role string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/client/dashboard", nil)
	ctx := req.Context()
	if role != "" {
		ctx = context.WithValue(ctx, Role, role)
	}
	return req.WithContext(ctx)
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name           string
		requiredRole   string
		callerRole     string
		expectedStatus int
		expectedBody   string
		expectNext     bool
	}{
		{
			name:           "совпадающая роль проходит",
			requiredRole:   models.RoleClient,
			callerRole:     models.RoleClient,
			expectedStatus: http.StatusOK,
			expectNext:     true,
		},
		{
			name:           "чужая роль получает 403 с фиксированным сообщением",
			requiredRole:   models.RoleClient,
			callerRole:     models.RoleWriter,
			expectedStatus: http.StatusForbidden,
			expectedBody:   "only members of 'client' can access this resource",
		},
		{
			name:           "writer-поверхность закрыта для клиента",
			requiredRole:   models.RoleWriter,
			callerRole:     models.RoleClient,
			expectedStatus: http.StatusForbidden,
			expectedBody:   "only members of 'writer' can access this resource",
		},
		{
			name:           "без роли в контексте 401",
			requiredRole:   models.RoleClient,
			callerRole:     "",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "user identification missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var nextCalled bool
			handler := RequireRole(tt.requiredRole, newNoopLogger())(okHandler(&nextCalled))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, requestWithRole(tt.callerRole))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectNext, nextCalled)
			if tt.expectedBody != "" {
				assert.Contains(t, w.Body.String(), tt.expectedBody)
			}
		})
	}
}

func ownershipRequest(t *testing.T, uid, id string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/client/cancel-subscription/"+id, nil)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if uid != "" {
		ctx = context.WithValue(ctx, UserUID, uid)
	}
	return req.WithContext(ctx)
}

func TestOwnSubscription(t *testing.T) {
	t.Run("своя подписка попадает в контекст обработчика", func(t *testing.T) {
		getter := new(MockSubscriptionGetter)
		sub := &models.Subscription{ID: 5, UserUID: "user-1", PlanCode: "STD", IsActive: true}
		getter.On("GetSubscriptionByOwner", mock.Anything, 5, "user-1").Return(sub, nil)

		var got *models.Subscription
		handler := OwnSubscription(getter, newNoopLogger())(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ = SubscriptionFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, ownershipRequest(t, "user-1", "5"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, sub, got)
	})

	t.Run("чужая подписка перенаправляет на панель без изменения данных", func(t *testing.T) {
		getter := new(MockSubscriptionGetter)
		getter.On("GetSubscriptionByOwner", mock.Anything, 5, "intruder").
			Return(nil, repository.ErrNotFound)

		var nextCalled bool
		handler := OwnSubscription(getter, newNoopLogger())(okHandler(&nextCalled))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, ownershipRequest(t, "intruder", "5"))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/api/v1/client/dashboard", w.Header().Get("Location"))
		assert.False(t, nextCalled)
	})

	t.Run("некорректный id", func(t *testing.T) {
		var nextCalled bool
		handler := OwnSubscription(new(MockSubscriptionGetter), newNoopLogger())(okHandler(&nextCalled))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, ownershipRequest(t, "user-1", "abc"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, nextCalled)
	})

	t.Run("без пользователя в контексте 401", func(t *testing.T) {
		var nextCalled bool
		handler := OwnSubscription(new(MockSubscriptionGetter), newNoopLogger())(okHandler(&nextCalled))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, ownershipRequest(t, "", "5"))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, nextCalled)
	})

	t.Run("ошибка хранилища не маскируется под редирект", func(t *testing.T) {
		getter := new(MockSubscriptionGetter)
		getter.On("GetSubscriptionByOwner", mock.Anything, 5, "user-1").
			Return(nil, errors.New("connection refused"))

		var nextCalled bool
		handler := OwnSubscription(getter, newNoopLogger())(okHandler(&nextCalled))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, ownershipRequest(t, "user-1", "5"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.False(t, nextCalled)
	})
}

func TestOwnArticle(t *testing.T) {
	t.Run("чужая статья перенаправляет на список автора", func(t *testing.T) {
		getter := new(MockArticleGetter)
		getter.On("GetArticleByOwner", mock.Anything, 7, "intruder").
			Return(nil, repository.ErrNotFound)

		var nextCalled bool
		handler := OwnArticle(getter, newNoopLogger())(okHandler(&nextCalled))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, ownershipRequest(t, "intruder", "7"))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/api/v1/writer/my-articles", w.Header().Get("Location"))
		assert.False(t, nextCalled)
	})

	t.Run("своя статья попадает в контекст", func(t *testing.T) {
		getter := new(MockArticleGetter)
		article := &models.Article{ID: 7, AuthorUID: "writer-1", Title: "t"}
		getter.On("GetArticleByOwner", mock.Anything, 7, "writer-1").Return(article, nil)

		var got *models.Article
		handler := OwnArticle(getter, newNoopLogger())(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ = ArticleFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, ownershipRequest(t, "writer-1", "7"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, article, got)
	})
}

func TestAnonymousOnly(t *testing.T) {
	tests := []struct {
		name           string
		authHeader     string
		setupParser    func(*MockTokenParser)
		expectedStatus int
		expectedLoc    string
		expectNext     bool
	}{
		{
			name:           "без токена запрос проходит",
			authHeader:     "",
			setupParser:    func(_ *MockTokenParser) {},
			expectedStatus: http.StatusOK,
			expectNext:     true,
		},
		{
			name:       "невалидный токен пропускается дальше",
			authHeader: "Bearer garbage",
			setupParser: func(p *MockTokenParser) {
				p.On("ParseToken", "garbage").Return(nil, errors.New("token is invalid"))
			},
			expectedStatus: http.StatusOK,
			expectNext:     true,
		},
		{
			name:       "клиент с токеном уходит на свою панель",
			authHeader: "Bearer valid",
			setupParser: func(p *MockTokenParser) {
				p.On("ParseToken", "valid").Return(&jwt.CustomClaims{
					Email: "c@example.com", Role: models.RoleClient, UserUID: "user-1",
				}, nil)
			},
			expectedStatus: http.StatusSeeOther,
			expectedLoc:    "/api/v1/client/dashboard",
		},
		{
			name:       "автор с токеном уходит на список статей",
			authHeader: "Bearer valid",
			setupParser: func(p *MockTokenParser) {
				p.On("ParseToken", "valid").Return(&jwt.CustomClaims{
					Email: "w@example.com", Role: models.RoleWriter, UserUID: "writer-1",
				}, nil)
			},
			expectedStatus: http.StatusSeeOther,
			expectedLoc:    "/api/v1/writer/my-articles",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := new(MockTokenParser)
			tt.setupParser(parser)

			var nextCalled bool
			handler := AnonymousOnly(parser, newNoopLogger())(okHandler(&nextCalled))

			req := httptest.NewRequest(http.MethodPost, "/api/v1/login", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectNext, nextCalled)
			if tt.expectedLoc != "" {
				assert.Equal(t, tt.expectedLoc, w.Header().Get("Location"))
			}
			parser.AssertExpectations(t)
		})
	}
}
