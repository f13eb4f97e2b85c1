package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/antonligaev/premium-platform/internal/lib/jwt"
	"github.com/antonligaev/premium-platform/internal/lib/password"
	"github.com/antonligaev/premium-platform/internal/models"
)

type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *MockUsers) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUsers) UpdateUserName(ctx context.Context, userUID, displayName string) error {
	args := m.Called(ctx, userUID, displayName)
	return args.Error(0)
}

func (m *MockUsers) RemoveUser(ctx context.Context, userUID string) (int64, error) {
	args := m.Called(ctx, userUID)
	return args.Get(0).(int64), args.Error(1)
}

func newService(users *MockUsers) *AuthService {
	return NewAuthService(users, jwt.NewJWTMaker("test-secret", time.Hour))
}

func TestAuthService_Register(t *testing.T) {
	t.Run("пароль сохраняется в виде хэша", func(t *testing.T) {
		users := new(MockUsers)
		users.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
			return u.Email == "c@example.com" &&
				u.Role == models.RoleClient &&
				u.IsActive &&
				u.PasswordHash != "secret123" &&
				password.CompareHash(u.PasswordHash, "secret123") == nil
		})).Return("uid-1", nil)

		svc := newService(users)

		uid, err := svc.Register(context.Background(), "c@example.com", "client", "secret123", models.RoleClient)

		require.NoError(t, err)
		assert.Equal(t, "uid-1", uid)
		users.AssertExpectations(t)
	})

	t.Run("неизвестная роль отклоняется", func(t *testing.T) {
		users := new(MockUsers)
		svc := newService(users)

		_, err := svc.Register(context.Background(), "a@example.com", "admin", "secret123", "admin")

		assert.Error(t, err)
		users.AssertNotCalled(t, "RegisterUser", mock.Anything, mock.Anything)
	})
}

func TestAuthService_Login(t *testing.T) {
	hash, err := password.GetHash("secret123")
	require.NoError(t, err)

	user := &models.User{
		UID:          "uid-1",
		Email:        "c@example.com",
		DisplayName:  "client",
		PasswordHash: hash,
		Role:         models.RoleClient,
		IsActive:     true,
	}

	t.Run("успешный вход возвращает токен и роль", func(t *testing.T) {
		users := new(MockUsers)
		users.On("GetUserByEmail", mock.Anything, "c@example.com").Return(user, nil)

		svc := newService(users)

		token, role, err := svc.Login(context.Background(), "c@example.com", "secret123")

		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, models.RoleClient, role)

		maker := jwt.NewJWTMaker("test-secret", time.Hour)
		claims, err := maker.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, "uid-1", claims.UserUID)
		assert.Equal(t, models.RoleClient, claims.Role)
	})

	t.Run("неверный пароль", func(t *testing.T) {
		users := new(MockUsers)
		users.On("GetUserByEmail", mock.Anything, "c@example.com").Return(user, nil)

		svc := newService(users)

		_, _, err := svc.Login(context.Background(), "c@example.com", "wrongpass")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("неизвестный email", func(t *testing.T) {
		users := new(MockUsers)
		users.On("GetUserByEmail", mock.Anything, "ghost@example.com").
			Return(nil, errors.New("record not found"))

		svc := newService(users)

		_, _, err := svc.Login(context.Background(), "ghost@example.com", "secret123")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
