// Package auth содержит логику бизнес-уровня для работы с пользователями и аутентификацией.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/antonligaev/premium-platform/internal/lib/jwt"
	"github.com/antonligaev/premium-platform/internal/lib/password"
	"github.com/antonligaev/premium-platform/internal/models"
)

// ErrInvalidCredentials возвращается при неверной паре email/пароль.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByEmail возвращает пользователя по email или ошибку, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// UpdateUserName обновляет отображаемое имя пользователя.
	UpdateUserName(ctx context.Context, userUID, displayName string) error

	// RemoveUser удаляет пользователя и возвращает число удалённых записей.
	RemoveUser(ctx context.Context, userUID string) (int64, error)
}

// AuthService отвечает за регистрацию, авторизацию и валидацию JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает нового пользователя с хэшированием пароля.
// Роль фиксируется при регистрации и дальше не меняется.
func (s *AuthService) Register(ctx context.Context, email, displayName, rawPassword, role string) (string, error) {
	if role != models.RoleClient && role != models.RoleWriter {
		return "", fmt.Errorf("unknown role: %s", role)
	}
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", err
	}
	user := models.User{
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hashed,
		Role:         role,
		IsActive:     true,
	}
	return s.users.RegisterUser(ctx, user)
}

// Login проверяет пароль пользователя и генерирует JWT.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (token, role string, err error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return "", "", ErrInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", ErrInvalidCredentials
	}
	token, err = s.jwtMaker.GenerateToken(user.Email, user.Role, user.UID)
	if err != nil {
		return "", "", err
	}
	return token, user.Role, nil
}

// UpdateDisplayName обновляет отображаемое имя пользователя.
func (s *AuthService) UpdateDisplayName(ctx context.Context, userUID, displayName string) error {
	return s.users.UpdateUserName(ctx, userUID, displayName)
}

// DeleteAccount удаляет учётную запись пользователя вместе с его данными.
func (s *AuthService) DeleteAccount(ctx context.Context, userUID string) (int64, error) {
	return s.users.RemoveUser(ctx, userUID)
}
