// Package models содержит доменные структуры платформы:
// пользователей, статьи, каталог тарифов и подписки.
// Структуры используются в бизнес-логике и при работе с хранилищем.
package models

import "time"

// Роли пользователей. Роль фиксируется при регистрации и
// обычными операциями не меняется.
const (
	RoleClient = "client"
	RoleWriter = "writer"
)

// User представляет зарегистрированного пользователя платформы.
type User struct {
	UID          string    // Уникальный идентификатор пользователя
	Email        string    // Электронная почта (уникальная, используется для входа)
	DisplayName  string    // Отображаемое имя
	PasswordHash string    // Хэш пароля пользователя
	Role         string    // Роль пользователя: client или writer
	IsActive     bool      // Признак активной учётной записи
	IsStaff      bool      // Признак служебной учётной записи
	JoinedAt     time.Time // Дата регистрации
}
