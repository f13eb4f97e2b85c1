// Package middlewarectx содержит HTTP middleware платформы:
// проверку JWT, проверку роли, шлюзы владения сущностями
// и ограничение частоты запросов. Middleware образуют явную цепочку
// предикатов, выполняемую до обработчика; порядок фиксирован:
// аутентификация -> роль -> владение.
package middlewarectx

import (
	"context"

	"github.com/antonligaev/premium-platform/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserUID — ключ для UID пользователя в контексте
	UserUID Key = "user_uid"
	// Email — ключ для email пользователя в контексте
	Email Key = "email"
	// Role — ключ для роли пользователя в контексте
	Role Key = "role"
	// ArticleKey — ключ для статьи, загруженной шлюзом владения
	ArticleKey Key = "article"
	// SubscriptionKey — ключ для подписки, загруженной шлюзом владения
	SubscriptionKey Key = "subscription"
)

// UserUIDFromContext возвращает UID аутентифицированного пользователя.
func UserUIDFromContext(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(UserUID).(string)
	return uid, ok
}

// EmailFromContext возвращает email аутентифицированного пользователя.
func EmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(Email).(string)
	return email, ok
}

// ArticleFromContext возвращает статью, загруженную шлюзом владения.
func ArticleFromContext(ctx context.Context) (*models.Article, bool) {
	article, ok := ctx.Value(ArticleKey).(*models.Article)
	return article, ok
}

// SubscriptionFromContext возвращает подписку, загруженную шлюзом владения.
func SubscriptionFromContext(ctx context.Context) (*models.Subscription, bool) {
	sub, ok := ctx.Value(SubscriptionKey).(*models.Subscription)
	return sub, ok
}

// dashboardPath возвращает стартовую страницу для роли.
func dashboardPath(role string) string {
	if role == models.RoleWriter {
		return "/api/v1/writer/my-articles"
	}
	return "/api/v1/client/dashboard"
}
