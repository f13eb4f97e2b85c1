package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"

	"github.com/antonligaev/premium-platform/internal/http/response"
	"github.com/antonligaev/premium-platform/internal/lib/sl"
	"github.com/antonligaev/premium-platform/internal/models"
	"github.com/antonligaev/premium-platform/internal/storage/repository"
)

// ArticleByOwnerGetter описывает выборку статьи с проверкой владельца.
type ArticleByOwnerGetter interface {
	GetArticleByOwner(ctx context.Context, id int, authorUID string) (*models.Article, error)
}

// SubscriptionByOwnerGetter описывает выборку подписки с проверкой владельца.
type SubscriptionByOwnerGetter interface {
	GetSubscriptionByOwner(ctx context.Context, id int, userUID string) (*models.Subscription, error)
}

// OwnArticle — шлюз владения статьёй. Извлекает id из URL, загружает статью
// с условием (id, author = текущий пользователь) и кладёт её в контекст.
// Промах — чужая или несуществующая статья — завершается редиректом
// на список статей автора, без раскрытия причины.
// Предполагает уже пройденные JWTMiddleware и RequireRole.
func OwnArticle(articles ArticleByOwnerGetter, log *slog.Logger) func(http.Handler) http.Handler {
	return ownershipGate(log, "/api/v1/writer/my-articles",
		func(r *http.Request, id int, userUID string) (any, Key, error) {
			article, err := articles.GetArticleByOwner(r.Context(), id, userUID)
			return article, ArticleKey, err
		})
}

// OwnSubscription — шлюз владения подпиской; промах ведёт на дашборд клиента.
func OwnSubscription(subscriptions SubscriptionByOwnerGetter, log *slog.Logger) func(http.Handler) http.Handler {
	return ownershipGate(log, "/api/v1/client/dashboard",
		func(r *http.Request, id int, userUID string) (any, Key, error) {
			sub, err := subscriptions.GetSubscriptionByOwner(r.Context(), id, userUID)
			return sub, SubscriptionKey, err
		})
}

func ownershipGate(log *slog.Logger, redirectTo string,
	load func(r *http.Request, id int, userUID string) (any, Key, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.ownershipGate"

			log := log.With(slog.String("op", op))

			userUID, ok := UserUIDFromContext(r.Context())
			if !ok || userUID == "" {
				log.Error("user identification missing")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			id, err := strconv.Atoi(chi.URLParam(r, "id"))
			if err != nil {
				log.Error("failed to decode id from url", sl.Err(err))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("failed to decode id from url"))
				return
			}

			entity, key, err := load(r, id, userUID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					log.Info("entity not found or not owned by caller", slog.Int("id", id))
					http.Redirect(w, r, redirectTo, http.StatusSeeOther)
					return
				}
				log.Error("failed to load entity", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}

			ctx := context.WithValue(r.Context(), key, entity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
