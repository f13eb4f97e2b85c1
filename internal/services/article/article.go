// Package article содержит бизнес-логику работы со статьями, включая кеширование чтений.
package article

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/antonligaev/premium-platform/internal/models"
)

// ArticleRepository определяет методы для работы со статьями в хранилище.
type ArticleRepository interface {
	CreateArticle(ctx context.Context, article models.Article) (int, error)
	ListArticlesByAuthor(ctx context.Context, authorUID string) ([]*models.Article, error)
	ListArticles(ctx context.Context, includePremium bool) ([]*models.Article, error)
	UpdateArticle(ctx context.Context, id int, article models.Article) (int64, error)
	RemoveArticle(ctx context.Context, id int) (int64, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// SubscriptionChecker возвращает активную подписку клиента вместе с тарифом.
type SubscriptionChecker interface {
	ActiveSubscription(ctx context.Context, userUID string) (*models.Subscription, *models.PlanChoice, error)
}

// Service реализует бизнес-логику работы со статьями.
type Service struct {
	repo  ArticleRepository
	cache Cache
	subs  SubscriptionChecker
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo ArticleRepository, cache Cache, subs SubscriptionChecker, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		subs:  subs,
		log:   log,
	}
}

func browseCacheKey(includePremium bool) string {
	return fmt.Sprintf("articles:browse:%t", includePremium)
}

// Create сохраняет новую статью автора и инвалидирует кэш чтений.
func (s *Service) Create(ctx context.Context, authorUID string, req models.DummyArticle) (int, error) {
	article := models.Article{
		AuthorUID: authorUID,
		Title:     req.Title,
		Body:      req.Body,
		IsPremium: req.IsPremium,
	}
	id, err := s.repo.CreateArticle(ctx, article)
	if err != nil {
		return 0, err
	}
	s.invalidateBrowseCache()
	s.log.Info("created new article", slog.Int("id", id))
	return id, nil
}

// ListByAuthor возвращает статьи автора.
func (s *Service) ListByAuthor(ctx context.Context, authorUID string) ([]*models.Article, error) {
	return s.repo.ListArticlesByAuthor(ctx, authorUID)
}

// Browse возвращает статьи для клиента. Премиальные статьи попадают
// в выдачу только при активной подписке на премиальный тариф.
// Второе возвращаемое значение — есть ли у клиента подписка вообще.
func (s *Service) Browse(ctx context.Context, userUID string) ([]*models.Article, bool, error) {
	sub, plan, err := s.subs.ActiveSubscription(ctx, userUID)
	if err != nil {
		return nil, false, err
	}
	includePremium := sub != nil && plan != nil && plan.IsPremium

	var cached []*models.Article
	found, err := s.cache.Get(browseCacheKey(includePremium), &cached)
	if err != nil {
		s.log.Warn("failed to read browse cache", slog.Any("err", err))
	}
	if found {
		return cached, sub != nil, nil
	}

	articles, err := s.repo.ListArticles(ctx, includePremium)
	if err != nil {
		return nil, false, err
	}
	if err := s.cache.Set(browseCacheKey(includePremium), articles, time.Minute); err != nil {
		s.log.Warn("failed to cache browse result", slog.Any("err", err))
	}
	return articles, sub != nil, nil
}

// Update обновляет статью и инвалидирует кэш чтений.
func (s *Service) Update(ctx context.Context, id int, authorUID string, req models.DummyArticle) (int64, error) {
	article := models.Article{
		AuthorUID: authorUID,
		Title:     req.Title,
		Body:      req.Body,
		IsPremium: req.IsPremium,
	}
	count, err := s.repo.UpdateArticle(ctx, id, article)
	if err != nil {
		return 0, err
	}
	s.invalidateBrowseCache()
	return count, nil
}

// Remove удаляет статью и инвалидирует кэш чтений.
func (s *Service) Remove(ctx context.Context, id int) (int64, error) {
	count, err := s.repo.RemoveArticle(ctx, id)
	if err != nil {
		return 0, err
	}
	s.invalidateBrowseCache()
	return count, nil
}

func (s *Service) invalidateBrowseCache() {
	for _, includePremium := range []bool{true, false} {
		if err := s.cache.Invalidate(browseCacheKey(includePremium)); err != nil {
			s.log.Warn("failed to invalidate browse cache", slog.Any("err", err))
		}
	}
}
