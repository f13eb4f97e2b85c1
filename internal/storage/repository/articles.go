package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/antonligaev/premium-platform/internal/models"
)

// CreateArticle вставляет новую статью и возвращает её ID.
func (s *Storage) CreateArticle(ctx context.Context, article models.Article) (int, error) {
	const op = "storage.CreateArticle"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO articles (author_uid, title, body, is_premium)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		article.AuthorUID, article.Title, article.Body, article.IsPremium).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetArticleByOwner возвращает статью по ID при условии, что она
// принадлежит указанному автору. Используется шлюзом владения.
func (s *Storage) GetArticleByOwner(ctx context.Context, id int, authorUID string) (*models.Article, error) {
	const op = "storage.GetArticleByOwner"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, author_uid, title, body, is_premium, created_at
			  FROM articles
			  WHERE id = $1 AND author_uid = $2`
	a := &models.Article{}
	err := s.DB.QueryRowContext(ctx, query, id, authorUID).Scan(
		&a.ID, &a.AuthorUID, &a.Title, &a.Body, &a.IsPremium, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

// ListArticlesByAuthor возвращает статьи автора.
func (s *Storage) ListArticlesByAuthor(ctx context.Context, authorUID string) ([]*models.Article, error) {
	const op = "storage.ListArticlesByAuthor"
	query := `SELECT id, author_uid, title, body, is_premium, created_at
			  FROM articles
			  WHERE author_uid = $1
			  ORDER BY created_at DESC`
	return s.listArticles(ctx, op, query, authorUID)
}

// ListArticles возвращает статьи для чтения клиентом.
// При includePremium = false премиальные статьи исключаются.
func (s *Storage) ListArticles(ctx context.Context, includePremium bool) ([]*models.Article, error) {
	const op = "storage.ListArticles"
	if includePremium {
		query := `SELECT id, author_uid, title, body, is_premium, created_at
				  FROM articles
				  ORDER BY created_at DESC`
		return s.listArticles(ctx, op, query)
	}
	query := `SELECT id, author_uid, title, body, is_premium, created_at
			  FROM articles
			  WHERE is_premium = FALSE
			  ORDER BY created_at DESC`
	return s.listArticles(ctx, op, query)
}

func (s *Storage) listArticles(ctx context.Context, op, query string, args ...any) ([]*models.Article, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.Article
	for rows.Next() {
		var a models.Article
		if err = rows.Scan(&a.ID, &a.AuthorUID, &a.Title, &a.Body, &a.IsPremium, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateArticle обновляет содержимое статьи по ID и возвращает число изменённых строк.
func (s *Storage) UpdateArticle(ctx context.Context, id int, article models.Article) (int64, error) {
	const op = "storage.UpdateArticle"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE articles
			  SET title = $1, body = $2, is_premium = $3
			  WHERE id = $4`
	result, err := s.DB.ExecContext(ctx, query, article.Title, article.Body, article.IsPremium, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}

// RemoveArticle удаляет статью по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveArticle(ctx context.Context, id int) (int64, error) {
	const op = "storage.RemoveArticle"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM articles WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}
