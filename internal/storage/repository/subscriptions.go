package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/antonligaev/premium-platform/internal/models"
)

// ErrActiveSubscriptionExists возвращается при попытке создать вторую
// активную подписку для одного пользователя. Инвариант закреплён
// частичным уникальным индексом uq_subscriptions_active_user.
var ErrActiveSubscriptionExists = errors.New("active subscription already exists")

const pgUniqueViolation = "23505"

// CreateSubscription вставляет новую подписку и возвращает её ID.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (int, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (user_uid, plan_code, cost, external_subscription_id, is_active)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		sub.UserUID, sub.PlanCode, sub.Cost, sub.ExternalSubscriptionID, sub.IsActive).Scan(&newID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return 0, fmt.Errorf("%s: %w", op, ErrActiveSubscriptionExists)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetActiveSubscriptionByUserUID возвращает активную подписку пользователя.
// Если подписки нет, возвращается ErrNotFound.
func (s *Storage) GetActiveSubscriptionByUserUID(ctx context.Context, userUID string) (*models.Subscription, error) {
	const op = "storage.GetActiveSubscriptionByUserUID"
	query := `SELECT id, user_uid, plan_code, cost::text, external_subscription_id, is_active, created_at
			  FROM subscriptions
			  WHERE user_uid = $1 AND is_active = TRUE`
	return s.scanSubscription(ctx, op, query, userUID)
}

// GetLatestSubscriptionByUserUID возвращает последнюю подписку пользователя
// независимо от её состояния. Используется панелью клиента, где неактивная
// подписка показывается с пометкой.
func (s *Storage) GetLatestSubscriptionByUserUID(ctx context.Context, userUID string) (*models.Subscription, error) {
	const op = "storage.GetLatestSubscriptionByUserUID"
	query := `SELECT id, user_uid, plan_code, cost::text, external_subscription_id, is_active, created_at
			  FROM subscriptions
			  WHERE user_uid = $1
			  ORDER BY created_at DESC
			  LIMIT 1`
	return s.scanSubscription(ctx, op, query, userUID)
}

// GetSubscriptionByOwner возвращает подписку по ID при условии,
// что она принадлежит указанному пользователю. Используется шлюзом владения.
func (s *Storage) GetSubscriptionByOwner(ctx context.Context, id int, userUID string) (*models.Subscription, error) {
	const op = "storage.GetSubscriptionByOwner"
	query := `SELECT id, user_uid, plan_code, cost::text, external_subscription_id, is_active, created_at
			  FROM subscriptions
			  WHERE id = $1 AND user_uid = $2`
	return s.scanSubscription(ctx, op, query, id, userUID)
}

func (s *Storage) scanSubscription(ctx context.Context, op, query string, args ...any) (*models.Subscription, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	sub := &models.Subscription{}
	err := s.DB.QueryRowContext(ctx, query, args...).Scan(
		&sub.ID, &sub.UserUID, &sub.PlanCode, &sub.Cost,
		&sub.ExternalSubscriptionID, &sub.IsActive, &sub.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// UpdateSubscriptionPlan перенаправляет подписку на другой тариф каталога.
// Стоимость подписки не пересчитывается здесь: провайдер уже подтвердил
// новую цену на своей стороне, а локальная запись хранит снимок на момент
// операции, поэтому вызывающая сторона передаёт её явно.
func (s *Storage) UpdateSubscriptionPlan(ctx context.Context, id int, planCode, cost string) (int64, error) {
	const op = "storage.UpdateSubscriptionPlan"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET plan_code = $1, cost = $2
			  WHERE id = $3`
	result, err := s.DB.ExecContext(ctx, query, planCode, cost, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}

// RemoveSubscription удаляет подписку по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveSubscription(ctx context.Context, id int) (int64, error) {
	const op = "storage.RemoveSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM subscriptions WHERE id = $1`
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
