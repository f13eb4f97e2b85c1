package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/antonligaev/premium-platform/internal/models"
)

// ListActivePlans возвращает тарифы, доступные новым подписчикам.
func (s *Storage) ListActivePlans(ctx context.Context) ([]*models.PlanChoice, error) {
	const op = "storage.ListActivePlans"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT code, name, cost::text, external_plan_id, is_premium, is_active
			  FROM plan_choices
			  WHERE is_active = TRUE
			  ORDER BY cost`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.PlanChoice
	for rows.Next() {
		var p models.PlanChoice
		if err = rows.Scan(&p.Code, &p.Name, &p.Cost, &p.ExternalPlanID, &p.IsPremium, &p.IsActive); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetPlanByCode возвращает тариф из каталога по его коду.
func (s *Storage) GetPlanByCode(ctx context.Context, code string) (*models.PlanChoice, error) {
	const op = "storage.GetPlanByCode"
	query := `SELECT code, name, cost::text, external_plan_id, is_premium, is_active
			  FROM plan_choices
			  WHERE code = $1`
	return s.scanPlan(ctx, op, query, code)
}

// GetPlanByExternalID возвращает тариф по идентификатору платёжного провайдера.
func (s *Storage) GetPlanByExternalID(ctx context.Context, externalPlanID string) (*models.PlanChoice, error) {
	const op = "storage.GetPlanByExternalID"
	query := `SELECT code, name, cost::text, external_plan_id, is_premium, is_active
			  FROM plan_choices
			  WHERE external_plan_id = $1`
	return s.scanPlan(ctx, op, query, externalPlanID)
}

func (s *Storage) scanPlan(ctx context.Context, op, query string, arg any) (*models.PlanChoice, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	p := &models.PlanChoice{}
	err := s.DB.QueryRowContext(ctx, query, arg).Scan(
		&p.Code, &p.Name, &p.Cost, &p.ExternalPlanID, &p.IsPremium, &p.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}
