package sqlite

import (
	"context"
	"pocketbook-server/src/db"
	"pocketbook-server/src/models"
	"time"
)

func (s *Store) CreateBudget(ctx context.Context, budget *models.Budget) (*models.Budget, error) {
	b := *budget
	b.ID = newID(b.ID)
	b.Month = db.MonthStart(b.Month)
	if err := s.conn(ctx).Create(&b).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (s *Store) GetBudget(ctx context.Context, userID, id string) (*models.Budget, error) {
	var b models.Budget
	if err := s.first(ctx, &b, userID, id); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Store) GetBudgetForMonth(ctx context.Context, userID, categoryID string, month time.Time) (*models.Budget, error) {
	var b models.Budget
	err := s.conn(ctx).
		Where("user_id = ? AND category_id = ? AND month = ?", userID, categoryID, db.MonthStart(month)).
		First(&b).Error
	if err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (s *Store) ListBudgets(ctx context.Context, userID string, month *time.Time) ([]models.Budget, error) {
	q := s.conn(ctx).Where("user_id = ?", userID)
	if month != nil {
		q = q.Where("month = ?", db.MonthStart(*month))
	}
	budgets := []models.Budget{}
	err := q.Order("month DESC, created_at DESC").Find(&budgets).Error
	return budgets, err
}

func (s *Store) UpdateBudget(ctx context.Context, budget *models.Budget) (*models.Budget, error) {
	err := s.updateOwned(ctx, &models.Budget{}, budget.UserID, budget.ID, map[string]any{
		"category_id":    budget.CategoryID,
		"month":          db.MonthStart(budget.Month),
		"planned_amount": budget.PlannedAmount,
	})
	if err != nil {
		return nil, err
	}
	return s.GetBudget(ctx, budget.UserID, budget.ID)
}

func (s *Store) DeleteBudget(ctx context.Context, userID, id string) error {
	return s.deleteOwned(ctx, &models.Budget{}, userID, id)
}
