package postgres

import (
	"context"
	"pocketbook-server/src/models"
	"time"
)

const budgetColumns = `id, user_id, category_id, month, planned_amount, created_at, updated_at`

func scanBudget(row scanner) (*models.Budget, error) {
	var b models.Budget
	if err := row.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Month, &b.PlannedAmount, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (s *Store) CreateBudget(ctx context.Context, budget *models.Budget) (*models.Budget, error) {
	query := `
		INSERT INTO budgets (id, user_id, category_id, month, planned_amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + budgetColumns
	return scanBudget(s.pool.QueryRow(ctx, query, newID(budget.ID), budget.UserID, budget.CategoryID, budget.Month.UTC(), budget.PlannedAmount))
}

func (s *Store) GetBudget(ctx context.Context, userID, id string) (*models.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE id = $1 AND user_id = $2`
	return scanBudget(s.pool.QueryRow(ctx, query, id, userID))
}

func (s *Store) GetBudgetForMonth(ctx context.Context, userID, categoryID string, month time.Time) (*models.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE user_id = $1 AND category_id = $2 AND month = $3`
	return scanBudget(s.pool.QueryRow(ctx, query, userID, categoryID, month.UTC()))
}

func (s *Store) ListBudgets(ctx context.Context, userID string, month *time.Time) ([]models.Budget, error) {
	query := `
		SELECT ` + budgetColumns + `
		FROM budgets
		WHERE user_id = $1 AND ($2::TIMESTAMPTZ IS NULL OR month = $2::TIMESTAMPTZ)
		ORDER BY month DESC, created_at DESC
	`
	rows, err := s.pool.Query(ctx, query, userID, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	budgets := []models.Budget{}
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, *b)
	}
	return budgets, rows.Err()
}

func (s *Store) UpdateBudget(ctx context.Context, budget *models.Budget) (*models.Budget, error) {
	query := `
		UPDATE budgets
		SET category_id = $1, month = $2, planned_amount = $3, updated_at = NOW()
		WHERE id = $4 AND user_id = $5
		RETURNING ` + budgetColumns
	return scanBudget(s.pool.QueryRow(ctx, query, budget.CategoryID, budget.Month.UTC(), budget.PlannedAmount, budget.ID, budget.UserID))
}

func (s *Store) DeleteBudget(ctx context.Context, userID, id string) error {
	query := `DELETE FROM budgets WHERE id = $1 AND user_id = $2`
	return expectOne(s.pool.Exec(ctx, query, id, userID))
}
