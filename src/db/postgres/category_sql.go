package postgres

import (
	"context"
	"pocketbook-server/src/models"
)

const categoryColumns = `id, user_id, name, kind, created_at, updated_at`

func scanCategory(row scanner, extra ...any) (*models.Category, error) {
	var c models.Category
	dest := []any{&c.ID, &c.UserID, &c.Name, &c.Kind, &c.CreatedAt, &c.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *Store) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	query := `
		INSERT INTO categories (id, user_id, name, kind)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + categoryColumns
	return scanCategory(s.pool.QueryRow(ctx, query, newID(category.ID), category.UserID, category.Name, category.Kind))
}

func (s *Store) GetCategory(ctx context.Context, userID, id string) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1 AND user_id = $2`
	return scanCategory(s.pool.QueryRow(ctx, query, id, userID))
}

func (s *Store) FindCategoryByName(ctx context.Context, userID, name string) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE user_id = $1 AND name = $2`
	return scanCategory(s.pool.QueryRow(ctx, query, userID, name))
}

func (s *Store) ListCategories(ctx context.Context, userID, kind string) ([]models.CategorySummary, error) {
	query := `
		SELECT c.id, c.user_id, c.name, c.kind, c.created_at, c.updated_at,
			(SELECT COUNT(*) FROM transactions t WHERE t.category_id = c.id),
			(SELECT COUNT(*) FROM budgets b WHERE b.category_id = c.id)
		FROM categories c
		WHERE c.user_id = $1 AND ($2::TEXT = '' OR c.kind = $2::TEXT)
		ORDER BY c.kind ASC, c.name ASC
	`
	rows, err := s.pool.Query(ctx, query, userID, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.CategorySummary{}
	for rows.Next() {
		var summary models.CategorySummary
		category, err := scanCategory(rows, &summary.TransactionCount, &summary.BudgetCount)
		if err != nil {
			return nil, err
		}
		summary.Category = *category
		categories = append(categories, summary)
	}
	return categories, rows.Err()
}

func (s *Store) ListCategoryOptions(ctx context.Context, userID string) ([]models.CategoryOption, error) {
	query := `
		SELECT id, name, kind
		FROM categories
		WHERE user_id = $1
		ORDER BY kind ASC, name ASC
	`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	options := []models.CategoryOption{}
	for rows.Next() {
		var o models.CategoryOption
		if err := rows.Scan(&o.ID, &o.Name, &o.Kind); err != nil {
			return nil, err
		}
		options = append(options, o)
	}
	return options, rows.Err()
}

func (s *Store) UpdateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	query := `
		UPDATE categories
		SET name = $1, kind = $2, updated_at = NOW()
		WHERE id = $3 AND user_id = $4
		RETURNING ` + categoryColumns
	return scanCategory(s.pool.QueryRow(ctx, query, category.Name, category.Kind, category.ID, category.UserID))
}

// DeleteCategory leaves rule and bill cleanup to the schema's ON DELETE
// actions.
func (s *Store) DeleteCategory(ctx context.Context, userID, id string) error {
	query := `DELETE FROM categories WHERE id = $1 AND user_id = $2`
	return expectOne(s.pool.Exec(ctx, query, id, userID))
}

func (s *Store) CountCategoryTransactions(ctx context.Context, userID, categoryID string) (int64, error) {
	query := `SELECT COUNT(*) FROM transactions WHERE category_id = $1 AND user_id = $2`
	var count int64
	err := s.pool.QueryRow(ctx, query, categoryID, userID).Scan(&count)
	return count, err
}

func (s *Store) CountCategoryBudgets(ctx context.Context, userID, categoryID string) (int64, error) {
	query := `SELECT COUNT(*) FROM budgets WHERE category_id = $1 AND user_id = $2`
	var count int64
	err := s.pool.QueryRow(ctx, query, categoryID, userID).Scan(&count)
	return count, err
}
