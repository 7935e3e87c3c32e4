package postgres

import (
	"context"
	"pocketbook-server/src/models"
)

const ruleColumns = `id, user_id, name, conditions, category_id, created_at, updated_at`

func scanRule(row scanner) (*models.CategoryRule, error) {
	var r models.CategoryRule
	if err := row.Scan(&r.ID, &r.UserID, &r.Name, &r.Conditions, &r.CategoryID, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

func (s *Store) CreateCategoryRule(ctx context.Context, rule *models.CategoryRule) (*models.CategoryRule, error) {
	query := `
		INSERT INTO category_rules (id, user_id, name, conditions, category_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + ruleColumns
	return scanRule(s.pool.QueryRow(ctx, query, newID(rule.ID), rule.UserID, rule.Name, rule.Conditions, rule.CategoryID))
}

func (s *Store) GetCategoryRule(ctx context.Context, userID, id string) (*models.CategoryRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM category_rules WHERE id = $1 AND user_id = $2`
	return scanRule(s.pool.QueryRow(ctx, query, id, userID))
}

// ListCategoryRules returns rules in creation order, which is also the order
// they are tried in.
func (s *Store) ListCategoryRules(ctx context.Context, userID string) ([]models.CategoryRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM category_rules WHERE user_id = $1 ORDER BY created_at ASC, id ASC`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rules := []models.CategoryRule{}
	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, *r)
	}
	return rules, rows.Err()
}

func (s *Store) UpdateCategoryRule(ctx context.Context, rule *models.CategoryRule) (*models.CategoryRule, error) {
	query := `
		UPDATE category_rules
		SET name = $1, conditions = $2, category_id = $3, updated_at = NOW()
		WHERE id = $4 AND user_id = $5
		RETURNING ` + ruleColumns
	return scanRule(s.pool.QueryRow(ctx, query, rule.Name, rule.Conditions, rule.CategoryID, rule.ID, rule.UserID))
}

func (s *Store) DeleteCategoryRule(ctx context.Context, userID, id string) error {
	query := `DELETE FROM category_rules WHERE id = $1 AND user_id = $2`
	return expectOne(s.pool.Exec(ctx, query, id, userID))
}
