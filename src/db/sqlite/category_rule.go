package sqlite

import (
	"context"
	"pocketbook-server/src/models"
)

func (s *Store) CreateCategoryRule(ctx context.Context, rule *models.CategoryRule) (*models.CategoryRule, error) {
	r := *rule
	r.ID = newID(r.ID)
	if err := s.conn(ctx).Create(&r).Error; err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

func (s *Store) GetCategoryRule(ctx context.Context, userID, id string) (*models.CategoryRule, error) {
	var r models.CategoryRule
	if err := s.first(ctx, &r, userID, id); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) ListCategoryRules(ctx context.Context, userID string) ([]models.CategoryRule, error) {
	rules := []models.CategoryRule{}
	err := s.conn(ctx).Where("user_id = ?", userID).Order("created_at ASC, id ASC").Find(&rules).Error
	return rules, err
}

func (s *Store) UpdateCategoryRule(ctx context.Context, rule *models.CategoryRule) (*models.CategoryRule, error) {
	err := s.updateOwned(ctx, &models.CategoryRule{}, rule.UserID, rule.ID, map[string]any{
		"name":        rule.Name,
		"conditions":  []byte(rule.Conditions),
		"category_id": rule.CategoryID,
	})
	if err != nil {
		return nil, err
	}
	return s.GetCategoryRule(ctx, rule.UserID, rule.ID)
}

func (s *Store) DeleteCategoryRule(ctx context.Context, userID, id string) error {
	return s.deleteOwned(ctx, &models.CategoryRule{}, userID, id)
}
