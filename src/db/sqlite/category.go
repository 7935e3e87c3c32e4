package sqlite

import (
	"context"
	"pocketbook-server/src/db"
	"pocketbook-server/src/models"

	"gorm.io/gorm"
)

func (s *Store) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	c := *category
	c.ID = newID(c.ID)
	if err := s.conn(ctx).Create(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *Store) GetCategory(ctx context.Context, userID, id string) (*models.Category, error) {
	var c models.Category
	if err := s.first(ctx, &c, userID, id); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) FindCategoryByName(ctx context.Context, userID, name string) (*models.Category, error) {
	var c models.Category
	if err := s.conn(ctx).Where("user_id = ? AND name = ?", userID, name).First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

type categoryCount struct {
	CategoryID string
	Count      int64
}

func (s *Store) countByCategory(ctx context.Context, model any, userID string) (map[string]int64, error) {
	var rows []categoryCount
	err := s.conn(ctx).Model(model).
		Select("category_id, COUNT(*) AS count").
		Where("user_id = ? AND category_id IS NOT NULL", userID).
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.CategoryID] = r.Count
	}
	return counts, nil
}

func (s *Store) ListCategories(ctx context.Context, userID, kind string) ([]models.CategorySummary, error) {
	q := s.conn(ctx).Where("user_id = ?", userID)
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	var categories []models.Category
	if err := q.Order("kind ASC, name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}

	txnCounts, err := s.countByCategory(ctx, &models.Transaction{}, userID)
	if err != nil {
		return nil, err
	}
	budgetCounts, err := s.countByCategory(ctx, &models.Budget{}, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.CategorySummary, 0, len(categories))
	for _, c := range categories {
		summaries = append(summaries, models.CategorySummary{
			Category:         c,
			TransactionCount: txnCounts[c.ID],
			BudgetCount:      budgetCounts[c.ID],
		})
	}
	return summaries, nil
}

func (s *Store) ListCategoryOptions(ctx context.Context, userID string) ([]models.CategoryOption, error) {
	options := []models.CategoryOption{}
	err := s.conn(ctx).Model(&models.Category{}).
		Select("id, name, kind").
		Where("user_id = ?", userID).
		Order("kind ASC, name ASC").
		Scan(&options).Error
	return options, err
}

func (s *Store) UpdateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	err := s.updateOwned(ctx, &models.Category{}, category.UserID, category.ID, map[string]any{
		"name": category.Name,
		"kind": category.Kind,
	})
	if err != nil {
		return nil, err
	}
	return s.GetCategory(ctx, category.UserID, category.ID)
}

func (s *Store) DeleteCategory(ctx context.Context, userID, id string) error {
	return translate(s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ? AND user_id = ?", id, userID).Delete(&models.CategoryRule{}).Error; err != nil {
			return err
		}
		err := tx.Model(&models.Bill{}).
			Where("category_id = ? AND user_id = ?", id, userID).
			Update("category_id", nil).Error
		if err != nil {
			return err
		}
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Category{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return db.ErrNotFound
		}
		return nil
	}))
}

func (s *Store) CountCategoryTransactions(ctx context.Context, userID, categoryID string) (int64, error) {
	var count int64
	err := s.conn(ctx).Model(&models.Transaction{}).Where("category_id = ? AND user_id = ?", categoryID, userID).Count(&count).Error
	return count, err
}

func (s *Store) CountCategoryBudgets(ctx context.Context, userID, categoryID string) (int64, error) {
	var count int64
	err := s.conn(ctx).Model(&models.Budget{}).Where("category_id = ? AND user_id = ?", categoryID, userID).Count(&count).Error
	return count, err
}
