package sqlite

import (
	"context"
	"pocketbook-server/src/models"
)

func (s *Store) CreateBill(ctx context.Context, bill *models.Bill) (*models.Bill, error) {
	b := *bill
	b.ID = newID(b.ID)
	if err := s.conn(ctx).Create(&b).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (s *Store) GetBill(ctx context.Context, userID, id string) (*models.Bill, error) {
	var b models.Bill
	if err := s.first(ctx, &b, userID, id); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Store) ListBills(ctx context.Context, userID string) ([]models.Bill, error) {
	bills := []models.Bill{}
	err := s.conn(ctx).Where("user_id = ?", userID).Order("due_day ASC, name ASC").Find(&bills).Error
	return bills, err
}

func (s *Store) UpdateBill(ctx context.Context, bill *models.Bill) (*models.Bill, error) {
	err := s.updateOwned(ctx, &models.Bill{}, bill.UserID, bill.ID, map[string]any{
		"category_id": bill.CategoryID,
		"name":        bill.Name,
		"amount":      bill.Amount,
		"due_day":     bill.DueDay,
	})
	if err != nil {
		return nil, err
	}
	return s.GetBill(ctx, bill.UserID, bill.ID)
}

func (s *Store) DeleteBill(ctx context.Context, userID, id string) error {
	return s.deleteOwned(ctx, &models.Bill{}, userID, id)
}
