package sqlite

import (
	"context"
	"pocketbook-server/src/db"
	"pocketbook-server/src/models"
	"time"
)

func (s *Store) CreateTransaction(ctx context.Context, txn *models.Transaction) (*models.Transaction, error) {
	t := *txn
	t.ID = newID(t.ID)
	t.Date = t.Date.UTC()
	if err := s.conn(ctx).Create(&t).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

// details joins transactions with their accounts and categories. Rows whose
// account no longer exists are dropped, matching the inner join on Postgres.
func (s *Store) details(ctx context.Context, userID string, txns []models.Transaction) ([]models.TransactionDetail, error) {
	accountIDs := make([]string, 0, len(txns))
	categoryIDs := make([]string, 0, len(txns))
	for _, t := range txns {
		accountIDs = append(accountIDs, t.AccountID)
		if t.CategoryID != nil {
			categoryIDs = append(categoryIDs, *t.CategoryID)
		}
	}

	accounts := map[string]models.AccountOption{}
	if len(accountIDs) > 0 {
		var rows []models.AccountOption
		err := s.conn(ctx).Model(&models.Account{}).
			Select("id, name, type, currency, color, icon").
			Where("user_id = ? AND id IN ?", userID, accountIDs).
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, a := range rows {
			accounts[a.ID] = a
		}
	}

	categories := map[string]models.CategoryOption{}
	if len(categoryIDs) > 0 {
		var rows []models.CategoryOption
		err := s.conn(ctx).Model(&models.Category{}).
			Select("id, name, kind").
			Where("user_id = ? AND id IN ?", userID, categoryIDs).
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, c := range rows {
			categories[c.ID] = c
		}
	}

	out := make([]models.TransactionDetail, 0, len(txns))
	for _, t := range txns {
		account, ok := accounts[t.AccountID]
		if !ok {
			continue
		}
		d := models.TransactionDetail{Transaction: t, Account: account}
		if t.CategoryID != nil {
			if c, ok := categories[*t.CategoryID]; ok {
				d.Category = &c
			}
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *Store) GetTransaction(ctx context.Context, userID, id string) (*models.TransactionDetail, error) {
	var t models.Transaction
	if err := s.first(ctx, &t, userID, id); err != nil {
		return nil, err
	}
	details, err := s.details(ctx, userID, []models.Transaction{t})
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, db.ErrNotFound
	}
	return &details[0], nil
}

func (s *Store) ListTransactions(ctx context.Context, userID string, offset, limit int) ([]models.TransactionDetail, error) {
	var txns []models.Transaction
	err := s.conn(ctx).
		Where("user_id = ?", userID).
		Order("date DESC, created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return s.details(ctx, userID, txns)
}

func (s *Store) CountTransactions(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := s.conn(ctx).Model(&models.Transaction{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (s *Store) ListAllTransactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	txns := []models.Transaction{}
	err := s.conn(ctx).Where("user_id = ?", userID).Order("date DESC, created_at DESC").Find(&txns).Error
	return txns, err
}

func (s *Store) UpdateTransaction(ctx context.Context, txn *models.Transaction) (*models.Transaction, error) {
	err := s.updateOwned(ctx, &models.Transaction{}, txn.UserID, txn.ID, map[string]any{
		"account_id":   txn.AccountID,
		"category_id":  txn.CategoryID,
		"amount":       txn.Amount,
		"date":         txn.Date.UTC(),
		"payee":        txn.Payee,
		"notes":        txn.Notes,
		"is_recurring": txn.IsRecurring,
		"rrule":        txn.RRule,
	})
	if err != nil {
		return nil, err
	}
	var t models.Transaction
	if err := s.first(ctx, &t, txn.UserID, txn.ID); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) SetTransactionCategory(ctx context.Context, userID, id, categoryID string) error {
	return s.updateOwned(ctx, &models.Transaction{}, userID, id, map[string]any{"category_id": categoryID})
}

func (s *Store) DeleteTransaction(ctx context.Context, userID, id string) error {
	return s.deleteOwned(ctx, &models.Transaction{}, userID, id)
}

func (s *Store) SumTransactions(ctx context.Context, userID string, from, to time.Time) (int64, int64, error) {
	var row struct {
		Income  int64
		Expense int64
	}
	err := s.conn(ctx).Model(&models.Transaction{}).
		Select(`COALESCE(SUM(CASE WHEN amount > 0 THEN amount ELSE 0 END), 0) AS income,
			COALESCE(SUM(CASE WHEN amount < 0 THEN amount ELSE 0 END), 0) AS expense`).
		Where("user_id = ? AND date >= ? AND date < ?", userID, from.UTC(), to.UTC()).
		Scan(&row).Error
	return row.Income, row.Expense, err
}

func (s *Store) SumCategoryAmounts(ctx context.Context, userID, categoryID string, from, to time.Time) (int64, error) {
	var total int64
	err := s.conn(ctx).Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND category_id = ? AND date >= ? AND date < ?", userID, categoryID, from.UTC(), to.UTC()).
		Scan(&total).Error
	return total, err
}
