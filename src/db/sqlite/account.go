package sqlite

import (
	"context"
	"pocketbook-server/src/models"
)

func (s *Store) CreateAccount(ctx context.Context, account *models.Account) (*models.Account, error) {
	a := *account
	a.ID = newID(a.ID)
	if err := s.conn(ctx).Create(&a).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (s *Store) GetAccount(ctx context.Context, userID, id string) (*models.Account, error) {
	var a models.Account
	if err := s.first(ctx, &a, userID, id); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) ListAccounts(ctx context.Context, userID string) ([]models.AccountSummary, error) {
	var accounts []models.Account
	if err := s.conn(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&accounts).Error; err != nil {
		return nil, err
	}

	var totals []struct {
		AccountID string
		Count     int64
		Total     int64
	}
	err := s.conn(ctx).Model(&models.Transaction{}).
		Select("account_id, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ?", userID).
		Group("account_id").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	byAccount := make(map[string]int, len(totals))
	for i, t := range totals {
		byAccount[t.AccountID] = i
	}

	summaries := make([]models.AccountSummary, 0, len(accounts))
	for _, a := range accounts {
		summary := models.AccountSummary{Account: a}
		if i, ok := byAccount[a.ID]; ok {
			summary.TransactionCount = totals[i].Count
			summary.Balance = totals[i].Total
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *Store) ListAccountOptions(ctx context.Context, userID string) ([]models.AccountOption, error) {
	options := []models.AccountOption{}
	err := s.conn(ctx).Model(&models.Account{}).
		Select("id, name, type, currency, color, icon").
		Where("user_id = ?", userID).
		Order("name ASC").
		Scan(&options).Error
	return options, err
}

func (s *Store) UpdateAccount(ctx context.Context, account *models.Account) (*models.Account, error) {
	err := s.updateOwned(ctx, &models.Account{}, account.UserID, account.ID, map[string]any{
		"name":          account.Name,
		"type":          account.Type,
		"currency":      account.Currency,
		"institution":   account.Institution,
		"number_masked": account.NumberMasked,
		"color":         account.Color,
		"icon":          account.Icon,
	})
	if err != nil {
		return nil, err
	}
	return s.GetAccount(ctx, account.UserID, account.ID)
}

func (s *Store) DeleteAccount(ctx context.Context, userID, id string) error {
	return s.deleteOwned(ctx, &models.Account{}, userID, id)
}

func (s *Store) CountAccountTransactions(ctx context.Context, userID, accountID string) (int64, error) {
	var count int64
	err := s.conn(ctx).Model(&models.Transaction{}).Where("account_id = ? AND user_id = ?", accountID, userID).Count(&count).Error
	return count, err
}
