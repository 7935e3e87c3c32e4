package postgres

import (
	"context"
	"pocketbook-server/src/models"
)

const accountColumns = `id, user_id, name, type, currency, institution, number_masked, color, icon, created_at, updated_at`

func scanAccount(row scanner, extra ...any) (*models.Account, error) {
	var a models.Account
	dest := []any{&a.ID, &a.UserID, &a.Name, &a.Type, &a.Currency, &a.Institution, &a.NumberMasked, &a.Color, &a.Icon, &a.CreatedAt, &a.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (s *Store) CreateAccount(ctx context.Context, account *models.Account) (*models.Account, error) {
	query := `
		INSERT INTO accounts (id, user_id, name, type, currency, institution, number_masked, color, icon)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + accountColumns
	return scanAccount(s.pool.QueryRow(ctx, query,
		newID(account.ID),
		account.UserID,
		account.Name,
		account.Type,
		account.Currency,
		account.Institution,
		account.NumberMasked,
		account.Color,
		account.Icon,
	))
}

func (s *Store) GetAccount(ctx context.Context, userID, id string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 AND user_id = $2`
	return scanAccount(s.pool.QueryRow(ctx, query, id, userID))
}

func (s *Store) ListAccounts(ctx context.Context, userID string) ([]models.AccountSummary, error) {
	query := `
		SELECT a.id, a.user_id, a.name, a.type, a.currency, a.institution, a.number_masked, a.color, a.icon, a.created_at, a.updated_at,
			COUNT(t.id), COALESCE(SUM(t.amount), 0)::BIGINT
		FROM accounts a
		LEFT JOIN transactions t ON t.account_id = a.id
		WHERE a.user_id = $1
		GROUP BY a.id
		ORDER BY a.created_at DESC
	`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := []models.AccountSummary{}
	for rows.Next() {
		var summary models.AccountSummary
		account, err := scanAccount(rows, &summary.TransactionCount, &summary.Balance)
		if err != nil {
			return nil, err
		}
		summary.Account = *account
		accounts = append(accounts, summary)
	}
	return accounts, rows.Err()
}

func (s *Store) ListAccountOptions(ctx context.Context, userID string) ([]models.AccountOption, error) {
	query := `
		SELECT id, name, type, currency, color, icon
		FROM accounts
		WHERE user_id = $1
		ORDER BY name ASC
	`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	options := []models.AccountOption{}
	for rows.Next() {
		var o models.AccountOption
		if err := rows.Scan(&o.ID, &o.Name, &o.Type, &o.Currency, &o.Color, &o.Icon); err != nil {
			return nil, err
		}
		options = append(options, o)
	}
	return options, rows.Err()
}

func (s *Store) UpdateAccount(ctx context.Context, account *models.Account) (*models.Account, error) {
	query := `
		UPDATE accounts
		SET name = $1, type = $2, currency = $3, institution = $4, number_masked = $5, color = $6, icon = $7, updated_at = NOW()
		WHERE id = $8 AND user_id = $9
		RETURNING ` + accountColumns
	return scanAccount(s.pool.QueryRow(ctx, query,
		account.Name,
		account.Type,
		account.Currency,
		account.Institution,
		account.NumberMasked,
		account.Color,
		account.Icon,
		account.ID,
		account.UserID,
	))
}

func (s *Store) DeleteAccount(ctx context.Context, userID, id string) error {
	query := `DELETE FROM accounts WHERE id = $1 AND user_id = $2`
	return expectOne(s.pool.Exec(ctx, query, id, userID))
}

func (s *Store) CountAccountTransactions(ctx context.Context, userID, accountID string) (int64, error) {
	query := `SELECT COUNT(*) FROM transactions WHERE account_id = $1 AND user_id = $2`
	var count int64
	err := s.pool.QueryRow(ctx, query, accountID, userID).Scan(&count)
	return count, err
}
