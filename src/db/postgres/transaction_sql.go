package postgres

import (
	"context"
	"pocketbook-server/src/models"
	"time"
)

const transactionColumns = `id, user_id, account_id, category_id, amount, date, payee, notes, is_recurring, rrule, created_at, updated_at`

const transactionDetailQuery = `
	SELECT t.id, t.user_id, t.account_id, t.category_id, t.amount, t.date, t.payee, t.notes, t.is_recurring, t.rrule, t.created_at, t.updated_at,
		a.id, a.name, a.type, a.currency, a.color, a.icon,
		c.id, c.name, c.kind
	FROM transactions t
	JOIN accounts a ON a.id = t.account_id
	LEFT JOIN categories c ON c.id = t.category_id
`

func scanTransaction(row scanner) (*models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(&t.ID, &t.UserID, &t.AccountID, &t.CategoryID, &t.Amount, &t.Date, &t.Payee, &t.Notes, &t.IsRecurring, &t.RRule, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func scanTransactionDetail(row scanner) (*models.TransactionDetail, error) {
	var d models.TransactionDetail
	var categoryID, categoryName, categoryKind *string
	t := &d.Transaction
	a := &d.Account
	err := row.Scan(
		&t.ID, &t.UserID, &t.AccountID, &t.CategoryID, &t.Amount, &t.Date, &t.Payee, &t.Notes, &t.IsRecurring, &t.RRule, &t.CreatedAt, &t.UpdatedAt,
		&a.ID, &a.Name, &a.Type, &a.Currency, &a.Color, &a.Icon,
		&categoryID, &categoryName, &categoryKind,
	)
	if err != nil {
		return nil, translate(err)
	}
	if categoryID != nil {
		d.Category = &models.CategoryOption{ID: *categoryID, Name: *categoryName, Kind: *categoryKind}
	}
	return &d, nil
}

func (s *Store) CreateTransaction(ctx context.Context, txn *models.Transaction) (*models.Transaction, error) {
	query := `
		INSERT INTO transactions (id, user_id, account_id, category_id, amount, date, payee, notes, is_recurring, rrule)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + transactionColumns
	return scanTransaction(s.pool.QueryRow(ctx, query,
		newID(txn.ID),
		txn.UserID,
		txn.AccountID,
		txn.CategoryID,
		txn.Amount,
		txn.Date.UTC(),
		txn.Payee,
		txn.Notes,
		txn.IsRecurring,
		txn.RRule,
	))
}

func (s *Store) GetTransaction(ctx context.Context, userID, id string) (*models.TransactionDetail, error) {
	query := transactionDetailQuery + ` WHERE t.id = $1 AND t.user_id = $2`
	return scanTransactionDetail(s.pool.QueryRow(ctx, query, id, userID))
}

func (s *Store) ListTransactions(ctx context.Context, userID string, offset, limit int) ([]models.TransactionDetail, error) {
	query := transactionDetailQuery + `
		WHERE t.user_id = $1
		ORDER BY t.date DESC, t.created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := s.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []models.TransactionDetail{}
	for rows.Next() {
		d, err := scanTransactionDetail(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *d)
	}
	return transactions, rows.Err()
}

func (s *Store) CountTransactions(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

func (s *Store) ListAllTransactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1 ORDER BY date DESC, created_at DESC`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *t)
	}
	return transactions, rows.Err()
}

func (s *Store) UpdateTransaction(ctx context.Context, txn *models.Transaction) (*models.Transaction, error) {
	query := `
		UPDATE transactions
		SET account_id = $1, category_id = $2, amount = $3, date = $4, payee = $5, notes = $6, is_recurring = $7, rrule = $8, updated_at = NOW()
		WHERE id = $9 AND user_id = $10
		RETURNING ` + transactionColumns
	return scanTransaction(s.pool.QueryRow(ctx, query,
		txn.AccountID,
		txn.CategoryID,
		txn.Amount,
		txn.Date.UTC(),
		txn.Payee,
		txn.Notes,
		txn.IsRecurring,
		txn.RRule,
		txn.ID,
		txn.UserID,
	))
}

func (s *Store) SetTransactionCategory(ctx context.Context, userID, id, categoryID string) error {
	query := `UPDATE transactions SET category_id = $1, updated_at = NOW() WHERE id = $2 AND user_id = $3`
	return expectOne(s.pool.Exec(ctx, query, categoryID, id, userID))
}

func (s *Store) DeleteTransaction(ctx context.Context, userID, id string) error {
	query := `DELETE FROM transactions WHERE id = $1 AND user_id = $2`
	return expectOne(s.pool.Exec(ctx, query, id, userID))
}

func (s *Store) SumTransactions(ctx context.Context, userID string, from, to time.Time) (int64, int64, error) {
	query := `
		SELECT COALESCE(SUM(amount) FILTER (WHERE amount > 0), 0)::BIGINT,
			COALESCE(SUM(amount) FILTER (WHERE amount < 0), 0)::BIGINT
		FROM transactions
		WHERE user_id = $1 AND date >= $2 AND date < $3
	`
	var income, expense int64
	err := s.pool.QueryRow(ctx, query, userID, from.UTC(), to.UTC()).Scan(&income, &expense)
	return income, expense, err
}

func (s *Store) SumCategoryAmounts(ctx context.Context, userID, categoryID string, from, to time.Time) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)::BIGINT
		FROM transactions
		WHERE user_id = $1 AND category_id = $2 AND date >= $3 AND date < $4
	`
	var total int64
	err := s.pool.QueryRow(ctx, query, userID, categoryID, from.UTC(), to.UTC()).Scan(&total)
	return total, err
}
