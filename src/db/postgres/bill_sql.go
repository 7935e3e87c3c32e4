package postgres

import (
	"context"
	"pocketbook-server/src/models"
)

const billColumns = `id, user_id, category_id, name, amount, due_day, created_at, updated_at`

func scanBill(row scanner) (*models.Bill, error) {
	var b models.Bill
	if err := row.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Name, &b.Amount, &b.DueDay, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (s *Store) CreateBill(ctx context.Context, bill *models.Bill) (*models.Bill, error) {
	query := `
		INSERT INTO bills (id, user_id, category_id, name, amount, due_day)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + billColumns
	return scanBill(s.pool.QueryRow(ctx, query, newID(bill.ID), bill.UserID, bill.CategoryID, bill.Name, bill.Amount, bill.DueDay))
}

func (s *Store) GetBill(ctx context.Context, userID, id string) (*models.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE id = $1 AND user_id = $2`
	return scanBill(s.pool.QueryRow(ctx, query, id, userID))
}

func (s *Store) ListBills(ctx context.Context, userID string) ([]models.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE user_id = $1 ORDER BY due_day ASC, name ASC`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bills := []models.Bill{}
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		bills = append(bills, *b)
	}
	return bills, rows.Err()
}

func (s *Store) UpdateBill(ctx context.Context, bill *models.Bill) (*models.Bill, error) {
	query := `
		UPDATE bills
		SET category_id = $1, name = $2, amount = $3, due_day = $4, updated_at = NOW()
		WHERE id = $5 AND user_id = $6
		RETURNING ` + billColumns
	return scanBill(s.pool.QueryRow(ctx, query, bill.CategoryID, bill.Name, bill.Amount, bill.DueDay, bill.ID, bill.UserID))
}

func (s *Store) DeleteBill(ctx context.Context, userID, id string) error {
	query := `DELETE FROM bills WHERE id = $1 AND user_id = $2`
	return expectOne(s.pool.Exec(ctx, query, id, userID))
}
