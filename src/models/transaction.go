package models

import "time"

type Transaction struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	UserID      string    `json:"user_id" gorm:"index;not null"`
	AccountID   string    `json:"account_id" gorm:"index;not null" validate:"required"`
	CategoryID  *string   `json:"category_id" gorm:"index"`
	Amount      int64     `json:"amount"`
	Date        time.Time `json:"date" gorm:"index" validate:"required"`
	Payee       *string   `json:"payee" validate:"omitempty,max=200"`
	Notes       *string   `json:"notes" validate:"omitempty,max=1000"`
	IsRecurring bool      `json:"is_recurring"`
	RRule       *string   `json:"rrule" gorm:"column:rrule" validate:"omitempty,startswith=FREQ="`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TransactionDetail is a transaction joined with its account and category.
type TransactionDetail struct {
	Transaction
	Type            string          `json:"type"`
	AmountFormatted string          `json:"amount_formatted"`
	Account         AccountOption   `json:"account"`
	Category        *CategoryOption `json:"category"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type TransactionPage struct {
	Transactions []TransactionDetail `json:"transactions"`
	Pagination   Pagination          `json:"pagination"`
}
