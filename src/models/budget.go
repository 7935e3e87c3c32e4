package models

import "time"

type Budget struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	UserID        string    `json:"user_id" gorm:"not null;uniqueIndex:idx_budgets_user_category_month"`
	CategoryID    string    `json:"category_id" gorm:"not null;uniqueIndex:idx_budgets_user_category_month" validate:"required"`
	Month         time.Time `json:"month" gorm:"uniqueIndex:idx_budgets_user_category_month" validate:"required"`
	PlannedAmount int64     `json:"planned_amount" validate:"gt=0"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type BudgetSummary struct {
	Budget
	CategoryName string  `json:"category_name"`
	Spent        int64   `json:"spent"`
	Remaining    int64   `json:"remaining"`
	PercentUsed  float64 `json:"percent_used"`
}
