package models

import "time"

const (
	CategoryKindIncome  = "income"
	CategoryKindExpense = "expense"
)

type Category struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"not null;uniqueIndex:idx_categories_user_name"`
	Name      string    `json:"name" gorm:"uniqueIndex:idx_categories_user_name" validate:"required,max=100"`
	Kind      string    `json:"kind" validate:"required,oneof=income expense"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CategorySummary struct {
	Category
	TransactionCount int64  `json:"transaction_count"`
	BudgetCount      int64  `json:"budget_count"`
	Icon             string `json:"icon,omitempty"`
	Color            string `json:"color,omitempty"`
}

type CategoryOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}
