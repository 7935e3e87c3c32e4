package models

import "time"

type Account struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	UserID       string    `json:"user_id" gorm:"index;not null"`
	Name         string    `json:"name" validate:"required,max=100"`
	Type         string    `json:"type" validate:"required,oneof=CHECKING SAVINGS CREDIT INVESTMENT CASH"`
	Currency     string    `json:"currency" validate:"len=3,alpha"`
	Institution  *string   `json:"institution" validate:"omitempty,max=100"`
	NumberMasked *string   `json:"number_masked" validate:"omitempty,max=20"`
	Color        string    `json:"color" validate:"required,len=7,hexcolor"`
	Icon         string    `json:"icon" validate:"required"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AccountSummary is an account as shown in listings. Balance is the sum of
// the account's transaction amounts.
type AccountSummary struct {
	Account
	TransactionCount int64  `json:"transaction_count"`
	Balance          int64  `json:"balance"`
	BalanceFormatted string `json:"balance_formatted"`
}

type AccountOption struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Currency string `json:"currency"`
	Color    string `json:"color"`
	Icon     string `json:"icon"`
}
