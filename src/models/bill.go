package models

import "time"

type Bill struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	UserID     string    `json:"user_id" gorm:"index;not null"`
	CategoryID *string   `json:"category_id"`
	Name       string    `json:"name" validate:"required,max=100"`
	Amount     int64     `json:"amount" validate:"gt=0"`
	DueDay     int       `json:"due_day" validate:"min=1,max=28"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type BillSummary struct {
	Bill
	NextDue time.Time `json:"next_due"`
}
