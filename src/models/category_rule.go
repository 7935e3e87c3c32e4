package models

import (
	"encoding/json"
	"time"
)

type CategoryRule struct {
	ID         string          `json:"id" gorm:"primaryKey"`
	UserID     string          `json:"user_id" gorm:"index;not null"`
	Name       string          `json:"name" validate:"required,max=100"`
	Conditions json.RawMessage `json:"conditions" validate:"required"`
	CategoryID string          `json:"category_id" gorm:"index;not null" validate:"required"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
