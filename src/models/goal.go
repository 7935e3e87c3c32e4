package models

import "time"

type Goal struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	UserID       string     `json:"user_id" gorm:"index;not null"`
	Name         string     `json:"name" validate:"required,max=100"`
	TargetAmount int64      `json:"target_amount" validate:"gt=0"`
	Progress     int64      `json:"progress" validate:"gte=0"`
	TargetDate   *time.Time `json:"target_date"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type GoalProgress struct {
	Goal
	PercentComplete float64 `json:"percent_complete"`
}
