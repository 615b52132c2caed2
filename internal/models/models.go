package models

import (
	"time"

	"github.com/google/uuid"
)

type Frequency string

const (
	FrequencyWeekly      Frequency = "weekly"
	FrequencyBiWeekly    Frequency = "bi-weekly"
	FrequencySemiMonthly Frequency = "semi-monthly"
	FrequencyMonthly     Frequency = "monthly"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         *string   `json:"name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type SalaryBudget struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	SalaryAmount float64   `json:"salary_amount"`
	Frequency    Frequency `json:"frequency"`
	AIReasoning  *string   `json:"ai_reasoning,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type SalaryBudgetItem struct {
	ID           uuid.UUID `json:"id"`
	BudgetID     uuid.UUID `json:"budget_id"`
	ItemName     string    `json:"item_name"`
	UserAmount   float64   `json:"user_amount"`
	AIAmount     float64   `json:"ai_amount"`
	IsAutoFilled bool      `json:"is_auto_filled"`
	SortOrder    int       `json:"sort_order"`
	CreatedAt    time.Time `json:"created_at"`
}
