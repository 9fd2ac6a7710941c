package models

import "time"

// BudgetPeriod represents the recurrence granularity of a budget
type BudgetPeriod string

const (
	BudgetPeriodWeekly  BudgetPeriod = "weekly"
	BudgetPeriodMonthly BudgetPeriod = "monthly"
	BudgetPeriodYearly  BudgetPeriod = "yearly"
)

// Budget is a spending limit for one free-text category. It is linked to
// transactions only by exact equality of the category string.
type Budget struct {
	Base
	UserID      string       `gorm:"not null;index" json:"user_id"`
	Category    string       `gorm:"not null" json:"category"`
	Amount      int64        `gorm:"type:bigint;not null" json:"amount"`
	Period      BudgetPeriod `gorm:"not null" json:"period"`
	StartDate   time.Time    `gorm:"not null" json:"start_date"`
	EndDate     *time.Time   `json:"end_date,omitempty"`
	IsRecurring bool         `gorm:"not null;default:false" json:"is_recurring"`
}
