package models

import (
	"time"

	"fizcal/internal/uuid"

	"gorm.io/gorm"
)

// BalanceSnapshot is a point-in-time record of a user's money across all
// accounts. Rows are time-series data: no Base embed, no soft deletes.
type BalanceSnapshot struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	UserID       string    `gorm:"not null;uniqueIndex:idx_balance_snapshots_user_recorded" json:"user_id"`
	RecordedAt   time.Time `gorm:"not null;uniqueIndex:idx_balance_snapshots_user_recorded" json:"recorded_at"`
	TotalBalance int64     `gorm:"type:bigint;not null" json:"total_balance"`
	IncomeTotal  int64     `gorm:"type:bigint;not null" json:"income_total"`
	ExpenseTotal int64     `gorm:"type:bigint;not null" json:"expense_total"`
	AccountCount int       `gorm:"not null" json:"account_count"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (s *BalanceSnapshot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New()
	}
	return nil
}
