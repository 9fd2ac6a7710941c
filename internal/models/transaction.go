package models

import "time"

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Valid reports whether t is income or expense.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction is a single income or expense against one account.
// Amount is always positive; the sign is implied by Type.
type Transaction struct {
	Base
	UserID      string          `gorm:"not null;index" json:"user_id"`
	AccountID   string          `gorm:"not null;index" json:"account_id"`
	Type        TransactionType `gorm:"not null" json:"type"`
	Amount      int64           `gorm:"type:bigint;not null" json:"amount"`
	Category    string          `gorm:"index" json:"category,omitempty"`
	Description string          `json:"description,omitempty"`
	Date        time.Time       `gorm:"not null;index" json:"date"`

	// Relationships
	Account *Account `gorm:"foreignKey:AccountID" json:"account,omitempty"`
}
