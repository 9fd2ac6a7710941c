package models

// Account is a place money is held. Type is a free-text label such as
// "Bank" or "Cash"; it carries no behaviour.
//
// Balance is stored, but every change to it is written in the same database
// transaction as the transaction row that caused it.
type Account struct {
	Base
	UserID        string  `gorm:"not null;index" json:"user_id"`
	Name          string  `gorm:"not null" json:"name"`
	Type          string  `gorm:"not null" json:"type"`
	Balance       int64   `gorm:"type:bigint;not null;default:0" json:"balance"`
	AccountNumber *string `json:"account_number,omitempty"`
	Currency      string  `gorm:"not null;default:'USD'" json:"currency"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:AccountID" json:"transactions,omitempty"`
}

// Apply returns the balance after a transaction of the given type and amount.
func (a *Account) Apply(transactionType TransactionType, amount int64) int64 {
	switch transactionType {
	case TransactionTypeIncome:
		return a.Balance + amount
	case TransactionTypeExpense:
		return a.Balance - amount
	}
	return a.Balance
}

// Revert returns the balance with a previously applied transaction undone.
func (a *Account) Revert(transactionType TransactionType, amount int64) int64 {
	switch transactionType {
	case TransactionTypeIncome:
		return a.Balance - amount
	case TransactionTypeExpense:
		return a.Balance + amount
	}
	return a.Balance
}
