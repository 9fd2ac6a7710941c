package models

// User is the owner of accounts and budgets. Created once during onboarding.
type User struct {
	Base
	Name     string    `gorm:"not null" json:"name"`
	Email    string    `gorm:"uniqueIndex;not null" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Currency string    `gorm:"not null;default:'USD'" json:"currency"`
	Accounts []Account `gorm:"foreignKey:UserID" json:"accounts,omitempty"`
	Budgets  []Budget  `gorm:"foreignKey:UserID" json:"budgets,omitempty"`
}
