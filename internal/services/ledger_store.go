package services

import (
	"gorm.io/gorm"

	"fizcal/internal/models"
)

// gormLedgerStore reads budgets and transactions for aggregation.
type gormLedgerStore struct {
	db *gorm.DB
}

// NewLedgerStore returns the GORM-backed LedgerStore.
func NewLedgerStore(db *gorm.DB) LedgerStore {
	return &gormLedgerStore{db: db}
}

// FindBudgets returns every budget of the user ordered by creation.
func (s *gormLedgerStore) FindBudgets(userID string) ([]models.Budget, error) {
	var budgets []models.Budget
	if err := s.db.Where("user_id = ?", userID).Order("created_at ASC").Order("id ASC").Find(&budgets).Error; err != nil {
		return nil, err
	}
	return budgets, nil
}

// FindTransactions returns the user's transactions matching filter.
func (s *gormLedgerStore) FindTransactions(userID string, filter LedgerFilter) ([]models.Transaction, error) {
	q := s.db.Where("user_id = ?", userID)
	if filter.Category != nil {
		q = q.Where("category = ?", *filter.Category)
	}
	if filter.Type != nil {
		q = q.Where("type = ?", *filter.Type)
	}
	if filter.FromDate != nil {
		q = q.Where("date >= ?", filter.FromDate.UTC())
	}
	if filter.ToDate != nil {
		q = q.Where("date <= ?", filter.ToDate.UTC())
	}

	var transactions []models.Transaction
	if err := q.Order("date ASC").Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}
