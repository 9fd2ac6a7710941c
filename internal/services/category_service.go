package services

import (
	"sort"

	"gorm.io/gorm"

	apperrors "fizcal/internal/errors"
	"fizcal/internal/models"
)

// categoryService lists the free-text categories a user has used.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

type categoryCount struct {
	Category string
	Count    int64
}

// GetUserCategories returns every distinct non-empty category string found
// on the user's transactions or budgets, sorted by name. Strings are
// compared exactly, so "Food" and "food" are listed separately.
func (s *categoryService) GetUserCategories(userID string) ([]CategoryUsage, error) {
	var txCounts, budgetCounts []categoryCount

	if err := s.db.Model(&models.Transaction{}).
		Select("category, COUNT(*) AS count").
		Where("user_id = ? AND category <> ''", userID).
		Group("category").
		Scan(&txCounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Model(&models.Budget{}).
		Select("category, COUNT(*) AS count").
		Where("user_id = ? AND category <> ''", userID).
		Group("category").
		Scan(&budgetCounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	usage := make(map[string]*CategoryUsage)
	get := func(name string) *CategoryUsage {
		u, ok := usage[name]
		if !ok {
			u = &CategoryUsage{Name: name}
			usage[name] = u
		}
		return u
	}
	for _, c := range txCounts {
		get(c.Category).TransactionCount = c.Count
	}
	for _, c := range budgetCounts {
		get(c.Category).BudgetCount = c.Count
	}

	result := make([]CategoryUsage, 0, len(usage))
	for _, u := range usage {
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}
