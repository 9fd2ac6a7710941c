package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"fizcal/internal/budget"
	apperrors "fizcal/internal/errors"
	"fizcal/internal/models"
	"fizcal/internal/money"
	"fizcal/internal/pagination"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db     *gorm.DB
	ledger LedgerStore
	now    func() time.Time
}

// NewBudgetService creates a new BudgetServicer. Progress reads go through
// ledger; CRUD goes straight to db.
func NewBudgetService(db *gorm.DB, ledger LedgerStore) BudgetServicer {
	return &budgetService{db: db, ledger: ledger, now: time.Now}
}

// normalizeBudgetInput validates in and fills the computed end date of a
// non-recurring budget that has none.
func normalizeBudgetInput(in *BudgetInput) error {
	in.Category = strings.TrimSpace(in.Category)
	if in.Category == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}
	if in.Amount <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if in.StartDate.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "start date is required")
	}
	in.StartDate = in.StartDate.UTC()
	if in.EndDate != nil {
		end := in.EndDate.UTC()
		in.EndDate = &end
	}

	def := toDefinition(models.Budget{
		Category:    in.Category,
		Amount:      in.Amount,
		Period:      in.Period,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		IsRecurring: in.IsRecurring,
	})
	switch err := def.Validate(); {
	case errors.Is(err, budget.ErrUnknownPeriod):
		return apperrors.ErrInvalidBudgetPeriod
	case errors.Is(err, budget.ErrEndBeforeStart):
		return apperrors.ErrInvalidDateRange
	case err != nil:
		return apperrors.Wrap(apperrors.ErrInvalidInput, err)
	}

	if in.EndDate == nil && !in.IsRecurring {
		end, err := def.Period.Advance(in.StartDate)
		if err != nil {
			return apperrors.ErrInvalidBudgetPeriod
		}
		in.EndDate = &end
	}
	return nil
}

// CreateBudget creates a new budget for a category.
func (s *budgetService) CreateBudget(userID string, in BudgetInput) (*models.Budget, error) {
	if err := normalizeBudgetInput(&in); err != nil {
		return nil, err
	}

	b := &models.Budget{
		UserID:      userID,
		Category:    in.Category,
		Amount:      in.Amount,
		Period:      in.Period,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		IsRecurring: in.IsRecurring,
	}
	if err := s.db.Create(b).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return b, nil
}

// GetUserBudgets returns a paginated list of budgets for the user with optional filters.
func (s *budgetService) GetUserBudgets(userID string, page pagination.PageRequest, period *models.BudgetPeriod, isRecurring *bool) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	base := s.db.Model(&models.Budget{}).Where("user_id = ?", userID)
	if period != nil {
		base = base.Where("period = ?", *period)
	}
	if isRecurring != nil {
		base = base.Where("is_recurring = ?", *isRecurring)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Order("created_at DESC").Order("id DESC").
		Scopes(pagination.Paginate(page)).
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetByID retrieves a budget by ID for a specific user.
func (s *budgetService) GetBudgetByID(userID, budgetID string) (*models.Budget, error) {
	var b models.Budget
	if err := s.db.Where("id = ? AND user_id = ?", budgetID, userID).First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &b, nil
}

// UpdateBudget overwrites every client-writable field of a budget.
func (s *budgetService) UpdateBudget(userID, budgetID string, in BudgetInput) (*models.Budget, error) {
	b, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}
	if err := normalizeBudgetInput(&in); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"category":     in.Category,
		"amount":       in.Amount,
		"period":       in.Period,
		"start_date":   in.StartDate,
		"end_date":     in.EndDate,
		"is_recurring": in.IsRecurring,
	}
	if err := s.db.Model(b).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetBudgetByID(userID, budgetID)
}

// DeleteBudget soft-deletes a budget.
func (s *budgetService) DeleteBudget(userID, budgetID string) error {
	b, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(b).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetBudgetProgress evaluates one budget against the ledger.
func (s *budgetService) GetBudgetProgress(userID, budgetID string) (*BudgetProgress, error) {
	b, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		if errors.Is(err, apperrors.ErrBudgetNotFound) {
			return nil, err
		}
		return nil, apperrors.Wrap(apperrors.ErrAggregationUnavailable, err)
	}

	now := s.now()
	def := toDefinition(*b)
	window := budget.ResolveWindow(def, now)
	expense := models.TransactionTypeExpense
	transactions, err := s.ledger.FindTransactions(userID, LedgerFilter{
		Category: &b.Category,
		FromDate: &window.Start,
		ToDate:   &window.End,
		Type:     &expense,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrAggregationUnavailable, err)
	}

	progress := newBudgetProgress(*b, budget.Evaluate(def, toEntries(transactions), now))
	return &progress, nil
}

// GetBudgetsProgress evaluates every budget of the user from a single read
// of their expenses.
func (s *budgetService) GetBudgetsProgress(userID string) ([]BudgetProgress, error) {
	budgets, err := s.ledger.FindBudgets(userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrAggregationUnavailable, err)
	}
	progress := make([]BudgetProgress, 0, len(budgets))
	if len(budgets) == 0 {
		return progress, nil
	}

	earliest := budgets[0].StartDate
	for _, b := range budgets[1:] {
		if b.StartDate.Before(earliest) {
			earliest = b.StartDate
		}
	}
	expense := models.TransactionTypeExpense
	transactions, err := s.ledger.FindTransactions(userID, LedgerFilter{FromDate: &earliest, Type: &expense})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrAggregationUnavailable, err)
	}

	now := s.now()
	entries := toEntries(transactions)
	for _, b := range budgets {
		progress = append(progress, newBudgetProgress(b, budget.Evaluate(toDefinition(b), entries, now)))
	}
	return progress, nil
}

// PreviewBudget returns the daily spending estimate for a prospective budget.
func (s *budgetService) PreviewBudget(amount int64, period models.BudgetPeriod) (*BudgetPreview, error) {
	rate, err := budget.DailyRate(amount, budget.Period(period))
	if err != nil {
		return nil, apperrors.ErrInvalidBudgetPeriod
	}
	return &BudgetPreview{
		Amount:       amount,
		Period:       period,
		DailyRate:    money.Round2(rate),
		DailyDisplay: money.FormatRate(rate),
	}, nil
}

func newBudgetProgress(b models.Budget, res budget.Result) BudgetProgress {
	return BudgetProgress{
		BudgetID:  b.ID,
		Category:  b.Category,
		Period:    b.Period,
		Budgeted:  b.Amount,
		Spent:     res.Spent,
		Remaining: b.Amount - res.Spent,
		Ratio:     res.Ratio,
		Band:      res.Band,
		Window:    res.Window,
	}
}

func toDefinition(b models.Budget) budget.Definition {
	return budget.Definition{
		Category:    b.Category,
		Amount:      b.Amount,
		Period:      budget.Period(b.Period),
		StartDate:   b.StartDate,
		EndDate:     b.EndDate,
		IsRecurring: b.IsRecurring,
	}
}

func toEntries(transactions []models.Transaction) []budget.Entry {
	entries := make([]budget.Entry, len(transactions))
	for i, t := range transactions {
		entries[i] = budget.Entry{
			Category: t.Category,
			Amount:   t.Amount,
			Type:     budget.EntryType(t.Type),
			Date:     t.Date,
		}
	}
	return entries
}
