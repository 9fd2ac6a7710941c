package services

import (
	"errors"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "fizcal/internal/errors"
	"fizcal/internal/models"
	"fizcal/internal/money"
	"fizcal/internal/pagination"
)

const initialBalanceDescription = "Initial balance"

// accountService handles account-related business logic.
type accountService struct {
	db *gorm.DB
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB) AccountServicer {
	return &accountService{db: db}
}

// CreateAccount creates an account. A positive starting balance is recorded
// as an income transaction in the same database transaction.
func (s *accountService) CreateAccount(userID string, in AccountInput) (*models.Account, error) {
	var account *models.Account
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		account, err = createAccountWithDB(tx, userID, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

func createAccountWithDB(tx *gorm.DB, userID string, in AccountInput) (*models.Account, error) {
	name := strings.TrimSpace(in.Name)
	accountType := strings.TrimSpace(in.Type)
	if name == "" || accountType == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name and type are required")
	}
	if in.Balance < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "initial balance must not be negative")
	}
	currency, err := normalizeCurrency(in.Currency)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		UserID:        userID,
		Name:          name,
		Type:          accountType,
		Balance:       in.Balance,
		AccountNumber: in.AccountNumber,
		Currency:      currency,
	}
	if err := tx.Create(account).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if in.Balance > 0 {
		transaction := &models.Transaction{
			UserID:      userID,
			AccountID:   account.ID,
			Type:        models.TransactionTypeIncome,
			Amount:      in.Balance,
			Description: initialBalanceDescription,
			Date:        time.Now().UTC(),
		}
		if err := tx.Create(transaction).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return account, nil
}

// GetUserAccounts retrieves a paginated list of accounts for a user.
func (s *accountService) GetUserAccounts(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Account{}).Where("user_id = ?", userID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var accounts []models.Account
	if err := base.Order("created_at ASC").Order("id ASC").Scopes(pagination.Paginate(page)).Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(accounts, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAccountByID retrieves an account by ID for a specific user
func (s *accountService) GetAccountByID(userID, accountID string) (*models.Account, error) {
	return findAccount(s.db, userID, accountID)
}

func findAccount(db *gorm.DB, userID, accountID string) (*models.Account, error) {
	var account models.Account
	if err := db.Where("id = ? AND user_id = ?", accountID, userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// UpdateAccount overwrites name, type, account number and currency. The
// balance is never client-writable.
func (s *accountService) UpdateAccount(userID, accountID string, in AccountInput) (*models.Account, error) {
	account, err := s.GetAccountByID(userID, accountID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	accountType := strings.TrimSpace(in.Type)
	if name == "" || accountType == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name and type are required")
	}
	currency, err := normalizeCurrency(in.Currency)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":           name,
		"type":           accountType,
		"account_number": in.AccountNumber,
		"currency":       currency,
	}
	if err := s.db.Model(account).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetAccountByID(userID, accountID)
}

// DeleteAccount soft-deletes the account and all of its transactions.
func (s *accountService) DeleteAccount(userID, accountID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		account, err := findAccount(tx, userID, accountID)
		if err != nil {
			return err
		}
		if err := tx.Where("account_id = ?", account.ID).Delete(&models.Transaction{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(account).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// UpdateAccountBalance applies a transaction to the stored balance. It must
// run inside the database transaction that writes the transaction row.
func (s *accountService) UpdateAccountBalance(tx *gorm.DB, account *models.Account, transactionType models.TransactionType, amount int64) error {
	return adjustBalance(tx, account, account.Apply(transactionType, amount)-account.Balance)
}

// RevertAccountBalance undoes a previously applied transaction.
func (s *accountService) RevertAccountBalance(tx *gorm.DB, account *models.Account, transactionType models.TransactionType, amount int64) error {
	return adjustBalance(tx, account, account.Revert(transactionType, amount)-account.Balance)
}

// adjustBalance adds delta in SQL so concurrent writers never lose an update.
func adjustBalance(tx *gorm.DB, account *models.Account, delta int64) error {
	if delta == 0 {
		return nil
	}
	if err := tx.Model(account).Update("balance", gorm.Expr("balance + ?", delta)).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	account.Balance += delta
	return nil
}

// GetBalanceSummary totals balances per currency with a per-type breakdown.
func (s *accountService) GetBalanceSummary(userID string) (*BalanceSummary, error) {
	var accounts []models.Account
	if err := s.db.Where("user_id = ?", userID).Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return summarizeBalances(accounts), nil
}

func summarizeBalances(accounts []models.Account) *BalanceSummary {
	type acc struct {
		total int64
		count int
		types map[string]*TypeSummary
	}
	byCurrency := make(map[string]*acc)
	for _, a := range accounts {
		c, ok := byCurrency[a.Currency]
		if !ok {
			c = &acc{types: make(map[string]*TypeSummary)}
			byCurrency[a.Currency] = c
		}
		c.total += a.Balance
		c.count++
		ts, ok := c.types[a.Type]
		if !ok {
			ts = &TypeSummary{Type: a.Type}
			c.types[a.Type] = ts
		}
		ts.Balance += a.Balance
		ts.Count++
	}

	summary := &BalanceSummary{Currencies: []CurrencySummary{}, AccountCount: len(accounts)}
	for currency, c := range byCurrency {
		cs := CurrencySummary{Currency: currency, TotalBalance: c.total, AccountCount: c.count}
		for _, ts := range c.types {
			ts.Percentage = money.Percent(ts.Balance, c.total)
			cs.Types = append(cs.Types, *ts)
		}
		sort.Slice(cs.Types, func(i, j int) bool {
			if cs.Types[i].Balance != cs.Types[j].Balance {
				return cs.Types[i].Balance > cs.Types[j].Balance
			}
			return cs.Types[i].Type < cs.Types[j].Type
		})
		summary.Currencies = append(summary.Currencies, cs)
	}
	sort.Slice(summary.Currencies, func(i, j int) bool {
		return summary.Currencies[i].Currency < summary.Currencies[j].Currency
	})
	return summary
}

// ReconcileAccount recomputes the balance from the account's transactions
// and reports how far the stored value has drifted.
func (s *accountService) ReconcileAccount(userID, accountID string) (*Reconciliation, error) {
	account, err := s.GetAccountByID(userID, accountID)
	if err != nil {
		return nil, err
	}

	var derived int64
	err = s.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE -amount END), 0)", models.TransactionTypeIncome).
		Where("account_id = ?", account.ID).
		Scan(&derived).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &Reconciliation{
		AccountID:      account.ID,
		StoredBalance:  account.Balance,
		DerivedBalance: derived,
		Drift:          account.Balance - derived,
		InSync:         account.Balance == derived,
	}, nil
}
