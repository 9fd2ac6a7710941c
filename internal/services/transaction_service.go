package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "fizcal/internal/errors"
	"fizcal/internal/models"
	"fizcal/internal/pagination"
)

const (
	defaultRecentLimit = 5
	maxRecentLimit     = 50
)

// transactionSortColumns maps sort_by values to columns.
var transactionSortColumns = map[string]string{
	"date":       "date",
	"amount":     "amount",
	"created_at": "created_at",
}

// transactionService handles transaction-related business logic.
type transactionService struct {
	db             *gorm.DB
	accountService AccountServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, accountService AccountServicer) TransactionServicer {
	return &transactionService{
		db:             db,
		accountService: accountService,
	}
}

func validateTransactionInput(in *TransactionInput) error {
	if !in.Type.Valid() {
		return apperrors.ErrInvalidTransactionType
	}
	if in.Amount <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if in.AccountID == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "account ID is required")
	}
	in.Category = strings.TrimSpace(in.Category)
	in.Description = strings.TrimSpace(in.Description)
	if in.Date.IsZero() {
		in.Date = time.Now()
	}
	in.Date = in.Date.UTC()
	return nil
}

// CreateTransaction records a transaction and applies it to the account
// balance in one database transaction.
func (s *transactionService) CreateTransaction(userID string, in TransactionInput) (*models.Transaction, error) {
	if err := validateTransactionInput(&in); err != nil {
		return nil, err
	}

	var result *models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		account, err := findAccount(tx, userID, in.AccountID)
		if err != nil {
			return err
		}

		transaction := &models.Transaction{
			UserID:      userID,
			AccountID:   account.ID,
			Type:        in.Type,
			Amount:      in.Amount,
			Category:    in.Category,
			Description: in.Description,
			Date:        in.Date,
		}
		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.accountService.UpdateAccountBalance(tx, account, in.Type, in.Amount); err != nil {
			return err
		}

		result = transaction
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateTransaction overwrites a transaction. The old effect is reverted on
// its original account and the new one applied to the target account, which
// may differ, inside one database transaction.
func (s *transactionService) UpdateTransaction(userID, transactionID string, in TransactionInput) (*models.Transaction, error) {
	if err := validateTransactionInput(&in); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := findTransaction(tx, userID, transactionID)
		if err != nil {
			return err
		}

		oldAccount, err := findAccount(tx, userID, existing.AccountID)
		if err != nil {
			return err
		}
		newAccount := oldAccount
		if in.AccountID != oldAccount.ID {
			newAccount, err = findAccount(tx, userID, in.AccountID)
			if err != nil {
				return err
			}
		}

		if err := s.accountService.RevertAccountBalance(tx, oldAccount, existing.Type, existing.Amount); err != nil {
			return err
		}
		if err := s.accountService.UpdateAccountBalance(tx, newAccount, in.Type, in.Amount); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"account_id":  newAccount.ID,
			"type":        in.Type,
			"amount":      in.Amount,
			"category":    in.Category,
			"description": in.Description,
			"date":        in.Date,
		}
		if err := tx.Model(existing).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetTransactionByID(userID, transactionID)
}

// DeleteTransaction deletes a transaction and reverses its balance effect.
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		transaction, err := findTransaction(tx, userID, transactionID)
		if err != nil {
			return err
		}
		account, err := findAccount(tx, userID, transaction.AccountID)
		if err != nil {
			return err
		}

		if err := tx.Delete(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.accountService.RevertAccountBalance(tx, account, transaction.Type, transaction.Amount)
	})
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	return findTransaction(s.db, userID, transactionID)
}

func findTransaction(db *gorm.DB, userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// GetUserTransactions retrieves a paginated, filtered list of the user's transactions.
func (s *transactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Sort(filter.Sort, transactionSortColumns, "date"), pagination.Paginate(page)).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAccountTransactions retrieves a paginated, filtered list of transactions for a specific account.
func (s *transactionService) GetAccountTransactions(userID, accountID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if _, err := s.accountService.GetAccountByID(userID, accountID); err != nil {
		return nil, err
	}
	filter.AccountID = &accountID
	return s.GetUserTransactions(userID, page, filter)
}

// GetRecentTransactions returns the newest transactions with their account.
// limit defaults to 5 and is capped at 50.
func (s *transactionService) GetRecentTransactions(userID string, limit int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	var transactions []models.Transaction
	if err := s.db.Preload("Account").
		Where("user_id = ?", userID).
		Order("date DESC").Order("id DESC").
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}
	return transactions, nil
}

// ListTransactions returns every matching transaction with its account,
// oldest first. Used for exports.
func (s *transactionService) ListTransactions(userID string, filter TransactionFilter) ([]models.Transaction, error) {
	q := applyTransactionFilters(s.db.Preload("Account").Where("user_id = ?", userID), filter)

	var transactions []models.Transaction
	if err := q.Order("date ASC").Order("id ASC").Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", f.FromDate.UTC())
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", f.ToDate.UTC())
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	if f.MinAmount != nil {
		q = q.Where("amount >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		q = q.Where("amount <= ?", *f.MaxAmount)
	}
	if f.AccountID != nil {
		q = q.Where("account_id = ?", *f.AccountID)
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
		q = q.Where(`(LOWER(description) LIKE ? ESCAPE '\' OR LOWER(category) LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	return q
}
