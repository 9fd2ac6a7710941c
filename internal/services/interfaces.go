package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"fizcal/internal/budget"
	"fizcal/internal/models"
	"fizcal/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(name, email, password, currency string) (*models.User, error)
	Register(in RegisterInput) (*models.User, *models.Account, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	UpdateProfile(userID, name, email, currency string) (*models.User, error)
}

// RegisterInput carries the onboarding payload. Account is optional.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Currency string
	Account  *AccountInput
}

// AccountInput holds the client-writable fields of an account. Balance is
// only honoured on create.
type AccountInput struct {
	Name          string
	Type          string
	Balance       int64
	AccountNumber *string
	Currency      string
}

// CurrencySummary is the balance of every account in one currency.
type CurrencySummary struct {
	Currency     string        `json:"currency"`
	TotalBalance int64         `json:"total_balance"`
	AccountCount int           `json:"account_count"`
	Types        []TypeSummary `json:"types"`
}

// TypeSummary is the share of a currency total held by one account type.
type TypeSummary struct {
	Type       string  `json:"type"`
	Balance    int64   `json:"balance"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// BalanceSummary groups a user's account balances by currency.
type BalanceSummary struct {
	Currencies   []CurrencySummary `json:"currencies"`
	AccountCount int               `json:"account_count"`
}

// Reconciliation compares the stored balance with the one derived from the
// account's transactions.
type Reconciliation struct {
	AccountID      string `json:"account_id"`
	StoredBalance  int64  `json:"stored_balance"`
	DerivedBalance int64  `json:"derived_balance"`
	Drift          int64  `json:"drift"`
	InSync         bool   `json:"in_sync"`
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	CreateAccount(userID string, in AccountInput) (*models.Account, error)
	GetUserAccounts(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error)
	GetAccountByID(userID, accountID string) (*models.Account, error)
	UpdateAccount(userID, accountID string, in AccountInput) (*models.Account, error)
	DeleteAccount(userID, accountID string) error
	UpdateAccountBalance(tx *gorm.DB, account *models.Account, transactionType models.TransactionType, amount int64) error
	RevertAccountBalance(tx *gorm.DB, account *models.Account, transactionType models.TransactionType, amount int64) error
	GetBalanceSummary(userID string) (*BalanceSummary, error)
	ReconcileAccount(userID, accountID string) (*Reconciliation, error)
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate  *time.Time
	ToDate    *time.Time
	Type      *models.TransactionType
	Category  *string
	Search    string
	MinAmount *int64
	MaxAmount *int64
	AccountID *string

	// Sort applies to paginated lists only; exports are always oldest first.
	Sort pagination.SortRequest
}

// TransactionInput holds the client-writable fields of a transaction.
type TransactionInput struct {
	AccountID   string
	Type        models.TransactionType
	Amount      int64
	Category    string
	Description string
	Date        time.Time
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID string, in TransactionInput) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID string, in TransactionInput) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetAccountTransactions(userID, accountID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetRecentTransactions(userID string, limit int) ([]models.Transaction, error)
	ListTransactions(userID string, filter TransactionFilter) ([]models.Transaction, error)
}

// LedgerFilter narrows the transactions read for aggregation.
type LedgerFilter struct {
	Category *string
	FromDate *time.Time
	ToDate   *time.Time
	Type     *models.TransactionType
}

// LedgerStore is the read contract the budget aggregator runs against.
type LedgerStore interface {
	FindBudgets(userID string) ([]models.Budget, error)
	FindTransactions(userID string, filter LedgerFilter) ([]models.Transaction, error)
}

// BudgetInput holds the client-writable fields of a budget.
type BudgetInput struct {
	Category    string
	Amount      int64
	Period      models.BudgetPeriod
	StartDate   time.Time
	EndDate     *time.Time
	IsRecurring bool
}

// BudgetProgress is the consumption of one budget within its active window.
type BudgetProgress struct {
	BudgetID  string              `json:"budget_id"`
	Category  string              `json:"category"`
	Period    models.BudgetPeriod `json:"period"`
	Budgeted  int64               `json:"budgeted"`
	Spent     int64               `json:"spent"`
	Remaining int64               `json:"remaining"`
	Ratio     *float64            `json:"ratio"`
	Band      budget.Band         `json:"band"`
	Window    budget.Window       `json:"window"`
}

// BudgetPreview is the daily spending estimate shown while creating a budget.
type BudgetPreview struct {
	Amount       int64               `json:"amount"`
	Period       models.BudgetPeriod `json:"period"`
	DailyRate    float64             `json:"daily_rate"`
	DailyDisplay string              `json:"daily_display"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID string, in BudgetInput) (*models.Budget, error)
	GetUserBudgets(userID string, page pagination.PageRequest, period *models.BudgetPeriod, isRecurring *bool) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(userID, budgetID string) (*models.Budget, error)
	UpdateBudget(userID, budgetID string, in BudgetInput) (*models.Budget, error)
	DeleteBudget(userID, budgetID string) error
	GetBudgetProgress(userID, budgetID string) (*BudgetProgress, error)
	GetBudgetsProgress(userID string) ([]BudgetProgress, error)
	PreviewBudget(amount int64, period models.BudgetPeriod) (*BudgetPreview, error)
}

// CategoryUsage reports where a free-text category string is in use.
type CategoryUsage struct {
	Name             string `json:"name"`
	TransactionCount int64  `json:"transaction_count"`
	BudgetCount      int64  `json:"budget_count"`
}

// CategoryServicer defines the contract for category listing.
type CategoryServicer interface {
	GetUserCategories(userID string) ([]CategoryUsage, error)
}

// Timeframe selects the window of a report.
type Timeframe string

const (
	TimeframeWeek  Timeframe = "week"
	TimeframeMonth Timeframe = "month"
	TimeframeYear  Timeframe = "year"
)

// CategoryTotal is the expense total of one category within a report.
type CategoryTotal struct {
	Category   string  `json:"category"`
	Total      int64   `json:"total"`
	Percentage float64 `json:"percentage"`
}

// ChartBucket is one bar of the expense chart.
type ChartBucket struct {
	Label  string `json:"label"`
	Amount int64  `json:"amount"`
}

// Report summarises income and expenses within a timeframe.
type Report struct {
	Timeframe  Timeframe       `json:"timeframe"`
	From       time.Time       `json:"from"`
	To         time.Time       `json:"to"`
	Income     int64           `json:"income"`
	Expense    int64           `json:"expense"`
	Net        int64           `json:"net"`
	Categories []CategoryTotal `json:"categories"`
	Chart      []ChartBucket   `json:"chart"`
}

// Dashboard is the home screen payload.
type Dashboard struct {
	Summary            *BalanceSummary      `json:"summary"`
	RecentTransactions []models.Transaction `json:"recent_transactions"`
	Budgets            []BudgetProgress     `json:"budgets"`
}

// ReportServicer defines the contract for reporting.
type ReportServicer interface {
	GetReport(userID string, timeframe Timeframe, now time.Time) (*Report, error)
	GetDashboard(ctx context.Context, userID string) (*Dashboard, error)
}

// SnapshotRunResult reports one snapshot computation pass.
type SnapshotRunResult struct {
	RecordedAt time.Time `json:"recorded_at"`
	Users      int       `json:"users"`
	Recorded   int       `json:"recorded"`
}

// SnapshotServicer defines the contract for balance snapshots.
type SnapshotServicer interface {
	ComputeAndRecordSnapshots(recordedAt time.Time) (*SnapshotRunResult, error)
	GetSnapshots(userID string, page pagination.PageRequest, from, to *time.Time) (*pagination.PageResponse[models.BalanceSnapshot], error)
}
