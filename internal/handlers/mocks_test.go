package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"fizcal/internal/logger"
	"fizcal/internal/middleware"
	"fizcal/internal/models"
	"fizcal/internal/pagination"
	"fizcal/internal/services"
	"fizcal/internal/validator"
)

const (
	testUserID    = "0190a6c2-0000-7000-8000-000000000001"
	testAccountID = "0190a6c2-0000-7000-8000-0000000000a1"
	testRecordID  = "0190a6c2-0000-7000-8000-0000000000b1"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

func injectUserID(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

// --- mock user service ---

type mockUserService struct {
	registerFn      func(in services.RegisterInput) (*models.User, *models.Account, error)
	getUserByIDFn   func(id string) (*models.User, error)
	attemptLoginFn  func(email, password string) (*models.User, error)
	updateProfileFn func(userID, name, email, currency string) (*models.User, error)
}

func (m *mockUserService) CreateUser(name, email, _, currency string) (*models.User, error) {
	return &models.User{Name: name, Email: email, Currency: currency}, nil
}

func (m *mockUserService) Register(in services.RegisterInput) (*models.User, *models.Account, error) {
	if m.registerFn != nil {
		return m.registerFn(in)
	}
	return &models.User{Base: models.Base{ID: testUserID}, Email: in.Email}, nil, nil
}

func (m *mockUserService) GetUserByEmail(email string) (*models.User, error) {
	return &models.User{Email: email}, nil
}

func (m *mockUserService) GetUserByID(id string) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &models.User{Base: models.Base{ID: id}}, nil
}

func (m *mockUserService) VerifyPassword(*models.User, string) bool { return true }

func (m *mockUserService) AttemptLogin(email, password string) (*models.User, error) {
	if m.attemptLoginFn != nil {
		return m.attemptLoginFn(email, password)
	}
	return &models.User{Base: models.Base{ID: testUserID}, Email: email}, nil
}

func (m *mockUserService) UpdateProfile(userID, name, email, currency string) (*models.User, error) {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(userID, name, email, currency)
	}
	return &models.User{Base: models.Base{ID: userID}, Name: name, Email: email, Currency: currency}, nil
}

// --- mock account service ---

type mockAccountService struct {
	createAccountFn     func(userID string, in services.AccountInput) (*models.Account, error)
	getUserAccountsFn   func(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error)
	getAccountByIDFn    func(userID, accountID string) (*models.Account, error)
	updateAccountFn     func(userID, accountID string, in services.AccountInput) (*models.Account, error)
	deleteAccountFn     func(userID, accountID string) error
	getBalanceSummaryFn func(userID string) (*services.BalanceSummary, error)
	reconcileAccountFn  func(userID, accountID string) (*services.Reconciliation, error)
}

func (m *mockAccountService) CreateAccount(userID string, in services.AccountInput) (*models.Account, error) {
	if m.createAccountFn != nil {
		return m.createAccountFn(userID, in)
	}
	return &models.Account{}, nil
}

func (m *mockAccountService) GetUserAccounts(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error) {
	if m.getUserAccountsFn != nil {
		return m.getUserAccountsFn(userID, page)
	}
	resp := pagination.NewPageResponse([]models.Account{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockAccountService) GetAccountByID(userID, accountID string) (*models.Account, error) {
	if m.getAccountByIDFn != nil {
		return m.getAccountByIDFn(userID, accountID)
	}
	return &models.Account{}, nil
}

func (m *mockAccountService) UpdateAccount(userID, accountID string, in services.AccountInput) (*models.Account, error) {
	if m.updateAccountFn != nil {
		return m.updateAccountFn(userID, accountID, in)
	}
	return &models.Account{}, nil
}

func (m *mockAccountService) DeleteAccount(userID, accountID string) error {
	if m.deleteAccountFn != nil {
		return m.deleteAccountFn(userID, accountID)
	}
	return nil
}

func (m *mockAccountService) UpdateAccountBalance(*gorm.DB, *models.Account, models.TransactionType, int64) error {
	return nil
}

func (m *mockAccountService) RevertAccountBalance(*gorm.DB, *models.Account, models.TransactionType, int64) error {
	return nil
}

func (m *mockAccountService) GetBalanceSummary(userID string) (*services.BalanceSummary, error) {
	if m.getBalanceSummaryFn != nil {
		return m.getBalanceSummaryFn(userID)
	}
	return &services.BalanceSummary{Currencies: []services.CurrencySummary{}}, nil
}

func (m *mockAccountService) ReconcileAccount(userID, accountID string) (*services.Reconciliation, error) {
	if m.reconcileAccountFn != nil {
		return m.reconcileAccountFn(userID, accountID)
	}
	return &services.Reconciliation{AccountID: accountID, InSync: true}, nil
}

// --- mock transaction service ---

type mockTransactionService struct {
	createTransactionFn      func(userID string, in services.TransactionInput) (*models.Transaction, error)
	updateTransactionFn      func(userID, transactionID string, in services.TransactionInput) (*models.Transaction, error)
	deleteTransactionFn      func(userID, transactionID string) error
	getTransactionByIDFn     func(userID, transactionID string) (*models.Transaction, error)
	getUserTransactionsFn    func(userID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	getAccountTransactionsFn func(userID, accountID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	getRecentTransactionsFn  func(userID string, limit int) ([]models.Transaction, error)
	listTransactionsFn       func(userID string, filter services.TransactionFilter) ([]models.Transaction, error)
}

func (m *mockTransactionService) CreateTransaction(userID string, in services.TransactionInput) (*models.Transaction, error) {
	if m.createTransactionFn != nil {
		return m.createTransactionFn(userID, in)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) UpdateTransaction(userID, transactionID string, in services.TransactionInput) (*models.Transaction, error) {
	if m.updateTransactionFn != nil {
		return m.updateTransactionFn(userID, transactionID, in)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) DeleteTransaction(userID, transactionID string) error {
	if m.deleteTransactionFn != nil {
		return m.deleteTransactionFn(userID, transactionID)
	}
	return nil
}

func (m *mockTransactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	if m.getTransactionByIDFn != nil {
		return m.getTransactionByIDFn(userID, transactionID)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if m.getUserTransactionsFn != nil {
		return m.getUserTransactionsFn(userID, page, filter)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockTransactionService) GetAccountTransactions(userID, accountID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if m.getAccountTransactionsFn != nil {
		return m.getAccountTransactionsFn(userID, accountID, page, filter)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockTransactionService) GetRecentTransactions(userID string, limit int) ([]models.Transaction, error) {
	if m.getRecentTransactionsFn != nil {
		return m.getRecentTransactionsFn(userID, limit)
	}
	return []models.Transaction{}, nil
}

func (m *mockTransactionService) ListTransactions(userID string, filter services.TransactionFilter) ([]models.Transaction, error) {
	if m.listTransactionsFn != nil {
		return m.listTransactionsFn(userID, filter)
	}
	return []models.Transaction{}, nil
}

// --- mock budget service ---

type mockBudgetService struct {
	createBudgetFn       func(userID string, in services.BudgetInput) (*models.Budget, error)
	getUserBudgetsFn     func(userID string, page pagination.PageRequest, period *models.BudgetPeriod, isRecurring *bool) (*pagination.PageResponse[models.Budget], error)
	getBudgetByIDFn      func(userID, budgetID string) (*models.Budget, error)
	updateBudgetFn       func(userID, budgetID string, in services.BudgetInput) (*models.Budget, error)
	deleteBudgetFn       func(userID, budgetID string) error
	getBudgetProgressFn  func(userID, budgetID string) (*services.BudgetProgress, error)
	getBudgetsProgressFn func(userID string) ([]services.BudgetProgress, error)
	previewBudgetFn      func(amount int64, period models.BudgetPeriod) (*services.BudgetPreview, error)
}

func (m *mockBudgetService) CreateBudget(userID string, in services.BudgetInput) (*models.Budget, error) {
	if m.createBudgetFn != nil {
		return m.createBudgetFn(userID, in)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) GetUserBudgets(userID string, page pagination.PageRequest, period *models.BudgetPeriod, isRecurring *bool) (*pagination.PageResponse[models.Budget], error) {
	if m.getUserBudgetsFn != nil {
		return m.getUserBudgetsFn(userID, page, period, isRecurring)
	}
	resp := pagination.NewPageResponse([]models.Budget{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockBudgetService) GetBudgetByID(userID, budgetID string) (*models.Budget, error) {
	if m.getBudgetByIDFn != nil {
		return m.getBudgetByIDFn(userID, budgetID)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) UpdateBudget(userID, budgetID string, in services.BudgetInput) (*models.Budget, error) {
	if m.updateBudgetFn != nil {
		return m.updateBudgetFn(userID, budgetID, in)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) DeleteBudget(userID, budgetID string) error {
	if m.deleteBudgetFn != nil {
		return m.deleteBudgetFn(userID, budgetID)
	}
	return nil
}

func (m *mockBudgetService) GetBudgetProgress(userID, budgetID string) (*services.BudgetProgress, error) {
	if m.getBudgetProgressFn != nil {
		return m.getBudgetProgressFn(userID, budgetID)
	}
	return &services.BudgetProgress{BudgetID: budgetID}, nil
}

func (m *mockBudgetService) GetBudgetsProgress(userID string) ([]services.BudgetProgress, error) {
	if m.getBudgetsProgressFn != nil {
		return m.getBudgetsProgressFn(userID)
	}
	return []services.BudgetProgress{}, nil
}

func (m *mockBudgetService) PreviewBudget(amount int64, period models.BudgetPeriod) (*services.BudgetPreview, error) {
	if m.previewBudgetFn != nil {
		return m.previewBudgetFn(amount, period)
	}
	return &services.BudgetPreview{Amount: amount, Period: period}, nil
}

// --- mock category, report and snapshot services ---

type mockCategoryService struct {
	getUserCategoriesFn func(userID string) ([]services.CategoryUsage, error)
}

func (m *mockCategoryService) GetUserCategories(userID string) ([]services.CategoryUsage, error) {
	if m.getUserCategoriesFn != nil {
		return m.getUserCategoriesFn(userID)
	}
	return []services.CategoryUsage{}, nil
}

type mockReportService struct {
	getReportFn    func(userID string, timeframe services.Timeframe, now time.Time) (*services.Report, error)
	getDashboardFn func(ctx context.Context, userID string) (*services.Dashboard, error)
}

func (m *mockReportService) GetReport(userID string, timeframe services.Timeframe, now time.Time) (*services.Report, error) {
	if m.getReportFn != nil {
		return m.getReportFn(userID, timeframe, now)
	}
	return &services.Report{Timeframe: timeframe}, nil
}

func (m *mockReportService) GetDashboard(ctx context.Context, userID string) (*services.Dashboard, error) {
	if m.getDashboardFn != nil {
		return m.getDashboardFn(ctx, userID)
	}
	return &services.Dashboard{}, nil
}

type mockSnapshotService struct {
	computeFn      func(recordedAt time.Time) (*services.SnapshotRunResult, error)
	getSnapshotsFn func(userID string, page pagination.PageRequest, from, to *time.Time) (*pagination.PageResponse[models.BalanceSnapshot], error)
}

func (m *mockSnapshotService) ComputeAndRecordSnapshots(recordedAt time.Time) (*services.SnapshotRunResult, error) {
	if m.computeFn != nil {
		return m.computeFn(recordedAt)
	}
	return &services.SnapshotRunResult{RecordedAt: recordedAt}, nil
}

func (m *mockSnapshotService) GetSnapshots(userID string, page pagination.PageRequest, from, to *time.Time) (*pagination.PageResponse[models.BalanceSnapshot], error) {
	if m.getSnapshotsFn != nil {
		return m.getSnapshotsFn(userID, page, from, to)
	}
	resp := pagination.NewPageResponse([]models.BalanceSnapshot{}, 1, 20, 0)
	return &resp, nil
}

// verify interface compliance
var (
	_ services.UserServicer        = (*mockUserService)(nil)
	_ services.AccountServicer     = (*mockAccountService)(nil)
	_ services.TransactionServicer = (*mockTransactionService)(nil)
	_ services.BudgetServicer      = (*mockBudgetService)(nil)
	_ services.CategoryServicer    = (*mockCategoryService)(nil)
	_ services.ReportServicer      = (*mockReportService)(nil)
	_ services.SnapshotServicer    = (*mockSnapshotService)(nil)
)
