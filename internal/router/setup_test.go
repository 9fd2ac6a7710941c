package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"fizcal/internal/logger"
	"fizcal/internal/services"
	"fizcal/internal/testutil"
	"fizcal/internal/validator"
)

const testPipelineKey = "test-pipeline-key"

// testApp holds the full application stack for flow tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupApp wires every service against an isolated in-memory database.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)

	accountService := services.NewAccountService(db)
	transactionService := services.NewTransactionService(db, accountService)
	budgetService := services.NewBudgetService(db, services.NewLedgerStore(db))

	router := New(Services{
		Users:        services.NewUserService(db),
		Accounts:     accountService,
		Transactions: transactionService,
		Budgets:      budgetService,
		Categories:   services.NewCategoryService(db),
		Reports:      services.NewReportService(db, accountService, transactionService, budgetService),
		Snapshots:    services.NewSnapshotService(db),
	}, testPipelineKey)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// pipelineRequest calls a pipeline route with the test API key.
func (app *testApp) pipelineRequest(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", testPipelineKey)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a user without an account and returns the token.
func (app *testApp) registerUser(t *testing.T, email string) string {
	t.Helper()
	body := fmt.Sprintf(`{"name":"Test User","email":%q,"password":"password123"}`, email)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["token"].(string)
}

// createAccount creates an account and returns its id.
func (app *testApp) createAccount(t *testing.T, token, name string, balance int64) string {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"type":"Bank","balance":%d}`, name, balance)
	rec := app.request("POST", "/api/v1/accounts", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create account failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["account"].(map[string]interface{})["id"].(string)
}

// createTransaction records a transaction dated now and returns its id.
func (app *testApp) createTransaction(t *testing.T, token, accountID, txType string, amount int64, category string) string {
	t.Helper()
	body := fmt.Sprintf(`{"account_id":%q,"type":%q,"amount":%d,"category":%q}`, accountID, txType, amount, category)
	rec := app.request("POST", "/api/v1/transactions", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create transaction failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["transaction"].(map[string]interface{})["id"].(string)
}

// accountBalance reads the stored balance of an account.
func (app *testApp) accountBalance(t *testing.T, token, accountID string) float64 {
	t.Helper()
	rec := app.request("GET", "/api/v1/accounts/"+accountID, "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("get account failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["account"].(map[string]interface{})["balance"].(float64)
}
