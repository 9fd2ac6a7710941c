package handlers

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fizcal/internal/errors"
	"fizcal/internal/models"
	"fizcal/internal/pagination"
	"fizcal/internal/services"
)

func setupTransactionRouter(handler *TransactionHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/transactions", handler.CreateTransaction)
	auth.GET("/transactions", handler.GetUserTransactions)
	auth.GET("/transactions/recent", handler.GetRecentTransactions)
	auth.GET("/transactions/export", handler.ExportTransactions)
	auth.GET("/transactions/:id", handler.GetTransactionByID)
	auth.PUT("/transactions/:id", handler.UpdateTransaction)
	auth.DELETE("/transactions/:id", handler.DeleteTransaction)
	return r
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	t.Run("parses a bare date", func(t *testing.T) {
		var got services.TransactionInput
		txSvc := &mockTransactionService{
			createTransactionFn: func(_ string, in services.TransactionInput) (*models.Transaction, error) {
				got = in
				return &models.Transaction{Base: models.Base{ID: testRecordID}, Amount: in.Amount, Type: in.Type}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc))

		body := `{"account_id":"` + testAccountID + `","type":"expense","amount":1250,"category":"Food","date":"2025-01-10"}`
		rec := doRequest(r, "POST", "/transactions", body)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if !got.Date.Equal(time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("expected start of day, got %v", got.Date)
		}
		if got.Category != "Food" || got.Amount != 1250 {
			t.Errorf("unexpected input: %+v", got)
		}
	})

	t.Run("leaves date zero when omitted", func(t *testing.T) {
		var got services.TransactionInput
		txSvc := &mockTransactionService{
			createTransactionFn: func(_ string, in services.TransactionInput) (*models.Transaction, error) {
				got = in
				return &models.Transaction{}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc))

		rec := doRequest(r, "POST", "/transactions", `{"account_id":"`+testAccountID+`","type":"income","amount":10}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", rec.Code)
		}
		if !got.Date.IsZero() {
			t.Errorf("expected zero date, got %v", got.Date)
		}
	})

	t.Run("passes invalid type error through", func(t *testing.T) {
		txSvc := &mockTransactionService{
			createTransactionFn: func(string, services.TransactionInput) (*models.Transaction, error) {
				return nil, apperrors.ErrInvalidTransactionType
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc))

		rec := doRequest(r, "POST", "/transactions", `{"account_id":"`+testAccountID+`","type":"transfer","amount":10}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_TRANSACTION_TYPE")
	})

	tests := []struct {
		name string
		body string
	}{
		{"bad date", `{"account_id":"` + testAccountID + `","type":"expense","amount":10,"date":"10/01/2025"}`},
		{"zero amount", `{"account_id":"` + testAccountID + `","type":"expense","amount":0}`},
		{"bad account id", `{"account_id":"7","type":"expense","amount":10}`},
		{"missing type", `{"account_id":"` + testAccountID + `","amount":10}`},
	}
	for _, tt := range tests {
		t.Run("returns 400 on "+tt.name, func(t *testing.T) {
			r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}))
			rec := doRequest(r, "POST", "/transactions", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		})
	}
}

func TestTransactionHandler_GetUserTransactions(t *testing.T) {
	t.Run("parses every filter", func(t *testing.T) {
		var got services.TransactionFilter
		txSvc := &mockTransactionService{
			getUserTransactionsFn: func(_ string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
				got = filter
				resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
				return &resp, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc))

		path := "/transactions?from_date=2025-01-01&to_date=2025-01-31&type=expense&category=&min_amount=100&max_amount=900" +
			"&account_id=" + testAccountID + "&sort_by=amount&sort_order=asc"
		rec := doRequest(r, "GET", path, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.FromDate == nil || !got.FromDate.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("unexpected from date: %v", got.FromDate)
		}
		wantTo := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)
		if got.ToDate == nil || !got.ToDate.Equal(wantTo) {
			t.Errorf("expected end of day %v, got %v", wantTo, got.ToDate)
		}
		if got.Type == nil || *got.Type != models.TransactionTypeExpense {
			t.Errorf("unexpected type: %v", got.Type)
		}
		if got.Category == nil || *got.Category != "" {
			t.Errorf("expected empty category filter, got %v", got.Category)
		}
		if *got.MinAmount != 100 || *got.MaxAmount != 900 {
			t.Errorf("unexpected amount range: %d-%d", *got.MinAmount, *got.MaxAmount)
		}
		if got.AccountID == nil || *got.AccountID != testAccountID {
			t.Errorf("unexpected account filter: %v", got.AccountID)
		}
		if got.Sort.SortBy != "amount" || got.Sort.SortOrder != "asc" {
			t.Errorf("unexpected sort: %+v", got.Sort)
		}
	})

	t.Run("no filters", func(t *testing.T) {
		var got services.TransactionFilter
		txSvc := &mockTransactionService{
			getUserTransactionsFn: func(_ string, _ pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
				got = filter
				resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
				return &resp, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc))

		rec := doRequest(r, "GET", "/transactions", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got.FromDate != nil || got.ToDate != nil || got.Type != nil || got.Category != nil || got.AccountID != nil {
			t.Errorf("expected empty filter, got %+v", got)
		}
	})

	tests := []struct {
		name  string
		query string
		code  string
	}{
		{"bad from date", "from_date=yesterday", "INVALID_INPUT"},
		{"reversed range", "from_date=2025-02-01&to_date=2025-01-01", "INVALID_DATE_RANGE"},
		{"unknown type", "type=transfer", "INVALID_INPUT"},
		{"negative amount", "min_amount=-5", "INVALID_INPUT"},
		{"min above max", "min_amount=10&max_amount=5", "INVALID_INPUT"},
		{"bad account id", "account_id=abc", "INVALID_INPUT"},
		{"bad sort order", "sort_order=sideways", "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run("returns 400 on "+tt.name, func(t *testing.T) {
			r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}))
			rec := doRequest(r, "GET", "/transactions?"+tt.query, "")
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			assertErrorCode(t, parseJSON(t, rec), tt.code)
		})
	}
}

func TestTransactionHandler_GetRecentTransactions(t *testing.T) {
	var gotLimit int
	txSvc := &mockTransactionService{
		getRecentTransactionsFn: func(_ string, limit int) ([]models.Transaction, error) {
			gotLimit = limit
			return []models.Transaction{{Amount: 1}}, nil
		},
	}
	r := setupTransactionRouter(NewTransactionHandler(txSvc))

	rec := doRequest(r, "GET", "/transactions/recent", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotLimit != 0 {
		t.Errorf("expected service default, got %d", gotLimit)
	}

	rec = doRequest(r, "GET", "/transactions/recent?limit=3", "")
	if rec.Code != http.StatusOK || gotLimit != 3 {
		t.Errorf("expected limit 3, got %d (status %d)", gotLimit, rec.Code)
	}
	if txs := parseJSON(t, rec)["transactions"].([]interface{}); len(txs) != 1 {
		t.Errorf("expected 1 transaction, got %d", len(txs))
	}

	for _, bad := range []string{"0", "-1", "many"} {
		rec = doRequest(r, "GET", "/transactions/recent?limit="+bad, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("limit=%s: expected 400, got %d", bad, rec.Code)
		}
	}
}

func TestTransactionHandler_ExportTransactions(t *testing.T) {
	txSvc := &mockTransactionService{
		listTransactionsFn: func(_ string, filter services.TransactionFilter) ([]models.Transaction, error) {
			return []models.Transaction{{
				Type:     models.TransactionTypeExpense,
				Amount:   1250,
				Category: "Food",
				Date:     time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
				Account:  &models.Account{Name: "Wallet", Currency: "USD"},
			}}, nil
		},
	}
	handler := NewTransactionHandler(txSvc)
	handler.now = func() time.Time { return time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC) }
	r := setupTransactionRouter(handler)

	t.Run("csv by default", func(t *testing.T) {
		rec := doRequest(r, "GET", "/transactions/export", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
			t.Errorf("unexpected content type %q", ct)
		}
		if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="transactions_20250304.csv"` {
			t.Errorf("unexpected disposition %q", cd)
		}
		lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
		if len(lines) != 2 {
			t.Fatalf("expected header and one row, got %d lines", len(lines))
		}
		if !strings.HasPrefix(lines[0], "Date,Account") || !strings.Contains(lines[1], "Wallet") {
			t.Errorf("unexpected csv: %q", rec.Body.String())
		}
	})

	t.Run("xlsx", func(t *testing.T) {
		rec := doRequest(r, "GET", "/transactions/export?format=xlsx", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
			t.Errorf("unexpected content type %q", ct)
		}
		if !strings.HasPrefix(rec.Body.String(), "PK") {
			t.Error("expected a zip container")
		}
	})

	t.Run("unsupported format", func(t *testing.T) {
		rec := doRequest(r, "GET", "/transactions/export?format=pdf", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "UNSUPPORTED_EXPORT_FORMAT")
	})
}

func TestTransactionHandler_ByID(t *testing.T) {
	var updated, deleted string
	txSvc := &mockTransactionService{
		getTransactionByIDFn: func(_, id string) (*models.Transaction, error) {
			if id != testRecordID {
				return nil, apperrors.ErrTransactionNotFound
			}
			return &models.Transaction{Base: models.Base{ID: id}}, nil
		},
		updateTransactionFn: func(_, id string, in services.TransactionInput) (*models.Transaction, error) {
			updated = id
			return &models.Transaction{Base: models.Base{ID: id}, Amount: in.Amount}, nil
		},
		deleteTransactionFn: func(_, id string) error {
			deleted = id
			return nil
		},
	}
	r := setupTransactionRouter(NewTransactionHandler(txSvc))

	rec := doRequest(r, "GET", "/transactions/"+testRecordID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = doRequest(r, "GET", "/transactions/"+testAccountID, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	assertErrorCode(t, parseJSON(t, rec), "TRANSACTION_NOT_FOUND")

	rec = doRequest(r, "GET", "/transactions/not-a-uuid", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	rec = doRequest(r, "PUT", "/transactions/"+testRecordID, `{"account_id":"`+testAccountID+`","type":"income","amount":75}`)
	if rec.Code != http.StatusOK || updated != testRecordID {
		t.Fatalf("expected update of %s, got %q (status %d)", testRecordID, updated, rec.Code)
	}

	rec = doRequest(r, "DELETE", "/transactions/"+testRecordID, "")
	if rec.Code != http.StatusOK || deleted != testRecordID {
		t.Fatalf("expected delete of %s, got %q (status %d)", testRecordID, deleted, rec.Code)
	}
}
