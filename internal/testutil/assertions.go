package testutil

import (
	"errors"
	"testing"

	"gorm.io/gorm"

	apperrors "fizcal/internal/errors"
	"fizcal/internal/models"
)

// AssertAppError fails unless err is an *AppError carrying code.
func AssertAppError(t *testing.T, err error, code string) {
	t.Helper()

	var appErr *apperrors.AppError
	switch {
	case err == nil:
		t.Fatalf("expected %s, got nil", code)
	case !errors.As(err, &appErr):
		t.Fatalf("expected *AppError %s, got %T: %v", code, err, err)
	case appErr.Code != code:
		t.Errorf("expected %s, got %s (%s)", code, appErr.Code, appErr.Message)
	}
}

// AssertNoError fails the test immediately on a non-nil err.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertAccountBalance reloads the account and compares its stored balance.
func AssertAccountBalance(t *testing.T, db *gorm.DB, accountID string, want int64) {
	t.Helper()

	var account models.Account
	if err := db.Where("id = ?", accountID).First(&account).Error; err != nil {
		t.Fatalf("reload account %s: %v", accountID, err)
	}
	if account.Balance != want {
		t.Errorf("account %s: expected balance %d, got %d", accountID, want, account.Balance)
	}
}
