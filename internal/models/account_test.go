package models

import "testing"

func TestAccountApplyAndRevert(t *testing.T) {
	a := &Account{Balance: 1000}

	if got := a.Apply(TransactionTypeIncome, 250); got != 1250 {
		t.Errorf("income: expected 1250, got %d", got)
	}
	if got := a.Apply(TransactionTypeExpense, 250); got != 750 {
		t.Errorf("expense: expected 750, got %d", got)
	}
	if got := a.Revert(TransactionTypeIncome, 250); got != 750 {
		t.Errorf("revert income: expected 750, got %d", got)
	}
	if got := a.Revert(TransactionTypeExpense, 250); got != 1250 {
		t.Errorf("revert expense: expected 1250, got %d", got)
	}
	if got := a.Apply(TransactionType("transfer"), 250); got != 1000 {
		t.Errorf("unknown type should leave balance unchanged, got %d", got)
	}
}

func TestTransactionTypeValid(t *testing.T) {
	for _, tt := range []TransactionType{TransactionTypeIncome, TransactionTypeExpense} {
		if !tt.Valid() {
			t.Errorf("%q should be valid", tt)
		}
	}
	if TransactionType("Expense").Valid() {
		t.Error("type matching is case-sensitive")
	}
}
