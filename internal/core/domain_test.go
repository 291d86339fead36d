package core

import (
	"errors"
	"math"
	"testing"
	"time"
)

func validExpense() Transaction {
	return Transaction{
		ID:            "t1",
		Amount:        50,
		Date:          time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Type:          Expense,
		PaymentMethod: Cash,
		CategoryID:    "c1",
	}
}

func TestTransactionValidate(t *testing.T) {
	if err := validExpense().Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name    string
		mutate  func(*Transaction)
		wantErr error
	}{
		{"negative amount", func(tx *Transaction) { tx.Amount = -1 }, ErrInvalidAmount},
		{"nan amount", func(tx *Transaction) { tx.Amount = math.NaN() }, ErrInvalidAmount},
		{"bad type", func(tx *Transaction) { tx.Type = "transfer" }, ErrInvalidType},
		{"bad payment method", func(tx *Transaction) { tx.PaymentMethod = "check" }, ErrInvalidPaymentMethod},
		{"card expense without card", func(tx *Transaction) { tx.PaymentMethod = Card }, ErrMissingCard},
		{"no category", func(tx *Transaction) { tx.CategoryID = "" }, ErrMissingCategory},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := validExpense()
			tc.mutate(&tx)
			if err := tx.Validate(); !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestIncomeIgnoresPaymentMethod(t *testing.T) {
	tx := Transaction{ID: "t1", Amount: 100, Type: Income, CategoryID: "c1"}
	if err := tx.Validate(); err != nil {
		t.Fatalf("income with no payment method should validate, got %v", err)
	}
}

func TestZeroAmountAllowed(t *testing.T) {
	tx := validExpense()
	tx.Amount = 0
	if err := tx.Validate(); err != nil {
		t.Fatalf("zero amount should validate, got %v", err)
	}
}

func TestCategoryValidate(t *testing.T) {
	if err := (Category{Name: "Food", Type: Expense}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Category{Name: "  ", Type: Expense}).Validate(); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if err := (Category{Name: "Food", Type: "other"}).Validate(); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}

func TestCardValidate(t *testing.T) {
	if err := (CardAccount{Name: "Visa"}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (CardAccount{Name: ""}).Validate(); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}
