package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"ledger/internal/core"
	"ledger/internal/store"
	"ledger/internal/store/memory"
)

var testNow = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*LedgerService, *memory.Store) {
	t.Helper()
	st := memory.New()
	svc := NewLedgerService(st).WithClock(func() time.Time { return testNow })
	return svc, st
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustCategory(t *testing.T, svc *LedgerService, name string, typ core.TransactionType) core.Category {
	t.Helper()
	c, err := svc.CreateCategory(context.Background(), name, typ)
	if err != nil {
		t.Fatalf("create category %s: %v", name, err)
	}
	return c
}

func TestCreateTransactionAssignsIDAndValidates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	food := mustCategory(t, svc, "Food", core.Expense)

	tx, err := svc.CreateTransaction(ctx, core.Transaction{
		Amount:        50,
		Date:          day(2024, 3, 1),
		Type:          core.Expense,
		PaymentMethod: core.Cash,
		CategoryID:    food.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if tx.ID == "" {
		t.Fatalf("no identifier assigned")
	}
	if tx.CreatedAt != testNow {
		t.Fatalf("created_at = %v, want %v", tx.CreatedAt, testNow)
	}

	_, err = svc.CreateTransaction(ctx, core.Transaction{
		Amount: -1, Type: core.Expense, PaymentMethod: core.Cash, CategoryID: food.ID,
	})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestCreateTransactionChecksReferences(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	salary := mustCategory(t, svc, "Salary", core.Income)

	_, err := svc.CreateTransaction(ctx, core.Transaction{
		Amount: 1, Type: core.Expense, PaymentMethod: core.Cash, CategoryID: "missing",
	})
	if !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}

	// Income category on an expense record is rejected.
	_, err = svc.CreateTransaction(ctx, core.Transaction{
		Amount: 1, Type: core.Expense, PaymentMethod: core.Cash, CategoryID: salary.ID,
	})
	if !errors.Is(err, ErrCategoryTypeMismatch) {
		t.Fatalf("expected ErrCategoryTypeMismatch, got %v", err)
	}

	food := mustCategory(t, svc, "Food", core.Expense)
	_, err = svc.CreateTransaction(ctx, core.Transaction{
		Amount: 1, Type: core.Expense, PaymentMethod: core.Card, CardID: "missing", CategoryID: food.ID,
	})
	if !errors.Is(err, ErrCardNotFound) {
		t.Fatalf("expected ErrCardNotFound, got %v", err)
	}
}

func TestUpdateTransactionTypeImmutable(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	food := mustCategory(t, svc, "Food", core.Expense)
	salary := mustCategory(t, svc, "Salary", core.Income)

	tx, err := svc.CreateTransaction(ctx, core.Transaction{
		Amount: 10, Date: day(2024, 3, 1), Type: core.Expense, PaymentMethod: core.Cash, CategoryID: food.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	tx.Type = core.Income
	tx.CategoryID = salary.ID
	if _, err := svc.UpdateTransaction(ctx, tx); !errors.Is(err, ErrTypeImmutable) {
		t.Fatalf("expected ErrTypeImmutable, got %v", err)
	}

	tx.Type = core.Expense
	tx.CategoryID = food.ID
	tx.Amount = 25
	updated, err := svc.UpdateTransaction(ctx, tx)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Amount != 25 {
		t.Fatalf("amount = %v, want 25", updated.Amount)
	}
	if updated.CreatedAt != testNow {
		t.Fatalf("created_at must survive updates")
	}
}

func TestDeleteAllTransactions(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	food := mustCategory(t, svc, "Food", core.Expense)

	for i := 0; i < 3; i++ {
		if _, err := svc.CreateTransaction(ctx, core.Transaction{
			Amount: float64(i), Date: day(2024, 3, 1+i), Type: core.Expense, PaymentMethod: core.Cash, CategoryID: food.ID,
		}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	n, err := svc.DeleteAllTransactions(ctx)
	if err != nil || n != 3 {
		t.Fatalf("delete all = %d, %v; want 3", n, err)
	}
	left, _ := svc.CountTransactions(ctx, store.Query{})
	if left != 0 {
		t.Fatalf("left = %d, want 0", left)
	}
}

func TestBuildReport(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	food := mustCategory(t, svc, "Food", core.Expense)
	salary := mustCategory(t, svc, "Salary", core.Income)

	seed := []core.Transaction{
		{Amount: 5000, Date: day(2024, 3, 1), Type: core.Expense, PaymentMethod: core.Cash, CategoryID: food.ID},
		{Amount: 200000, Date: day(2024, 3, 15), Type: core.Income, CategoryID: salary.ID},
		{Amount: 700, Date: day(2024, 2, 2), Type: core.Expense, PaymentMethod: core.Cash, CategoryID: food.ID},
	}
	for _, tx := range seed {
		if _, err := svc.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	r, err := svc.BuildReport(ctx, core.FilterSpec{}, false)
	if err != nil {
		t.Fatalf("report: %v", err)
	}

	march := core.Month{Year: 2024, Month: time.March}
	feb := core.Month{Year: 2024, Month: time.February}
	if r.MonthlyExpense[march] != 5000 || r.MonthlyExpense[feb] != 700 {
		t.Fatalf("monthly expense = %v", r.MonthlyExpense)
	}
	if r.MonthlyIncome[march] != 200000 {
		t.Fatalf("monthly income = %v", r.MonthlyIncome)
	}
	if r.CategoryTotals[march]["Food"] != 5000 {
		t.Fatalf("category totals = %v", r.CategoryTotals)
	}
	if r.CashTotals[march] != 5000 {
		t.Fatalf("cash totals = %v", r.CashTotals)
	}
	if len(r.Ledger) != 3 {
		t.Fatalf("ledger rows = %d, want 3", len(r.Ledger))
	}
	if len(r.Months) != 2 || r.Months[0] != feb || r.Months[1] != march {
		t.Fatalf("months ascending = %v", r.Months)
	}

	desc, err := svc.BuildReport(ctx, core.FilterSpec{}, true)
	if err != nil {
		t.Fatalf("report desc: %v", err)
	}
	if desc.Months[0] != march {
		t.Fatalf("months descending = %v", desc.Months)
	}
}

func TestBuildReportHidesCategorylessLedgerRows(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	// Written behind the service's back: a record whose category was never
	// set. It must vanish from the ledger but aggregate under "etc".
	orphan := core.Transaction{ID: "orphan", Amount: 300, Date: day(2024, 3, 2), Type: core.Expense, PaymentMethod: core.Cash}
	if err := st.SaveTransaction(ctx, orphan); err != nil {
		t.Fatalf("seed orphan: %v", err)
	}

	r, err := svc.BuildReport(ctx, core.FilterSpec{}, false)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(r.Ledger) != 0 {
		t.Fatalf("orphan visible in ledger: %v", r.Ledger)
	}
	march := core.Month{Year: 2024, Month: time.March}
	if r.CategoryTotals[march][core.FallbackCategoryLabel] != 300 {
		t.Fatalf("orphan missing from etc bucket: %v", r.CategoryTotals)
	}
}

func TestBuildReportWithFilter(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	food := mustCategory(t, svc, "Food", core.Expense)

	card, err := svc.CreateCard(ctx, "Visa")
	if err != nil {
		t.Fatalf("create card: %v", err)
	}
	seed := []core.Transaction{
		{Amount: 100, Date: day(2024, 3, 20), Type: core.Expense, PaymentMethod: core.Card, CardID: card.ID, CategoryID: food.ID},
		{Amount: 50, Date: day(2024, 3, 20), Type: core.Expense, PaymentMethod: core.Cash, CategoryID: food.ID},
	}
	for _, tx := range seed {
		if _, err := svc.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	r, err := svc.BuildReport(ctx, core.FilterSpec{Type: core.TypeExpense, Payment: core.PaymentCard}, false)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	march := core.Month{Year: 2024, Month: time.March}
	if r.MonthlyExpense[march] != 100 {
		t.Fatalf("filtered expense = %v, want 100", r.MonthlyExpense)
	}
	if r.CardTotals[march]["Visa"] != 100 {
		t.Fatalf("card totals = %v", r.CardTotals)
	}
	if len(r.CashTotals) != 0 {
		t.Fatalf("cash totals should be empty, got %v", r.CashTotals)
	}
}

func TestCardDeletionFallsBackToUnknown(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	food := mustCategory(t, svc, "Food", core.Expense)

	card, err := svc.CreateCard(ctx, "Visa")
	if err != nil {
		t.Fatalf("create card: %v", err)
	}
	if _, err := svc.CreateTransaction(ctx, core.Transaction{
		Amount: 80, Date: day(2024, 3, 1), Type: core.Expense, PaymentMethod: core.Card, CardID: card.ID, CategoryID: food.ID,
	}); err != nil {
		t.Fatalf("create tx: %v", err)
	}

	if err := svc.DeleteCard(ctx, card.ID); err != nil {
		t.Fatalf("delete card: %v", err)
	}

	r, err := svc.BuildReport(ctx, core.FilterSpec{}, false)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	march := core.Month{Year: 2024, Month: time.March}
	if r.CardTotals[march][core.FallbackCardLabel] != 80 {
		t.Fatalf("expected unknown card bucket, got %v", r.CardTotals)
	}
}

func TestFilterSpecPersistence(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	spec := core.FilterSpec{
		Type:     core.TypeExpense,
		Category: "Food",
		Date:     core.DateCustom,
		Start:    day(2024, 3, 1),
		End:      day(2024, 3, 31),
		Payment:  core.PaymentCash,
	}
	if err := svc.SaveFilterSpec(ctx, spec); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := svc.LoadFilterSpec(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Type != spec.Type || got.Category != spec.Category || got.Date != spec.Date ||
		!got.Start.Equal(spec.Start) || !got.End.Equal(spec.End) || got.Payment != spec.Payment {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestLoadFilterSpecDefaultsToZero(t *testing.T) {
	svc, _ := newTestService(t)
	got, err := svc.LoadFilterSpec(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != (core.FilterSpec{}) {
		t.Fatalf("expected zero spec, got %+v", got)
	}
}

func TestSettingsKnownKeysOnly(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.PutSetting(ctx, SettingTheme, "dark"); err != nil {
		t.Fatalf("put: %v", err)
	}
	v, err := svc.Setting(ctx, SettingTheme)
	if err != nil || v != "dark" {
		t.Fatalf("get = %q, %v", v, err)
	}

	// Unset known key reads as empty.
	v, err = svc.Setting(ctx, SettingAdsRemoved)
	if err != nil || v != "" {
		t.Fatalf("unset key = %q, %v", v, err)
	}

	if err := svc.PutSetting(ctx, "random", "x"); !errors.Is(err, ErrUnknownSettingKey) {
		t.Fatalf("expected ErrUnknownSettingKey, got %v", err)
	}
	if _, err := svc.Setting(ctx, "random"); !errors.Is(err, ErrUnknownSettingKey) {
		t.Fatalf("expected ErrUnknownSettingKey, got %v", err)
	}
}
