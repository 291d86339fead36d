package services

import (
	"context"
	"fmt"
	"time"

	"ledger/internal/core"
	"ledger/internal/store"
)

// Report is everything the statistics views consume for one filter spec:
// the visible ledger rows plus the three aggregation products.
type Report struct {
	Ledger         []core.Transaction
	MonthlyIncome  map[core.Month]float64
	MonthlyExpense map[core.Month]float64
	CategoryTotals map[core.Month]map[string]float64
	CardTotals     map[core.Month]map[string]float64
	CashTotals     map[core.Month]float64
	// Months lists every bucket present in the totals, ascending for the
	// bar chart or descending for the breakdown list.
	Months []core.Month
}

// BuildReport fetches a snapshot with a date-range predicate, narrows it
// through the filter engine and aggregates the result. Ledger rows exclude
// transactions without a category reference; the aggregates keep them
// under the fallback labels.
func (s *LedgerService) BuildReport(ctx context.Context, spec core.FilterSpec, descending bool) (Report, error) {
	now := s.now()

	txs, err := s.store.FetchTransactions(ctx, dateBounds(spec, now))
	if err != nil {
		return Report{}, fmt.Errorf("fetch transactions: %w", err)
	}
	catList, err := s.store.ListCategories(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list categories: %w", err)
	}
	cardList, err := s.store.ListCards(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list cards: %w", err)
	}

	cats := core.NewCategoryIndex(catList)
	cards := core.NewCardIndex(cardList)

	filtered := core.Filter(txs, spec, cats, now)

	var r Report
	r.MonthlyIncome, r.MonthlyExpense = core.MonthlyTotals(filtered, now)
	r.CategoryTotals = core.MonthlyCategoryTotals(filtered, cats, now)
	r.CardTotals, r.CashTotals = core.MonthlyInstrumentTotals(filtered, cards, now)

	r.Ledger = make([]core.Transaction, 0, len(filtered))
	for _, t := range filtered {
		if t.CategoryID != "" {
			r.Ledger = append(r.Ledger, t)
		}
	}

	months := make(map[core.Month]struct{}, len(r.MonthlyIncome)+len(r.MonthlyExpense))
	for m := range r.MonthlyIncome {
		months[m] = struct{}{}
	}
	for m := range r.MonthlyExpense {
		months[m] = struct{}{}
	}
	r.Months = core.SortedMonths(months, descending)

	return r, nil
}

// dateBounds narrows the store fetch to the date window the spec can
// imply; the filter engine re-applies the exact day semantics. Type,
// category and payment constraints stay with the filter so the fetched
// snapshot matches what the views would have held.
func dateBounds(spec core.FilterSpec, now time.Time) store.Query {
	switch spec.Date {
	case core.DateToday:
		return store.Query{From: now, To: now}
	case core.DateYesterday:
		y := now.AddDate(0, 0, -1)
		return store.Query{From: y, To: y}
	case core.DateLastWeek:
		return store.Query{From: now.AddDate(0, 0, -7), To: now}
	case core.DateLastMonth:
		return store.Query{From: now.AddDate(0, -1, 0), To: now}
	case core.DateCustom:
		lo, hi := spec.Start, spec.End
		if hi.Before(lo) {
			lo, hi = hi, lo
		}
		return store.Query{From: lo, To: hi}
	default:
		return store.Query{}
	}
}
