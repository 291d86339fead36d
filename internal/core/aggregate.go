package core

import "time"

// Fallback labels used when a transaction's reference cannot be resolved.
const (
	FallbackCategoryLabel = "etc"
	FallbackCardLabel     = "unknown"
)

// MonthlyTotals buckets transactions by calendar month and sums amounts,
// income and expense separately. Transactions without a date fall into the
// month containing now, so undated records always surface in the current
// month's totals.
func MonthlyTotals(txs []Transaction, now time.Time) (income, expense map[Month]float64) {
	income = make(map[Month]float64)
	expense = make(map[Month]float64)
	for _, t := range txs {
		m := monthBucket(t, now)
		switch t.Type {
		case Income:
			income[m] += t.Amount
		case Expense:
			expense[m] += t.Amount
		}
	}
	return income, expense
}

// MonthlyCategoryTotals sums expense amounts per month per category
// display name. Expenses with no resolvable category accumulate under the
// "etc" label.
func MonthlyCategoryTotals(txs []Transaction, cats CategoryIndex, now time.Time) map[Month]map[string]float64 {
	out := make(map[Month]map[string]float64)
	for _, t := range txs {
		if t.Type != Expense {
			continue
		}
		m := monthBucket(t, now)
		name := FallbackCategoryLabel
		if c, ok := cats[t.CategoryID]; ok && t.CategoryID != "" {
			name = c.Name
		}
		if out[m] == nil {
			out[m] = make(map[string]float64)
		}
		out[m][name] += t.Amount
	}
	return out
}

// MonthlyInstrumentTotals splits expenses by payment instrument: card
// expenses are summed per month per card display name ("unknown" when the
// card reference is absent or dangles after a deletion), cash expenses
// into a flat per-month sum.
func MonthlyInstrumentTotals(txs []Transaction, cards CardIndex, now time.Time) (byCard map[Month]map[string]float64, cash map[Month]float64) {
	byCard = make(map[Month]map[string]float64)
	cash = make(map[Month]float64)
	for _, t := range txs {
		if t.Type != Expense {
			continue
		}
		m := monthBucket(t, now)
		switch t.PaymentMethod {
		case Card:
			name := FallbackCardLabel
			if c, ok := cards[t.CardID]; ok && t.CardID != "" {
				name = c.Name
			}
			if byCard[m] == nil {
				byCard[m] = make(map[string]float64)
			}
			byCard[m][name] += t.Amount
		case Cash:
			cash[m] += t.Amount
		}
	}
	return byCard, cash
}

// monthBucket reads the month from the date's own components; undated
// records fall into the month containing now. Zone-converting the instant
// would push midnight dates into the previous month under zones behind
// the one they were parsed in.
func monthBucket(t Transaction, now time.Time) Month {
	if !t.HasDate() {
		return MonthOf(now)
	}
	return Month{Year: t.Date.Year(), Month: t.Date.Month()}
}
