package core

import "time"

const (
	TypeAll     TypeFilter = "all"
	TypeIncome  TypeFilter = "income"
	TypeExpense TypeFilter = "expense"

	DateAll       DateFilter = "all"
	DateToday     DateFilter = "today"
	DateYesterday DateFilter = "yesterday"
	DateLastWeek  DateFilter = "last_week"
	DateLastMonth DateFilter = "last_month"
	DateCustom    DateFilter = "custom"

	PaymentAll  PaymentFilter = "all"
	PaymentCash PaymentFilter = "cash"
	PaymentCard PaymentFilter = "card"
)

type (
	TypeFilter    string
	DateFilter    string
	PaymentFilter string

	// FilterSpec is the explicit filter configuration applied to a fetched
	// transaction snapshot before aggregation. The zero value passes every
	// transaction. Callers own the spec and pass it on each call; nothing
	// here reads ambient state.
	FilterSpec struct {
		Type     TypeFilter
		Category string // category display name; empty means all
		Date     DateFilter
		Start    time.Time // custom range bounds, order-independent
		End      time.Time
		Payment  PaymentFilter // applied only when Type is expense
	}
)

// Filter returns the transactions matching spec, preserving input order.
// Category matching is by display name resolved through cats; relative
// date modes are anchored at now, with calendar days taken in now's
// location.
func Filter(txs []Transaction, spec FilterSpec, cats CategoryIndex, now time.Time) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if spec.Matches(t, cats, now) {
			out = append(out, t)
		}
	}
	return out
}

// Matches reports whether a single transaction passes the spec.
func (s FilterSpec) Matches(t Transaction, cats CategoryIndex, now time.Time) bool {
	if !s.matchesType(t) {
		return false
	}
	if !s.matchesCategory(t, cats) {
		return false
	}
	if !s.matchesDate(t, now) {
		return false
	}
	return s.matchesPayment(t)
}

func (s FilterSpec) matchesType(t Transaction) bool {
	switch s.Type {
	case "", TypeAll:
		return true
	default:
		return string(t.Type) == string(s.Type)
	}
}

func (s FilterSpec) matchesCategory(t Transaction, cats CategoryIndex) bool {
	if s.Category == "" {
		return true
	}
	if t.CategoryID == "" {
		// A record without a category reference never matches a concrete name.
		return false
	}
	cat, ok := cats[t.CategoryID]
	return ok && cat.Name == s.Category
}

func (s FilterSpec) matchesDate(t Transaction, now time.Time) bool {
	if s.Date == "" || s.Date == DateAll {
		return true
	}
	if !t.HasDate() {
		// A missing date only ever matches the all filter.
		return false
	}

	// Dates carry day granularity only, so the calendar day is taken from
	// the date's own components. Converting the instant would shift the
	// day whenever the reference zone sits behind the zone it was parsed
	// in.
	loc := now.Location()
	d := localDay(t.Date, loc)

	switch s.Date {
	case DateToday:
		return sameDay(d, now)
	case DateYesterday:
		return sameDay(d, now.AddDate(0, 0, -1))
	case DateLastWeek:
		return !d.Before(startOfDay(now.AddDate(0, 0, -7))) && !d.After(now)
	case DateLastMonth:
		return !d.Before(startOfDay(now.AddDate(0, -1, 0))) && !d.After(now)
	case DateCustom:
		lo, hi := s.Start, s.End
		if hi.Before(lo) {
			lo, hi = hi, lo
		}
		from := localDay(lo, loc)
		to := localDay(hi, loc).AddDate(0, 0, 1)
		return !d.Before(from) && d.Before(to)
	default:
		return false
	}
}

func (s FilterSpec) matchesPayment(t Transaction) bool {
	// The payment filter only narrows expense views; it is ignored for
	// income and for the all type filter.
	if s.Type != TypeExpense {
		return true
	}
	switch s.Payment {
	case "", PaymentAll:
		return true
	default:
		return string(t.PaymentMethod) == string(s.Payment)
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// localDay rebuilds a day-granularity date as midnight in loc using its
// own year/month/day components.
func localDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
