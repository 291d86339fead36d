package http

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ledger/internal/core"
	"ledger/internal/store"
)

const dateFormat = "2006-01-02"

// transactionPayload is the JSON shape accepted on create and update.
// Dates travel as yyyy-MM-dd strings; an empty date means the record has
// no date.
type transactionPayload struct {
	Amount        float64 `json:"amount"`
	Date          string  `json:"date"`
	Detail        string  `json:"detail"`
	Type          string  `json:"type"`
	PaymentMethod string  `json:"payment_method"`
	CardID        string  `json:"card_id"`
	CategoryID    string  `json:"category_id"`
}

func (p transactionPayload) toTransaction() (core.Transaction, error) {
	t := core.Transaction{
		Amount:        p.Amount,
		Detail:        sanitizeInput(p.Detail),
		Type:          core.TransactionType(p.Type),
		PaymentMethod: core.PaymentMethod(p.PaymentMethod),
		CardID:        strings.TrimSpace(p.CardID),
		CategoryID:    strings.TrimSpace(p.CategoryID),
	}
	if v := strings.TrimSpace(p.Date); v != "" {
		d, err := time.Parse(dateFormat, v)
		if err != nil {
			return core.Transaction{}, fmt.Errorf("invalid date %q: expected yyyy-MM-dd", p.Date)
		}
		t.Date = d
	}
	return t, nil
}

type categoryPayload struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type cardPayload struct {
	Name string `json:"name"`
}

type settingPayload struct {
	Value string `json:"value"`
}

// transactionView is the JSON shape returned to clients.
type transactionView struct {
	ID            string  `json:"id"`
	Amount        float64 `json:"amount"`
	Date          string  `json:"date,omitempty"`
	Detail        string  `json:"detail,omitempty"`
	Type          string  `json:"type"`
	PaymentMethod string  `json:"payment_method,omitempty"`
	CardID        string  `json:"card_id,omitempty"`
	CategoryID    string  `json:"category_id,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

func toTransactionView(t core.Transaction) transactionView {
	v := transactionView{
		ID:            t.ID,
		Amount:        t.Amount,
		Detail:        t.Detail,
		Type:          string(t.Type),
		PaymentMethod: string(t.PaymentMethod),
		CardID:        t.CardID,
		CategoryID:    t.CategoryID,
		CreatedAt:     t.CreatedAt.Format(time.RFC3339),
	}
	if t.HasDate() {
		v.Date = t.Date.Format(dateFormat)
	}
	return v
}

func toTransactionViews(txs []core.Transaction) []transactionView {
	views := make([]transactionView, 0, len(txs))
	for _, t := range txs {
		views = append(views, toTransactionView(t))
	}
	return views
}

type categoryView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

func toCategoryView(c core.Category) categoryView {
	return categoryView{ID: c.ID, Name: c.Name, Type: string(c.Type)}
}

type cardView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

func toCardView(c core.CardAccount) cardView {
	return cardView{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt.Format(time.RFC3339)}
}

// decodeJSON reads and decodes a request body, rejecting payloads over 1MB.
func decodeJSON(r *http.Request, v any) error {
	body := http.MaxBytesReader(nil, r.Body, 1<<20)
	defer func() { _ = body.Close() }()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// parseFilterSpec builds a filter spec from query parameters. Absent
// parameters keep the zero value, which passes everything.
func parseFilterSpec(q url.Values) (core.FilterSpec, error) {
	var spec core.FilterSpec

	switch v := core.TypeFilter(q.Get("type")); v {
	case "", core.TypeAll, core.TypeIncome, core.TypeExpense:
		spec.Type = v
	default:
		return core.FilterSpec{}, fmt.Errorf("invalid type filter %q", v)
	}

	spec.Category = strings.TrimSpace(q.Get("category"))

	switch v := core.DateFilter(q.Get("date")); v {
	case "", core.DateAll, core.DateToday, core.DateYesterday, core.DateLastWeek, core.DateLastMonth, core.DateCustom:
		spec.Date = v
	default:
		return core.FilterSpec{}, fmt.Errorf("invalid date filter %q", v)
	}

	if v := strings.TrimSpace(q.Get("start")); v != "" {
		d, err := time.Parse(dateFormat, v)
		if err != nil {
			return core.FilterSpec{}, fmt.Errorf("invalid start date %q: expected yyyy-MM-dd", v)
		}
		spec.Start = d
	}
	if v := strings.TrimSpace(q.Get("end")); v != "" {
		d, err := time.Parse(dateFormat, v)
		if err != nil {
			return core.FilterSpec{}, fmt.Errorf("invalid end date %q: expected yyyy-MM-dd", v)
		}
		spec.End = d
	}

	switch v := core.PaymentFilter(q.Get("payment")); v {
	case "", core.PaymentAll, core.PaymentCash, core.PaymentCard:
		spec.Payment = v
	default:
		return core.FilterSpec{}, fmt.Errorf("invalid payment filter %q", v)
	}

	return spec, nil
}

// parseQuery builds the store predicate used by the transaction listing.
func parseQuery(q url.Values) (store.Query, error) {
	var sq store.Query

	if v := strings.TrimSpace(q.Get("from")); v != "" {
		d, err := time.Parse(dateFormat, v)
		if err != nil {
			return store.Query{}, fmt.Errorf("invalid from date %q: expected yyyy-MM-dd", v)
		}
		sq.From = d
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		d, err := time.Parse(dateFormat, v)
		if err != nil {
			return store.Query{}, fmt.Errorf("invalid to date %q: expected yyyy-MM-dd", v)
		}
		sq.To = d
	}

	switch v := core.TransactionType(q.Get("type")); v {
	case "", core.Income, core.Expense:
		sq.Type = v
	default:
		return store.Query{}, fmt.Errorf("invalid transaction type %q", v)
	}

	sq.CategoryID = strings.TrimSpace(q.Get("category_id"))
	return sq, nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
