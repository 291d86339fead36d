package core

import (
	"errors"
	"math"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"

	Cash PaymentMethod = "cash"
	Card PaymentMethod = "card"
)

type (
	TransactionType string

	PaymentMethod string

	// Transaction is a single ledger record. Dates carry day granularity
	// only; the time-of-day component is never significant for grouping.
	Transaction struct {
		ID            string
		Amount        float64
		Date          time.Time // zero when the record has no date
		Detail        string
		Type          TransactionType
		PaymentMethod PaymentMethod // meaningful only when Type == Expense
		CardID        string        // optional, may dangle after card deletion
		CategoryID    string        // optional; records without one are hidden from the ledger
		CreatedAt     time.Time
	}

	// Category belongs to exactly one transaction type and is only offered
	// as a selection option within forms of the matching type.
	Category struct {
		ID   string
		Name string
		Type TransactionType
	}

	// CardAccount is a payment card a transaction can reference. CreatedAt
	// drives the default listing order.
	CardAccount struct {
		ID        string
		Name      string
		CreatedAt time.Time
	}
)

var (
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidType          = errors.New("invalid transaction type")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrMissingCategory      = errors.New("missing category")
	ErrMissingCard          = errors.New("missing card")
	ErrEmptyName            = errors.New("empty name")
	ErrDetailTooLong        = errors.New("detail too long (max 200 characters)")
)

// IsValid reports whether t names a known transaction type.
func (t TransactionType) IsValid() bool {
	return t == Income || t == Expense
}

// IsValid reports whether p names a known payment method.
func (p PaymentMethod) IsValid() bool {
	return p == Cash || p == Card
}

func (t Transaction) Validate() error {
	if math.IsNaN(t.Amount) || math.IsInf(t.Amount, 0) || t.Amount < 0 {
		return ErrInvalidAmount
	}
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	if len(t.Detail) > 200 {
		return ErrDetailTooLong
	}
	if t.Type == Expense {
		if !t.PaymentMethod.IsValid() {
			return ErrInvalidPaymentMethod
		}
		if t.PaymentMethod == Card && t.CardID == "" {
			return ErrMissingCard
		}
	}
	if t.CategoryID == "" {
		return ErrMissingCategory
	}
	return nil
}

// HasDate reports whether the transaction carries a usable date.
func (t Transaction) HasDate() bool {
	return !t.Date.IsZero()
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !c.Type.IsValid() {
		return ErrInvalidType
	}
	return nil
}

func (c CardAccount) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

// CategoryIndex maps category IDs to categories for name resolution
// during filtering and aggregation.
type CategoryIndex map[string]Category

// CardIndex maps card IDs to cards for display-name resolution.
type CardIndex map[string]CardAccount

// NewCategoryIndex builds a lookup index from a fetched category snapshot.
func NewCategoryIndex(cats []Category) CategoryIndex {
	idx := make(CategoryIndex, len(cats))
	for _, c := range cats {
		idx[c.ID] = c
	}
	return idx
}

// NewCardIndex builds a lookup index from a fetched card snapshot.
func NewCardIndex(cards []CardAccount) CardIndex {
	idx := make(CardIndex, len(cards))
	for _, c := range cards {
		idx[c.ID] = c
	}
	return idx
}
