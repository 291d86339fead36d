// Package store defines the ports the ledger persists through. The
// canonical entity copies live behind these interfaces; callers operate on
// fetched snapshots and never mutate them in place.
package store

import (
	"context"
	"errors"
	"time"

	"ledger/internal/core"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// Query is the predicate vocabulary for transaction fetches. The zero
// value matches everything. From/To are inclusive day bounds; results are
// always returned in descending date order (newest first), dateless
// records last.
type Query struct {
	From       time.Time
	To         time.Time
	Type       core.TransactionType // empty means any
	CategoryID string               // empty means any
}

// Matches reports whether a transaction satisfies the predicate.
func (q Query) Matches(t core.Transaction) bool {
	if q.Type != "" && t.Type != q.Type {
		return false
	}
	if q.CategoryID != "" && t.CategoryID != q.CategoryID {
		return false
	}
	if !q.From.IsZero() || !q.To.IsZero() {
		if !t.HasDate() {
			return false
		}
		d := utcDay(t.Date)
		if !q.From.IsZero() && d.Before(utcDay(q.From)) {
			return false
		}
		if !q.To.IsZero() && d.After(utcDay(q.To)) {
			return false
		}
	}
	return true
}

// utcDay normalizes a time to its own calendar day at UTC midnight. Day
// comparisons go through components rather than instants so a bound taken
// from a zone-local clock lines up with dates parsed at UTC midnight.
func utcDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type (
	TransactionStore interface {
		FetchTransactions(ctx context.Context, q Query) ([]core.Transaction, error)
		CountTransactions(ctx context.Context, q Query) (int, error)
		GetTransaction(ctx context.Context, id string) (core.Transaction, error)
		// SaveTransaction inserts or replaces by ID.
		SaveTransaction(ctx context.Context, t core.Transaction) error
		DeleteTransaction(ctx context.Context, id string) error
		// BatchDeleteTransactions removes every matching transaction and
		// returns how many were deleted.
		BatchDeleteTransactions(ctx context.Context, q Query) (int, error)
	}

	CategoryStore interface {
		ListCategories(ctx context.Context) ([]core.Category, error)
		GetCategory(ctx context.Context, id string) (core.Category, error)
		SaveCategory(ctx context.Context, c core.Category) error
		// DeleteCategory leaves referencing transactions untouched; their
		// category reference dangles and display-level rules hide them.
		DeleteCategory(ctx context.Context, id string) error
	}

	CardStore interface {
		// ListCards returns cards in creation order.
		ListCards(ctx context.Context) ([]core.CardAccount, error)
		GetCard(ctx context.Context, id string) (core.CardAccount, error)
		SaveCard(ctx context.Context, c core.CardAccount) error
		// DeleteCard nulls the card reference on every transaction that
		// points at it, then removes the card.
		DeleteCard(ctx context.Context, id string) error
	}

	// SettingsStore persists small user preference keys (last filter
	// selections, theme, ads_removed) as plain key-value pairs.
	SettingsStore interface {
		GetSetting(ctx context.Context, key string) (string, error)
		PutSetting(ctx context.Context, key, value string) error
	}

	// Store bundles everything a backend must provide.
	Store interface {
		TransactionStore
		CategoryStore
		CardStore
		SettingsStore
		Close() error
	}
)
