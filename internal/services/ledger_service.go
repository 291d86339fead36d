// Package services orchestrates ledger operations across the store and
// the core filter/aggregation engines.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"ledger/internal/core"
	"ledger/internal/store"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	ErrCategoryNotFound     = errors.New("category not found")
	ErrCardNotFound         = errors.New("card not found")
	ErrCategoryTypeMismatch = errors.New("category type does not match transaction type")
	ErrTypeImmutable        = errors.New("transaction type cannot change after creation")
	ErrUnknownSettingKey    = errors.New("unknown setting key")
)

// Persisted preference keys.
const (
	SettingFilterSpec = "filter_spec"
	SettingTheme      = "theme"
	SettingAdsRemoved = "ads_removed"
)

var knownSettingKeys = map[string]bool{
	SettingFilterSpec: true,
	SettingTheme:      true,
	SettingAdsRemoved: true,
}

// LedgerService owns validation and orchestration. The filter and
// aggregation engines stay pure; this layer feeds them snapshots fetched
// from the store.
type LedgerService struct {
	store store.Store
	now   func() time.Time
}

func NewLedgerService(st store.Store) *LedgerService {
	return &LedgerService{store: st, now: time.Now}
}

// WithClock overrides the reference clock, for tests.
func (s *LedgerService) WithClock(now func() time.Time) *LedgerService {
	s.now = now
	return s
}

// CreateTransaction assigns an identifier, validates, checks references
// and persists the record.
func (s *LedgerService) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	t.ID = uuid.NewString()
	t.CreatedAt = s.now()
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := s.checkReferences(ctx, t); err != nil {
		return core.Transaction{}, err
	}
	if err := s.store.SaveTransaction(ctx, t); err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}
	slog.InfoContext(ctx, "Transaction created",
		"id", t.ID, "type", t.Type, "amount", t.Amount)
	return t, nil
}

// UpdateTransaction mutates a record in place. The type set at creation
// is immutable.
func (s *LedgerService) UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	existing, err := s.store.GetTransaction(ctx, t.ID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("load transaction: %w", err)
	}
	if t.Type != existing.Type {
		return core.Transaction{}, ErrTypeImmutable
	}
	t.CreatedAt = existing.CreatedAt
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := s.checkReferences(ctx, t); err != nil {
		return core.Transaction{}, err
	}
	if err := s.store.SaveTransaction(ctx, t); err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}
	slog.InfoContext(ctx, "Transaction updated", "id", t.ID)
	return t, nil
}

func (s *LedgerService) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	return s.store.GetTransaction(ctx, id)
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}

// DeleteAllTransactions wipes the ledger and returns how many records
// were removed.
func (s *LedgerService) DeleteAllTransactions(ctx context.Context) (int, error) {
	n, err := s.store.BatchDeleteTransactions(ctx, store.Query{})
	if err != nil {
		return 0, fmt.Errorf("delete all transactions: %w", err)
	}
	slog.InfoContext(ctx, "All transactions deleted", "count", n)
	return n, nil
}

func (s *LedgerService) Transactions(ctx context.Context, q store.Query) ([]core.Transaction, error) {
	return s.store.FetchTransactions(ctx, q)
}

func (s *LedgerService) CountTransactions(ctx context.Context, q store.Query) (int, error) {
	return s.store.CountTransactions(ctx, q)
}

func (s *LedgerService) checkReferences(ctx context.Context, t core.Transaction) error {
	cat, err := s.store.GetCategory(ctx, t.CategoryID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrCategoryNotFound
	}
	if err != nil {
		return fmt.Errorf("check category: %w", err)
	}
	if cat.Type != t.Type {
		return ErrCategoryTypeMismatch
	}
	if t.CardID != "" {
		if _, err := s.store.GetCard(ctx, t.CardID); errors.Is(err, store.ErrNotFound) {
			return ErrCardNotFound
		} else if err != nil {
			return fmt.Errorf("check card: %w", err)
		}
	}
	return nil
}

// CreateCategory adds a category of the given type. The type is fixed for
// the category's lifetime.
func (s *LedgerService) CreateCategory(ctx context.Context, name string, typ core.TransactionType) (core.Category, error) {
	c := core.Category{ID: uuid.NewString(), Name: name, Type: typ}
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	if err := s.store.SaveCategory(ctx, c); err != nil {
		return core.Category{}, fmt.Errorf("save category: %w", err)
	}
	slog.InfoContext(ctx, "Category created", "id", c.ID, "name", c.Name, "type", c.Type)
	return c, nil
}

func (s *LedgerService) ListCategories(ctx context.Context) ([]core.Category, error) {
	return s.store.ListCategories(ctx)
}

// DeleteCategory removes a category. Transactions referencing it keep the
// dangling reference and disappear from ledger views until recategorized.
func (s *LedgerService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.store.DeleteCategory(ctx, id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Category deleted", "id", id)
	return nil
}

func (s *LedgerService) CreateCard(ctx context.Context, name string) (core.CardAccount, error) {
	c := core.CardAccount{ID: uuid.NewString(), Name: name, CreatedAt: s.now()}
	if err := c.Validate(); err != nil {
		return core.CardAccount{}, err
	}
	if err := s.store.SaveCard(ctx, c); err != nil {
		return core.CardAccount{}, fmt.Errorf("save card: %w", err)
	}
	slog.InfoContext(ctx, "Card created", "id", c.ID, "name", c.Name)
	return c, nil
}

func (s *LedgerService) RenameCard(ctx context.Context, id, name string) (core.CardAccount, error) {
	c, err := s.store.GetCard(ctx, id)
	if err != nil {
		return core.CardAccount{}, err
	}
	c.Name = name
	if err := c.Validate(); err != nil {
		return core.CardAccount{}, err
	}
	if err := s.store.SaveCard(ctx, c); err != nil {
		return core.CardAccount{}, fmt.Errorf("save card: %w", err)
	}
	return c, nil
}

func (s *LedgerService) ListCards(ctx context.Context) ([]core.CardAccount, error) {
	return s.store.ListCards(ctx)
}

// DeleteCard removes a card; the store nulls the reference on every
// transaction that pointed at it.
func (s *LedgerService) DeleteCard(ctx context.Context, id string) error {
	if err := s.store.DeleteCard(ctx, id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Card deleted", "id", id)
	return nil
}

// Setting reads a known preference key. Missing keys read as empty.
func (s *LedgerService) Setting(ctx context.Context, key string) (string, error) {
	if !knownSettingKeys[key] {
		return "", ErrUnknownSettingKey
	}
	v, err := s.store.GetSetting(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil
	}
	return v, err
}

// PutSetting writes a known preference key.
func (s *LedgerService) PutSetting(ctx context.Context, key, value string) error {
	if !knownSettingKeys[key] {
		return ErrUnknownSettingKey
	}
	return s.store.PutSetting(ctx, key, value)
}

// SaveFilterSpec persists the last-used filter selections. The spec is
// still passed explicitly on every report call; this is only a restore
// convenience for clients.
func (s *LedgerService) SaveFilterSpec(ctx context.Context, spec core.FilterSpec) error {
	b, err := json.Marshal(spec)
	if err != nil {
		return fmt.Errorf("marshal filter spec: %w", err)
	}
	return s.store.PutSetting(ctx, SettingFilterSpec, string(b))
}

// LoadFilterSpec restores the last-used filter selections. When nothing
// was saved the zero spec (match everything) is returned.
func (s *LedgerService) LoadFilterSpec(ctx context.Context) (core.FilterSpec, error) {
	v, err := s.store.GetSetting(ctx, SettingFilterSpec)
	if errors.Is(err, store.ErrNotFound) {
		return core.FilterSpec{}, nil
	}
	if err != nil {
		return core.FilterSpec{}, fmt.Errorf("load filter spec: %w", err)
	}
	var spec core.FilterSpec
	if err := json.Unmarshal([]byte(v), &spec); err != nil {
		return core.FilterSpec{}, fmt.Errorf("unmarshal filter spec: %w", err)
	}
	return spec, nil
}
