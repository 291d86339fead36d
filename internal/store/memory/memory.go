// Package memory provides an in-memory Store used by tests and as the
// zero-configuration default backend.
package memory

import (
	"context"
	"sort"
	"sync"

	"ledger/internal/core"
	"ledger/internal/store"
)

type Store struct {
	mu       sync.Mutex
	txs      map[string]core.Transaction
	cats     map[string]core.Category
	cards    map[string]core.CardAccount
	settings map[string]string
}

func New() *Store {
	return &Store{
		txs:      make(map[string]core.Transaction),
		cats:     make(map[string]core.Category),
		cards:    make(map[string]core.CardAccount),
		settings: make(map[string]string),
	}
}

var _ store.Store = (*Store)(nil)

func (s *Store) FetchTransactions(_ context.Context, q store.Query) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Transaction, 0, len(s.txs))
	for _, t := range s.txs {
		if q.Matches(t) {
			out = append(out, t)
		}
	}
	sortDescending(out)
	return out, nil
}

func (s *Store) CountTransactions(_ context.Context, q store.Query) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, t := range s.txs {
		if q.Matches(t) {
			n++
		}
	}
	return n, nil
}

func (s *Store) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.txs[id]
	if !ok {
		return core.Transaction{}, store.ErrNotFound
	}
	return t, nil
}

func (s *Store) SaveTransaction(_ context.Context, t core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs[t.ID] = t
	return nil
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.txs[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.txs, id)
	return nil
}

func (s *Store) BatchDeleteTransactions(_ context.Context, q store.Query) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, t := range s.txs {
		if q.Matches(t) {
			delete(s.txs, id)
			n++
		}
	}
	return n, nil
}

func (s *Store) ListCategories(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Category, 0, len(s.cats))
	for _, c := range s.cats {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetCategory(_ context.Context, id string) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cats[id]
	if !ok {
		return core.Category{}, store.ErrNotFound
	}
	return c, nil
}

func (s *Store) SaveCategory(_ context.Context, c core.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cats[c.ID] = c
	return nil
}

func (s *Store) DeleteCategory(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cats[id]; !ok {
		return store.ErrNotFound
	}
	// Referencing transactions keep their dangling category ID.
	delete(s.cats, id)
	return nil
}

func (s *Store) ListCards(_ context.Context) ([]core.CardAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.CardAccount, 0, len(s.cards))
	for _, c := range s.cards {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) GetCard(_ context.Context, id string) (core.CardAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cards[id]
	if !ok {
		return core.CardAccount{}, store.ErrNotFound
	}
	return c, nil
}

func (s *Store) SaveCard(_ context.Context, c core.CardAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cards[c.ID] = c
	return nil
}

func (s *Store) DeleteCard(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cards[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.cards, id)
	for tid, t := range s.txs {
		if t.CardID == id {
			t.CardID = ""
			s.txs[tid] = t
		}
	}
	return nil
}

func (s *Store) GetSetting(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.settings[key]
	if !ok {
		return "", store.ErrNotFound
	}
	return v, nil
}

func (s *Store) PutSetting(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[key] = value
	return nil
}

func (s *Store) Close() error { return nil }

// sortDescending orders newest first, dateless records last, with ID as a
// stable tiebreaker.
func sortDescending(txs []core.Transaction) {
	sort.Slice(txs, func(i, j int) bool {
		a, b := txs[i], txs[j]
		switch {
		case a.HasDate() && !b.HasDate():
			return true
		case !a.HasDate() && b.HasDate():
			return false
		case !a.Date.Equal(b.Date):
			return a.Date.After(b.Date)
		default:
			return a.ID < b.ID
		}
	})
}
