// Package sqlite implements the store ports on an embedded SQLite
// database, with schema managed by embedded golang-migrate migrations.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ledger/internal/core"
	"ledger/internal/store"

	_ "modernc.org/sqlite"
)

const dateFormat = "2006-01-02"

type Repository struct {
	db *sql.DB
}

var _ store.Store = (*Repository)(nil)

func NewRepository(dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// queryWhere translates a store.Query into a WHERE clause. Date bounds
// compare the ISO "yyyy-mm-dd" column lexicographically, which matches
// chronological order; NULL dates never satisfy a bound.
func queryWhere(q store.Query) (string, []any) {
	var conds []string
	var args []any

	if q.Type != "" {
		conds = append(conds, "type = ?")
		args = append(args, string(q.Type))
	}
	if q.CategoryID != "" {
		conds = append(conds, "category_id = ?")
		args = append(args, q.CategoryID)
	}
	if !q.From.IsZero() {
		conds = append(conds, "date >= ?")
		args = append(args, q.From.Format(dateFormat))
	}
	if !q.To.IsZero() {
		conds = append(conds, "date <= ?")
		args = append(args, q.To.Format(dateFormat))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

const transactionColumns = "id, amount, date, detail, type, payment_method, card_id, category_id, created_at"

func (r *Repository) FetchTransactions(ctx context.Context, q store.Query) ([]core.Transaction, error) {
	where, args := queryWhere(q)
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions"+where+
			" ORDER BY date IS NULL, date DESC, id", args...)
	if err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func (r *Repository) CountTransactions(ctx context.Context, q store.Query) (int, error) {
	where, args := queryWhere(q)
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions"+where, args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}

func (r *Repository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = ?", id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, store.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

func (r *Repository) SaveTransaction(ctx context.Context, t core.Transaction) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (`+transactionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			amount = excluded.amount,
			date = excluded.date,
			detail = excluded.detail,
			type = excluded.type,
			payment_method = excluded.payment_method,
			card_id = excluded.card_id,
			category_id = excluded.category_id`,
		t.ID, t.Amount, nullDate(t.Date), t.Detail, string(t.Type),
		string(t.PaymentMethod), nullString(t.CardID), nullString(t.CategoryID),
		t.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save transaction: %w", err)
	}
	return nil
}

func (r *Repository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *Repository) BatchDeleteTransactions(ctx context.Context, q store.Query) (int, error) {
	where, args := queryWhere(q)
	res, err := r.db.ExecContext(ctx, "DELETE FROM transactions"+where, args...)
	if err != nil {
		return 0, fmt.Errorf("batch delete transactions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("batch delete rows affected: %w", err)
	}
	return int(n), nil
}

func (r *Repository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, type FROM categories ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		var typ string
		if err := rows.Scan(&c.ID, &c.Name, &typ); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Type = core.TransactionType(typ)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return out, nil
}

func (r *Repository) GetCategory(ctx context.Context, id string) (core.Category, error) {
	var c core.Category
	var typ string
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, type FROM categories WHERE id = ?", id).Scan(&c.ID, &c.Name, &typ)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, store.ErrNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	c.Type = core.TransactionType(typ)
	return c, nil
}

func (r *Repository) SaveCategory(ctx context.Context, c core.Category) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, type) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name`,
		c.ID, c.Name, string(c.Type))
	if err != nil {
		return fmt.Errorf("save category: %w", err)
	}
	return nil
}

func (r *Repository) DeleteCategory(ctx context.Context, id string) error {
	// Transactions keep their category_id; the dangling reference is a
	// display concern, not a store constraint.
	res, err := r.db.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *Repository) ListCards(ctx context.Context) ([]core.CardAccount, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, created_at FROM cards ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	var out []core.CardAccount
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cards: %w", err)
	}
	return out, nil
}

func (r *Repository) GetCard(ctx context.Context, id string) (core.CardAccount, error) {
	row := r.db.QueryRowContext(ctx, "SELECT id, name, created_at FROM cards WHERE id = ?", id)
	c, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.CardAccount{}, store.ErrNotFound
	}
	if err != nil {
		return core.CardAccount{}, fmt.Errorf("get card: %w", err)
	}
	return c, nil
}

func (r *Repository) SaveCard(ctx context.Context, c core.CardAccount) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cards (id, name, created_at) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name`,
		c.ID, c.Name, c.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save card: %w", err)
	}
	return nil
}

// DeleteCard nulls card references on transactions and removes the card in
// a single SQL transaction, so a failure leaves both sides untouched.
func (r *Repository) DeleteCard(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete card: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "UPDATE transactions SET card_id = NULL WHERE card_id = ?", id); err != nil {
		return fmt.Errorf("null card references: %w", err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM cards WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete card: %w", err)
	}
	slog.InfoContext(ctx, "Card deleted, references nulled", "card_id", id)
	return nil
}

func (r *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	var v string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get setting: %w", err)
	}
	return v, nil
}

func (r *Repository) PutSetting(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("put setting: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var t core.Transaction
	var date, cardID, categoryID sql.NullString
	var typ, method, createdAt string

	if err := row.Scan(&t.ID, &t.Amount, &date, &t.Detail, &typ, &method, &cardID, &categoryID, &createdAt); err != nil {
		return core.Transaction{}, err
	}
	t.Type = core.TransactionType(typ)
	t.PaymentMethod = core.PaymentMethod(method)
	t.CardID = cardID.String
	t.CategoryID = categoryID.String
	if date.Valid {
		d, err := time.Parse(dateFormat, date.String)
		if err != nil {
			return core.Transaction{}, fmt.Errorf("parse date %q: %w", date.String, err)
		}
		t.Date = d
	}
	if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
		t.CreatedAt = ts
	}
	return t, nil
}

func scanCard(row rowScanner) (core.CardAccount, error) {
	var c core.CardAccount
	var createdAt string
	if err := row.Scan(&c.ID, &c.Name, &createdAt); err != nil {
		return core.CardAccount{}, err
	}
	if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
		c.CreatedAt = ts
	}
	return c, nil
}

func nullDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(dateFormat)
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
