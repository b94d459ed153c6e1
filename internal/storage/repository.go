// Package storage persists users, categories, and transactions in SQLite.
package storage

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

	_ "modernc.org/sqlite"

	"fintrack/internal/core"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// timeLayout pads fractional seconds to a fixed width so the string
// comparisons in window and filter queries order timestamps correctly.
// RFC3339Nano trims trailing zeros, which breaks lexicographic ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// ---- users ----

func (r *SQLiteRepository) CreateUser(ctx context.Context, u core.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, full_name, password_hash, total_balance_cents, created_at, last_login, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.FullName, u.PasswordHash, u.TotalBalance.Cents,
		formatTime(u.CreatedAt), formatTime(u.LastLogin), boolToInt(u.IsActive))
	if isUniqueViolation(err) {
		return core.ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	slog.InfoContext(ctx, "User created", "user_id", u.ID, "email", u.Email)
	return nil
}

func (r *SQLiteRepository) scanUser(row *sql.Row) (core.User, error) {
	var u core.User
	var createdAt, lastLogin string
	var active int
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.TotalBalance.Cents, &createdAt, &lastLogin, &active)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("scan user: %w", err)
	}
	u.CreatedAt = parseTime(createdAt)
	u.LastLogin = parseTime(lastLogin)
	u.IsActive = active == 1
	return u, nil
}

const userColumns = `id, email, full_name, password_hash, total_balance_cents, created_at, last_login, is_active`

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return r.scanUser(row)
}

func (r *SQLiteRepository) GetUser(ctx context.Context, id string) (core.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return r.scanUser(row)
}

func (r *SQLiteRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_login = ? WHERE id = ?`, formatTime(at), id)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

// SetUserActive toggles the account flag checked on login and on every
// authenticated request. Outstanding tokens stop working once cleared.
func (r *SQLiteRepository) SetUserActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_active = ? WHERE id = ?`, boolToInt(active), id)
	if err != nil {
		return fmt.Errorf("set user active: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// AdjustBalance applies a signed delta to the user's running balance.
func (r *SQLiteRepository) AdjustBalance(ctx context.Context, id string, deltaCents int64) error {
	if deltaCents == 0 {
		return nil
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET total_balance_cents = total_balance_cents + ? WHERE id = ?`, deltaCents, id)
	if err != nil {
		return fmt.Errorf("adjust balance: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// ---- categories ----

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, user_id, name, description, icon, budget_limit_cents, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, 1, ?)`,
		c.ID, c.UserID, c.Name, c.Description, c.Icon, c.BudgetLimit.Cents, formatTime(c.CreatedAt))
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: category %q", core.ErrDuplicateName, c.Name)
	}
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	slog.InfoContext(ctx, "Category created", "category_id", c.ID, "name", c.Name, "user_id", c.UserID)
	return nil
}

const categoryColumns = `id, user_id, name, description, icon, budget_limit_cents, created_at`

func scanCategory(scan func(...any) error) (core.Category, error) {
	var c core.Category
	var createdAt string
	if err := scan(&c.ID, &c.UserID, &c.Name, &c.Description, &c.Icon, &c.BudgetLimit.Cents, &createdAt); err != nil {
		return core.Category{}, err
	}
	c.CreatedAt = parseTime(createdAt)
	return c, nil
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, userID, id string) (core.Category, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ? AND user_id = ? AND is_active = 1`, id, userID)
	c, err := scanCategory(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, core.ErrNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context, userID string, page, pageSize int) ([]core.Category, error) {
	offset := (page - 1) * pageSize
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+categoryColumns+` FROM categories
		WHERE user_id = ? AND is_active = 1
		ORDER BY name ASC
		LIMIT ? OFFSET ?`, userID, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		c, err := scanCategory(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpdateCategory(ctx context.Context, c core.Category) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE categories SET name = ?, description = ?, icon = ?, budget_limit_cents = ?
		WHERE id = ? AND user_id = ? AND is_active = 1`,
		c.Name, c.Description, c.Icon, c.BudgetLimit.Cents, c.ID, c.UserID)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: category %q", core.ErrDuplicateName, c.Name)
	}
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) SoftDeleteCategory(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET is_active = 0 WHERE id = ? AND user_id = ? AND is_active = 1`, id, userID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	slog.InfoContext(ctx, "Category deleted", "category_id", id, "user_id", userID)
	return nil
}

// CategoryNames maps every active category ID of the user to its name, for
// breakdown labeling and list joins.
func (r *SQLiteRepository) CategoryNames(ctx context.Context, userID string) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name FROM categories WHERE user_id = ? AND is_active = 1`, userID)
	if err != nil {
		return nil, fmt.Errorf("category names: %w", err)
	}
	defer rows.Close()

	names := make(map[string]string)
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan category name: %w", err)
		}
		names[id] = name
	}
	return names, rows.Err()
}

// ---- transactions ----

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, description, amount_cents, kind, category_id, transaction_date, notes, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, ?)`,
		t.ID, t.UserID, t.Description, t.Amount.Cents, string(t.Kind), t.CategoryID,
		formatTime(t.Date), t.Notes, formatTime(t.CreatedAt))
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	slog.InfoContext(ctx, "Transaction created",
		"transaction_id", t.ID,
		"user_id", t.UserID,
		"kind", string(t.Kind),
		"amount_cents", t.Amount.Cents)
	return nil
}

const txColumns = `id, user_id, description, amount_cents, kind, category_id, transaction_date, notes, created_at`

func scanTransaction(scan func(...any) error) (core.Transaction, error) {
	var t core.Transaction
	var kind, date, createdAt string
	if err := scan(&t.ID, &t.UserID, &t.Description, &t.Amount.Cents, &kind, &t.CategoryID, &date, &t.Notes, &createdAt); err != nil {
		return core.Transaction{}, err
	}
	t.Kind = core.TransactionKind(kind)
	t.Date = parseTime(date)
	t.CreatedAt = parseTime(createdAt)
	return t, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, userID, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+txColumns+` FROM transactions WHERE id = ? AND user_id = ? AND is_active = 1`, id, userID)
	t, err := scanTransaction(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// TransactionFilter narrows ListTransactions. Zero values mean "no filter".
type TransactionFilter struct {
	CategoryID string
	Kind       core.TransactionKind
	StartDate  time.Time
	EndDate    time.Time
	Page       int
	PageSize   int
}

// ListTransactions returns the user's transactions newest first, with the
// category name joined on.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID string, f TransactionFilter) ([]core.Transaction, error) {
	query := `
		SELECT t.id, t.user_id, t.description, t.amount_cents, t.kind, t.category_id,
		       t.transaction_date, t.notes, t.created_at, COALESCE(c.name, '')
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id AND c.is_active = 1
		WHERE t.user_id = ? AND t.is_active = 1`
	args := []any{userID}

	if f.CategoryID != "" {
		query += ` AND t.category_id = ?`
		args = append(args, f.CategoryID)
	}
	if f.Kind != "" {
		query += ` AND t.kind = ?`
		args = append(args, string(f.Kind))
	}
	if !f.StartDate.IsZero() {
		query += ` AND t.transaction_date >= ?`
		args = append(args, formatTime(f.StartDate))
	}
	if !f.EndDate.IsZero() {
		query += ` AND t.transaction_date <= ?`
		args = append(args, formatTime(f.EndDate))
	}

	query += ` ORDER BY t.transaction_date DESC`
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += ` LIMIT ? OFFSET ?`
		args = append(args, f.PageSize, (page-1)*f.PageSize)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var t core.Transaction
		var kind, date, createdAt string
		if err := rows.Scan(&t.ID, &t.UserID, &t.Description, &t.Amount.Cents, &kind, &t.CategoryID,
			&date, &t.Notes, &createdAt, &t.CategoryName); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Kind = core.TransactionKind(kind)
		t.Date = parseTime(date)
		t.CreatedAt = parseTime(createdAt)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET description = ?, amount_cents = ?, kind = ?, category_id = ?, transaction_date = ?, notes = ?
		WHERE id = ? AND user_id = ? AND is_active = 1`,
		t.Description, t.Amount.Cents, string(t.Kind), t.CategoryID, formatTime(t.Date), t.Notes, t.ID, t.UserID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) SoftDeleteTransaction(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET is_active = 0 WHERE id = ? AND user_id = ? AND is_active = 1`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	slog.InfoContext(ctx, "Transaction deleted", "transaction_id", id, "user_id", userID)
	return nil
}

// WindowTransactions returns every active transaction of the user inside the
// window's half-open [start, end) interval, for report aggregation.
func (r *SQLiteRepository) WindowTransactions(ctx context.Context, userID string, w core.Window) ([]core.Transaction, error) {
	start, end := w.Bounds()
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+txColumns+` FROM transactions
		WHERE user_id = ? AND is_active = 1 AND transaction_date >= ? AND transaction_date < ?`,
		userID, formatTime(start), formatTime(end))
	if err != nil {
		return nil, fmt.Errorf("window transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// CategoryExpenseTotal sums the user's active expense transactions for one
// category inside the window. Used by the budget alert worker.
func (r *SQLiteRepository) CategoryExpenseTotal(ctx context.Context, userID, categoryID string, w core.Window) (int64, error) {
	start, end := w.Bounds()
	var total int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount_cents), 0) FROM transactions
		WHERE user_id = ? AND category_id = ? AND kind = 'expense' AND is_active = 1
		  AND transaction_date >= ? AND transaction_date < ?`,
		userID, categoryID, formatTime(start), formatTime(end)).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("category expense total: %w", err)
	}
	return total, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
