package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income   TransactionKind = "income"
	Expense  TransactionKind = "expense"
	Transfer TransactionKind = "transfer"
)

// UncategorizedName is the breakdown entry name for expenses without a category.
const UncategorizedName = "Uncategorized"

type (
	TransactionKind string

	// Transaction is a single money movement owned by a user.
	Transaction struct {
		ID           string
		UserID       string
		Description  string
		Amount       Money
		Kind         TransactionKind
		CategoryID   string // empty means uncategorized
		Date         time.Time
		Notes        string
		CreatedAt    time.Time
		CategoryName string // joined on read, not stored
	}

	// Category is a user-defined budget bucket.
	Category struct {
		ID          string
		UserID      string
		Name        string
		Description string
		Icon        string
		BudgetLimit Money // Cents == 0 means no limit
		CreatedAt   time.Time
	}

	// User is an authenticated account with a running balance.
	User struct {
		ID           string
		Email        string
		FullName     string
		PasswordHash string
		TotalBalance Money
		CreatedAt    time.Time
		LastLogin    time.Time
		IsActive     bool
	}
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidKind        = errors.New("invalid transaction kind")
	ErrEmptyDescription   = errors.New("empty description")
	ErrEmptyName          = errors.New("empty name")
	ErrNameTooLong        = errors.New("name too long (max 100 characters)")
	ErrDuplicateName      = errors.New("name already in use")
	ErrInvalidIcon        = errors.New("invalid icon")
	ErrInvalidBudgetLimit = errors.New("invalid budget limit")
	ErrInvalidWindow      = errors.New("invalid report window")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is deactivated")
)

// categoryIcons is the fixed set of glyphs a category may carry.
var categoryIcons = map[string]bool{
	"💰": true, "🏠": true, "🍽️": true, "🚗": true, "🛒": true,
	"💊": true, "🎬": true, "✈️": true, "📚": true, "🎁": true,
	"👕": true, "⚡": true, "📱": true, "🏋️": true, "🐾": true,
	"💼": true, "🧾": true, "❓": true,
}

func ValidKind(k TransactionKind) bool {
	switch k {
	case Income, Expense, Transfer:
		return true
	}
	return false
}

func (t Transaction) Validate() error {
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !ValidKind(t.Kind) {
		return ErrInvalidKind
	}
	if t.Date.IsZero() {
		return errors.New("transaction date cannot be zero")
	}
	return nil
}

func (c Category) Validate() error {
	name := strings.TrimSpace(c.Name)
	if len(name) == 0 {
		return ErrEmptyName
	}
	if len(name) > 100 {
		return ErrNameTooLong
	}
	if c.Icon != "" && !categoryIcons[c.Icon] {
		return ErrInvalidIcon
	}
	if c.BudgetLimit.Cents < 0 {
		return ErrInvalidBudgetLimit
	}
	return nil
}

// BalanceEffect returns the signed cents this transaction contributes to the
// owner's running balance. Transfers are neutral.
func (t Transaction) BalanceEffect() int64 {
	switch t.Kind {
	case Income:
		return t.Amount.Cents
	case Expense:
		return -t.Amount.Cents
	}
	return 0
}

// NormalizeDate pins date-only timestamps to noon UTC so that a bare date
// lands in the same calendar day regardless of the caller's zone.
func NormalizeDate(ts time.Time) time.Time {
	ts = ts.UTC()
	if ts.Hour() == 0 && ts.Minute() == 0 && ts.Second() == 0 && ts.Nanosecond() == 0 {
		return time.Date(ts.Year(), ts.Month(), ts.Day(), 12, 0, 0, 0, time.UTC)
	}
	return ts
}
