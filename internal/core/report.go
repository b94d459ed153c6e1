package core

import (
	"fmt"
	"time"
)

// Window is the month/year period a report is computed over. Both fields are
// set or both are zero; mixed state never leaves ResolveWindow.
type Window struct {
	Month int // 1-12
	Year  int // four digits
}

// ResolveWindow validates the optional month/year pair. With both absent the
// current period is used. Supplying only one of the two is rejected rather
// than silently defaulted.
func ResolveWindow(month, year int, now time.Time) (Window, error) {
	if month == 0 && year == 0 {
		return Window{Month: int(now.UTC().Month()), Year: now.UTC().Year()}, nil
	}
	if month == 0 || year == 0 {
		return Window{}, fmt.Errorf("%w: month and year must be supplied together", ErrInvalidWindow)
	}
	if month < 1 || month > 12 {
		return Window{}, fmt.Errorf("%w: month %d out of range", ErrInvalidWindow, month)
	}
	if year < 1000 || year > 9999 {
		return Window{}, fmt.Errorf("%w: year %d must be four digits", ErrInvalidWindow, year)
	}
	return Window{Month: month, Year: year}, nil
}

// Bounds returns the half-open UTC interval [start, end) covering the window.
func (w Window) Bounds() (start, end time.Time) {
	start = time.Date(w.Year, time.Month(w.Month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// Contains reports whether ts falls inside the window.
func (w Window) Contains(ts time.Time) bool {
	start, end := w.Bounds()
	ts = ts.UTC()
	return !ts.Before(start) && ts.Before(end)
}

// SummaryReport is the per-window financial summary. All fields are derived
// and recomputed on every query. Transfers count toward TransactionCount but
// never toward the income/expense totals.
type SummaryReport struct {
	TotalIncome      Money `json:"total_income"`
	TotalExpense     Money `json:"total_expense"`
	NetBalance       Money `json:"net_balance"`
	TransactionCount int   `json:"transaction_count"`
	Month            int   `json:"month"`
	Year             int   `json:"year"`
}

// CategoryExpense is one entry of a category breakdown.
type CategoryExpense struct {
	CategoryID       string  `json:"category_id,omitempty"`
	CategoryName     string  `json:"category_name"`
	TotalAmount      Money   `json:"total_amount"`
	TransactionCount int     `json:"transaction_count"`
	Percentage       float64 `json:"percentage"`
}

// CategoryBreakdown groups a window's expense transactions by category,
// ordered by total amount descending with ties broken by name ascending.
// Sum of entry totals equals TotalExpense; entry percentages sum to ~100
// whenever TotalExpense is positive.
type CategoryBreakdown struct {
	Expenses     []CategoryExpense `json:"expenses"`
	TotalExpense Money             `json:"total_expense"`
}
