package core

import (
	"testing"
	"time"
)

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Description: "groceries",
		Amount:      Money{Cents: 1250},
		Kind:        Expense,
		Date:        time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Description: "", Amount: Money{Cents: 1}, Kind: Expense, Date: good.Date},
		{Description: "a", Amount: Money{Cents: 0}, Kind: Expense, Date: good.Date},
		{Description: "a", Amount: Money{Cents: 1}, Kind: "loan", Date: good.Date},
		{Description: "a", Amount: Money{Cents: 1}, Kind: Income, Date: time.Time{}},
	}
	for i, tr := range bads {
		if err := tr.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestCategoryValidate(t *testing.T) {
	if err := (Category{Name: "Food", Icon: "🍽️", BudgetLimit: Money{Cents: 50000}}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Category{Name: ""}).Validate(); err == nil {
		t.Fatal("expected error for empty name")
	}
	if err := (Category{Name: "X", Icon: "not-a-glyph"}).Validate(); err == nil {
		t.Fatal("expected error for unknown icon")
	}
}

func TestBalanceEffect(t *testing.T) {
	cases := []struct {
		kind TransactionKind
		want int64
	}{
		{Income, 500},
		{Expense, -500},
		{Transfer, 0},
	}
	for _, tc := range cases {
		tr := Transaction{Amount: Money{Cents: 500}, Kind: tc.kind}
		if got := tr.BalanceEffect(); got != tc.want {
			t.Fatalf("%s expected %d, got %d", tc.kind, tc.want, got)
		}
	}
}

func TestResolveWindow(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

	w, err := ResolveWindow(0, 0, now)
	if err != nil || w.Month != 6 || w.Year != 2024 {
		t.Fatalf("default window = %+v (err=%v)", w, err)
	}

	if _, err := ResolveWindow(3, 0, now); err == nil {
		t.Fatal("month without year should be rejected")
	}
	if _, err := ResolveWindow(0, 2024, now); err == nil {
		t.Fatal("year without month should be rejected")
	}
	if _, err := ResolveWindow(13, 2024, now); err == nil {
		t.Fatal("month 13 should be rejected")
	}
	if _, err := ResolveWindow(1, 99, now); err == nil {
		t.Fatal("two-digit year should be rejected")
	}
}

func TestWindowBounds(t *testing.T) {
	w := Window{Month: 12, Year: 2024}
	start, end := w.Bounds()
	if start != time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("start = %v", start)
	}
	if end != time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("end = %v", end)
	}
	if !w.Contains(time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)) {
		t.Fatal("end of december should be inside")
	}
	if w.Contains(end) {
		t.Fatal("boundary is exclusive")
	}
}

func TestNormalizeDate(t *testing.T) {
	bare := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	if got := NormalizeDate(bare); got.Hour() != 12 {
		t.Fatalf("bare date should normalize to noon, got %v", got)
	}
	timed := time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)
	if got := NormalizeDate(timed); !got.Equal(timed) {
		t.Fatalf("timestamp with time should be untouched, got %v", got)
	}
}
