// Package report computes per-window financial summaries and category
// breakdowns, and derives the chart-ready series their consumers render.
package report

import (
	"sort"

	"fintrack/internal/core"
)

// Summarize computes the summary report for the transactions that fall inside
// the window. Transfers are excluded from both totals but still counted.
func Summarize(txs []core.Transaction, w core.Window) core.SummaryReport {
	sum := core.SummaryReport{Month: w.Month, Year: w.Year}
	for _, t := range txs {
		if !w.Contains(t.Date) {
			continue
		}
		sum.TransactionCount++
		switch t.Kind {
		case core.Income:
			sum.TotalIncome.Cents += t.Amount.Cents
		case core.Expense:
			sum.TotalExpense.Cents += t.Amount.Cents
		}
	}
	sum.NetBalance.Cents = sum.TotalIncome.Cents - sum.TotalExpense.Cents
	return sum
}

// BreakdownByCategory groups the window's expense transactions by category.
// categoryNames maps category IDs to display names; expenses with no category
// (or a dangling reference) land in a named "Uncategorized" entry so the
// percentage-sum invariant holds. Entries are ordered by total amount
// descending, ties by name ascending. Categories with no matching expense do
// not appear.
func BreakdownByCategory(txs []core.Transaction, w core.Window, categoryNames map[string]string) core.CategoryBreakdown {
	type bucket struct {
		id    string
		cents int64
		count int
	}
	buckets := make(map[string]*bucket)
	var total int64

	for _, t := range txs {
		if t.Kind != core.Expense || !w.Contains(t.Date) {
			continue
		}
		id := t.CategoryID
		if _, known := categoryNames[id]; !known {
			id = ""
		}
		b, ok := buckets[id]
		if !ok {
			b = &bucket{id: id}
			buckets[id] = b
		}
		b.cents += t.Amount.Cents
		b.count++
		total += t.Amount.Cents
	}

	out := core.CategoryBreakdown{TotalExpense: core.Money{Cents: total}}
	for id, b := range buckets {
		name := core.UncategorizedName
		if id != "" {
			name = categoryNames[id]
		}
		entry := core.CategoryExpense{
			CategoryID:       b.id,
			CategoryName:     name,
			TotalAmount:      core.Money{Cents: b.cents},
			TransactionCount: b.count,
		}
		if total > 0 {
			entry.Percentage = float64(b.cents) / float64(total) * 100
		}
		out.Expenses = append(out.Expenses, entry)
	}

	sort.Slice(out.Expenses, func(i, j int) bool {
		a, b := out.Expenses[i], out.Expenses[j]
		if a.TotalAmount.Cents != b.TotalAmount.Cents {
			return a.TotalAmount.Cents > b.TotalAmount.Cents
		}
		return a.CategoryName < b.CategoryName
	})
	return out
}
