package report

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

func tx(kind core.TransactionKind, cents int64, categoryID string, date time.Time) core.Transaction {
	return core.Transaction{
		Description: "t",
		Amount:      core.Money{Cents: cents},
		Kind:        kind,
		CategoryID:  categoryID,
		Date:        date,
	}
}

func TestSummarizeScenarioA(t *testing.T) {
	w := core.Window{Month: 3, Year: 2024}
	in := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		tx(core.Income, 500000, "", in),
		tx(core.Expense, 120000, "cat-food", in),
		tx(core.Expense, 30000, "", in),
	}

	sum := Summarize(txs, w)
	assert.Equal(t, int64(500000), sum.TotalIncome.Cents)
	assert.Equal(t, int64(150000), sum.TotalExpense.Cents)
	assert.Equal(t, int64(350000), sum.NetBalance.Cents)
	assert.Equal(t, 3, sum.TransactionCount)
	assert.Equal(t, 3, sum.Month)
	assert.Equal(t, 2024, sum.Year)

	bd := BreakdownByCategory(txs, w, map[string]string{"cat-food": "Food"})
	require.Len(t, bd.Expenses, 2)
	assert.Equal(t, int64(150000), bd.TotalExpense.Cents)

	assert.Equal(t, "Food", bd.Expenses[0].CategoryName)
	assert.Equal(t, int64(120000), bd.Expenses[0].TotalAmount.Cents)
	assert.Equal(t, 1, bd.Expenses[0].TransactionCount)
	assert.InDelta(t, 80.0, bd.Expenses[0].Percentage, 0.001)

	assert.Equal(t, core.UncategorizedName, bd.Expenses[1].CategoryName)
	assert.Equal(t, int64(30000), bd.Expenses[1].TotalAmount.Cents)
	assert.InDelta(t, 20.0, bd.Expenses[1].Percentage, 0.001)
}

func TestScenarioBEmptyWindow(t *testing.T) {
	w := core.Window{Month: 7, Year: 2024}
	txs := []core.Transaction{
		tx(core.Income, 1000, "", time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)),
	}

	sum := Summarize(txs, w)
	assert.Zero(t, sum.TotalIncome.Cents)
	assert.Zero(t, sum.TotalExpense.Cents)
	assert.Zero(t, sum.NetBalance.Cents)
	assert.Zero(t, sum.TransactionCount)

	bd := BreakdownByCategory(txs, w, nil)
	assert.Empty(t, bd.Expenses)
	assert.Zero(t, bd.TotalExpense.Cents)
}

func TestTransfersExcludedFromTotalsButCounted(t *testing.T) {
	w := core.Window{Month: 1, Year: 2025}
	in := time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		tx(core.Transfer, 99900, "", in),
		tx(core.Income, 100, "", in),
	}

	sum := Summarize(txs, w)
	assert.Equal(t, int64(100), sum.TotalIncome.Cents)
	assert.Zero(t, sum.TotalExpense.Cents)
	assert.Equal(t, 2, sum.TransactionCount)

	bd := BreakdownByCategory(txs, w, nil)
	assert.Empty(t, bd.Expenses, "transfers never appear in the breakdown")
}

func TestBreakdownOrderingDeterministic(t *testing.T) {
	w := core.Window{Month: 5, Year: 2024}
	in := time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)
	names := map[string]string{"a": "Zoo", "b": "Apples", "c": "Rent"}
	txs := []core.Transaction{
		tx(core.Expense, 500, "a", in),
		tx(core.Expense, 500, "b", in),
		tx(core.Expense, 900, "c", in),
	}

	// Same input in any order yields the same entry order.
	for i := 0; i < 10; i++ {
		rand.Shuffle(len(txs), func(x, y int) { txs[x], txs[y] = txs[y], txs[x] })
		bd := BreakdownByCategory(txs, w, names)
		require.Len(t, bd.Expenses, 3)
		assert.Equal(t, "Rent", bd.Expenses[0].CategoryName)
		assert.Equal(t, "Apples", bd.Expenses[1].CategoryName, "ties break by name ascending")
		assert.Equal(t, "Zoo", bd.Expenses[2].CategoryName)
	}
}

func TestDanglingCategoryFoldsIntoUncategorized(t *testing.T) {
	w := core.Window{Month: 2, Year: 2024}
	in := time.Date(2024, 2, 2, 12, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		tx(core.Expense, 1000, "deleted-cat", in),
		tx(core.Expense, 1000, "", in),
	}

	bd := BreakdownByCategory(txs, w, map[string]string{})
	require.Len(t, bd.Expenses, 1)
	assert.Equal(t, core.UncategorizedName, bd.Expenses[0].CategoryName)
	assert.Equal(t, int64(2000), bd.Expenses[0].TotalAmount.Cents)
}

func TestBreakdownInvariants(t *testing.T) {
	w := core.Window{Month: 9, Year: 2024}
	in := time.Date(2024, 9, 15, 12, 0, 0, 0, time.UTC)
	names := map[string]string{"a": "A", "b": "B", "c": "C", "d": "D"}
	ids := []string{"a", "b", "c", "d", ""}

	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 50; round++ {
		var txs []core.Transaction
		n := rng.Intn(30)
		for i := 0; i < n; i++ {
			txs = append(txs, tx(core.Expense, int64(rng.Intn(100000)+1), ids[rng.Intn(len(ids))], in))
		}

		sum := Summarize(txs, w)
		bd := BreakdownByCategory(txs, w, names)

		// Cross-consistency with the summary for the same window.
		assert.Equal(t, sum.TotalExpense.Cents, bd.TotalExpense.Cents)

		var entryTotal int64
		var pct float64
		for _, e := range bd.Expenses {
			assert.Positive(t, e.TransactionCount)
			entryTotal += e.TotalAmount.Cents
			pct += e.Percentage
		}
		assert.Equal(t, bd.TotalExpense.Cents, entryTotal)
		if bd.TotalExpense.Cents > 0 {
			assert.InDelta(t, 100.0, pct, 0.1)
		} else {
			assert.Empty(t, bd.Expenses)
		}
	}
}

func TestNetBalanceIdentity(t *testing.T) {
	w := core.Window{Month: 4, Year: 2024}
	in := time.Date(2024, 4, 20, 12, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewSource(7))
	kinds := []core.TransactionKind{core.Income, core.Expense, core.Transfer}

	for round := 0; round < 25; round++ {
		var txs []core.Transaction
		for i := 0; i < rng.Intn(40); i++ {
			txs = append(txs, tx(kinds[rng.Intn(3)], int64(rng.Intn(500000)+1), "", in))
		}
		sum := Summarize(txs, w)
		assert.Equal(t, sum.TotalIncome.Cents-sum.TotalExpense.Cents, sum.NetBalance.Cents)
	}
}
