package report

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

func TestBarSeriesFixedOrder(t *testing.T) {
	sum := core.SummaryReport{
		TotalIncome:  core.Money{Cents: 500000},
		TotalExpense: core.Money{Cents: 150000},
	}
	bars := BarSeries(sum)
	require.Len(t, bars, 2)
	assert.Equal(t, "income", bars[0].Label)
	assert.Equal(t, int64(500000), bars[0].Value.Cents)
	assert.Equal(t, "expense", bars[1].Label)
	assert.Equal(t, int64(150000), bars[1].Value.Cents)
}

func TestBarSeriesAlwaysRendersZeros(t *testing.T) {
	bars := BarSeries(core.SummaryReport{})
	require.Len(t, bars, 2)
	assert.Zero(t, bars[0].Value.Cents)
	assert.Zero(t, bars[1].Value.Cents)
}

func TestPieSeriesStableColors(t *testing.T) {
	bd := core.CategoryBreakdown{Expenses: []core.CategoryExpense{
		{CategoryName: "Rent", TotalAmount: core.Money{Cents: 900}},
		{CategoryName: "Food", TotalAmount: core.Money{Cents: 500}},
		{CategoryName: "Fun", TotalAmount: core.Money{Cents: 100}},
	}}

	first := PieSeries(bd)
	require.Len(t, first, 3)
	// Order follows the breakdown, untouched.
	assert.Equal(t, "Rent", first[0].Label)
	assert.Equal(t, "Food", first[1].Label)
	assert.Equal(t, "Fun", first[2].Label)

	// Re-deriving from the same input yields identical colors.
	second := PieSeries(bd)
	for i := range first {
		assert.Equal(t, first[i].Color, second[i].Color)
	}
}

func TestPieSeriesPaletteCycles(t *testing.T) {
	var entries []core.CategoryExpense
	for i := 0; i < len(palette)+3; i++ {
		entries = append(entries, core.CategoryExpense{CategoryName: "c", TotalAmount: core.Money{Cents: 1}})
	}
	slices := PieSeries(core.CategoryBreakdown{Expenses: entries})
	assert.Equal(t, slices[0].Color, slices[len(palette)].Color)
	assert.Equal(t, slices[1].Color, slices[len(palette)+1].Color)
}

func TestFooterReconciliation(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for round := 0; round < 50; round++ {
		var entries []core.CategoryExpense
		var wantCents int64
		var wantCount int
		for i := 0; i < rng.Intn(20); i++ {
			cents := int64(rng.Intn(1000000) + 1)
			count := rng.Intn(10) + 1
			entries = append(entries, core.CategoryExpense{
				CategoryName:     "c",
				TotalAmount:      core.Money{Cents: cents},
				TransactionCount: count,
			})
			wantCents += cents
			wantCount += count
		}
		bd := core.CategoryBreakdown{Expenses: entries, TotalExpense: core.Money{Cents: wantCents}}

		f := Footer(bd)
		assert.Equal(t, wantCents, f.TotalAmount.Cents, "footer must reconcile with the aggregator total")
		assert.Equal(t, bd.TotalExpense.Cents, f.TotalAmount.Cents)
		assert.Equal(t, wantCount, f.TransactionCount)
		assert.Equal(t, "100%", f.PercentLabel)
	}
}

func TestNewViewEmptyState(t *testing.T) {
	v := NewView(core.SummaryReport{}, core.CategoryBreakdown{})
	assert.Len(t, v.Bars, 2, "bar chart renders even with zero values")
	assert.Empty(t, v.Slices)
	assert.Equal(t, PiePlaceholder, v.Placeholder)
	assert.Equal(t, "100%", v.Footer.PercentLabel)
}

func TestNewViewPopulated(t *testing.T) {
	bd := core.CategoryBreakdown{
		Expenses:     []core.CategoryExpense{{CategoryName: "Food", TotalAmount: core.Money{Cents: 100}, TransactionCount: 1}},
		TotalExpense: core.Money{Cents: 100},
	}
	v := NewView(core.SummaryReport{TotalExpense: core.Money{Cents: 100}}, bd)
	assert.Len(t, v.Slices, 1)
	assert.Empty(t, v.Placeholder)
}
