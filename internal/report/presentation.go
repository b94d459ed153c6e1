package report

import (
	"fintrack/internal/core"
	"fintrack/internal/i18n"
)

// palette is the fixed slice colors cycle through; assignment follows the
// entry's position in the already-sorted breakdown so colors stay stable
// across re-renders of the same input.
var palette = []string{
	"#4f8ef7", "#f76e6e", "#53c07f", "#f7c948",
	"#9b6ef7", "#f78f4f", "#4fd0d9", "#e05297",
}

// PiePlaceholder is shown instead of an empty pie chart.
const PiePlaceholder = "No expenses recorded for this period"

type (
	// BarPoint is one bar of the income-vs-expense chart.
	BarPoint struct {
		Label string `json:"label"`
		Value core.Money `json:"value"`
	}

	// PieSlice is one category share of the expense pie.
	PieSlice struct {
		Label string     `json:"label"`
		Value core.Money `json:"value"`
		Color string     `json:"color"`
	}

	// TableFooter is the breakdown table's computed footer row. Totals are
	// re-summed from the entries themselves, never taken from the
	// aggregator, so the table always reconciles with what it displays.
	TableFooter struct {
		TotalAmount      core.Money `json:"total_amount"`
		TransactionCount int        `json:"transaction_count"`
		PercentLabel     string     `json:"percent_label"`
	}

	// View is everything a renderer needs for one window: two fixed bars,
	// pie slices (or a placeholder), and the detail table footer.
	View struct {
		Bars        []BarPoint  `json:"bars"`
		Slices      []PieSlice  `json:"slices"`
		Placeholder string      `json:"placeholder,omitempty"`
		Footer      TableFooter `json:"footer"`
	}
)

// BarSeries derives the two-bar income/expense series, income first.
func BarSeries(sum core.SummaryReport) []BarPoint {
	return []BarPoint{
		{Label: "income", Value: sum.TotalIncome},
		{Label: "expense", Value: sum.TotalExpense},
	}
}

// PieSeries derives one slice per breakdown entry in the order given; the
// entry order is the aggregator's, never re-sorted here.
func PieSeries(bd core.CategoryBreakdown) []PieSlice {
	slices := make([]PieSlice, 0, len(bd.Expenses))
	for i, e := range bd.Expenses {
		slices = append(slices, PieSlice{
			Label: e.CategoryName,
			Value: e.TotalAmount,
			Color: palette[i%len(palette)],
		})
	}
	return slices
}

// Footer sums the already-returned per-entry figures. The percent label is
// always exactly "100%" regardless of rounding in the entries.
func Footer(bd core.CategoryBreakdown) TableFooter {
	f := TableFooter{PercentLabel: "100%"}
	for _, e := range bd.Expenses {
		f.TotalAmount.Cents += e.TotalAmount.Cents
		f.TransactionCount += e.TransactionCount
	}
	return f
}

// NewView assembles the renderable view for one window. The bar series and
// footer are always present; the pie either has slices or a placeholder
// message, never both.
func NewView(sum core.SummaryReport, bd core.CategoryBreakdown) View {
	v := View{
		Bars:   BarSeries(sum),
		Slices: PieSeries(bd),
		Footer: Footer(bd),
	}
	if len(v.Slices) == 0 {
		v.Placeholder = PiePlaceholder
	}
	return v
}

// FormatPercent renders an entry percentage with one decimal and a "%"
// suffix, e.g. "80.0%".
func FormatPercent(p float64) string {
	return i18n.FormatPercent(p)
}
