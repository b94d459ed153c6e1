package http

import (
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/i18n"
	"fintrack/internal/report"
)

type summaryResponse struct {
	core.SummaryReport
	Formatted summaryFormatted  `json:"formatted"`
	Bars      []report.BarPoint `json:"bars"`
}

type summaryFormatted struct {
	TotalIncome  string `json:"total_income"`
	TotalExpense string `json:"total_expense"`
	NetBalance   string `json:"net_balance"`
}

type breakdownEntry struct {
	core.CategoryExpense
	FormattedAmount  string `json:"formatted_amount"`
	FormattedPercent string `json:"formatted_percent"`
}

type breakdownResponse struct {
	Expenses     []breakdownEntry `json:"expenses"`
	TotalExpense core.Money       `json:"total_expense"`
	View         report.View      `json:"view"`
}

func reportWindow(r *http.Request) (month, year int, err error) {
	month, err = parseOptionalInt(r, "month")
	if err != nil {
		return 0, 0, err
	}
	year, err = parseOptionalInt(r, "year")
	if err != nil {
		return 0, 0, err
	}
	return month, year, nil
}

func (s *Server) handleSummaryReport(w http.ResponseWriter, r *http.Request) {
	month, year, err := reportWindow(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	sum, err := s.reports.MonthlySummary(r.Context(), userID(r), month, year)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	lang := s.language(r)
	respondJSON(w, http.StatusOK, summaryResponse{
		SummaryReport: sum,
		Formatted: summaryFormatted{
			TotalIncome:  i18n.FormatCurrency(lang, sum.TotalIncome),
			TotalExpense: i18n.FormatCurrency(lang, sum.TotalExpense),
			NetBalance:   i18n.FormatCurrency(lang, sum.NetBalance),
		},
		Bars: report.BarSeries(sum),
	})
}

func (s *Server) handleCategoryReport(w http.ResponseWriter, r *http.Request) {
	month, year, err := reportWindow(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	uid := userID(r)
	bd, err := s.reports.ExpensesByCategory(r.Context(), uid, month, year)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	sum, err := s.reports.MonthlySummary(r.Context(), uid, month, year)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	lang := s.language(r)
	entries := make([]breakdownEntry, 0, len(bd.Expenses))
	for _, e := range bd.Expenses {
		entries = append(entries, breakdownEntry{
			CategoryExpense:  e,
			FormattedAmount:  i18n.FormatCurrency(lang, e.TotalAmount),
			FormattedPercent: report.FormatPercent(e.Percentage),
		})
	}

	respondJSON(w, http.StatusOK, breakdownResponse{
		Expenses:     entries,
		TotalExpense: bd.TotalExpense,
		View:         report.NewView(sum, bd),
	})
}
