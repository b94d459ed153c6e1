package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/report"
	"fintrack/internal/storage"
)

const (
	reportCacheSize = 512
	reportCacheTTL  = 5 * time.Minute
)

// cachedReports pairs the two aggregations computed from one window scan.
type cachedReports struct {
	Summary   core.SummaryReport
	Breakdown core.CategoryBreakdown
}

// ReportService computes monthly summaries and category breakdowns, memoizing
// results per user and window.
type ReportService struct {
	storage *storage.SQLiteRepository
	reports *cache.LRUCache[cachedReports]
	now     func() time.Time
}

func NewReportService(storage *storage.SQLiteRepository) *ReportService {
	return &ReportService{
		storage: storage,
		reports: cache.NewLRUCache[cachedReports](reportCacheSize, reportCacheTTL),
		now:     time.Now,
	}
}

func reportCacheKey(userID string, w core.Window) string {
	return fmt.Sprintf("%s|%04d-%02d", userID, w.Year, w.Month)
}

// Invalidate drops every cached report of the user. Called after any
// transaction or category mutation.
func (s *ReportService) Invalidate(userID string) {
	if n := s.reports.DeletePrefix(userID + "|"); n > 0 {
		slog.Debug("Invalidated cached reports", "user_id", userID, "entries", n)
	}
}

func (s *ReportService) compute(ctx context.Context, userID string, w core.Window) (cachedReports, error) {
	key := reportCacheKey(userID, w)
	if hit, ok := s.reports.Get(key); ok {
		return hit, nil
	}

	// Reports for an unknown account are a lookup failure, not an empty
	// window. Cache entries only ever exist for accounts that passed this.
	if _, err := s.storage.GetUser(ctx, userID); err != nil {
		return cachedReports{}, fmt.Errorf("resolve user: %w", err)
	}

	txs, err := s.storage.WindowTransactions(ctx, userID, w)
	if err != nil {
		return cachedReports{}, fmt.Errorf("load window transactions: %w", err)
	}
	names, err := s.storage.CategoryNames(ctx, userID)
	if err != nil {
		return cachedReports{}, fmt.Errorf("load category names: %w", err)
	}

	result := cachedReports{
		Summary:   report.Summarize(txs, w),
		Breakdown: report.BreakdownByCategory(txs, w, names),
	}
	s.reports.Set(key, result)
	return result, nil
}

// MonthlySummary returns the summary for the given optional month/year pair.
// Both zero means the current period.
func (s *ReportService) MonthlySummary(ctx context.Context, userID string, month, year int) (core.SummaryReport, error) {
	w, err := core.ResolveWindow(month, year, s.now())
	if err != nil {
		return core.SummaryReport{}, err
	}
	r, err := s.compute(ctx, userID, w)
	if err != nil {
		return core.SummaryReport{}, err
	}
	return r.Summary, nil
}

// ExpensesByCategory returns the category breakdown for the given optional
// month/year pair.
func (s *ReportService) ExpensesByCategory(ctx context.Context, userID string, month, year int) (core.CategoryBreakdown, error) {
	w, err := core.ResolveWindow(month, year, s.now())
	if err != nil {
		return core.CategoryBreakdown{}, err
	}
	r, err := s.compute(ctx, userID, w)
	if err != nil {
		return core.CategoryBreakdown{}, err
	}
	return r.Breakdown, nil
}
