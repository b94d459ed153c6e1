// Package worker consumes transaction events, raises budget alerts, and
// mirrors transactions to the external ledger.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/export"
	"fintrack/internal/storage"
)

// Fraction of the budget limit at which a warning fires before the limit
// itself is crossed.
const warnThreshold = 0.8

// BudgetWorker reacts to transaction change events. For expenses in a
// budgeted category it compares the month-to-date total against the limit;
// creations are additionally mirrored to the ledger when one is configured.
type BudgetWorker struct {
	storage *storage.SQLiteRepository
	ledger  export.LedgerWriter
	now     func() time.Time
}

func NewBudgetWorker(storage *storage.SQLiteRepository, ledger export.LedgerWriter) *BudgetWorker {
	return &BudgetWorker{storage: storage, ledger: ledger, now: time.Now}
}

// HandleEvent processes one event. Errors bubble up so the consumer can
// requeue the delivery.
func (w *BudgetWorker) HandleEvent(ctx context.Context, event *amqp.TransactionEvent) error {
	slog.InfoContext(ctx, "Processing transaction event",
		"transaction_id", event.TransactionID,
		"action", event.Action,
		"kind", event.Kind)

	if event.Action == amqp.ActionCreated {
		if err := w.mirrorToLedger(ctx, event); err != nil {
			return err
		}
	}

	if event.Kind != string(core.Expense) || event.CategoryID == "" {
		return nil
	}
	if event.Action == amqp.ActionDeleted {
		// A removed expense can only move the total away from the limit.
		return nil
	}

	return w.checkBudget(ctx, event)
}

func (w *BudgetWorker) checkBudget(ctx context.Context, event *amqp.TransactionEvent) error {
	cat, err := w.storage.GetCategory(ctx, event.UserID, event.CategoryID)
	if errors.Is(err, core.ErrNotFound) {
		// Category deleted between the event and now; nothing to check.
		return nil
	}
	if err != nil {
		return fmt.Errorf("load category: %w", err)
	}
	if cat.BudgetLimit.Cents <= 0 {
		return nil
	}

	ts := event.Timestamp
	if ts.IsZero() {
		ts = w.now()
	}
	window := core.Window{Month: int(ts.UTC().Month()), Year: ts.UTC().Year()}

	total, err := w.storage.CategoryExpenseTotal(ctx, event.UserID, event.CategoryID, window)
	if err != nil {
		return fmt.Errorf("month-to-date total: %w", err)
	}

	switch {
	case total >= cat.BudgetLimit.Cents:
		slog.WarnContext(ctx, "Budget limit exceeded",
			"user_id", event.UserID,
			"category", cat.Name,
			"spent_cents", total,
			"limit_cents", cat.BudgetLimit.Cents,
			"month", window.Month,
			"year", window.Year)
	case float64(total) >= float64(cat.BudgetLimit.Cents)*warnThreshold:
		slog.InfoContext(ctx, "Budget limit approaching",
			"user_id", event.UserID,
			"category", cat.Name,
			"spent_cents", total,
			"limit_cents", cat.BudgetLimit.Cents,
			"month", window.Month,
			"year", window.Year)
	}

	return nil
}

func (w *BudgetWorker) mirrorToLedger(ctx context.Context, event *amqp.TransactionEvent) error {
	if w.ledger == nil {
		return nil
	}

	t, err := w.storage.GetTransaction(ctx, event.UserID, event.TransactionID)
	if errors.Is(err, core.ErrNotFound) {
		// Deleted before we got here; nothing to mirror.
		return nil
	}
	if err != nil {
		return fmt.Errorf("load transaction: %w", err)
	}

	categoryName := ""
	if t.CategoryID != "" {
		if cat, err := w.storage.GetCategory(ctx, t.UserID, t.CategoryID); err == nil {
			categoryName = cat.Name
		}
	}

	ref, err := w.ledger.Append(ctx, t, categoryName)
	if err != nil {
		return fmt.Errorf("append to ledger: %w", err)
	}

	slog.InfoContext(ctx, "Mirrored transaction to ledger",
		"transaction_id", t.ID,
		"ledger_ref", ref)
	return nil
}
