package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

var ErrUnknownCategory = errors.New("category does not exist")

// TransactionService records money movements, keeps the owner's running
// balance in step, and publishes change events for the worker.
type TransactionService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
	reports    *ReportService
}

func NewTransactionService(storage *storage.SQLiteRepository, amqpClient *amqp.Client, reports *ReportService) *TransactionService {
	return &TransactionService{storage: storage, amqpClient: amqpClient, reports: reports}
}

// TransactionInput carries the writable transaction fields.
type TransactionInput struct {
	Description string
	Amount      core.Money
	Kind        core.TransactionKind
	CategoryID  string
	Date        time.Time
	Notes       string
}

func (s *TransactionService) checkCategory(ctx context.Context, userID, categoryID string) error {
	if categoryID == "" {
		return nil
	}
	_, err := s.storage.GetCategory(ctx, userID, categoryID)
	if errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrUnknownCategory, categoryID)
	}
	return err
}

func (s *TransactionService) Create(ctx context.Context, userID string, in TransactionInput) (core.Transaction, error) {
	t := core.Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Description: in.Description,
		Amount:      in.Amount,
		Kind:        in.Kind,
		CategoryID:  in.CategoryID,
		Date:        core.NormalizeDate(in.Date),
		Notes:       in.Notes,
		CreatedAt:   time.Now().UTC(),
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := s.checkCategory(ctx, userID, t.CategoryID); err != nil {
		return core.Transaction{}, err
	}

	if err := s.storage.CreateTransaction(ctx, t); err != nil {
		return core.Transaction{}, err
	}
	if err := s.storage.AdjustBalance(ctx, userID, t.BalanceEffect()); err != nil {
		slog.ErrorContext(ctx, "Failed to adjust balance",
			"user_id", userID, "transaction_id", t.ID, "error", err)
	}

	s.reports.Invalidate(userID)
	s.publish(ctx, t, amqp.ActionCreated)
	return t, nil
}

func (s *TransactionService) Get(ctx context.Context, userID, id string) (core.Transaction, error) {
	return s.storage.GetTransaction(ctx, userID, id)
}

func (s *TransactionService) List(ctx context.Context, userID string, f storage.TransactionFilter) ([]core.Transaction, error) {
	f.Page, f.PageSize = clampPaging(f.Page, f.PageSize)
	return s.storage.ListTransactions(ctx, userID, f)
}

func (s *TransactionService) Update(ctx context.Context, userID, id string, in TransactionInput) (core.Transaction, error) {
	old, err := s.storage.GetTransaction(ctx, userID, id)
	if err != nil {
		return core.Transaction{}, err
	}

	updated := old
	updated.Description = in.Description
	updated.Amount = in.Amount
	updated.Kind = in.Kind
	updated.CategoryID = in.CategoryID
	updated.Date = core.NormalizeDate(in.Date)
	updated.Notes = in.Notes
	if err := updated.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := s.checkCategory(ctx, userID, updated.CategoryID); err != nil {
		return core.Transaction{}, err
	}

	if err := s.storage.UpdateTransaction(ctx, updated); err != nil {
		return core.Transaction{}, err
	}

	// The balance carries the difference between the new and old effect.
	if delta := updated.BalanceEffect() - old.BalanceEffect(); delta != 0 {
		if err := s.storage.AdjustBalance(ctx, userID, delta); err != nil {
			slog.ErrorContext(ctx, "Failed to adjust balance",
				"user_id", userID, "transaction_id", id, "error", err)
		}
	}

	s.reports.Invalidate(userID)
	s.publish(ctx, updated, amqp.ActionUpdated)
	return updated, nil
}

func (s *TransactionService) Delete(ctx context.Context, userID, id string) error {
	t, err := s.storage.GetTransaction(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.storage.SoftDeleteTransaction(ctx, userID, id); err != nil {
		return err
	}
	if err := s.storage.AdjustBalance(ctx, userID, -t.BalanceEffect()); err != nil {
		slog.ErrorContext(ctx, "Failed to adjust balance",
			"user_id", userID, "transaction_id", id, "error", err)
	}

	s.reports.Invalidate(userID)
	s.publish(ctx, t, amqp.ActionDeleted)
	return nil
}

// publish sends the change event without failing the request. The row is
// already committed; the worker catches up when the broker returns.
func (s *TransactionService) publish(ctx context.Context, t core.Transaction, action string) {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping event", "action", action)
		return
	}
	event := &amqp.TransactionEvent{
		TransactionID: t.ID,
		UserID:        t.UserID,
		Kind:          string(t.Kind),
		AmountCents:   t.Amount.Cents,
		CategoryID:    t.CategoryID,
		Action:        action,
		Timestamp:     time.Now().UTC(),
	}
	if err := s.amqpClient.PublishTransactionEvent(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"transaction_id", t.ID, "action", action, "error", err)
	}
}
