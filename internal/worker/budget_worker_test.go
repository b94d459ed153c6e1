package worker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

type fakeLedger struct {
	appended []core.Transaction
	names    []string
}

func (f *fakeLedger) Append(_ context.Context, t core.Transaction, categoryName string) (string, error) {
	f.appended = append(f.appended, t)
	f.names = append(f.names, categoryName)
	return "Transactions!A1:E1", nil
}

func setupWorker(t *testing.T) (*BudgetWorker, *storage.SQLiteRepository, *fakeLedger) {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "worker.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	ledger := &fakeLedger{}
	return NewBudgetWorker(repo, ledger), repo, ledger
}

func seed(t *testing.T, repo *storage.SQLiteRepository, limitCents int64) (core.User, core.Category) {
	t.Helper()
	ctx := context.Background()

	user := core.User{
		ID: uuid.NewString(), Email: uuid.NewString() + "@example.com",
		FullName: "U", PasswordHash: "h", CreatedAt: time.Now(), IsActive: true,
	}
	require.NoError(t, repo.CreateUser(ctx, user))

	cat := core.Category{
		ID: uuid.NewString(), UserID: user.ID, Name: "Food",
		BudgetLimit: core.Money{Cents: limitCents}, CreatedAt: time.Now(),
	}
	require.NoError(t, repo.CreateCategory(ctx, cat))
	return user, cat
}

func addExpense(t *testing.T, repo *storage.SQLiteRepository, user core.User, cat core.Category, cents int64, date time.Time) core.Transaction {
	t.Helper()
	tx := core.Transaction{
		ID: uuid.NewString(), UserID: user.ID, Description: "spend",
		Amount: core.Money{Cents: cents}, Kind: core.Expense,
		CategoryID: cat.ID, Date: date, CreatedAt: time.Now(),
	}
	require.NoError(t, repo.CreateTransaction(context.Background(), tx))
	return tx
}

func TestHandleEventMirrorsCreations(t *testing.T) {
	w, repo, ledger := setupWorker(t)
	user, cat := seed(t, repo, 0)
	date := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	tx := addExpense(t, repo, user, cat, 4200, date)

	err := w.HandleEvent(context.Background(), &amqp.TransactionEvent{
		TransactionID: tx.ID,
		UserID:        user.ID,
		Kind:          string(core.Expense),
		AmountCents:   4200,
		CategoryID:    cat.ID,
		Action:        amqp.ActionCreated,
		Timestamp:     date,
	})
	require.NoError(t, err)

	require.Len(t, ledger.appended, 1)
	assert.Equal(t, tx.ID, ledger.appended[0].ID)
	assert.Equal(t, "Food", ledger.names[0])
}

func TestHandleEventSkipsVanishedTransaction(t *testing.T) {
	w, repo, ledger := setupWorker(t)
	user, cat := seed(t, repo, 0)

	err := w.HandleEvent(context.Background(), &amqp.TransactionEvent{
		TransactionID: "gone",
		UserID:        user.ID,
		Kind:          string(core.Expense),
		CategoryID:    cat.ID,
		Action:        amqp.ActionCreated,
	})
	require.NoError(t, err)
	assert.Empty(t, ledger.appended)
}

func TestCheckBudgetUsesEventMonth(t *testing.T) {
	w, repo, _ := setupWorker(t)
	user, cat := seed(t, repo, 10000)

	june := time.Date(2025, 6, 5, 12, 0, 0, 0, time.UTC)
	addExpense(t, repo, user, cat, 9000, june)
	// Spending in another month must not count toward June.
	addExpense(t, repo, user, cat, 50000, june.AddDate(0, 1, 0))

	err := w.checkBudget(context.Background(), &amqp.TransactionEvent{
		UserID:     user.ID,
		CategoryID: cat.ID,
		Timestamp:  june,
	})
	require.NoError(t, err)
}

func TestHandleEventIgnoresDeletedCategory(t *testing.T) {
	w, repo, _ := setupWorker(t)
	user, cat := seed(t, repo, 10000)
	require.NoError(t, repo.SoftDeleteCategory(context.Background(), user.ID, cat.ID))

	err := w.HandleEvent(context.Background(), &amqp.TransactionEvent{
		TransactionID: "x",
		UserID:        user.ID,
		Kind:          string(core.Expense),
		CategoryID:    cat.ID,
		Action:        amqp.ActionUpdated,
		Timestamp:     time.Now(),
	})
	require.NoError(t, err)
}

func TestHandleEventSkipsNonExpense(t *testing.T) {
	w, repo, ledger := setupWorker(t)
	user, cat := seed(t, repo, 100)

	err := w.HandleEvent(context.Background(), &amqp.TransactionEvent{
		TransactionID: "y",
		UserID:        user.ID,
		Kind:          string(core.Income),
		CategoryID:    cat.ID,
		Action:        amqp.ActionUpdated,
	})
	require.NoError(t, err)
	assert.Empty(t, ledger.appended)
}
