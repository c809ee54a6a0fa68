package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"cashflow/internal/core"
	"cashflow/internal/ledger"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "cashflow.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func testTx() core.Transaction {
	return core.Transaction{
		Date:        time.Date(2024, 1, 5, 9, 30, 0, 0, time.UTC),
		Description: "salary",
		Amount:      core.Money{Cents: 250000},
		Type:        core.Income,
		Category:    "Salary",
	}
}

func TestAppendAndList(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.Append(ctx, testTx())
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if id == "" {
		t.Fatalf("expected generated id")
	}

	items, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(items))
	}
	got := items[0]
	if got.ID != id || got.Description != "salary" || got.Amount.Cents != 250000 {
		t.Fatalf("unexpected row: %+v", got)
	}
	if !got.Date.Equal(time.Date(2024, 1, 5, 9, 30, 0, 0, time.UTC)) {
		t.Fatalf("date not round-tripped: %v", got.Date)
	}
}

func TestDeleteHidesFromList(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, _ := repo.Append(ctx, testTx())
	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}

	items, _ := repo.ListTransactions(ctx)
	if len(items) != 0 {
		t.Fatalf("soft-deleted row still listed: %+v", items)
	}

	// The record survives for the sync worker.
	tx, deleted, err := repo.GetTransaction(ctx, id)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if !deleted || tx.ID != id {
		t.Fatalf("expected deleted record, got deleted=%v tx=%+v", deleted, tx)
	}

	if err := repo.Delete(ctx, id); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("double delete: expected ErrNotFound, got %v", err)
	}
}

func TestDeleteUnknownID(t *testing.T) {
	repo := newTestRepo(t)
	if err := repo.Delete(context.Background(), "nope"); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSyncLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, _ := repo.Append(ctx, testTx())

	pending, err := repo.PendingSync(ctx, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 1 || pending[0] != id {
		t.Fatalf("expected %s pending, got %v", id, pending)
	}

	if err := repo.MarkSynced(ctx, id); err != nil {
		t.Fatalf("mark synced: %v", err)
	}
	if pending, _ = repo.PendingSync(ctx, 10); len(pending) != 0 {
		t.Fatalf("expected no pending after sync, got %v", pending)
	}

	// A delete re-queues the record so the removal propagates.
	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if pending, _ = repo.PendingSync(ctx, 10); len(pending) != 1 {
		t.Fatalf("expected delete to re-queue sync, got %v", pending)
	}

	if err := repo.MarkSyncError(ctx, id); err != nil {
		t.Fatalf("mark sync error: %v", err)
	}
	if pending, _ = repo.PendingSync(ctx, 10); len(pending) != 0 {
		t.Fatalf("errored records must leave the pending queue, got %v", pending)
	}
}

func TestCategoriesFromChart(t *testing.T) {
	repo := newTestRepo(t)
	cats, err := repo.Categories(context.Background())
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(cats) == 0 {
		t.Fatalf("expected fixed chart, got none")
	}
}
