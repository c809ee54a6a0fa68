package services

import (
	"context"
	"testing"
	"time"

	"cashflow/internal/core"
	"cashflow/internal/ledger/memory"
)

func TestCreateValidatesBeforeStoring(t *testing.T) {
	store := memory.New()
	svc := NewTransactionService(store, nil)

	bad := core.Transaction{
		Date:        time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Description: "missing category",
		Amount:      core.Money{Cents: 100},
		Type:        core.Expense,
	}
	if _, err := svc.Create(context.Background(), bad); err == nil {
		t.Fatalf("expected validation error")
	}
	items, _ := store.ListTransactions(context.Background())
	if len(items) != 0 {
		t.Fatalf("invalid transaction must not reach the store")
	}
}

func TestCreateAndDeleteWithoutAMQP(t *testing.T) {
	svc := NewTransactionService(memory.New(), nil)

	tx := core.Transaction{
		Date:        time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Description: "salary",
		Amount:      core.Money{Cents: 250000},
		Type:        core.Income,
		Category:    "Salary",
	}
	id, err := svc.Create(context.Background(), tx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == "" {
		t.Fatalf("expected id")
	}
	if err := svc.Delete(context.Background(), id); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestDeleteUnknownID(t *testing.T) {
	svc := NewTransactionService(memory.New(), nil)
	if err := svc.Delete(context.Background(), "nope"); err == nil {
		t.Fatalf("expected error for unknown id")
	}
}

func TestCloseWithNilComponents(t *testing.T) {
	svc := NewTransactionService(memory.New(), nil)
	if err := svc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
