package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cashflow/internal/core"
	"cashflow/internal/ledger"
)

func sample() core.Transaction {
	return core.Transaction{
		Date:        time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Description: "salary",
		Amount:      core.Money{Cents: 250000},
		Type:        core.Income,
		Category:    "Salary",
	}
}

func TestAppendAssignsID(t *testing.T) {
	s := New()
	id, err := s.Append(context.Background(), sample())
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if id == "" {
		t.Fatalf("expected generated id")
	}
	items, err := s.ListTransactions(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].ID != id {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestAppendRejectsInvalid(t *testing.T) {
	s := New()
	tx := sample()
	tx.Category = ""
	if _, err := s.Append(context.Background(), tx); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestDelete(t *testing.T) {
	s := New()
	id, _ := s.Append(context.Background(), sample())

	if err := s.Delete(context.Background(), id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	items, _ := s.ListTransactions(context.Background())
	if len(items) != 0 {
		t.Fatalf("expected empty store, got %d", len(items))
	}
	if err := s.Delete(context.Background(), id); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListReturnsSnapshot(t *testing.T) {
	s := New()
	_, _ = s.Append(context.Background(), sample())

	a, _ := s.ListTransactions(context.Background())
	a[0].Description = "mutated"
	b, _ := s.ListTransactions(context.Background())
	if b[0].Description == "mutated" {
		t.Fatalf("list must return a copy, not shared backing storage")
	}
}

func TestNewFromFiles(t *testing.T) {
	dir := t.TempDir()
	seed := `[
		{"date":"2024-01-05","description":"salary","amount":"2500.00","type":"income","category":"Salary"},
		{"date":"2024-01-10","description":"groceries","amount":"45.50","type":"expense","category":"Groceries"},
		{"date":"not-a-date","description":"broken","amount":"1.00","type":"expense","category":"Rent"}
	]`
	if err := os.WriteFile(filepath.Join(dir, "seed_transactions.json"), []byte(seed), 0644); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	s := NewFromFiles(dir)
	items, err := s.ListTransactions(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	// malformed rows are skipped, valid ones get ids
	if len(items) != 2 {
		t.Fatalf("expected 2 seeded transactions, got %d", len(items))
	}
	for _, tx := range items {
		if tx.ID == "" {
			t.Fatalf("seeded transaction missing id: %+v", tx)
		}
	}
}

func TestNewFromFilesMissingSeed(t *testing.T) {
	s := NewFromFiles(t.TempDir())
	items, err := s.ListTransactions(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty store, got %d", len(items))
	}
	cats, err := s.Categories(context.Background())
	if err != nil || len(cats) == 0 {
		t.Fatalf("categories must come from the fixed chart: %v %v", cats, err)
	}
}
