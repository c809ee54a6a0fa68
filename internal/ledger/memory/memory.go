package memory

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"cashflow/internal/categories"
	"cashflow/internal/core"
	"cashflow/internal/ledger"
)

// Store is an in-memory ledger backend, optionally seeded from a JSON
// file. It is the default backend for local development and tests.
type Store struct {
	mu    sync.Mutex
	cats  []string
	items []core.Transaction
}

func New() *Store {
	return &Store{cats: categories.List()}
}

// NewFromFiles seeds the store from base/seed_transactions.json when the
// file exists; a missing or malformed seed yields an empty store.
func NewFromFiles(base string) *Store {
	s := New()
	s.items = readSeed(filepath.Join(base, "seed_transactions.json"))
	return s
}

// Append stores the transaction, assigning an id when the caller did not.
func (s *Store) Append(_ context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, tx)
	return tx.ID, nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, tx := range s.items {
		if tx.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return ledger.ErrNotFound
}

// ListTransactions returns a copy of the collection in insertion order.
func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *Store) Categories(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.cats))
	copy(out, s.cats)
	return out, nil
}

type seedRecord struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
	Category    string `json:"category"`
}

func readSeed(path string) []core.Transaction {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var records []seedRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil
	}
	var out []core.Transaction
	for _, rec := range records {
		date, err := time.Parse(time.DateOnly, rec.Date)
		if err != nil {
			if date, err = time.Parse(time.RFC3339, rec.Date); err != nil {
				continue
			}
		}
		cents, err := core.ParseDecimalToCents(rec.Amount)
		if err != nil {
			continue
		}
		tx := core.Transaction{
			ID:          rec.ID,
			Date:        date,
			Description: rec.Description,
			Amount:      core.Money{Cents: cents},
			Type:        core.TransactionType(rec.Type),
			Category:    rec.Category,
		}
		if tx.ID == "" {
			tx.ID = uuid.NewString()
		}
		if tx.Validate() != nil {
			continue
		}
		out = append(out, tx)
	}
	return out
}
