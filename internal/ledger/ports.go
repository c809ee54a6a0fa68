package ledger

import (
	"context"
	"errors"

	"cashflow/internal/core"
)

// ErrNotFound is returned by deleters when no transaction has the given id.
var ErrNotFound = errors.New("transaction not found")

// Ports for outbound storage adapters. Listers return the full collection
// as a snapshot (replacement semantics, not deltas); the derivation layer
// recomputes summaries and reports from each snapshot.
type (
	TransactionWriter interface {
		Append(ctx context.Context, tx core.Transaction) (id string, err error)
	}

	TransactionDeleter interface {
		Delete(ctx context.Context, id string) error
	}

	// TransactionLister returns every stored transaction. Callers own the
	// returned slice and may reorder it freely.
	TransactionLister interface {
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
	}

	// CategoryReader supplies the fixed category labels for selection
	// controls.
	CategoryReader interface {
		Categories(ctx context.Context) ([]string, error)
	}
)

// Store is the unified backend surface the HTTP layer depends on.
type Store interface {
	TransactionWriter
	TransactionDeleter
	TransactionLister
	CategoryReader
}
