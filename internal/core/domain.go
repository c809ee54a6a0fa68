package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// All is the wildcard sentinel accepted by report filters. It is never a
// valid stored transaction type or category.
const All = "all"

type (
	TransactionType string

	Money struct {
		Cents int64
	}

	// Transaction is a single recorded cash movement. Amount carries the
	// magnitude only; the sign of its contribution to the balance comes
	// from Type.
	Transaction struct {
		ID          string
		Date        time.Time
		Description string
		Amount      Money
		Type        TransactionType
		Category    string
	}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")
	ErrReservedCategory = errors.New("category name is reserved")
)

// IsValid reports whether t is one of the two known transaction types.
func (t TransactionType) IsValid() bool {
	return t == Income || t == Expense
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Validate checks a transaction at the creation boundary. The derivation
// functions (Summarize, FilterReport) do not re-validate; records are
// expected to be rejected here before they enter the collection.
func (tx Transaction) Validate() error {
	if tx.Date.IsZero() {
		return ErrInvalidDate
	}
	if len(strings.TrimSpace(tx.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(tx.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := tx.Amount.Validate(); err != nil {
		return err
	}
	if !tx.Type.IsValid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(tx.Category) == "" {
		return ErrEmptyCategory
	}
	if tx.Category == All {
		return ErrReservedCategory
	}
	return nil
}
