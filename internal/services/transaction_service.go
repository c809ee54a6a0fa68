package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"cashflow/internal/amqp"
	"cashflow/internal/core"
	"cashflow/internal/ledger"
)

// TransactionService orchestrates writes across the local store and the
// AMQP change feed. Store failures fail the request; publish failures do
// not, because the record is already durable locally and the worker's
// periodic scan will pick it up.
type TransactionService struct {
	store      ledger.Store
	amqpClient *amqp.Client
}

func NewTransactionService(store ledger.Store, amqpClient *amqp.Client) *TransactionService {
	return &TransactionService{
		store:      store,
		amqpClient: amqpClient,
	}
}

// Create validates and saves a transaction, then publishes an upsert
// notification.
func (s *TransactionService) Create(ctx context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}

	id, err := s.store.Append(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("save transaction: %w", err)
	}

	if err := s.publish(ctx, id, amqp.OpUpsert); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message", "id", id, "error", err)
	}

	return id, nil
}

// Delete removes a transaction by id and publishes a delete notification.
func (s *TransactionService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	if err := s.publish(ctx, id, amqp.OpDelete); err != nil {
		slog.ErrorContext(ctx, "Failed to publish delete message", "id", id, "error", err)
	}

	return nil
}

// Append implements ledger.TransactionWriter by routing through Create,
// so every write path gets validation and a sync notification.
func (s *TransactionService) Append(ctx context.Context, tx core.Transaction) (string, error) {
	return s.Create(ctx, tx)
}

// ListTransactions delegates to the underlying store.
func (s *TransactionService) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return s.store.ListTransactions(ctx)
}

// Categories delegates to the underlying store.
func (s *TransactionService) Categories(ctx context.Context) ([]string, error) {
	return s.store.Categories(ctx)
}

var _ ledger.Store = (*TransactionService)(nil)

func (s *TransactionService) publish(ctx context.Context, id, op string) error {
	if s.amqpClient == nil {
		slog.DebugContext(ctx, "AMQP client not available, skipping sync message", "id", id, "op", op)
		return nil
	}
	return s.amqpClient.PublishTransactionSync(ctx, id, op)
}

// Close releases the store and AMQP connections.
func (s *TransactionService) Close() error {
	var errs []error

	if closer, ok := s.store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close transaction service: %v", errs)
	}

	return nil
}
