package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cashflow/internal/amqp"
	"cashflow/internal/ledger"
	"cashflow/internal/storage"
)

// RemoteTarget is where locally recorded transactions get pushed.
type RemoteTarget interface {
	ledger.TransactionWriter
	ledger.TransactionDeleter
}

// SyncWorker propagates local SQLite records to the remote store. It is
// driven by AMQP change notifications, with a periodic scan for records
// whose notification was lost.
type SyncWorker struct {
	local     *storage.SQLiteRepository
	remote    RemoteTarget
	batchSize int
}

func NewSyncWorker(local *storage.SQLiteRepository, remote RemoteTarget, batchSize int) *SyncWorker {
	return &SyncWorker{
		local:     local,
		remote:    remote,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes one change notification from AMQP.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message", "id", msg.ID, "op", msg.Op)
	return w.syncOne(ctx, msg.ID)
}

// ProcessPending pushes every record still waiting for a remote sync.
// Failures are recorded per record and do not stop the batch.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	ids, err := w.local.PendingSync(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list pending sync: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending sync batch", "count", len(ids))
	for _, id := range ids {
		if err := w.syncOne(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Pending sync failed", "id", id, "error", err)
		}
	}
	return nil
}

func (w *SyncWorker) syncOne(ctx context.Context, id string) error {
	tx, deleted, err := w.local.GetTransaction(ctx, id)
	if errors.Is(err, ledger.ErrNotFound) {
		// Locally unknown id: nothing to push, drop the message.
		slog.WarnContext(ctx, "Sync message for unknown transaction", "id", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get transaction from local storage: %w", err)
	}

	if deleted {
		err = w.remote.Delete(ctx, id)
		if errors.Is(err, ledger.ErrNotFound) {
			// Already gone remotely; the delete is settled.
			err = nil
		}
	} else {
		_, err = w.remote.Append(ctx, tx)
	}

	if err != nil {
		if markErr := w.local.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("push transaction to remote: %w", err)
	}

	return w.local.MarkSynced(ctx, id)
}
