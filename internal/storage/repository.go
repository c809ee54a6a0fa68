package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"cashflow/internal/categories"
	"cashflow/internal/core"
	"cashflow/internal/ledger"
)

// Sync states for the remote-push worker.
const (
	SyncPending = "pending"
	SyncDone    = "done"
	SyncError   = "error"
)

// SQLiteRepository is the local persistence backend. It implements
// ledger.Store and additionally tracks which records still need to be
// pushed to the remote store.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Append implements ledger.TransactionWriter.
func (r *SQLiteRepository) Append(ctx context.Context, tx core.Transaction) (string, error) {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, date, description, amount_cents, type, category)
		VALUES (?, ?, ?, ?, ?, ?)`,
		tx.ID,
		tx.Date.UTC().Format(time.RFC3339Nano),
		tx.Description,
		tx.Amount.Cents,
		string(tx.Type),
		tx.Category,
	)
	if err != nil {
		return "", fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", tx.ID,
		"description", tx.Description,
		"amount_cents", tx.Amount.Cents,
		"type", tx.Type,
		"category", tx.Category)

	return tx.ID, nil
}

// Delete implements ledger.TransactionDeleter with a soft delete so the
// sync worker can propagate the removal to the remote store.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET deleted = 1, sync_status = ? WHERE id = ? AND deleted = 0`,
		SyncPending, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction rows affected: %w", err)
	}
	if n == 0 {
		return ledger.ErrNotFound
	}
	slog.InfoContext(ctx, "Transaction soft-deleted", "id", id)
	return nil
}

// ListTransactions implements ledger.TransactionLister. The snapshot is
// in insertion order; report ordering is the derivation layer's concern.
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, date, description, amount_cents, type, category
		FROM transactions
		WHERE deleted = 0
		ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// Categories implements ledger.CategoryReader from the fixed chart; the
// database does not own the taxonomy.
func (r *SQLiteRepository) Categories(_ context.Context) ([]string, error) {
	return categories.List(), nil
}

// GetTransaction retrieves a single record by id, including soft-deleted
// ones; the sync worker needs those to propagate deletions.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, date, description, amount_cents, type, category, deleted
		FROM transactions WHERE id = ?`, id)

	var (
		tx      core.Transaction
		date    string
		deleted int
	)
	err := row.Scan(&tx.ID, &date, &tx.Description, &tx.Amount.Cents, &tx.Type, &tx.Category, &deleted)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, false, ledger.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, false, fmt.Errorf("get transaction: %w", err)
	}
	if tx.Date, err = time.Parse(time.RFC3339Nano, date); err != nil {
		return core.Transaction{}, false, fmt.Errorf("parse stored date %q: %w", date, err)
	}
	return tx, deleted == 1, nil
}

// PendingSync returns ids of records awaiting a push to the remote store.
func (r *SQLiteRepository) PendingSync(ctx context.Context, limit int) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id FROM transactions
		WHERE sync_status = ?
		ORDER BY created_at
		LIMIT ?`, SyncPending, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending sync: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan pending id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// MarkSynced records a successful remote push.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = ? WHERE id = ?`, SyncDone, id); err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	slog.InfoContext(ctx, "Transaction marked as synced", "id", id)
	return nil
}

// MarkSyncError flags a record whose remote push failed.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = ? WHERE id = ?`, SyncError, id); err != nil {
		return fmt.Errorf("mark sync error: %w", err)
	}
	slog.WarnContext(ctx, "Transaction marked with sync error", "id", id)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		tx   core.Transaction
		date string
	)
	if err := row.Scan(&tx.ID, &date, &tx.Description, &tx.Amount.Cents, &tx.Type, &tx.Category); err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	parsed, err := time.Parse(time.RFC3339Nano, date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse stored date %q: %w", date, err)
	}
	tx.Date = parsed
	return tx, nil
}
