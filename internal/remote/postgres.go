// Package remote implements the hosted ledger backend on PostgreSQL.
// It is the storage variant behind the authenticated deployment; the
// sync worker also uses it as the push target for locally recorded
// transactions.
package remote

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"cashflow/internal/categories"
	"cashflow/internal/core"
	"cashflow/internal/ledger"
)

const schema = `
CREATE TABLE IF NOT EXISTS transactions (
    id           TEXT PRIMARY KEY,
    date         TIMESTAMPTZ NOT NULL,
    description  TEXT NOT NULL,
    amount_cents BIGINT NOT NULL CHECK (amount_cents > 0),
    type         TEXT NOT NULL CHECK (type IN ('income', 'expense')),
    category     TEXT NOT NULL,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions (date);
`

// PostgresRepository implements ledger.Store on a pgx connection pool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(ctx context.Context, dsn string) (*PostgresRepository, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &PostgresRepository{pool: pool}, nil
}

func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// Append implements ledger.TransactionWriter. An existing row with the
// same id is overwritten, which makes worker pushes idempotent.
func (r *PostgresRepository) Append(ctx context.Context, tx core.Transaction) (string, error) {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO transactions (id, date, description, amount_cents, type, category)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			date = EXCLUDED.date,
			description = EXCLUDED.description,
			amount_cents = EXCLUDED.amount_cents,
			type = EXCLUDED.type,
			category = EXCLUDED.category`,
		tx.ID, tx.Date, tx.Description, tx.Amount.Cents, string(tx.Type), tx.Category)
	if err != nil {
		return "", fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to Postgres",
		"id", tx.ID,
		"amount_cents", tx.Amount.Cents,
		"type", tx.Type)

	return tx.ID, nil
}

// Delete implements ledger.TransactionDeleter. Deleting an id that was
// already removed remotely is not an error: the worker may replay.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

// ListTransactions implements ledger.TransactionLister.
func (r *PostgresRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, date, description, amount_cents, type, category
		FROM transactions
		ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var tx core.Transaction
		if err := rows.Scan(&tx.ID, &tx.Date, &tx.Description, &tx.Amount.Cents, &tx.Type, &tx.Category); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// Categories implements ledger.CategoryReader from the fixed chart.
func (r *PostgresRepository) Categories(_ context.Context) ([]string, error) {
	return categories.List(), nil
}
