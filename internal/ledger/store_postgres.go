package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PostgresLedger keeps verified voter ids in a table with a primary key on the
// voter id. INSERT ... ON CONFLICT DO NOTHING makes check-and-insert one
// atomic statement; the row count tells us whether this call won the first
// marking.
type PostgresLedger struct {
	db *sql.DB
}

func NewPostgresLedger(db *sql.DB) *PostgresLedger {
	return &PostgresLedger{db: db}
}

// EnsureSchema creates the ledger table. Safe to call multiple times.
func (l *PostgresLedger) EnsureSchema(ctx context.Context) error {
	_, err := l.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS verified_voters (
			voter_id TEXT PRIMARY KEY,
			verified_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("create ledger schema: %w", err)
	}
	return nil
}

func (l *PostgresLedger) IsVerified(ctx context.Context, voterID string) (bool, error) {
	var one int
	err := l.db.QueryRowContext(ctx, `SELECT 1 FROM verified_voters WHERE voter_id = $1`, voterID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("ledger membership check: %w", err)
	}
	return true, nil
}

func (l *PostgresLedger) MarkVerified(ctx context.Context, voterID string) (bool, error) {
	res, err := l.db.ExecContext(ctx, `
		INSERT INTO verified_voters (voter_id) VALUES ($1)
		ON CONFLICT (voter_id) DO NOTHING
	`, voterID)
	if err != nil {
		return false, fmt.Errorf("ledger mark verified: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("ledger mark verified: %w", err)
	}
	return inserted == 1, nil
}
