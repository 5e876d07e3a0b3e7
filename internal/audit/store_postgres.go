package audit

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore persists audit events in PostgreSQL. Pure I/O; event shaping
// belongs to the publisher.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the audit table. Safe to call multiple times.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS audit_events (
			id UUID PRIMARY KEY,
			kind TEXT NOT NULL,
			voter_id TEXT NOT NULL DEFAULT '',
			operator TEXT NOT NULL DEFAULT '',
			client_ip TEXT NOT NULL DEFAULT '',
			detail TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_audit_events_voter_id ON audit_events(voter_id);
	`)
	if err != nil {
		return fmt.Errorf("create audit schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_events (id, kind, voter_id, operator, client_ip, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, event.ID, string(event.Kind), event.VoterID, event.Operator, event.ClientIP, event.Detail, event.Timestamp)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByVoter(ctx context.Context, voterID string) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, voter_id, operator, client_ip, detail, created_at
		FROM audit_events
		WHERE voter_id = $1
		ORDER BY created_at
	`, voterID)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		var kind string
		if err := rows.Scan(&e.ID, &kind, &e.VoterID, &e.Operator, &e.ClientIP, &e.Detail, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Kind = Kind(kind)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return out, nil
}
