package voter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"votegate/pkg/platform/sentinel"
)

// PostgresStore persists voters in PostgreSQL. Pure I/O; validation belongs in
// the service layer.
//
// The counter lives in its own single-row table and is advanced with one
// UPDATE statement, so concurrent increments serialize on the row lock and no
// update is lost.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the voter tables and seeds the counter row. Safe to
// call multiple times.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS voter_details (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			phone TEXT NOT NULL,
			voter_id TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_voter_details_voter_id ON voter_details(voter_id);

		CREATE TABLE IF NOT EXISTS fingerprint_count (
			id INT PRIMARY KEY,
			count BIGINT NOT NULL DEFAULT 0
		);
		INSERT INTO fingerprint_count (id, count) VALUES (1, 0)
		ON CONFLICT (id) DO NOTHING;
	`)
	if err != nil {
		return fmt.Errorf("create voter schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Insert(ctx context.Context, v Voter) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO voter_details (name, phone, voter_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`, v.Name, v.Phone, v.VoterID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert voter: %w", err)
	}
	return id, nil
}

// FindByVoterID returns the first inserted record for a voter id. Duplicate
// registrations exist by design; the lowest surrogate id wins.
func (s *PostgresStore) FindByVoterID(ctx context.Context, voterID string) (Voter, error) {
	var v Voter
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, phone, voter_id
		FROM voter_details
		WHERE voter_id = $1
		ORDER BY id
		LIMIT 1
	`, voterID).Scan(&v.ID, &v.Name, &v.Phone, &v.VoterID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Voter{}, fmt.Errorf("voter %q: %w", voterID, sentinel.ErrNotFound)
		}
		return Voter{}, fmt.Errorf("find voter: %w", err)
	}
	return v, nil
}

func (s *PostgresStore) CountVoters(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM voter_details`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count voters: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) IncrementVerificationCount(ctx context.Context) error {
	res, err := s.db.ExecContext(ctx, `UPDATE fingerprint_count SET count = count + 1 WHERE id = 1`)
	if err != nil {
		return fmt.Errorf("increment verification count: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("increment verification count: %w", err)
	}
	if affected != 1 {
		return fmt.Errorf("increment verification count: counter row missing: %w", sentinel.ErrInvalidState)
	}
	return nil
}

func (s *PostgresStore) VerificationCount(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT count FROM fingerprint_count WHERE id = 1`).Scan(&n)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("verification count: counter row missing: %w", sentinel.ErrInvalidState)
		}
		return 0, fmt.Errorf("verification count: %w", err)
	}
	return n, nil
}
