package voter

import "context"

// Store is interface-driven to keep the domain logic testable and to allow
// swapping in-memory and PostgreSQL persistence without rewiring business
// code.
//
// FindByVoterID resolves duplicate registrations by returning the first
// inserted record. IncrementVerificationCount must be atomic under concurrent
// callers: no lost updates.
type Store interface {
	Insert(ctx context.Context, v Voter) (int64, error)
	FindByVoterID(ctx context.Context, voterID string) (Voter, error)
	CountVoters(ctx context.Context) (int64, error)
	IncrementVerificationCount(ctx context.Context) error
	VerificationCount(ctx context.Context) (int64, error)
}
