// Package ledger tracks which voter identifiers have completed biometric
// verification. The contract is set membership: marking an already-verified id
// never creates a duplicate entry, and there is no removal operation.
package ledger

import "context"

// Ledger is the duplicate-verification guard.
//
// MarkVerified reports whether this call was the first marking of the id. The
// membership check and insert are a single atomic step, so two concurrent
// marks for the same id elect exactly one winner; callers advance the
// verification counter only when first is true.
type Ledger interface {
	IsVerified(ctx context.Context, voterID string) (bool, error)
	MarkVerified(ctx context.Context, voterID string) (first bool, err error)
}
