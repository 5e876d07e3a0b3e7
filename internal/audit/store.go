package audit

import "context"

// Store persists audit events. Implementations must be safe for concurrent
// use; Append is the hot path and must not reorder events from a single
// caller.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByVoter(ctx context.Context, voterID string) ([]Event, error)
}
