package ledger

import (
	"context"
	"sync"
)

// InMemoryLedger keeps verified voter ids in a process-local set. Membership
// is lost on restart while the verification counter is durable; this
// asymmetry matches the source system and is a deliberate default (see
// DESIGN.md for the durable alternatives).
type InMemoryLedger struct {
	mu       sync.RWMutex
	verified map[string]struct{}
}

func NewInMemoryLedger() *InMemoryLedger {
	return &InMemoryLedger{verified: make(map[string]struct{})}
}

func (l *InMemoryLedger) IsVerified(_ context.Context, voterID string) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.verified[voterID]
	return ok, nil
}

func (l *InMemoryLedger) MarkVerified(_ context.Context, voterID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.verified[voterID]; ok {
		return false, nil
	}
	l.verified[voterID] = struct{}{}
	return true, nil
}

// Size returns the number of verified ids. Test helper.
func (l *InMemoryLedger) Size() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.verified)
}
