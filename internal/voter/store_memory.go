package voter

import (
	"context"
	"fmt"
	"sync"

	"votegate/pkg/platform/sentinel"
)

// InMemoryStore keeps voters and the verification counter in process memory.
// Insertion order is preserved so duplicate voter ids resolve to the first
// registration, matching the PostgreSQL store's tie-break.
type InMemoryStore struct {
	mu     sync.RWMutex
	voters []Voter
	nextID int64
	count  int64
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{nextID: 1}
}

func (s *InMemoryStore) Insert(_ context.Context, v Voter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v.ID = s.nextID
	s.nextID++
	s.voters = append(s.voters, v)
	return v.ID, nil
}

func (s *InMemoryStore) FindByVoterID(_ context.Context, voterID string) (Voter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.voters {
		if v.VoterID == voterID {
			return v, nil
		}
	}
	return Voter{}, fmt.Errorf("voter %q: %w", voterID, sentinel.ErrNotFound)
}

func (s *InMemoryStore) CountVoters(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.voters)), nil
}

func (s *InMemoryStore) IncrementVerificationCount(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count++
	return nil
}

func (s *InMemoryStore) VerificationCount(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count, nil
}
