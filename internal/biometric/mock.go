package biometric

import (
	"context"
	"time"
)

// MockAuthenticator returns a fixed outcome after a configurable latency to
// mimic real-world sensor interaction. Used for development wiring and e2e
// tests.
type MockAuthenticator struct {
	Outcome Outcome
	Detail  string
	Latency time.Duration
}

func (a MockAuthenticator) Authenticate(ctx context.Context, _ Prompt) (Result, error) {
	if a.Latency > 0 {
		select {
		case <-time.After(a.Latency):
		case <-ctx.Done():
			return Result{Outcome: OutcomeFailed}, nil
		}
	}
	outcome := a.Outcome
	if outcome == "" {
		outcome = OutcomeSuccess
	}
	return Result{Outcome: outcome, Detail: a.Detail}, nil
}
