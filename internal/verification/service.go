package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"votegate/internal/audit"
	"votegate/internal/biometric"
	"votegate/internal/ledger"
	"votegate/internal/verification/metrics"
	"votegate/internal/voter"
	dErrors "votegate/pkg/domain-errors"
	"votegate/pkg/platform/sentinel"
	"votegate/pkg/requestcontext"
)

// User-facing messages for the lookup step. Verify-step messages come from
// the biometric outcome.
const (
	msgNotFound        = "Voter not found with the entered details"
	msgAlreadyVerified = "ALREADY VOTED"
)

const defaultBiometricTimeout = 30 * time.Second

// Flow drives one verification station: search, then a single biometric check
// for the found voter. The ledger and counter it mutates are shared across
// flows and remain consistent under concurrent use; the flow itself serializes
// its own steps and rejects a new search while a biometric check is
// outstanding.
type Flow struct {
	voters        voter.Store
	ledger        ledger.Ledger
	authenticator biometric.Authenticator
	timeout       time.Duration
	metrics       *metrics.Metrics
	sink          audit.Sink
	logger        *slog.Logger

	mu          sync.Mutex
	state       State
	pending     *voter.Voter
	verifying   bool
	subscribers []func(Transition)
}

type Option func(*Flow)

func WithLogger(logger *slog.Logger) Option {
	return func(f *Flow) { f.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(f *Flow) { f.metrics = m }
}

func WithAuditSink(sink audit.Sink) Option {
	return func(f *Flow) { f.sink = sink }
}

// WithBiometricTimeout bounds the sensor interaction; expiry counts as a
// failed check, never a success.
func WithBiometricTimeout(d time.Duration) Option {
	return func(f *Flow) {
		if d > 0 {
			f.timeout = d
		}
	}
}

func New(voters voter.Store, lgr ledger.Ledger, authenticator biometric.Authenticator, opts ...Option) (*Flow, error) {
	if voters == nil {
		return nil, fmt.Errorf("voter store is required")
	}
	if lgr == nil {
		return nil, fmt.Errorf("verification ledger is required")
	}
	if authenticator == nil {
		return nil, fmt.Errorf("biometric authenticator is required")
	}

	f := &Flow{
		voters:        voters,
		ledger:        lgr,
		authenticator: authenticator,
		timeout:       defaultBiometricTimeout,
		sink:          audit.NopSink{},
		logger:        slog.Default(),
		state:         StateIdle,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Subscribe registers an observer for terminal transitions. Callbacks run on
// the flow's goroutine after the transition completes; they must not call back
// into the flow.
func (f *Flow) Subscribe(fn func(Transition)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscribers = append(f.subscribers, fn)
}

// State returns the current flow state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Search looks up a voter and arms the biometric step. The duplicate guard
// runs first: an already-verified id is refused before the authenticator is
// ever involved, so a verified voter is neither re-prompted nor re-counted.
//
// A search during an outstanding biometric check is rejected rather than
// cancelling the check (decision recorded in DESIGN.md).
func (f *Flow) Search(ctx context.Context, voterID string) (SearchResult, error) {
	if voterID == "" {
		return SearchResult{}, dErrors.New(dErrors.CodeInvalidInput, "voter_id is required")
	}

	f.mu.Lock()
	if f.verifying {
		f.mu.Unlock()
		return SearchResult{}, dErrors.New(dErrors.CodeConflict, "a biometric check is in progress")
	}
	// Any previous terminal outcome returns to Idle on a new search.
	f.state = StateIdle
	f.pending = nil
	f.mu.Unlock()

	verified, err := f.ledger.IsVerified(ctx, voterID)
	if err != nil {
		return SearchResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "ledger check failed")
	}
	if verified {
		f.metrics.IncrementOutcome(string(OutcomeAlreadyVerified))
		f.sink.Emit(ctx, audit.Event{Kind: audit.KindDuplicateBlocked, VoterID: voterID})
		f.notify(ctx, Transition{VoterID: voterID, Outcome: OutcomeAlreadyVerified, Message: msgAlreadyVerified})
		return SearchResult{Outcome: OutcomeAlreadyVerified, Message: msgAlreadyVerified}, nil
	}

	v, err := f.voters.FindByVoterID(ctx, voterID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			f.metrics.IncrementOutcome(string(OutcomeNotFound))
			f.notify(ctx, Transition{VoterID: voterID, Outcome: OutcomeNotFound, Message: msgNotFound})
			return SearchResult{Outcome: OutcomeNotFound, Message: msgNotFound}, nil
		}
		return SearchResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "voter lookup failed")
	}

	f.mu.Lock()
	f.state = StateAwaitingBiometric
	f.pending = &v
	f.mu.Unlock()

	return SearchResult{Outcome: OutcomeAwaitingBiometric, Voter: &v}, nil
}

// Verify runs the biometric check for the voter armed by Search. Only legal
// from AwaitingBiometric; at most one check is outstanding per flow. On a
// non-success outcome the voter stays armed so the check can be retried
// without a new lookup.
func (f *Flow) Verify(ctx context.Context) (VerifyResult, error) {
	f.mu.Lock()
	if f.state != StateAwaitingBiometric || f.pending == nil {
		f.mu.Unlock()
		return VerifyResult{}, dErrors.New(dErrors.CodeConflict, "no voter awaiting verification")
	}
	if f.verifying {
		f.mu.Unlock()
		return VerifyResult{}, dErrors.New(dErrors.CodeConflict, "a biometric check is in progress")
	}
	f.verifying = true
	v := *f.pending
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.verifying = false
		f.mu.Unlock()
	}()

	checkCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	start := time.Now()
	result, err := f.authenticator.Authenticate(checkCtx, biometric.Prompt{
		Title:       "Fingerprint Authentication",
		Description: "Please authenticate using your fingerprint",
	})
	f.metrics.ObserveBiometricLatency(time.Since(start))
	if err != nil {
		return VerifyResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "biometric check failed")
	}

	if result.Outcome != biometric.OutcomeSuccess {
		outcome := mapBiometricOutcome(result.Outcome)
		message := result.Message()
		f.metrics.IncrementOutcome(string(outcome))
		f.sink.Emit(ctx, audit.Event{Kind: audit.KindVerificationFailed, VoterID: v.VoterID, Detail: message})
		f.notify(ctx, Transition{VoterID: v.VoterID, Outcome: outcome, Message: message})
		f.logger.InfoContext(ctx, "verification not completed", "voter_id", v.VoterID, "outcome", outcome)
		return VerifyResult{Outcome: outcome, Message: message}, nil
	}

	return f.recordSuccess(ctx, v)
}

// recordSuccess applies the ledger mark and the counter increment as one
// logical step. The ledger goes first: the counter must never advance without
// a ledger record, and a raced duplicate mark must not increment at all.
func (f *Flow) recordSuccess(ctx context.Context, v voter.Voter) (VerifyResult, error) {
	first, err := f.ledger.MarkVerified(ctx, v.VoterID)
	if err != nil {
		return VerifyResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "ledger update failed")
	}
	if !first {
		// Another flow verified this id between our search and now.
		f.clearPending()
		f.metrics.IncrementOutcome(string(OutcomeAlreadyVerified))
		f.sink.Emit(ctx, audit.Event{Kind: audit.KindDuplicateBlocked, VoterID: v.VoterID})
		f.notify(ctx, Transition{VoterID: v.VoterID, Outcome: OutcomeAlreadyVerified, Message: msgAlreadyVerified})
		return VerifyResult{Outcome: OutcomeAlreadyVerified, Message: msgAlreadyVerified}, nil
	}

	if err := f.voters.IncrementVerificationCount(ctx); err != nil {
		// The ledger records the voter but the event was not counted; surface
		// the storage failure rather than guessing.
		return VerifyResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "verification counter update failed")
	}

	f.clearPending()
	message := biometric.OutcomeSuccess.Message()
	f.metrics.IncrementOutcome(string(OutcomeVerified))
	f.sink.Emit(ctx, audit.Event{Kind: audit.KindVerificationSucceeded, VoterID: v.VoterID})
	f.notify(ctx, Transition{VoterID: v.VoterID, Outcome: OutcomeVerified, Message: message})
	f.logger.InfoContext(ctx, "voter verified", "voter_id", v.VoterID)
	return VerifyResult{Outcome: OutcomeVerified, Message: message}, nil
}

func (f *Flow) clearPending() {
	f.mu.Lock()
	f.state = StateIdle
	f.pending = nil
	f.mu.Unlock()
}

func (f *Flow) notify(ctx context.Context, t Transition) {
	if t.At.IsZero() {
		t.At = requestcontext.Now(ctx)
	}
	f.mu.Lock()
	subs := make([]func(Transition), len(f.subscribers))
	copy(subs, f.subscribers)
	f.mu.Unlock()
	for _, fn := range subs {
		fn(t)
	}
}

func mapBiometricOutcome(o biometric.Outcome) Outcome {
	switch o {
	case biometric.OutcomeFailed:
		return OutcomeFailed
	case biometric.OutcomeHardwareUnavailable:
		return OutcomeHardwareUnavailable
	case biometric.OutcomeFeatureUnavailable:
		return OutcomeFeatureUnavailable
	case biometric.OutcomeNotConfigured:
		return OutcomeNotConfigured
	default:
		return OutcomeError
	}
}
