// Package biometric defines the authenticator capability the verification
// flow depends on. The real sensor lives on a device or a dedicated
// verification service; the gateway only sees one of a fixed set of outcomes.
package biometric

//go:generate mockgen -source=biometric.go -destination=mocks/mocks.go -package=mocks Authenticator

import "context"

// Outcome enumerates the possible results of a biometric check. Exactly one
// outcome is delivered per invocation.
type Outcome string

const (
	OutcomeSuccess             Outcome = "success"
	OutcomeFailed              Outcome = "failed"
	OutcomeHardwareUnavailable Outcome = "hardware_unavailable"
	OutcomeFeatureUnavailable  Outcome = "feature_unavailable"
	OutcomeNotConfigured       Outcome = "not_configured"
	OutcomeError               Outcome = "error"
)

// Message returns the user-facing text for an outcome.
func (o Outcome) Message() string {
	switch o {
	case OutcomeSuccess:
		return "Voter verified successfully, eligible for voting"
	case OutcomeFailed:
		return "Fingerprint authentication failed. Please try again."
	case OutcomeHardwareUnavailable:
		return "Biometric hardware unavailable."
	case OutcomeFeatureUnavailable:
		return "Biometric feature is not available."
	case OutcomeNotConfigured:
		return "Authentication method not set."
	default:
		return "Authentication error"
	}
}

// Prompt carries the text shown to the person being verified.
type Prompt struct {
	Title       string
	Description string
}

// Result is the single outcome of one Authenticate call. Detail carries the
// underlying error text for OutcomeError.
type Result struct {
	Outcome Outcome
	Detail  string
}

// Message returns the user-facing text for this result.
func (r Result) Message() string {
	if r.Outcome == OutcomeError && r.Detail != "" {
		return "Authentication error: " + r.Detail
	}
	return r.Outcome.Message()
}

// Authenticator performs the sensor-backed identity check. Implementations
// must deliver exactly one Result per call and map context cancellation
// (the person dismissed the prompt, or the flow timed out) to OutcomeFailed,
// never OutcomeSuccess.
type Authenticator interface {
	Authenticate(ctx context.Context, prompt Prompt) (Result, error)
}
