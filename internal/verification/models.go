// Package verification implements the authentication flow state machine: look
// up a voter, consult the ledger, run the biometric check, and on success
// record the verification exactly once.
package verification

import (
	"time"

	"votegate/internal/voter"
)

// State of a flow instance. Terminal outcomes are not states; the flow either
// idles or holds a voter awaiting the biometric step.
type State string

const (
	StateIdle              State = "idle"
	StateAwaitingBiometric State = "awaiting_biometric"
)

// Outcome classifies the terminal result of a search or verify step.
type Outcome string

const (
	OutcomeAwaitingBiometric   Outcome = "awaiting_biometric"
	OutcomeNotFound            Outcome = "not_found"
	OutcomeAlreadyVerified     Outcome = "already_verified"
	OutcomeVerified            Outcome = "verified"
	OutcomeFailed              Outcome = "failed"
	OutcomeHardwareUnavailable Outcome = "hardware_unavailable"
	OutcomeFeatureUnavailable  Outcome = "feature_unavailable"
	OutcomeNotConfigured       Outcome = "not_configured"
	OutcomeError               Outcome = "error"
)

// SearchResult is the outcome of the lookup step. Voter is set only when the
// flow transitioned to AwaitingBiometric.
type SearchResult struct {
	Outcome Outcome      `json:"outcome"`
	Message string       `json:"message"`
	Voter   *voter.Voter `json:"voter,omitempty"`
}

// VerifyResult is the outcome of the biometric step.
type VerifyResult struct {
	Outcome Outcome `json:"outcome"`
	Message string  `json:"message"`
}

// Transition is delivered to subscribers after every terminal outcome,
// decoupled from any rendering concern.
type Transition struct {
	VoterID string
	Outcome Outcome
	Message string
	At      time.Time
}
