package audit

import (
	"time"

	"github.com/google/uuid"
)

// Kind classifies audit events emitted by the registration and verification
// flows.
type Kind string

const (
	KindVoterRegistered       Kind = "voter_registered"
	KindRegistrationRejected  Kind = "registration_rejected"
	KindVerificationSucceeded Kind = "verification_succeeded"
	KindVerificationFailed    Kind = "verification_failed"
	KindDuplicateBlocked      Kind = "duplicate_blocked"
	KindOperatorLogin         Kind = "operator_login"
)

// Event is an append-only record of something the gateway did or refused to do.
type Event struct {
	ID        uuid.UUID
	Kind      Kind
	VoterID   string
	Operator  string
	ClientIP  string
	Detail    string
	Timestamp time.Time
}
