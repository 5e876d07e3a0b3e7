package voter

import (
	"context"
	"fmt"
	"log/slog"

	"votegate/internal/audit"
	"votegate/internal/biometric"
	"votegate/internal/voter/metrics"
	dErrors "votegate/pkg/domain-errors"
)

// RegisterRequest carries the registration input. Phone is validated here,
// at registration time only; reads never re-validate.
type RegisterRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	VoterID string `json:"voter_id"`
}

// Stats is the demographic snapshot exposed to operators.
type Stats struct {
	RegisteredVoters int64 `json:"registered_voters"`
	Verifications    int64 `json:"verifications"`
}

// Service owns voter registration and the operator stats view.
type Service struct {
	store      Store
	enrollment biometric.Authenticator
	sink       audit.Sink
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditSink(sink audit.Sink) Option {
	return func(s *Service) { s.sink = sink }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithEnrollment gates registration on a successful biometric capture,
// mirroring the source system's register screen.
func WithEnrollment(authenticator biometric.Authenticator) Option {
	return func(s *Service) { s.enrollment = authenticator }
}

func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("voter store is required")
	}
	svc := &Service{
		store:  store,
		sink:   audit.NopSink{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Register validates input, optionally runs the enrollment capture, and
// inserts the voter. Re-registration with an existing voter id is accepted and
// creates a second record; lookups resolve to the first one.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (int64, error) {
	if err := validate(req); err != nil {
		s.metrics.IncrementRejected("validation")
		s.sink.Emit(ctx, audit.Event{Kind: audit.KindRegistrationRejected, VoterID: req.VoterID, Detail: dErrors.MessageOf(err)})
		return 0, err
	}

	if s.enrollment != nil {
		result, err := s.enrollment.Authenticate(ctx, biometric.Prompt{
			Title:       "Fingerprint Enrollment",
			Description: "Please verify your fingerprint to register",
		})
		if err != nil {
			s.metrics.IncrementRejected("enrollment")
			return 0, dErrors.Wrap(err, dErrors.CodeInternal, "enrollment check failed")
		}
		if result.Outcome != biometric.OutcomeSuccess {
			s.metrics.IncrementRejected("enrollment")
			s.sink.Emit(ctx, audit.Event{Kind: audit.KindRegistrationRejected, VoterID: req.VoterID, Detail: result.Message()})
			return 0, enrollmentError(result)
		}
	}

	id, err := s.store.Insert(ctx, Voter{Name: req.Name, Phone: req.Phone, VoterID: req.VoterID})
	if err != nil {
		s.metrics.IncrementRejected("storage")
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "voter insert failed")
	}

	s.metrics.IncrementRegistered()
	s.sink.Emit(ctx, audit.Event{Kind: audit.KindVoterRegistered, VoterID: req.VoterID})
	s.logger.InfoContext(ctx, "voter registered", "id", id, "voter_id", req.VoterID)
	return id, nil
}

// Stats returns the registered-voter count and the durable verification
// counter.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	voters, err := s.store.CountVoters(ctx)
	if err != nil {
		return Stats{}, dErrors.Wrap(err, dErrors.CodeInternal, "count voters failed")
	}
	verifications, err := s.store.VerificationCount(ctx)
	if err != nil {
		return Stats{}, dErrors.Wrap(err, dErrors.CodeInternal, "read verification count failed")
	}
	return Stats{RegisteredVoters: voters, Verifications: verifications}, nil
}

func validate(req RegisterRequest) error {
	if req.Name == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "name is required")
	}
	if len(req.Phone) != 10 {
		return dErrors.New(dErrors.CodeInvalidInput, "phone must be exactly 10 digits")
	}
	for _, r := range req.Phone {
		if r < '0' || r > '9' {
			return dErrors.New(dErrors.CodeInvalidInput, "phone must be exactly 10 digits")
		}
	}
	if req.VoterID == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "voter_id is required")
	}
	return nil
}

func enrollmentError(result biometric.Result) error {
	switch result.Outcome {
	case biometric.OutcomeHardwareUnavailable, biometric.OutcomeFeatureUnavailable, biometric.OutcomeNotConfigured:
		return dErrors.New(dErrors.CodeUnavailable, result.Message())
	default:
		return dErrors.New(dErrors.CodeUnauthorized, result.Message())
	}
}
