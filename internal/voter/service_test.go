package voter

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"votegate/internal/audit"
	"votegate/internal/biometric"
	dErrors "votegate/pkg/domain-errors"
)

type VoterServiceSuite struct {
	suite.Suite
	store      *InMemoryStore
	auditStore *audit.InMemoryStore
	service    *Service
	ctx        context.Context
}

func TestVoterServiceSuite(t *testing.T) {
	suite.Run(t, new(VoterServiceSuite))
}

func (s *VoterServiceSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.auditStore = audit.NewInMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var err error
	s.service, err = New(
		s.store,
		WithLogger(logger),
		WithAuditSink(audit.NewPublisher(s.auditStore)),
	)
	s.Require().NoError(err)
	s.ctx = context.Background()
}

func (s *VoterServiceSuite) TestNew() {
	s.Run("nil store returns error", func() {
		_, err := New(nil)
		s.Error(err)
		s.Contains(err.Error(), "voter store is required")
	})
}

func (s *VoterServiceSuite) TestRegister() {
	s.Run("valid registration returns surrogate id", func() {
		id, err := s.service.Register(s.ctx, RegisterRequest{Name: "A", Phone: "1234567890", VoterID: "V1"})
		s.Require().NoError(err)
		s.Equal(int64(1), id)

		v, err := s.store.FindByVoterID(s.ctx, "V1")
		s.Require().NoError(err)
		s.Equal("A", v.Name)

		events, err := s.auditStore.ListByVoter(s.ctx, "V1")
		s.Require().NoError(err)
		s.Require().Len(events, 1)
		s.Equal(audit.KindVoterRegistered, events[0].Kind)
	})

	s.Run("surrogate ids increase monotonically", func() {
		first, err := s.service.Register(s.ctx, RegisterRequest{Name: "B", Phone: "1234567890", VoterID: "V2"})
		s.Require().NoError(err)
		second, err := s.service.Register(s.ctx, RegisterRequest{Name: "C", Phone: "1234567890", VoterID: "V3"})
		s.Require().NoError(err)
		s.Greater(second, first)
	})

	s.Run("duplicate voter id accepted, find returns first inserted", func() {
		_, err := s.service.Register(s.ctx, RegisterRequest{Name: "First", Phone: "1234567890", VoterID: "DUP"})
		s.Require().NoError(err)
		_, err = s.service.Register(s.ctx, RegisterRequest{Name: "Second", Phone: "1234567890", VoterID: "DUP"})
		s.Require().NoError(err)

		v, err := s.store.FindByVoterID(s.ctx, "DUP")
		s.Require().NoError(err)
		s.Equal("First", v.Name)
	})
}

func (s *VoterServiceSuite) TestRegisterValidation() {
	cases := []struct {
		name string
		req  RegisterRequest
	}{
		{"empty name", RegisterRequest{Phone: "1234567890", VoterID: "V1"}},
		{"short phone", RegisterRequest{Name: "A", Phone: "123", VoterID: "V1"}},
		{"long phone", RegisterRequest{Name: "A", Phone: "12345678901", VoterID: "V1"}},
		{"non-digit phone", RegisterRequest{Name: "A", Phone: "12345abcde", VoterID: "V1"}},
		{"empty voter id", RegisterRequest{Name: "A", Phone: "1234567890"}},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			_, err := s.service.Register(s.ctx, tc.req)
			s.Require().Error(err)
			s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
		})
	}

	s.Run("no row inserted on validation failure", func() {
		n, err := s.store.CountVoters(s.ctx)
		s.Require().NoError(err)
		s.Equal(int64(0), n)
	})
}

func (s *VoterServiceSuite) TestRegisterEnrollmentGate() {
	s.Run("failed capture rejects registration", func() {
		svc, err := New(s.store, WithEnrollment(biometric.MockAuthenticator{Outcome: biometric.OutcomeFailed}))
		s.Require().NoError(err)

		_, err = svc.Register(s.ctx, RegisterRequest{Name: "A", Phone: "1234567890", VoterID: "E1"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))

		_, err = s.store.FindByVoterID(s.ctx, "E1")
		s.Error(err)
	})

	s.Run("unavailable hardware is a distinct outcome", func() {
		svc, err := New(s.store, WithEnrollment(biometric.MockAuthenticator{Outcome: biometric.OutcomeHardwareUnavailable}))
		s.Require().NoError(err)

		_, err = svc.Register(s.ctx, RegisterRequest{Name: "A", Phone: "1234567890", VoterID: "E2"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	})

	s.Run("successful capture registers", func() {
		svc, err := New(s.store, WithEnrollment(biometric.MockAuthenticator{Outcome: biometric.OutcomeSuccess}))
		s.Require().NoError(err)

		id, err := svc.Register(s.ctx, RegisterRequest{Name: "A", Phone: "1234567890", VoterID: "E3"})
		s.Require().NoError(err)
		s.Positive(id)
	})
}

func (s *VoterServiceSuite) TestStats() {
	_, err := s.service.Register(s.ctx, RegisterRequest{Name: "A", Phone: "1234567890", VoterID: "V1"})
	s.Require().NoError(err)
	s.Require().NoError(s.store.IncrementVerificationCount(s.ctx))

	stats, err := s.service.Stats(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), stats.RegisteredVoters)
	s.Equal(int64(1), stats.Verifications)
}
