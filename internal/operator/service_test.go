package operator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"votegate/internal/audit"
	dErrors "votegate/pkg/domain-errors"
)

type ServiceSuite struct {
	suite.Suite
	auditStore *audit.InMemoryStore
	service    *Service
	ctx        context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	s.Require().NoError(err)

	s.auditStore = audit.NewInMemoryStore()
	s.service, err = New(
		jwtService,
		string(hash),
		WithAuditSink(audit.NewPublisher(s.auditStore)),
		WithTokenTTL(time.Hour),
	)
	s.Require().NoError(err)
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestLogin() {
	s.Run("valid credentials issue a bearer token", func() {
		resp, err := s.service.Login(s.ctx, LoginRequest{Operator: "station-1", Password: "correct-horse"})
		s.Require().NoError(err)
		s.Equal("Bearer", resp.TokenType)
		s.Equal(int64(3600), resp.ExpiresIn)

		claims, err := jwtService.ValidateToken(resp.AccessToken)
		s.Require().NoError(err)
		s.Equal("station-1", claims.Operator)

		events := s.auditStore.All()
		s.Require().Len(events, 1)
		s.Equal(audit.KindOperatorLogin, events[0].Kind)
		s.Equal("station-1", events[0].Operator)
	})

	s.Run("wrong password is unauthorized", func() {
		_, err := s.service.Login(s.ctx, LoginRequest{Operator: "station-1", Password: "wrong"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("missing fields are invalid input", func() {
		_, err := s.service.Login(s.ctx, LoginRequest{Operator: "station-1"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *ServiceSuite) TestLoginDisabled() {
	service, err := New(jwtService, "")
	s.Require().NoError(err)
	s.False(service.Enabled())

	_, err = service.Login(s.ctx, LoginRequest{Operator: "station-1", Password: "anything"})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}
