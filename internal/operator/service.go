package operator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"votegate/internal/audit"
	dErrors "votegate/pkg/domain-errors"
)

const defaultTokenTTL = 8 * time.Hour

type LoginRequest struct {
	Operator string `json:"operator"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Service authenticates polling-station operators. An empty password hash
// disables authentication entirely so single-station deployments can run
// without credentials.
type Service struct {
	tokens       *JWTService
	passwordHash string
	tokenTTL     time.Duration
	sink         audit.Sink
	logger       *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditSink(sink audit.Sink) Option {
	return func(s *Service) {
		s.sink = sink
	}
}

func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.tokenTTL = ttl
	}
}

func New(tokens *JWTService, passwordHash string, opts ...Option) (*Service, error) {
	if tokens == nil {
		return nil, fmt.Errorf("jwt service is required")
	}
	s := &Service{
		tokens:       tokens,
		passwordHash: passwordHash,
		tokenTTL:     defaultTokenTTL,
		sink:         audit.NopSink{},
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Enabled reports whether operator authentication is configured.
func (s *Service) Enabled() bool {
	return s.passwordHash != ""
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	if req.Operator == "" || req.Password == "" {
		return LoginResponse{}, dErrors.New(dErrors.CodeInvalidInput, "operator and password are required")
	}
	if !s.Enabled() {
		return LoginResponse{}, dErrors.New(dErrors.CodeConflict, "operator authentication is not configured")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("operator login rejected", "operator", req.Operator)
		return LoginResponse{}, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	token, err := s.tokens.GenerateAccessToken(req.Operator, s.tokenTTL)
	if err != nil {
		return LoginResponse{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}

	s.sink.Emit(ctx, audit.Event{Kind: audit.KindOperatorLogin, Operator: req.Operator})
	s.logger.Info("operator logged in", "operator", req.Operator)

	return LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokenTTL.Seconds()),
	}, nil
}
