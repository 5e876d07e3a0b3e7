package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/cucumber/godog"

	"votegate/internal/biometric"
	"votegate/internal/ledger"
	"votegate/internal/operator"
	operatorhandler "votegate/internal/operator/handler"
	httptransport "votegate/internal/transport/http"
	"votegate/internal/verification"
	verificationhandler "votegate/internal/verification/handler"
	"votegate/internal/voter"
	voterhandler "votegate/internal/voter/handler"
)

func TestFeatures(t *testing.T) {
	tc := &testContext{}

	suite := godog.TestSuite{
		ScenarioInitializer: func(ctx *godog.ScenarioContext) {
			registerSteps(ctx, tc)
		},
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
			Strict:   true,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("e2e scenarios failed")
	}
}

// scriptedAuthenticator lets scenarios decide each fingerprint outcome.
type scriptedAuthenticator struct {
	mu      sync.Mutex
	outcome biometric.Outcome
}

func (a *scriptedAuthenticator) set(outcome biometric.Outcome) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.outcome = outcome
}

func (a *scriptedAuthenticator) Authenticate(_ context.Context, _ biometric.Prompt) (biometric.Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return biometric.Result{Outcome: a.outcome}, nil
}

type testContext struct {
	server        *httptest.Server
	authenticator *scriptedAuthenticator
	lastStatus    int
	lastBody      map[string]any
}

func (tc *testContext) reset() error {
	if tc.server != nil {
		tc.server.Close()
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := voter.NewInMemoryStore()
	tc.authenticator = &scriptedAuthenticator{outcome: biometric.OutcomeSuccess}

	voters, err := voter.New(store, voter.WithLogger(logger))
	if err != nil {
		return err
	}
	flow, err := verification.New(store, ledger.NewInMemoryLedger(), tc.authenticator, verification.WithLogger(logger))
	if err != nil {
		return err
	}
	jwtService := operator.NewJWTService("e2e-signing-key", "votegate", "votegate")
	operators, err := operator.New(jwtService, "", operator.WithLogger(logger))
	if err != nil {
		return err
	}

	tc.server = httptest.NewServer(httptransport.NewRouter(httptransport.RouterConfig{
		Voters:       voterhandler.New(voters, logger),
		Verification: verificationhandler.New(flow, logger),
		Operator:     operatorhandler.New(operators, logger),
		Validator:    operator.NewTokenValidatorAdapter(jwtService),
		AuthEnabled:  false,
		Logger:       logger,
	}))
	tc.lastStatus = 0
	tc.lastBody = nil
	return nil
}

func (tc *testContext) post(path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := http.Post(tc.server.URL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	return tc.record(resp)
}

func (tc *testContext) get(path string) error {
	resp, err := http.Get(tc.server.URL + path)
	if err != nil {
		return err
	}
	return tc.record(resp)
}

func (tc *testContext) record(resp *http.Response) error {
	defer resp.Body.Close()
	tc.lastStatus = resp.StatusCode
	tc.lastBody = nil
	return json.NewDecoder(resp.Body).Decode(&tc.lastBody)
}

func (tc *testContext) field(key string) (any, error) {
	value, ok := tc.lastBody[key]
	if !ok {
		return nil, fmt.Errorf("response has no field %q: %v", key, tc.lastBody)
	}
	return value, nil
}

func registerSteps(ctx *godog.ScenarioContext, tc *testContext) {
	ctx.Step(`^a clean polling station$`, tc.stepCleanStation)
	ctx.Step(`^a registered voter "([^"]*)" with phone "([^"]*)" and voter id "([^"]*)"$`, tc.stepRegisteredVoter)
	ctx.Step(`^I register voter "([^"]*)" with phone "([^"]*)" and voter id "([^"]*)"$`, tc.stepRegisterVoter)
	ctx.Step(`^I search for voter id "([^"]*)"$`, tc.stepSearch)
	ctx.Step(`^the fingerprint check succeeds$`, tc.stepFingerprintSucceeds)
	ctx.Step(`^the fingerprint check fails$`, tc.stepFingerprintFails)
	ctx.Step(`^the outcome is "([^"]*)"$`, tc.stepOutcomeIs)
	ctx.Step(`^the message is "([^"]*)"$`, tc.stepMessageIs)
	ctx.Step(`^the verification count is (\d+)$`, tc.stepVerificationCountIs)
	ctx.Step(`^the request fails with error code "([^"]*)"$`, tc.stepErrorCodeIs)
}

func (tc *testContext) stepCleanStation() error {
	return tc.reset()
}

func (tc *testContext) stepRegisteredVoter(name, phone, voterID string) error {
	if err := tc.stepRegisterVoter(name, phone, voterID); err != nil {
		return err
	}
	if tc.lastStatus != http.StatusCreated {
		return fmt.Errorf("expected registration to succeed, got status %d: %v", tc.lastStatus, tc.lastBody)
	}
	return nil
}

func (tc *testContext) stepRegisterVoter(name, phone, voterID string) error {
	return tc.post("/voters", map[string]string{
		"name":     name,
		"phone":    phone,
		"voter_id": voterID,
	})
}

func (tc *testContext) stepSearch(voterID string) error {
	return tc.post("/verification/search", map[string]string{"voter_id": voterID})
}

func (tc *testContext) stepFingerprintSucceeds() error {
	tc.authenticator.set(biometric.OutcomeSuccess)
	return tc.post("/verification/verify", nil)
}

func (tc *testContext) stepFingerprintFails() error {
	tc.authenticator.set(biometric.OutcomeFailed)
	return tc.post("/verification/verify", nil)
}

func (tc *testContext) stepOutcomeIs(expected string) error {
	outcome, err := tc.field("outcome")
	if err != nil {
		return err
	}
	if outcome != expected {
		return fmt.Errorf("expected outcome %q, got %v", expected, outcome)
	}
	return nil
}

func (tc *testContext) stepMessageIs(expected string) error {
	message, err := tc.field("message")
	if err != nil {
		return err
	}
	if message != expected {
		return fmt.Errorf("expected message %q, got %v", expected, message)
	}
	return nil
}

func (tc *testContext) stepVerificationCountIs(expected int) error {
	if err := tc.get("/stats"); err != nil {
		return err
	}
	count, err := tc.field("verifications")
	if err != nil {
		return err
	}
	if int(count.(float64)) != expected {
		return fmt.Errorf("expected %d verifications, got %v", expected, count)
	}
	return nil
}

func (tc *testContext) stepErrorCodeIs(expected string) error {
	code, err := tc.field("error")
	if err != nil {
		return err
	}
	if code != expected {
		return fmt.Errorf("expected error code %q, got %v", expected, code)
	}
	return nil
}
