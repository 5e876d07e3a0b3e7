package biometric

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPAuthenticator delegates the biometric check to an external verification
// service. The service owns the sensor interaction and replies with one of the
// enumerated outcomes.
type HTTPAuthenticator struct {
	url    string
	client *http.Client
}

func NewHTTPAuthenticator(url string, timeout time.Duration) *HTTPAuthenticator {
	return &HTTPAuthenticator{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type authenticateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type authenticateResponse struct {
	Outcome string `json:"outcome"`
	Detail  string `json:"detail,omitempty"`
}

func (a *HTTPAuthenticator) Authenticate(ctx context.Context, prompt Prompt) (Result, error) {
	body, err := json.Marshal(authenticateRequest{
		Title:       prompt.Title,
		Description: prompt.Description,
	})
	if err != nil {
		return Result{}, fmt.Errorf("marshal authenticate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("build authenticate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		// Dismissal or timeout is a failed check, not an infrastructure error.
		if ctx.Err() != nil {
			return Result{Outcome: OutcomeFailed}, nil
		}
		return Result{Outcome: OutcomeHardwareUnavailable, Detail: err.Error()}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{Outcome: OutcomeError, Detail: fmt.Sprintf("verifier returned status %d", resp.StatusCode)}, nil
	}

	var parsed authenticateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Result{Outcome: OutcomeError, Detail: "malformed verifier response"}, nil
	}

	switch Outcome(parsed.Outcome) {
	case OutcomeSuccess, OutcomeFailed, OutcomeHardwareUnavailable, OutcomeFeatureUnavailable, OutcomeNotConfigured:
		return Result{Outcome: Outcome(parsed.Outcome), Detail: parsed.Detail}, nil
	case OutcomeError:
		return Result{Outcome: OutcomeError, Detail: parsed.Detail}, nil
	default:
		return Result{Outcome: OutcomeError, Detail: "unknown verifier outcome " + parsed.Outcome}, nil
	}
}
