// Package captcha verifies human-verification challenge tokens with the
// external verification collaborator.
package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	dErrors "reunion/pkg/domain-errors"
)

// Result is the collaborator's verdict on a challenge token.
type Result struct {
	Success bool    `json:"success"`
	Score   float64 `json:"score"`
}

// Verifier checks a challenge token. Policy: the token passes only when
// Success is true and Score meets the configured minimum.
type Verifier interface {
	Verify(ctx context.Context, token string) error
}

// HTTPVerifier calls the verification endpoint over HTTPS.
type HTTPVerifier struct {
	client    *http.Client
	verifyURL string
	secret    string
	minScore  float64
}

// NewHTTPVerifier creates a verifier against the given endpoint.
func NewHTTPVerifier(verifyURL, secret string, minScore float64) *HTTPVerifier {
	return &HTTPVerifier{
		client:    &http.Client{Timeout: 10 * time.Second},
		verifyURL: verifyURL,
		secret:    secret,
		minScore:  minScore,
	}
}

// Verify exchanges the challenge token. Fails closed: any collaborator error
// is treated as a failed verification.
func (v *HTTPVerifier) Verify(ctx context.Context, token string) error {
	if token == "" {
		return dErrors.New(dErrors.CodeUnauthorized, "captcha token is required")
	}

	form := url.Values{
		"secret":   {v.secret},
		"response": {token},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to build captcha request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnauthorized, "captcha verification unavailable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return dErrors.New(dErrors.CodeUnauthorized, fmt.Sprintf("captcha verification failed with status %d", resp.StatusCode))
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnauthorized, "captcha verification returned malformed response")
	}

	if !result.Success || result.Score < v.minScore {
		return dErrors.New(dErrors.CodeUnauthorized, "captcha verification failed")
	}
	return nil
}

// AlwaysPass is a Verifier that accepts every token. Development mode and
// tests only.
type AlwaysPass struct{}

func (AlwaysPass) Verify(context.Context, string) error { return nil }
