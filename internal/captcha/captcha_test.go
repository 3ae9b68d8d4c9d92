package captcha

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "reunion/pkg/domain-errors"
)

func newServer(t *testing.T, result Result) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "test-secret", r.Form.Get("secret"))
		assert.NotEmpty(t, r.Form.Get("response"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestVerify_Passes(t *testing.T) {
	srv := newServer(t, Result{Success: true, Score: 0.9})
	v := NewHTTPVerifier(srv.URL, "test-secret", 0.5)

	assert.NoError(t, v.Verify(context.Background(), "challenge-token"))
}

func TestVerify_LowScoreRejected(t *testing.T) {
	srv := newServer(t, Result{Success: true, Score: 0.3})
	v := NewHTTPVerifier(srv.URL, "test-secret", 0.5)

	err := v.Verify(context.Background(), "challenge-token")
	assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
}

func TestVerify_FailureRejected(t *testing.T) {
	srv := newServer(t, Result{Success: false, Score: 0.9})
	v := NewHTTPVerifier(srv.URL, "test-secret", 0.5)

	err := v.Verify(context.Background(), "challenge-token")
	assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
}

func TestVerify_EmptyToken(t *testing.T) {
	v := NewHTTPVerifier("http://unused.invalid", "test-secret", 0.5)
	err := v.Verify(context.Background(), "")
	assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
}

func TestVerify_CollaboratorDownFailsClosed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	v := NewHTTPVerifier(srv.URL, "test-secret", 0.5)
	err := v.Verify(context.Background(), "challenge-token")
	assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
}
