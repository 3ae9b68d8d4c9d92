// Package auth provides bearer-token middleware. It verifies the token with
// the identity collaborator and injects the verified principal into the
// request context. Every registration read or write sits behind this gate;
// there is no anonymous path.
package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	dErrors "reunion/pkg/domain-errors"
	"reunion/pkg/platform/httputil"
	"reunion/pkg/platform/middleware/request"
)

// Principal is the verified identity of an authenticated caller.
type Principal struct {
	UserID string
	Email  string
}

// TokenVerifier exchanges a bearer token for a verified principal.
type TokenVerifier interface {
	VerifyToken(token string) (*Principal, error)
}

type contextKeyPrincipal struct{}

// GetPrincipal retrieves the authenticated principal from the context.
func GetPrincipal(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(contextKeyPrincipal{}).(Principal)
	return p, ok
}

// WithPrincipal injects a principal into a context. For service and handler
// tests that do not run the HTTP middleware chain.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKeyPrincipal{}, p)
}

// RequireAuth rejects requests without a valid bearer token before any
// handler code runs.
func RequireAuth(verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			const bearerPrefix = "Bearer "
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix)
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", request.GetRequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing or invalid Authorization header"))
				return
			}

			principal, err := verifier.VerifyToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", request.GetRequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(ctx, *principal)))
		})
	}
}
