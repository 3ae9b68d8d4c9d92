// Package http assembles the HTTP surface: middleware chain, public identity
// routes, and the authenticated registration and gallery routes.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	galleryhandler "reunion/internal/gallery/handler"
	identityhandler "reunion/internal/identity/handler"
	platformmw "reunion/internal/platform/middleware"
	ratelimitmodels "reunion/internal/ratelimit/models"
	registrationhandler "reunion/internal/registration/handler"
	"reunion/pkg/platform/httputil"
	authmw "reunion/pkg/platform/middleware/auth"
	"reunion/pkg/platform/middleware/metadata"
	"reunion/pkg/platform/middleware/request"
)

// Limiter applies a rate limit policy per endpoint class.
type Limiter interface {
	Limit(class ratelimitmodels.EndpointClass) func(http.Handler) http.Handler
}

// Health reports readiness of a backing collaborator.
type Health func() error

// Deps carries everything the router needs. Gatherer may be nil to skip the
// metrics route; HealthChecks may be empty.
type Deps struct {
	Identity      *identityhandler.Handler
	Registrations *registrationhandler.Handler
	Gallery       *galleryhandler.Handler
	Verifier      authmw.TokenVerifier
	Limiter       Limiter
	Logger        *slog.Logger
	Gatherer      prometheus.Gatherer
	HealthChecks  map[string]Health
}

// NewRouter builds the chi router. The broad limit covers every route; the
// mutating limit stacks on top of it for state-changing endpoints.
func NewRouter(deps Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(platformmw.Recovery(deps.Logger))
	r.Use(request.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(platformmw.Logger(deps.Logger))
	r.Use(platformmw.Timeout(30 * time.Second))
	r.Use(deps.Limiter.Limit(ratelimitmodels.ClassBroad))

	r.Get("/healthz", handleHealth(deps.HealthChecks))
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.With(deps.Limiter.Limit(ratelimitmodels.ClassMutating)).
		Post("/signup", deps.Identity.HandleSignup)
	r.Post("/login", deps.Identity.HandleLogin)
	r.Get("/gallery", deps.Gallery.HandleList)

	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(deps.Verifier, deps.Logger))

		r.Get("/get-registration", deps.Registrations.HandleGetRegistration)

		r.Group(func(r chi.Router) {
			r.Use(deps.Limiter.Limit(ratelimitmodels.ClassMutating))
			r.Post("/register", deps.Registrations.HandleRegister)
			r.Post("/upload-file", deps.Gallery.HandleUpload)
		})
	})

	return r
}

func handleHealth(checks map[string]Health) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"status": "ok"}
		code := http.StatusOK
		for name, check := range checks {
			if err := check(); err != nil {
				status[name] = err.Error()
				status["status"] = "degraded"
				code = http.StatusServiceUnavailable
			}
		}
		httputil.WriteJSON(w, code, status)
	}
}
