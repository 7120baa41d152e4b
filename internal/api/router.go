package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/AlyonaCIA/AI-diagnostic/internal/api/middleware"
	"github.com/AlyonaCIA/AI-diagnostic/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	Auth *mw.Auth

	HealthHandler         http.HandlerFunc
	DetailedHealthHandler http.HandlerFunc
	DiagnoseHandler       http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	// Public health checks
	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))
	r.Get("/api/v1/health/detailed", orNotImplemented(deps.DetailedHealthHandler))

	// Protected routes
	r.Group(func(r chi.Router) {
		if deps.Auth != nil {
			r.Use(deps.Auth.Authenticate)
		}

		r.Post("/api/v1/diagnose", orNotImplemented(deps.DiagnoseHandler))
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
