// Package httpapi assembles the HTTP surface: module handlers, auth
// middleware and operational endpoints.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhandler "smarttalent/internal/auth/handler"
	authmodels "smarttalent/internal/auth/models"
	entityhandler "smarttalent/internal/entity/handler"
	intakehandler "smarttalent/internal/intake/handler"
	"smarttalent/internal/platform/middleware"
	platformredis "smarttalent/internal/platform/redis"
	recruitmenthandler "smarttalent/internal/recruitment/handler"
	taxonomyhandler "smarttalent/internal/taxonomy/handler"
	uploadhandler "smarttalent/internal/upload/handler"
	"smarttalent/pkg/platform/httputil"
)

// Deps carries everything the router mounts.
type Deps struct {
	Logger         *slog.Logger
	TokenValidator middleware.TokenValidator
	Redis          *platformredis.Client

	Auth        *authhandler.Handler
	Entities    *entityhandler.Handler
	Intake      *intakehandler.Handler
	Taxonomy    *taxonomyhandler.Handler
	Recruitment *recruitmenthandler.Handler
	Upload      *uploadhandler.Handler
}

// NewRouter wires all endpoints. Public routes cover authentication and
// operational probes; everything else requires a valid token, and processing
// routes additionally require a staff role.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	// Credential endpoints are the brute-force surface; cap them per IP.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(deps.Redis, 20, time.Minute, deps.Logger))
		deps.Auth.RegisterPublic(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(deps.TokenValidator, deps.Logger))

		deps.Auth.RegisterProtected(r)
		deps.Taxonomy.Register(r)
		deps.Entities.Register(r)
		deps.Intake.Register(r)
		deps.Recruitment.Register(r)
		if deps.Upload != nil {
			deps.Upload.Register(r)
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(deps.Logger, authmodels.RoleRecruiter, authmodels.RoleAdmin))
			deps.Intake.RegisterStaff(r)
			deps.Recruitment.RegisterStaff(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(deps.Logger, authmodels.RoleAdmin))
			deps.Entities.RegisterAdmin(r)
		})
	})

	return r
}
