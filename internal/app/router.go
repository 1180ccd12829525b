package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/atrium-suite/atrium/internal/crm"
	"github.com/atrium-suite/atrium/internal/directory"
	"github.com/atrium-suite/atrium/internal/observability"
	"github.com/atrium-suite/atrium/internal/rbac"
	"github.com/atrium-suite/atrium/internal/scheduling"
	"github.com/atrium-suite/atrium/internal/shared"
	"github.com/atrium-suite/atrium/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	Sessions          *shared.SessionStore
	RBACMiddleware    rbac.Middleware
	RBACHandler       *rbac.Handler
	DirectoryHandler  *directory.Handler
	SchedulingHandler *scheduling.Handler
	CRMHandler        *crm.Handler
	JobHandler        *jobs.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router with Atrium defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:   params.Logger,
		Config:   params.Config,
		Sessions: params.Sessions,
		Metrics:  params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		if params.RBACHandler != nil {
			params.RBACHandler.MountRoutes(r, params.RBACMiddleware)
		}
		if params.DirectoryHandler != nil {
			params.DirectoryHandler.MountRoutes(r, params.RBACMiddleware)
		}
		if params.SchedulingHandler != nil {
			params.SchedulingHandler.MountRoutes(r, params.RBACMiddleware)
		}
		if params.CRMHandler != nil {
			params.CRMHandler.MountRoutes(r, params.RBACMiddleware)
		}
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
