package crm

import (
	"github.com/go-chi/chi/v5"

	"github.com/atrium-suite/atrium/internal/rbac"
	"github.com/atrium-suite/atrium/internal/shared"
)

// MountRoutes attaches the CRM API.
func (h *Handler) MountRoutes(r chi.Router, mw rbac.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAny(shared.PermProspectView))
		r.Get("/prospects", h.List)
		r.Get("/prospects/{id}", h.Get)
	})
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAll(shared.PermProspectCreate))
		r.Post("/prospects", h.Create)
	})
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAny(shared.PermProspectEdit, shared.PermProspectConvert))
		r.Post("/prospects/{id}/status", h.UpdateStatus)
	})
}
