package rbac

import (
	"github.com/go-chi/chi/v5"

	"github.com/atrium-suite/atrium/internal/shared"
)

// MountRoutes attaches the role-management API.
func (h *Handler) MountRoutes(r chi.Router, mw Middleware) {
	r.Get("/me/permissions", h.MyPermissions)

	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAny(shared.PermRolesView))
		r.Get("/roles/catalog", h.Catalog)
		r.Get("/roles/grants", h.ListGrants)
	})
	// Grant and revoke do their own gate checks inside the workflow; the
	// route guard here is the cheap first filter.
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAny(shared.PermRolesAssign))
		r.Post("/roles/grants", h.Grant)
	})
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAny(shared.PermRolesRevoke))
		r.Delete("/roles/grants/{id}", h.Revoke)
	})
}
