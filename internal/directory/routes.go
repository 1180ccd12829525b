package directory

import (
	"github.com/go-chi/chi/v5"

	"github.com/atrium-suite/atrium/internal/rbac"
	"github.com/atrium-suite/atrium/internal/shared"
)

// MountRoutes attaches the directory API.
func (h *Handler) MountRoutes(r chi.Router, mw rbac.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAny(shared.PermBusinessView))
		r.Get("/businesses/{id}", h.GetBusiness)
		r.Get("/businesses/{id}/locations", h.ListLocations)
		r.Get("/locations/{id}/departments", h.ListDepartments)
	})
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAll(shared.PermBusinessEdit))
		r.Post("/businesses", h.CreateBusiness)
	})
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAll(shared.PermLocationCreate))
		r.Post("/locations", h.CreateLocation)
	})
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAll(shared.PermDepartmentCreate))
		r.Post("/departments", h.CreateDepartment)
	})
}
