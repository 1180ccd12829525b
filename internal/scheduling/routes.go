package scheduling

import (
	"github.com/go-chi/chi/v5"

	"github.com/atrium-suite/atrium/internal/rbac"
	"github.com/atrium-suite/atrium/internal/shared"
)

// MountRoutes attaches the scheduling API. Route guards only assert the
// permission exists somewhere for the user; the service repeats the check
// against the appointment's concrete location scope.
func (h *Handler) MountRoutes(r chi.Router, mw rbac.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAny(shared.PermAppointmentView))
		r.Get("/appointments", h.List)
		r.Get("/appointments/{id}", h.Get)
	})
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAll(shared.PermAppointmentCreate))
		r.Post("/appointments", h.Book)
	})
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAny(
			shared.PermAppointmentConfirm,
			shared.PermAppointmentComplete,
			shared.PermAppointmentCancel,
		))
		r.Post("/appointments/{id}/status", h.Transition)
	})
}
