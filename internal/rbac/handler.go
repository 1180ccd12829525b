package rbac

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/atrium-suite/atrium/internal/platform/httpx"
	"github.com/atrium-suite/atrium/internal/shared"
)

// Handler exposes the role-management API.
type Handler struct {
	logger   *slog.Logger
	granter  *Granter
	engine   *Engine
	store    Store
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, granter *Granter, engine *Engine, store Store) *Handler {
	return &Handler{
		logger:   logger,
		granter:  granter,
		engine:   engine,
		store:    store,
		validate: validator.New(),
	}
}

// Grant handles POST /api/roles/grants.
func (h *Handler) Grant(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}

	var req grantRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	result, err := h.granter.GrantRole(r.Context(), GrantRoleRequest{
		AssignedBy: principal.UserID,
		UserID:     req.UserID,
		Role:       Role(req.Role),
		Scope: Scope{
			BusinessID:   req.BusinessID,
			LocationID:   req.LocationID,
			DepartmentID: req.DepartmentID,
		},
		ExpiresAt: req.ExpiresAt,
		Notes:     req.Notes,
	})
	if err != nil {
		h.respondGrantError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, toAssignmentResponse(result.Assignment))
}

// Revoke handles DELETE /api/roles/grants/{id}.
func (h *Handler) Revoke(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}

	err := h.granter.RevokeRole(r.Context(), RevokeRoleRequest{
		RevokedBy:    principal.UserID,
		AssignmentID: chi.URLParam(r, "id"),
	})
	if err != nil {
		h.respondGrantError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListGrants handles GET /api/roles/grants?user_id=.
func (h *Handler) ListGrants(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "user_id query parameter is required")
		return
	}

	assignments, err := h.store.ListByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("list assignments failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	responses := make([]assignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		responses = append(responses, toAssignmentResponse(a))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"grants": responses})
}

// MyPermissions handles GET /api/me/permissions: the coarse capability
// listing for the current principal.
func (h *Handler) MyPermissions(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}

	perms := h.engine.Resolver().UserPermissions(r.Context(), principal.UserID)
	role := h.engine.Resolver().UserRole(r.Context(), principal.UserID)
	httpx.JSON(w, http.StatusOK, map[string]any{
		"role":        string(role),
		"permissions": perms.Values(),
	})
}

// Catalog handles GET /api/roles/catalog.
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	catalog := h.engine.Resolver().Catalog()
	roles := make([]catalogRoleResponse, 0)
	for _, role := range catalog.Roles() {
		roles = append(roles, catalogRoleResponse{
			Role:          string(role),
			Level:         catalog.LevelOf(role),
			RequiredScope: string(catalog.RequiredScopeOf(role)),
			Unrestricted:  catalog.IsUnrestricted(role),
			Permissions:   catalog.BasePermissionsOf(role).Values(),
		})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"roles": roles})
}

func (h *Handler) respondGrantError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrForbidden):
		// Denials log with full context but render without it.
		h.logger.Warn("rbac denial", slog.String("error", err.Error()))
		httpx.RespondError(w, httpx.ErrForbidden)
	case errors.Is(err, ErrScopeNotFound), errors.Is(err, ErrAssignmentNotFound):
		httpx.RespondError(w, httpx.ErrNotFound)
	case errors.Is(err, ErrDuplicateAssignment):
		httpx.RespondError(w, httpx.ErrDuplicate)
	case errors.Is(err, ErrScopeShape),
		errors.Is(err, ErrUnknownRole),
		errors.Is(err, ErrMissingBusinessID),
		errors.Is(err, ErrDepartmentWithoutLocation):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error("role management failed", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
