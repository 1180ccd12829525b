package rbac

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Assignment binds one user to one role inside one concrete scope. It is the
// aggregate root of the RBAC core: all structural invariants are enforced at
// construction and the only mutation afterwards is Deactivate.
type Assignment struct {
	ID         string
	UserID     string
	Role       Role
	Scope      Scope
	AssignedBy string
	AssignedAt time.Time
	ExpiresAt  *time.Time
	Notes      *string
	Active     bool
}

// NewAssignmentParams carries the inputs for NewAssignment.
type NewAssignmentParams struct {
	UserID     string
	Role       Role
	Scope      Scope
	AssignedBy string
	ExpiresAt  *time.Time
	Notes      *string
}

// NewAssignment validates the scope shape against the catalog and constructs
// an active assignment. It performs no I/O; persistence is the caller's
// responsibility.
func NewAssignment(catalog Catalog, params NewAssignmentParams) (*Assignment, error) {
	if !catalog.Known(params.Role) || params.Role == RoleGuest {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, params.Role)
	}
	if err := params.Scope.Validate(); err != nil {
		return nil, err
	}
	if kind, required := params.Scope.Kind(), catalog.RequiredScopeOf(params.Role); kind != required {
		return nil, &ScopeShapeError{Role: params.Role, Expected: required, Got: kind}
	}

	var notes *string
	if params.Notes != nil {
		trimmed := strings.TrimSpace(*params.Notes)
		if trimmed != "" {
			notes = &trimmed
		}
	}

	return &Assignment{
		ID:         uuid.NewString(),
		UserID:     params.UserID,
		Role:       params.Role,
		Scope:      params.Scope,
		AssignedBy: params.AssignedBy,
		AssignedAt: time.Now().UTC(),
		ExpiresAt:  params.ExpiresAt,
		Notes:      notes,
		Active:     true,
	}, nil
}

// IsExpired reports whether the assignment's validity window has passed.
// Assignments without an expiry never expire.
func (a *Assignment) IsExpired(now time.Time) bool {
	return a.ExpiresAt != nil && a.ExpiresAt.Before(now)
}

// EffectivePermissions returns the permission set usable through this
// assignment right now: empty when inactive or expired, otherwise the
// catalog's base set for the role.
func (a *Assignment) EffectivePermissions(catalog Catalog, now time.Time) PermissionSet {
	if !a.Active || a.IsExpired(now) {
		return NewPermissionSet()
	}
	return catalog.BasePermissionsOf(a.Role)
}

// ValidInScope reports whether the assignment applies to the candidate scope.
// This is exact equality: a location assignment does not validate for a
// department nested under it. Hierarchical coverage is the resolver's
// composition, not the aggregate's.
func (a *Assignment) ValidInScope(candidate Scope) bool {
	return a.Scope.Equal(candidate)
}

// Deactivate turns the assignment off. Idempotent and one-way; there is no
// reactivation path on the aggregate itself.
func (a *Assignment) Deactivate() {
	a.Active = false
}
