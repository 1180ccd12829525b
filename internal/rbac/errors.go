package rbac

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingBusinessID indicates a scope without a business identifier.
	ErrMissingBusinessID = errors.New("rbac: business id is required")
	// ErrDepartmentWithoutLocation indicates a department scope lacking its location.
	ErrDepartmentWithoutLocation = errors.New("rbac: department scope requires a location")
	// ErrUnknownRole indicates a role outside the closed catalog, or the
	// guest sentinel, which is never grantable.
	ErrUnknownRole = errors.New("rbac: unknown role")
	// ErrScopeShape is the base error for role/scope level mismatches.
	ErrScopeShape = errors.New("rbac: scope does not match role assignment level")
	// ErrScopeNotFound is the base error for scopes referencing missing entities.
	ErrScopeNotFound = errors.New("rbac: scope not found")
	// ErrDuplicateAssignment indicates an identical active assignment already exists.
	ErrDuplicateAssignment = errors.New("rbac: assignment already active for user, role and scope")
	// ErrAssignmentNotFound indicates the assignment does not exist.
	ErrAssignmentNotFound = errors.New("rbac: assignment not found")
	// ErrForbidden is the base error for authorization denials.
	ErrForbidden = errors.New("rbac: forbidden")
)

// ScopeShapeError reports that a scope's derived kind does not match the
// role's mandatory assignment level.
type ScopeShapeError struct {
	Role     Role
	Expected ScopeKind
	Got      ScopeKind
}

func (e *ScopeShapeError) Error() string {
	return fmt.Sprintf("rbac: role %q must be assigned at %s level, got %s scope", e.Role, e.Expected, e.Got)
}

// Is matches ErrScopeShape so callers can test the class without the fields.
func (e *ScopeShapeError) Is(target error) bool {
	return target == ErrScopeShape
}

// ScopeNotFoundError reports that a scope references a business, location or
// department that does not exist or is nested incorrectly.
type ScopeNotFoundError struct {
	Level ScopeKind
	Scope Scope
}

func (e *ScopeNotFoundError) Error() string {
	return fmt.Sprintf("rbac: %s not found in scope %s", e.Level, e.Scope)
}

// Is matches ErrScopeNotFound.
func (e *ScopeNotFoundError) Is(target error) bool {
	return target == ErrScopeNotFound
}

// InsufficientPermissionsError is returned by RequirePermission and the grant
// workflow gates. It carries enough context for audit logging and never
// includes secrets. HTTP adapters map it to a generic 403 without detail.
type InsufficientPermissionsError struct {
	UserID     string
	Permission string
	Role       Role
	Scope      *Scope
	Reason     string
}

func (e *InsufficientPermissionsError) Error() string {
	msg := fmt.Sprintf("rbac: user %s lacks", e.UserID)
	if e.Permission != "" {
		msg += fmt.Sprintf(" permission %q", e.Permission)
	}
	if e.Role != "" {
		msg += fmt.Sprintf(" authority over role %q", e.Role)
	}
	if e.Scope != nil {
		msg += " in scope " + e.Scope.String()
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// Is matches ErrForbidden.
func (e *InsufficientPermissionsError) Is(target error) bool {
	return target == ErrForbidden
}
