package rbac

import "strings"

// Scope identifies where a role assignment applies: a business, one of its
// locations, or a department inside a location.
type Scope struct {
	BusinessID   string
	LocationID   *string
	DepartmentID *string
}

// BusinessScope builds a business-wide scope.
func BusinessScope(businessID string) Scope {
	return Scope{BusinessID: businessID}
}

// LocationScope builds a location-wide scope.
func LocationScope(businessID, locationID string) Scope {
	return Scope{BusinessID: businessID, LocationID: &locationID}
}

// DepartmentScope builds a department-wide scope.
func DepartmentScope(businessID, locationID, departmentID string) Scope {
	return Scope{BusinessID: businessID, LocationID: &locationID, DepartmentID: &departmentID}
}

// Kind derives the scope level from which optional fields are populated.
func (s Scope) Kind() ScopeKind {
	switch {
	case s.DepartmentID != nil:
		return ScopeDepartment
	case s.LocationID != nil:
		return ScopeLocation
	default:
		return ScopeBusiness
	}
}

// Validate checks the structural invariants of the scope shape.
func (s Scope) Validate() error {
	if strings.TrimSpace(s.BusinessID) == "" {
		return ErrMissingBusinessID
	}
	if s.DepartmentID != nil && s.LocationID == nil {
		return ErrDepartmentWithoutLocation
	}
	return nil
}

// Equal reports exact field-by-field equality. A department scope is never
// equal to its enclosing location scope.
func (s Scope) Equal(other Scope) bool {
	return s.BusinessID == other.BusinessID &&
		equalPtr(s.LocationID, other.LocationID) &&
		equalPtr(s.DepartmentID, other.DepartmentID)
}

// Covers reports whether this scope contains the query scope: a business-wide
// scope covers every location and department under the business, a
// location-wide scope covers its departments. Used for scoped permission
// queries, not for assignment validity (see Assignment.ValidInScope).
func (s Scope) Covers(q Scope) bool {
	if s.BusinessID != q.BusinessID {
		return false
	}
	if s.LocationID != nil {
		if q.LocationID == nil || *s.LocationID != *q.LocationID {
			return false
		}
	}
	if s.DepartmentID != nil {
		if q.DepartmentID == nil || *s.DepartmentID != *q.DepartmentID {
			return false
		}
	}
	return true
}

// String renders the scope for logs as business/location/department.
func (s Scope) String() string {
	loc, dept := "-", "-"
	if s.LocationID != nil {
		loc = *s.LocationID
	}
	if s.DepartmentID != nil {
		dept = *s.DepartmentID
	}
	return s.BusinessID + "/" + loc + "/" + dept
}

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
