package rbac

import (
	"sort"

	"github.com/atrium-suite/atrium/internal/shared"
)

// Role identifies one of the closed set of platform roles.
type Role string

const (
	RolePlatformAdmin   Role = "platform_admin"
	RoleBusinessOwner   Role = "business_owner"
	RoleBusinessAdmin   Role = "business_admin"
	RoleLocationManager Role = "location_manager"
	RoleDepartmentHead  Role = "department_head"
	RolePractitioner    Role = "practitioner"
	RoleReceptionist    Role = "receptionist"

	// RoleGuest is the sentinel returned for users without any active assignment.
	RoleGuest Role = "guest"
)

// ScopeKind describes the level a role must be assigned at.
type ScopeKind string

const (
	ScopeBusiness   ScopeKind = "business"
	ScopeLocation   ScopeKind = "location"
	ScopeDepartment ScopeKind = "department"
)

// PermissionSet is an unordered set of permission identifiers.
type PermissionSet map[string]struct{}

// NewPermissionSet builds a set from permission names.
func NewPermissionSet(perms ...string) PermissionSet {
	set := make(PermissionSet, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// Has reports whether the permission is in the set.
func (s PermissionSet) Has(perm string) bool {
	_, ok := s[perm]
	return ok
}

// Union merges other into a copy of s.
func (s PermissionSet) Union(other PermissionSet) PermissionSet {
	merged := make(PermissionSet, len(s)+len(other))
	for p := range s {
		merged[p] = struct{}{}
	}
	for p := range other {
		merged[p] = struct{}{}
	}
	return merged
}

// Values returns the permissions sorted for stable output.
func (s PermissionSet) Values() []string {
	values := make([]string, 0, len(s))
	for p := range s {
		values = append(values, p)
	}
	sort.Strings(values)
	return values
}

type catalogEntry struct {
	level        int
	scope        ScopeKind
	permissions  PermissionSet
	unrestricted bool
}

// Catalog is the static role table: hierarchy level, mandatory assignment
// scope, and base permission set per role. It is immutable after construction
// and safe for concurrent reads.
type Catalog struct {
	entries map[Role]catalogEntry
}

// DefaultCatalog returns the production role table.
func DefaultCatalog() Catalog {
	everything := NewPermissionSet(shared.CoreScopes()...).
		Union(NewPermissionSet(shared.DirectoryScopes()...)).
		Union(NewPermissionSet(shared.SchedulingScopes()...)).
		Union(NewPermissionSet(shared.CRMScopes()...))

	return Catalog{entries: map[Role]catalogEntry{
		RolePlatformAdmin: {
			level:        100,
			scope:        ScopeBusiness,
			permissions:  everything,
			unrestricted: true,
		},
		RoleBusinessOwner: {
			level:       90,
			scope:       ScopeBusiness,
			permissions: everything,
		},
		RoleBusinessAdmin: {
			level: 80,
			scope: ScopeBusiness,
			permissions: NewPermissionSet(shared.CoreScopes()...).
				Union(NewPermissionSet(shared.DirectoryScopes()...)).
				Union(NewPermissionSet(shared.SchedulingScopes()...)).
				Union(NewPermissionSet(shared.CRMScopes()...)),
		},
		RoleLocationManager: {
			level: 60,
			scope: ScopeLocation,
			permissions: NewPermissionSet(
				shared.PermRolesView,
				shared.PermUsersView,
				shared.PermLocationView,
				shared.PermDepartmentView,
				shared.PermDepartmentCreate,
				shared.PermDepartmentEdit,
				shared.PermServiceCatalogView,
				shared.PermServiceCatalogEdit,
				shared.PermStaffView,
				shared.PermStaffEdit,
			).Union(NewPermissionSet(shared.SchedulingScopes()...)).
				Union(NewPermissionSet(shared.CRMScopes()...)),
		},
		RoleDepartmentHead: {
			level: 50,
			scope: ScopeDepartment,
			permissions: NewPermissionSet(
				shared.PermDepartmentView,
				shared.PermServiceCatalogView,
				shared.PermStaffView,
				shared.PermAppointmentView,
				shared.PermAppointmentCreate,
				shared.PermAppointmentEdit,
				shared.PermAppointmentConfirm,
				shared.PermAppointmentComplete,
				shared.PermAppointmentCancel,
				shared.PermProspectView,
			),
		},
		RolePractitioner: {
			level: 30,
			scope: ScopeDepartment,
			permissions: NewPermissionSet(
				shared.PermAppointmentView,
				shared.PermAppointmentEdit,
				shared.PermAppointmentComplete,
				shared.PermServiceCatalogView,
			),
		},
		RoleReceptionist: {
			level: 20,
			scope: ScopeLocation,
			permissions: NewPermissionSet(
				shared.PermAppointmentView,
				shared.PermAppointmentCreate,
				shared.PermAppointmentConfirm,
				shared.PermAppointmentCancel,
				shared.PermProspectView,
				shared.PermProspectCreate,
			),
		},
		RoleGuest: {
			level:       0,
			scope:       ScopeBusiness,
			permissions: NewPermissionSet(),
		},
	}}
}

// Known reports whether the role has a catalog entry.
func (c Catalog) Known(role Role) bool {
	_, ok := c.entries[role]
	return ok
}

// LevelOf returns the hierarchy level for a role. Unknown roles return 0 so
// comparisons stay total.
func (c Catalog) LevelOf(role Role) int {
	entry, ok := c.entries[role]
	if !ok {
		return 0
	}
	return entry.level
}

// RequiredScopeOf returns the scope level a role must be assigned at.
func (c Catalog) RequiredScopeOf(role Role) ScopeKind {
	entry, ok := c.entries[role]
	if !ok {
		return ScopeBusiness
	}
	return entry.scope
}

// BasePermissionsOf returns a copy of the role's base permission set.
func (c Catalog) BasePermissionsOf(role Role) PermissionSet {
	entry, ok := c.entries[role]
	if !ok {
		return NewPermissionSet()
	}
	return entry.permissions.Union(nil)
}

// IsUnrestricted reports whether the role bypasses scope and hierarchy checks.
func (c Catalog) IsUnrestricted(role Role) bool {
	entry, ok := c.entries[role]
	return ok && entry.unrestricted
}

// Roles lists catalog roles ordered by descending hierarchy level.
func (c Catalog) Roles() []Role {
	roles := make([]Role, 0, len(c.entries))
	for role := range c.entries {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool {
		li, lj := c.entries[roles[i]].level, c.entries[roles[j]].level
		if li != lj {
			return li > lj
		}
		return roles[i] < roles[j]
	})
	return roles
}
