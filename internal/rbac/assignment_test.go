package rbac

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func mustAssignment(t *testing.T, catalog Catalog, params NewAssignmentParams) *Assignment {
	t.Helper()
	assignment, err := NewAssignment(catalog, params)
	if err != nil {
		t.Fatalf("NewAssignment: %v", err)
	}
	return assignment
}

func TestNewAssignmentEnforcesScopeShape(t *testing.T) {
	catalog := DefaultCatalog()

	cases := []struct {
		name  string
		role  Role
		scope Scope
		ok    bool
	}{
		{"location role at location scope", RoleLocationManager, LocationScope("b1", "l1"), true},
		{"location role at business scope", RoleLocationManager, BusinessScope("b1"), false},
		{"location role at department scope", RoleLocationManager, DepartmentScope("b1", "l1", "d1"), false},
		{"business role at business scope", RoleBusinessAdmin, BusinessScope("b1"), true},
		{"business role at location scope", RoleBusinessAdmin, LocationScope("b1", "l1"), false},
		{"department role at department scope", RoleDepartmentHead, DepartmentScope("b1", "l1", "d1"), true},
		{"department role at location scope", RoleDepartmentHead, LocationScope("b1", "l1"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewAssignment(catalog, NewAssignmentParams{
				UserID:     "u1",
				Role:       tc.role,
				Scope:      tc.scope,
				AssignedBy: "admin",
			})
			if tc.ok && err != nil {
				t.Fatalf("expected success, got %v", err)
			}
			if !tc.ok && !errors.Is(err, ErrScopeShape) {
				t.Fatalf("expected scope shape error, got %v", err)
			}
		})
	}
}

func TestNewAssignmentScopeShapeMessageNamesRoleAndLevel(t *testing.T) {
	catalog := DefaultCatalog()
	_, err := NewAssignment(catalog, NewAssignmentParams{
		UserID:     "u1",
		Role:       RoleDepartmentHead,
		Scope:      LocationScope("b1", "l1"),
		AssignedBy: "admin",
	})
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, string(RoleDepartmentHead)) {
		t.Fatalf("message %q does not name the role", msg)
	}
	if !strings.Contains(msg, "department level") {
		t.Fatalf("message %q does not name the expected level", msg)
	}
}

func TestNewAssignmentStructuralErrors(t *testing.T) {
	catalog := DefaultCatalog()

	_, err := NewAssignment(catalog, NewAssignmentParams{
		UserID:     "u1",
		Role:       RoleBusinessAdmin,
		Scope:      BusinessScope(""),
		AssignedBy: "admin",
	})
	if !errors.Is(err, ErrMissingBusinessID) {
		t.Fatalf("expected missing business id, got %v", err)
	}

	_, err = NewAssignment(catalog, NewAssignmentParams{
		UserID:     "u1",
		Role:       RoleDepartmentHead,
		Scope:      Scope{BusinessID: "b1", DepartmentID: strptr("d1")},
		AssignedBy: "admin",
	})
	if !errors.Is(err, ErrDepartmentWithoutLocation) {
		t.Fatalf("expected department-without-location, got %v", err)
	}
}

func TestNewAssignmentRejectsUnknownAndGuestRoles(t *testing.T) {
	catalog := DefaultCatalog()

	for _, role := range []Role{"superhero", RoleGuest} {
		_, err := NewAssignment(catalog, NewAssignmentParams{
			UserID:     "u1",
			Role:       role,
			Scope:      BusinessScope("b1"),
			AssignedBy: "admin",
		})
		if !errors.Is(err, ErrUnknownRole) {
			t.Fatalf("role %q: expected ErrUnknownRole, got %v", role, err)
		}
	}
}

func TestEffectivePermissions(t *testing.T) {
	catalog := DefaultCatalog()
	now := time.Now().UTC()

	assignment := mustAssignment(t, catalog, NewAssignmentParams{
		UserID:     "u1",
		Role:       RoleReceptionist,
		Scope:      LocationScope("b1", "l1"),
		AssignedBy: "admin",
	})

	perms := assignment.EffectivePermissions(catalog, now)
	if len(perms) == 0 {
		t.Fatal("active assignment must expose base permissions")
	}
	if got, want := len(perms), len(catalog.BasePermissionsOf(RoleReceptionist)); got != want {
		t.Fatalf("effective permission count = %d, want %d", got, want)
	}

	// Idempotent: repeated calls return the same set.
	again := assignment.EffectivePermissions(catalog, now)
	if len(again) != len(perms) {
		t.Fatal("repeated calls must return the same set")
	}

	assignment.Deactivate()
	if got := assignment.EffectivePermissions(catalog, now); len(got) != 0 {
		t.Fatalf("deactivated assignment permissions = %v, want empty", got.Values())
	}
}

func TestExpiredAssignmentHasNoPermissionsWithoutDeactivate(t *testing.T) {
	catalog := DefaultCatalog()
	now := time.Now().UTC()
	yesterday := now.Add(-24 * time.Hour)

	assignment := mustAssignment(t, catalog, NewAssignmentParams{
		UserID:     "u1",
		Role:       RoleReceptionist,
		Scope:      LocationScope("b1", "l1"),
		AssignedBy: "admin",
		ExpiresAt:  &yesterday,
	})

	if !assignment.IsExpired(now) {
		t.Fatal("assignment past its expiry must report expired")
	}
	if !assignment.Active {
		t.Fatal("expiry must not flip the active flag")
	}
	if got := assignment.EffectivePermissions(catalog, now); len(got) != 0 {
		t.Fatalf("expired assignment permissions = %v, want empty", got.Values())
	}
}

func TestIsExpiredUnsetExpiryNeverExpires(t *testing.T) {
	catalog := DefaultCatalog()
	assignment := mustAssignment(t, catalog, NewAssignmentParams{
		UserID:     "u1",
		Role:       RoleBusinessAdmin,
		Scope:      BusinessScope("b1"),
		AssignedBy: "admin",
	})
	farFuture := time.Now().UTC().Add(100 * 365 * 24 * time.Hour)
	if assignment.IsExpired(farFuture) {
		t.Fatal("assignment without expiry must never expire")
	}
}

func TestValidInScopeRequiresExactEquality(t *testing.T) {
	catalog := DefaultCatalog()
	assignment := mustAssignment(t, catalog, NewAssignmentParams{
		UserID:     "u1",
		Role:       RoleDepartmentHead,
		Scope:      DepartmentScope("b1", "l1", "d1"),
		AssignedBy: "admin",
	})

	if !assignment.ValidInScope(DepartmentScope("b1", "l1", "d1")) {
		t.Fatal("assignment must validate for its own scope")
	}
	if assignment.ValidInScope(LocationScope("b1", "l1")) {
		t.Fatal("department assignment must not validate for its enclosing location scope")
	}
	if assignment.ValidInScope(BusinessScope("b1")) {
		t.Fatal("department assignment must not validate for the business scope")
	}
}

func TestDeactivateIsIdempotent(t *testing.T) {
	catalog := DefaultCatalog()
	assignment := mustAssignment(t, catalog, NewAssignmentParams{
		UserID:     "u1",
		Role:       RoleBusinessAdmin,
		Scope:      BusinessScope("b1"),
		AssignedBy: "admin",
	})

	assignment.Deactivate()
	assignment.Deactivate()
	if assignment.Active {
		t.Fatal("deactivate must stick")
	}
}

func TestNewAssignmentTrimsNotes(t *testing.T) {
	catalog := DefaultCatalog()
	notes := "  temporary cover for maternity leave  "
	assignment := mustAssignment(t, catalog, NewAssignmentParams{
		UserID:     "u1",
		Role:       RoleBusinessAdmin,
		Scope:      BusinessScope("b1"),
		AssignedBy: "admin",
		Notes:      &notes,
	})
	if assignment.Notes == nil || *assignment.Notes != "temporary cover for maternity leave" {
		t.Fatalf("notes = %v", assignment.Notes)
	}

	blank := "   "
	assignment = mustAssignment(t, catalog, NewAssignmentParams{
		UserID:     "u1",
		Role:       RoleBusinessAdmin,
		Scope:      BusinessScope("b1"),
		AssignedBy: "admin",
		Notes:      &blank,
	})
	if assignment.Notes != nil {
		t.Fatalf("blank notes should be dropped, got %q", *assignment.Notes)
	}
}
