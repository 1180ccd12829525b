package rbac

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/atrium-suite/atrium/testing"
)

// fakeStore is an in-memory Store used across the resolver, policy and
// granter tests.
type fakeStore struct {
	assignments map[string]*Assignment

	// Error injection
	findActiveErr error
	saveErr       error
}

func newFakeStore() *fakeStore {
	return &fakeStore{assignments: make(map[string]*Assignment)}
}

func (f *fakeStore) add(a *Assignment) *Assignment {
	f.assignments[a.ID] = a
	return a
}

func (f *fakeStore) FindByID(ctx context.Context, id string) (*Assignment, error) {
	a, ok := f.assignments[id]
	if !ok {
		return nil, ErrAssignmentNotFound
	}
	copied := *a
	return &copied, nil
}

func (f *fakeStore) FindActiveByUser(ctx context.Context, userID string) ([]Assignment, error) {
	if f.findActiveErr != nil {
		return nil, f.findActiveErr
	}
	var result []Assignment
	for _, a := range f.assignments {
		if a.UserID == userID && a.Active {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (f *fakeStore) FindActiveByUserRoleScope(ctx context.Context, userID string, role Role, scope Scope) (*Assignment, error) {
	for _, a := range f.assignments {
		if a.UserID == userID && a.Role == role && a.Scope.Equal(scope) && a.Active {
			copied := *a
			return &copied, nil
		}
	}
	return nil, ErrAssignmentNotFound
}

func (f *fakeStore) ListByUser(ctx context.Context, userID string) ([]Assignment, error) {
	var result []Assignment
	for _, a := range f.assignments {
		if a.UserID == userID {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (f *fakeStore) Save(ctx context.Context, assignment *Assignment) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	for _, a := range f.assignments {
		if a.UserID == assignment.UserID && a.Role == assignment.Role && a.Scope.Equal(assignment.Scope) && a.Active {
			return ErrDuplicateAssignment
		}
	}
	copied := *assignment
	f.assignments[assignment.ID] = &copied
	return nil
}

func (f *fakeStore) Deactivate(ctx context.Context, id string) error {
	a, ok := f.assignments[id]
	if !ok {
		return ErrAssignmentNotFound
	}
	a.Active = false
	return nil
}

func (f *fakeStore) Reactivate(ctx context.Context, id string) error {
	a, ok := f.assignments[id]
	if !ok {
		return ErrAssignmentNotFound
	}
	a.Active = true
	return nil
}

func (f *fakeStore) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	for _, a := range f.assignments {
		if a.Active && a.IsExpired(now) {
			a.Active = false
			count++
		}
	}
	return count, nil
}

var _ Store = (*fakeStore)(nil)

func grant(t *testing.T, store *fakeStore, userID string, role Role, scope Scope) *Assignment {
	t.Helper()
	assignment, err := NewAssignment(DefaultCatalog(), NewAssignmentParams{
		UserID:     userID,
		Role:       role,
		Scope:      scope,
		AssignedBy: "seed",
	})
	require.NoError(t, err)
	return store.add(assignment)
}

func newResolver(store Store, opts ...ResolverOption) *Resolver {
	return NewResolver(store, DefaultCatalog(), nil, opts...)
}

func TestHasPermissionUnknownUser(t *testing.T) {
	resolver := newResolver(newFakeStore())
	assert.False(t, resolver.HasPermission(context.Background(), "nobody", "scheduling.appointment.view", nil))
}

func TestHasPermissionFailsClosedOnStoreError(t *testing.T) {
	store := newFakeStore()
	store.findActiveErr = errors.New("connection refused")
	resolver := newResolver(store)

	assert.False(t, resolver.HasPermission(context.Background(), "u1", "scheduling.appointment.view", nil))
	assert.Empty(t, resolver.UserPermissions(context.Background(), "u1").Values())
	assert.Equal(t, RoleGuest, resolver.UserRole(context.Background(), "u1"))
}

func TestHasPermissionUnionsActiveAssignments(t *testing.T) {
	store := newFakeStore()
	grant(t, store, "u1", RoleReceptionist, LocationScope("b1", "l1"))
	resolver := newResolver(store)

	assert.True(t, resolver.HasPermission(context.Background(), "u1", "scheduling.appointment.create", nil))
	assert.False(t, resolver.HasPermission(context.Background(), "u1", "roles.assign", nil))
}

func TestHasBusinessPermissionScopeCoverage(t *testing.T) {
	store := newFakeStore()
	// Business-wide admin covers any nested scope; receptionist at l1 does not cover l2.
	grant(t, store, "admin", RoleBusinessAdmin, BusinessScope("b1"))
	grant(t, store, "rec", RoleReceptionist, LocationScope("b1", "l1"))
	resolver := newResolver(store)
	ctx := context.Background()

	assert.True(t, resolver.HasBusinessPermission(ctx, "admin", "scheduling.appointment.view", DepartmentScope("b1", "l1", "d1")))
	assert.True(t, resolver.HasBusinessPermission(ctx, "rec", "scheduling.appointment.view", LocationScope("b1", "l1")))
	assert.True(t, resolver.HasBusinessPermission(ctx, "rec", "scheduling.appointment.view", DepartmentScope("b1", "l1", "d1")))
	assert.False(t, resolver.HasBusinessPermission(ctx, "rec", "scheduling.appointment.view", LocationScope("b1", "l2")))
	assert.False(t, resolver.HasBusinessPermission(ctx, "admin", "scheduling.appointment.view", BusinessScope("b2")))
}

func TestUnrestrictedRoleBypassesScopeCoverage(t *testing.T) {
	store := newFakeStore()
	grant(t, store, "root", RolePlatformAdmin, BusinessScope("platform"))
	resolver := newResolver(store)
	ctx := context.Background()

	assert.True(t, resolver.HasBusinessPermission(ctx, "root", "scheduling.appointment.view", BusinessScope("b77")))
	assert.True(t, resolver.HasBusinessPermission(ctx, "root", "roles.assign", DepartmentScope("b77", "l1", "d1")))

	scope := BusinessScope("b77")
	assert.Equal(t, RolePlatformAdmin, resolver.UserRoleInScope(ctx, "root", &scope))
}

func TestExpiredAssignmentsResolveToNothing(t *testing.T) {
	store := newFakeStore()
	assignment := grant(t, store, "u1", RoleReceptionist, LocationScope("b1", "l1"))
	yesterday := time.Now().UTC().Add(-24 * time.Hour)
	assignment.ExpiresAt = &yesterday
	resolver := newResolver(store)

	assert.False(t, resolver.HasPermission(context.Background(), "u1", "scheduling.appointment.view", nil))
	assert.Equal(t, RoleGuest, resolver.UserRole(context.Background(), "u1"))
}

func TestUserRolePicksHighestLevel(t *testing.T) {
	store := newFakeStore()
	grant(t, store, "u1", RolePractitioner, DepartmentScope("b1", "l1", "d1"))
	grant(t, store, "u1", RoleLocationManager, LocationScope("b1", "l1"))
	resolver := newResolver(store)

	assert.Equal(t, RoleLocationManager, resolver.UserRole(context.Background(), "u1"))
}

func TestUserRoleInScopeFiltersByCoverage(t *testing.T) {
	store := newFakeStore()
	grant(t, store, "u1", RoleLocationManager, LocationScope("b1", "l1"))
	grant(t, store, "u1", RolePractitioner, DepartmentScope("b1", "l2", "d9"))
	resolver := newResolver(store)

	scope := DepartmentScope("b1", "l2", "d9")
	assert.Equal(t, RolePractitioner, resolver.UserRoleInScope(context.Background(), "u1", &scope))
}

type staticExtras struct {
	perms PermissionSet
	err   error
}

func (s staticExtras) ExtraPermissionsForBusiness(ctx context.Context, businessID string) (PermissionSet, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.perms, nil
}

func TestBusinessTypeExtrasExtendEffectivePermissions(t *testing.T) {
	store := newFakeStore()
	grant(t, store, "u1", RolePractitioner, DepartmentScope("b1", "l1", "d1"))
	resolver := newResolver(store, WithExtraPermissions(staticExtras{perms: NewPermissionSet("scheduling.intake.view")}))

	assert.True(t, resolver.HasPermission(context.Background(), "u1", "scheduling.intake.view", nil))
}

func TestBrokenExtrasProviderDegradesToBaseSet(t *testing.T) {
	store := newFakeStore()
	grant(t, store, "u1", RolePractitioner, DepartmentScope("b1", "l1", "d1"))
	resolver := newResolver(store, WithExtraPermissions(staticExtras{err: errors.New("directory down")}))

	assert.True(t, resolver.HasPermission(context.Background(), "u1", "scheduling.appointment.view", nil))
	assert.False(t, resolver.HasPermission(context.Background(), "u1", "scheduling.intake.view", nil))
}

func TestUserPermissionsSortedAndDeduplicated(t *testing.T) {
	store := newFakeStore()
	grant(t, store, "u1", RoleReceptionist, LocationScope("b1", "l1"))
	grant(t, store, "u1", RoleReceptionist, LocationScope("b1", "l2"))
	resolver := newResolver(store)

	values := resolver.UserPermissions(context.Background(), "u1").Values()
	require.NotEmpty(t, values)
	for i := 1; i < len(values); i++ {
		assert.Less(t, values[i-1], values[i], "values must be sorted without duplicates")
	}
}
