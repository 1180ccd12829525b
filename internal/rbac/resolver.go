package rbac

import (
	"context"
	"log/slog"
	"time"
)

// ExtraPermissionsProvider supplies business-type-specific permission
// extensions, keyed by the assignment's business. Optional.
type ExtraPermissionsProvider interface {
	ExtraPermissionsForBusiness(ctx context.Context, businessID string) (PermissionSet, error)
}

// Resolver computes effective permissions from active assignments and answers
// point queries. Every boolean or set-returning query fails closed: a store
// error resolves to deny or empty, never to a propagated error. Only the
// policy engine's RequirePermission surfaces denials as errors.
type Resolver struct {
	store   Store
	catalog Catalog
	cache   *PermissionCache
	extras  ExtraPermissionsProvider
	logger  *slog.Logger
	now     func() time.Time
}

// ResolverOption customises a Resolver.
type ResolverOption func(*Resolver)

// WithPermissionCache attaches a cache for the context-free permission union.
func WithPermissionCache(cache *PermissionCache) ResolverOption {
	return func(r *Resolver) { r.cache = cache }
}

// WithExtraPermissions attaches a business-type permission extension provider.
func WithExtraPermissions(provider ExtraPermissionsProvider) ResolverOption {
	return func(r *Resolver) { r.extras = provider }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) ResolverOption {
	return func(r *Resolver) { r.now = now }
}

// NewResolver constructs a Resolver.
func NewResolver(store Store, catalog Catalog, logger *slog.Logger, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		store:   store,
		catalog: catalog,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Catalog exposes the injected role table.
func (r *Resolver) Catalog() Catalog {
	return r.catalog
}

// HasPermission reports whether the user holds the permission. With a nil
// scope every active assignment counts; with a scope only assignments whose
// scope covers it do. Unknown users and store failures resolve to false.
func (r *Resolver) HasPermission(ctx context.Context, userID, permission string, scope *Scope) bool {
	if scope == nil {
		perms, err := r.permissionUnion(ctx, userID)
		if err != nil {
			r.warn("permission union failed", userID, err)
			return false
		}
		return perms.Has(permission)
	}
	return r.HasBusinessPermission(ctx, userID, permission, *scope)
}

// HasBusinessPermission is the strictly scoped point query: only assignments
// whose scope covers the given business/location/department are considered.
func (r *Resolver) HasBusinessPermission(ctx context.Context, userID, permission string, scope Scope) bool {
	assignments, err := r.activeAssignments(ctx, userID)
	if err != nil {
		r.warn("load assignments failed", userID, err)
		return false
	}
	now := r.now()
	for i := range assignments {
		a := &assignments[i]
		// Unrestricted roles bypass scope coverage entirely.
		if !r.catalog.IsUnrestricted(a.Role) && !a.Scope.Covers(scope) {
			continue
		}
		if a.EffectivePermissions(r.catalog, now).Has(permission) {
			return true
		}
		if r.businessExtras(ctx, a, now).Has(permission) {
			return true
		}
	}
	return false
}

// UserPermissions returns the union of effective permissions across all
// active assignments, ignoring scope. Intended for coarse capability
// listings, never for access decisions on a specific resource.
func (r *Resolver) UserPermissions(ctx context.Context, userID string) PermissionSet {
	perms, err := r.permissionUnion(ctx, userID)
	if err != nil {
		r.warn("permission union failed", userID, err)
		return NewPermissionSet()
	}
	return perms
}

// UserRole returns the highest-hierarchy active role for the user, or the
// guest sentinel when none exist.
func (r *Resolver) UserRole(ctx context.Context, userID string) Role {
	return r.UserRoleInScope(ctx, userID, nil)
}

// UserRoleInScope returns the highest-hierarchy active role among assignments
// covering the given scope. A nil scope considers every active assignment.
func (r *Resolver) UserRoleInScope(ctx context.Context, userID string, scope *Scope) Role {
	assignments, err := r.activeAssignments(ctx, userID)
	if err != nil {
		r.warn("load assignments failed", userID, err)
		return RoleGuest
	}
	now := r.now()
	best := RoleGuest
	bestLevel := -1
	for i := range assignments {
		a := &assignments[i]
		if a.IsExpired(now) {
			continue
		}
		if scope != nil && !r.catalog.IsUnrestricted(a.Role) && !a.Scope.Covers(*scope) {
			continue
		}
		if level := r.catalog.LevelOf(a.Role); level > bestLevel {
			best = a.Role
			bestLevel = level
		}
	}
	return best
}

// ActiveAssignments returns the user's active, non-expired assignments.
// A store error resolves to an empty slice.
func (r *Resolver) ActiveAssignments(ctx context.Context, userID string) []Assignment {
	assignments, err := r.activeAssignments(ctx, userID)
	if err != nil {
		r.warn("load assignments failed", userID, err)
		return nil
	}
	now := r.now()
	filtered := assignments[:0]
	for _, a := range assignments {
		if !a.IsExpired(now) {
			filtered = append(filtered, a)
		}
	}
	return filtered
}

func (r *Resolver) permissionUnion(ctx context.Context, userID string) (PermissionSet, error) {
	values, err := r.cache.Load(ctx, userID, func(ctx context.Context) ([]string, error) {
		assignments, err := r.activeAssignments(ctx, userID)
		if err != nil {
			return nil, err
		}
		now := r.now()
		union := NewPermissionSet()
		for i := range assignments {
			a := &assignments[i]
			union = union.Union(a.EffectivePermissions(r.catalog, now))
			union = union.Union(r.businessExtras(ctx, a, now))
		}
		return union.Values(), nil
	})
	if err != nil {
		return nil, err
	}
	return NewPermissionSet(values...), nil
}

func (r *Resolver) activeAssignments(ctx context.Context, userID string) ([]Assignment, error) {
	return r.store.FindActiveByUser(ctx, userID)
}

// businessExtras fetches business-type-specific extensions for an assignment.
// Provider failures degrade to no extras; a broken extension source must not
// widen or break base permissions.
func (r *Resolver) businessExtras(ctx context.Context, a *Assignment, now time.Time) PermissionSet {
	if r.extras == nil || !a.Active || a.IsExpired(now) {
		return NewPermissionSet()
	}
	extras, err := r.extras.ExtraPermissionsForBusiness(ctx, a.Scope.BusinessID)
	if err != nil {
		r.warn("extra permissions lookup failed", a.UserID, err)
		return NewPermissionSet()
	}
	return extras
}

func (r *Resolver) warn(msg, userID string, err error) {
	if r.logger != nil {
		r.logger.Warn("rbac: "+msg, slog.String("user_id", userID), slog.Any("error", err))
	}
}
