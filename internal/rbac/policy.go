package rbac

import (
	"context"
	"log/slog"
)

// DecisionRecorder counts authorization outcomes, typically backed by
// Prometheus. Optional.
type DecisionRecorder interface {
	RecordDecision(check, outcome string)
}

// Engine is the single entry point other modules call before privileged
// operations. It is stateless coordination over the catalog and resolver:
// boolean queries never throw for ordinary denials, only RequirePermission
// surfaces a denial as an error.
type Engine struct {
	resolver *Resolver
	catalog  Catalog
	metrics  DecisionRecorder
	logger   *slog.Logger
}

// NewEngine constructs an Engine. metrics may be nil.
func NewEngine(resolver *Resolver, metrics DecisionRecorder, logger *slog.Logger) *Engine {
	return &Engine{
		resolver: resolver,
		catalog:  resolver.Catalog(),
		metrics:  metrics,
		logger:   logger,
	}
}

// Resolver exposes the underlying resolver for read-only queries.
func (e *Engine) Resolver() *Resolver {
	return e.resolver
}

// RequirePermission checks the permission and returns an
// *InsufficientPermissionsError when denied. This is the only query on the
// engine that reports denial as an error, by contract.
func (e *Engine) RequirePermission(ctx context.Context, userID, permission string, scope *Scope) error {
	if e.resolver.HasPermission(ctx, userID, permission, scope) {
		e.record("require_permission", "allow")
		return nil
	}
	e.record("require_permission", "deny")
	return &InsufficientPermissionsError{UserID: userID, Permission: permission, Scope: scope}
}

// CanActOnRole reports whether the actor may grant or revoke the target role.
// Unrestricted actors always may; everyone else needs a strictly higher
// hierarchy level. Strict inequality blocks lateral grants between peers.
func (e *Engine) CanActOnRole(ctx context.Context, actorID string, target Role, scope *Scope) bool {
	actorRole := e.resolver.UserRoleInScope(ctx, actorID, scope)
	if e.catalog.IsUnrestricted(actorRole) {
		e.record("can_act_on_role", "allow")
		return true
	}
	allowed := e.catalog.LevelOf(actorRole) > e.catalog.LevelOf(target)
	if allowed {
		e.record("can_act_on_role", "allow")
	} else {
		e.record("can_act_on_role", "deny")
	}
	return allowed
}

// IsSuperAdmin reports whether the user holds any unrestricted role.
func (e *Engine) IsSuperAdmin(ctx context.Context, userID string) bool {
	for _, a := range e.resolver.ActiveAssignments(ctx, userID) {
		if e.catalog.IsUnrestricted(a.Role) {
			return true
		}
	}
	return false
}

// HasAccessToBusiness reports whether any active assignment places the user
// inside the business, or the user is unrestricted.
func (e *Engine) HasAccessToBusiness(ctx context.Context, userID, businessID string) bool {
	for _, a := range e.resolver.ActiveAssignments(ctx, userID) {
		if e.catalog.IsUnrestricted(a.Role) || a.Scope.BusinessID == businessID {
			return true
		}
	}
	return false
}

func (e *Engine) record(check, outcome string) {
	if e.metrics != nil {
		e.metrics.RecordDecision(check, outcome)
	}
}
