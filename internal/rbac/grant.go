package rbac

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/atrium-suite/atrium/internal/shared"
)

// ContextValidator confirms that a scope's business, location and department
// exist and nest correctly. Implemented by the directory module.
type ContextValidator interface {
	BusinessExists(ctx context.Context, businessID string) (bool, error)
	LocationExists(ctx context.Context, businessID, locationID string) (bool, error)
	DepartmentExists(ctx context.Context, businessID, locationID, departmentID string) (bool, error)
}

// GrantRoleRequest carries the inputs for the grant workflow.
type GrantRoleRequest struct {
	AssignedBy string
	UserID     string
	Role       Role
	Scope      Scope
	ExpiresAt  *time.Time
	Notes      *string
}

// GrantResult reports the persisted assignment after a successful grant.
type GrantResult struct {
	AssignmentID string
	Assignment   Assignment
}

// RevokeRoleRequest carries the inputs for the revoke workflow.
type RevokeRoleRequest struct {
	RevokedBy    string
	AssignmentID string
}

// Granter runs the role-management workflows: a linear sequence of gates
// where every failure is terminal and leaves no side effects behind it.
type Granter struct {
	engine    *Engine
	store     Store
	validator ContextValidator
	catalog   Catalog
	cache     *PermissionCache
	audit     *shared.AuditLogger
	logger    *slog.Logger
}

// NewGranter constructs a Granter. cache and audit may be nil.
func NewGranter(engine *Engine, store Store, validator ContextValidator, cache *PermissionCache, audit *shared.AuditLogger, logger *slog.Logger) *Granter {
	return &Granter{
		engine:    engine,
		store:     store,
		validator: validator,
		catalog:   engine.catalog,
		cache:     cache,
		audit:     audit,
		logger:    logger,
	}
}

// GrantRole walks the five gates in order: grantor permission, hierarchy,
// scope existence, duplicate conflict, then construction and persistence.
func (g *Granter) GrantRole(ctx context.Context, req GrantRoleRequest) (*GrantResult, error) {
	// Gate 1: the grantor must hold roles.assign inside the target business.
	scope := BusinessScope(req.Scope.BusinessID)
	if err := g.engine.RequirePermission(ctx, req.AssignedBy, shared.PermRolesAssign, &scope); err != nil {
		return nil, err
	}

	// Gate 2: hierarchy. Distinct from gate 1 so audit trails can tell a
	// missing base permission from a seniority violation.
	if !g.engine.CanActOnRole(ctx, req.AssignedBy, req.Role, &scope) {
		return nil, &InsufficientPermissionsError{
			UserID: req.AssignedBy,
			Role:   req.Role,
			Scope:  &req.Scope,
			Reason: "actor role is not senior to target role",
		}
	}

	// Gate 3: structural existence of the scope.
	if err := g.validateScope(ctx, req.Scope); err != nil {
		return nil, err
	}

	// Gate 4: conflict detection. The store's unique index backstops the
	// race between two concurrent grants for the same tuple.
	if _, err := g.store.FindActiveByUserRoleScope(ctx, req.UserID, req.Role, req.Scope); err == nil {
		return nil, ErrDuplicateAssignment
	} else if !errors.Is(err, ErrAssignmentNotFound) {
		return nil, fmt.Errorf("rbac: conflict check: %w", err)
	}

	// Gate 5: construct and persist.
	assignment, err := NewAssignment(g.catalog, NewAssignmentParams{
		UserID:     req.UserID,
		Role:       req.Role,
		Scope:      req.Scope,
		AssignedBy: req.AssignedBy,
		ExpiresAt:  req.ExpiresAt,
		Notes:      req.Notes,
	})
	if err != nil {
		return nil, err
	}
	if err := g.store.Save(ctx, assignment); err != nil {
		return nil, err
	}

	g.invalidate(ctx, req.UserID)
	g.recordAudit(ctx, req.AssignedBy, "rbac.grant", assignment)

	return &GrantResult{AssignmentID: assignment.ID, Assignment: *assignment}, nil
}

// RevokeRole deactivates an assignment after the permission and hierarchy
// gates. Revoking an already inactive assignment succeeds without effect.
func (g *Granter) RevokeRole(ctx context.Context, req RevokeRoleRequest) error {
	assignment, err := g.store.FindByID(ctx, req.AssignmentID)
	if err != nil {
		return err
	}

	scope := BusinessScope(assignment.Scope.BusinessID)
	if err := g.engine.RequirePermission(ctx, req.RevokedBy, shared.PermRolesRevoke, &scope); err != nil {
		return err
	}
	if !g.engine.CanActOnRole(ctx, req.RevokedBy, assignment.Role, &scope) {
		return &InsufficientPermissionsError{
			UserID: req.RevokedBy,
			Role:   assignment.Role,
			Scope:  &assignment.Scope,
			Reason: "actor role is not senior to assignment role",
		}
	}

	if !assignment.Active {
		return nil
	}
	if err := g.store.Deactivate(ctx, assignment.ID); err != nil {
		return err
	}

	g.invalidate(ctx, assignment.UserID)
	g.recordAudit(ctx, req.RevokedBy, "rbac.revoke", assignment)
	return nil
}

func (g *Granter) validateScope(ctx context.Context, scope Scope) error {
	if err := scope.Validate(); err != nil {
		return err
	}

	ok, err := g.validator.BusinessExists(ctx, scope.BusinessID)
	if err != nil {
		return fmt.Errorf("rbac: validate business: %w", err)
	}
	if !ok {
		return &ScopeNotFoundError{Level: ScopeBusiness, Scope: scope}
	}

	if scope.LocationID != nil {
		ok, err := g.validator.LocationExists(ctx, scope.BusinessID, *scope.LocationID)
		if err != nil {
			return fmt.Errorf("rbac: validate location: %w", err)
		}
		if !ok {
			return &ScopeNotFoundError{Level: ScopeLocation, Scope: scope}
		}
	}

	if scope.DepartmentID != nil {
		ok, err := g.validator.DepartmentExists(ctx, scope.BusinessID, *scope.LocationID, *scope.DepartmentID)
		if err != nil {
			return fmt.Errorf("rbac: validate department: %w", err)
		}
		if !ok {
			return &ScopeNotFoundError{Level: ScopeDepartment, Scope: scope}
		}
	}

	return nil
}

func (g *Granter) invalidate(ctx context.Context, userID string) {
	if g.cache != nil {
		g.cache.Invalidate(ctx, userID)
	}
}

func (g *Granter) recordAudit(ctx context.Context, actorID, action string, assignment *Assignment) {
	if g.audit == nil {
		return
	}
	err := g.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "role_assignment",
		EntityID: assignment.ID,
		Meta: map[string]any{
			"user_id": assignment.UserID,
			"role":    string(assignment.Role),
			"scope":   assignment.Scope.String(),
		},
	})
	if err != nil && g.logger != nil {
		g.logger.Warn("rbac: audit record failed", slog.String("action", action), slog.Any("error", err))
	}
}
