package rbac

import (
	"context"
	"time"
)

// Store persists role assignments. Implementations must enforce at most one
// active assignment per (user, role, scope) tuple; the PostgreSQL store does
// so with a partial unique index so two concurrent grants racing past the
// conflict gate cannot both commit.
type Store interface {
	FindByID(ctx context.Context, id string) (*Assignment, error)
	// FindActiveByUser returns active assignments only; expiry filtering is
	// the resolver's concern.
	FindActiveByUser(ctx context.Context, userID string) ([]Assignment, error)
	// FindActiveByUserRoleScope returns the active assignment with exactly
	// matching (user, role, scope), or ErrAssignmentNotFound.
	FindActiveByUserRoleScope(ctx context.Context, userID string, role Role, scope Scope) (*Assignment, error)
	ListByUser(ctx context.Context, userID string) ([]Assignment, error)
	Save(ctx context.Context, assignment *Assignment) error
	Deactivate(ctx context.Context, id string) error
	// Reactivate is an administrative override outside the aggregate's own
	// lifecycle; it is not exposed over HTTP.
	Reactivate(ctx context.Context, id string) error
	// DeactivateExpired turns off every active assignment whose expiry is in
	// the past and returns the number of rows affected.
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}
