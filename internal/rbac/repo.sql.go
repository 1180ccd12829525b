package rbac

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atrium-suite/atrium/internal/platform/db"
)

// PGStore provides PostgreSQL backed persistence for role assignments.
//
// Schema expectation: role_assignments carries a partial unique index on
// (user_id, role, business_id, location_id, department_id) WHERE active,
// which is what makes the duplicate-grant race lose at commit time.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore constructs a store.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

const assignmentColumns = `id, user_id, role, business_id, location_id, department_id, assigned_by, assigned_at, expires_at, notes, active`

// FindByID fetches a single assignment.
func (s *PGStore) FindByID(ctx context.Context, id string) (*Assignment, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+assignmentColumns+` FROM role_assignments WHERE id = $1`, id)
	assignment, err := scanAssignment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("rbac: find assignment: %w", err)
	}
	return assignment, nil
}

// FindActiveByUser returns all active assignments for a user.
func (s *PGStore) FindActiveByUser(ctx context.Context, userID string) ([]Assignment, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+assignmentColumns+` FROM role_assignments WHERE user_id = $1 AND active ORDER BY assigned_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("rbac: find active assignments: %w", err)
	}
	defer rows.Close()
	return collectAssignments(rows)
}

// FindActiveByUserRoleScope returns the active assignment matching the exact tuple.
func (s *PGStore) FindActiveByUserRoleScope(ctx context.Context, userID string, role Role, scope Scope) (*Assignment, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+assignmentColumns+` FROM role_assignments
		WHERE user_id = $1 AND role = $2 AND business_id = $3
		AND location_id IS NOT DISTINCT FROM $4
		AND department_id IS NOT DISTINCT FROM $5
		AND active`,
		userID, string(role), scope.BusinessID, scope.LocationID, scope.DepartmentID)
	assignment, err := scanAssignment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("rbac: find assignment by tuple: %w", err)
	}
	return assignment, nil
}

// ListByUser returns every assignment for a user, newest first, regardless of state.
func (s *PGStore) ListByUser(ctx context.Context, userID string) ([]Assignment, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+assignmentColumns+` FROM role_assignments WHERE user_id = $1 ORDER BY assigned_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("rbac: list assignments: %w", err)
	}
	defer rows.Close()
	return collectAssignments(rows)
}

// Save inserts the assignment. A unique-violation from the partial index maps
// to ErrDuplicateAssignment.
func (s *PGStore) Save(ctx context.Context, assignment *Assignment) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO role_assignments
		(id, user_id, role, business_id, location_id, department_id, assigned_by, assigned_at, expires_at, notes, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		assignment.ID, assignment.UserID, string(assignment.Role),
		assignment.Scope.BusinessID, assignment.Scope.LocationID, assignment.Scope.DepartmentID,
		assignment.AssignedBy, assignment.AssignedAt, assignment.ExpiresAt, assignment.Notes, assignment.Active)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateAssignment
		}
		return fmt.Errorf("rbac: save assignment: %w", err)
	}
	return nil
}

// Deactivate turns an assignment off. Deactivating an inactive assignment is a no-op.
func (s *PGStore) Deactivate(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE role_assignments SET active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("rbac: deactivate assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAssignmentNotFound
	}
	return nil
}

// Reactivate is an administrative override; the aggregate itself has no
// transition back from deactivated. The read-then-write runs under
// RepeatableRead so the duplicate check and the flip commit together, and the
// partial unique index still backstops a concurrent grant.
func (s *PGStore) Reactivate(ctx context.Context, id string) error {
	return db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		var exists bool
		err := tx.QueryRow(ctx, `SELECT EXISTS (
			SELECT 1 FROM role_assignments other, role_assignments target
			WHERE target.id = $1 AND other.id <> target.id AND other.active
			AND other.user_id = target.user_id AND other.role = target.role
			AND other.business_id = target.business_id
			AND other.location_id IS NOT DISTINCT FROM target.location_id
			AND other.department_id IS NOT DISTINCT FROM target.department_id
		)`, id).Scan(&exists)
		if err != nil {
			return fmt.Errorf("rbac: reactivate duplicate check: %w", err)
		}
		if exists {
			return ErrDuplicateAssignment
		}
		tag, err := tx.Exec(ctx, `UPDATE role_assignments SET active = TRUE WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("rbac: reactivate assignment: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrAssignmentNotFound
		}
		return nil
	})
}

// DeactivateExpired turns off active assignments past their expiry.
func (s *PGStore) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `UPDATE role_assignments SET active = FALSE WHERE active AND expires_at IS NOT NULL AND expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("rbac: deactivate expired: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanAssignment(row pgx.Row) (*Assignment, error) {
	var a Assignment
	var role string
	if err := row.Scan(&a.ID, &a.UserID, &role,
		&a.Scope.BusinessID, &a.Scope.LocationID, &a.Scope.DepartmentID,
		&a.AssignedBy, &a.AssignedAt, &a.ExpiresAt, &a.Notes, &a.Active); err != nil {
		return nil, err
	}
	a.Role = Role(role)
	return &a, nil
}

func collectAssignments(rows pgx.Rows) ([]Assignment, error) {
	var assignments []Assignment
	for rows.Next() {
		assignment, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("rbac: scan assignment: %w", err)
		}
		assignments = append(assignments, *assignment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rbac: iterate assignments: %w", err)
	}
	return assignments, nil
}

var _ Store = (*PGStore)(nil)
