package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound      = errors.New("directory: record not found")
	ErrAlreadyExists = errors.New("directory: record already exists")
)

// Repository defines persistence operations for the directory module.
type Repository interface {
	GetBusiness(ctx context.Context, id string) (*Business, error)
	CreateBusiness(ctx context.Context, b Business) error
	ListLocations(ctx context.Context, businessID string) ([]Location, error)
	CreateLocation(ctx context.Context, l Location) error
	ListDepartments(ctx context.Context, locationID string) ([]Department, error)
	CreateDepartment(ctx context.Context, d Department) error

	BusinessExists(ctx context.Context, businessID string) (bool, error)
	LocationExists(ctx context.Context, businessID, locationID string) (bool, error)
	DepartmentExists(ctx context.Context, businessID, locationID, departmentID string) (bool, error)
}

// PGRepository provides PostgreSQL backed persistence.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// GetBusiness fetches a business by id.
func (r *PGRepository) GetBusiness(ctx context.Context, id string) (*Business, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, name, type, timezone, is_active, created_at, updated_at FROM businesses WHERE id = $1`, id)
	var b Business
	var kind string
	if err := row.Scan(&b.ID, &b.Name, &kind, &b.Timezone, &b.IsActive, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("directory: get business: %w", err)
	}
	b.Type = BusinessType(kind)
	return &b, nil
}

// CreateBusiness inserts a business.
func (r *PGRepository) CreateBusiness(ctx context.Context, b Business) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO businesses (id, name, type, timezone, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())`,
		b.ID, b.Name, string(b.Type), b.Timezone, b.IsActive)
	if err != nil {
		return fmt.Errorf("directory: create business: %w", err)
	}
	return nil
}

// ListLocations returns all locations for a business.
func (r *PGRepository) ListLocations(ctx context.Context, businessID string) ([]Location, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, business_id, name, address, city, country, is_active, created_at, updated_at
		FROM locations WHERE business_id = $1 ORDER BY name`, businessID)
	if err != nil {
		return nil, fmt.Errorf("directory: list locations: %w", err)
	}
	defer rows.Close()
	var locations []Location
	for rows.Next() {
		var l Location
		if err := rows.Scan(&l.ID, &l.BusinessID, &l.Name, &l.Address, &l.City, &l.Country, &l.IsActive, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("directory: scan location: %w", err)
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

// CreateLocation inserts a location.
func (r *PGRepository) CreateLocation(ctx context.Context, l Location) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO locations (id, business_id, name, address, city, country, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())`,
		l.ID, l.BusinessID, l.Name, l.Address, l.City, l.Country, l.IsActive)
	if err != nil {
		return fmt.Errorf("directory: create location: %w", err)
	}
	return nil
}

// ListDepartments returns all departments for a location.
func (r *PGRepository) ListDepartments(ctx context.Context, locationID string) ([]Department, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, location_id, business_id, name, is_active, created_at, updated_at
		FROM departments WHERE location_id = $1 ORDER BY name`, locationID)
	if err != nil {
		return nil, fmt.Errorf("directory: list departments: %w", err)
	}
	defer rows.Close()
	var departments []Department
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.LocationID, &d.BusinessID, &d.Name, &d.IsActive, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("directory: scan department: %w", err)
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}

// CreateDepartment inserts a department.
func (r *PGRepository) CreateDepartment(ctx context.Context, d Department) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO departments (id, location_id, business_id, name, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())`,
		d.ID, d.LocationID, d.BusinessID, d.Name, d.IsActive)
	if err != nil {
		return fmt.Errorf("directory: create department: %w", err)
	}
	return nil
}

// BusinessExists reports whether an active business with the id exists.
func (r *PGRepository) BusinessExists(ctx context.Context, businessID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM businesses WHERE id = $1 AND is_active)`, businessID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("directory: business exists: %w", err)
	}
	return exists, nil
}

// LocationExists reports whether the location exists and belongs to the business.
func (r *PGRepository) LocationExists(ctx context.Context, businessID, locationID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM locations WHERE id = $1 AND business_id = $2 AND is_active)`, locationID, businessID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("directory: location exists: %w", err)
	}
	return exists, nil
}

// DepartmentExists reports whether the department exists and nests under the
// given location and business.
func (r *PGRepository) DepartmentExists(ctx context.Context, businessID, locationID, departmentID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (
		SELECT 1 FROM departments d
		JOIN locations l ON l.id = d.location_id
		WHERE d.id = $1 AND d.location_id = $2 AND l.business_id = $3 AND d.is_active AND l.is_active
	)`, departmentID, locationID, businessID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("directory: department exists: %w", err)
	}
	return exists, nil
}

var _ Repository = (*PGRepository)(nil)
