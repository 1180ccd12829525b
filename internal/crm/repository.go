package crm

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound       = errors.New("crm: prospect not found")
	ErrDuplicateEmail = errors.New("crm: prospect with this email already exists for the business")
)

// Repository defines persistence operations for prospects.
type Repository interface {
	Get(ctx context.Context, id string) (*Prospect, error)
	List(ctx context.Context, req ListProspectsRequest) ([]Prospect, error)
	Create(ctx context.Context, prospect Prospect) error
	UpdateStatus(ctx context.Context, id string, status ProspectStatus) error
}

// PGRepository provides PostgreSQL backed persistence. A unique index on
// (business_id, lower(email)) backs duplicate detection, so concurrent
// inserts of the same address cannot both commit.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const prospectColumns = `id, business_id, location_id, full_name, email, phone, source, status, notes, created_by, created_at, updated_at`

// Get fetches a prospect by id.
func (r *PGRepository) Get(ctx context.Context, id string) (*Prospect, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+prospectColumns+` FROM prospects WHERE id = $1`, id)
	prospect, err := scanProspect(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("crm: get prospect: %w", err)
	}
	return prospect, nil
}

// List returns prospects for a business, newest first.
func (r *PGRepository) List(ctx context.Context, req ListProspectsRequest) ([]Prospect, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + prospectColumns + ` FROM prospects WHERE business_id = $1`)
	args := []any{req.BusinessID}

	if req.Status != nil {
		args = append(args, *req.Status)
		sb.WriteString(` AND status = $` + strconv.Itoa(len(args)))
	}
	sb.WriteString(` ORDER BY created_at DESC`)

	limit := req.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	sb.WriteString(` LIMIT $` + strconv.Itoa(len(args)))
	args = append(args, req.Offset)
	sb.WriteString(` OFFSET $` + strconv.Itoa(len(args)))

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("crm: list prospects: %w", err)
	}
	defer rows.Close()

	var prospects []Prospect
	for rows.Next() {
		prospect, err := scanProspect(rows)
		if err != nil {
			return nil, fmt.Errorf("crm: scan prospect: %w", err)
		}
		prospects = append(prospects, *prospect)
	}
	return prospects, rows.Err()
}

// Create inserts a prospect, mapping the unique index violation to
// ErrDuplicateEmail.
func (r *PGRepository) Create(ctx context.Context, p Prospect) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO prospects
		(id, business_id, location_id, full_name, email, phone, source, status, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())`,
		p.ID, p.BusinessID, p.LocationID, p.FullName, p.Email, p.Phone, p.Source,
		string(p.Status), p.Notes, p.CreatedBy)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("crm: create prospect: %w", err)
	}
	return nil
}

// UpdateStatus moves a prospect to a new funnel status.
func (r *PGRepository) UpdateStatus(ctx context.Context, id string, status ProspectStatus) error {
	tag, err := r.pool.Exec(ctx, `UPDATE prospects SET status = $2, updated_at = NOW() WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("crm: update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProspect(row pgx.Row) (*Prospect, error) {
	var p Prospect
	var status string
	if err := row.Scan(&p.ID, &p.BusinessID, &p.LocationID, &p.FullName, &p.Email,
		&p.Phone, &p.Source, &status, &p.Notes, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Status = ProspectStatus(status)
	return &p, nil
}

var _ Repository = (*PGRepository)(nil)
