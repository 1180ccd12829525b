package scheduling

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("scheduling: appointment not found")

// Repository defines persistence operations for appointments.
type Repository interface {
	Get(ctx context.Context, id string) (*Appointment, error)
	List(ctx context.Context, req ListAppointmentsRequest) ([]Appointment, error)
	Create(ctx context.Context, appointment Appointment) error
	UpdateStatus(ctx context.Context, id string, status AppointmentStatus) error
}

// PGRepository provides PostgreSQL backed persistence.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const appointmentColumns = `id, business_id, location_id, department_id, practitioner_id, client_name, client_email, service_name, starts_at, ends_at, status, notes, created_by, created_at, updated_at`

// Get fetches an appointment by id.
func (r *PGRepository) Get(ctx context.Context, id string) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id)
	appointment, err := scanAppointment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scheduling: get appointment: %w", err)
	}
	return appointment, nil
}

// List returns appointments for a business, optionally narrowed by location and window.
func (r *PGRepository) List(ctx context.Context, req ListAppointmentsRequest) ([]Appointment, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + appointmentColumns + ` FROM appointments WHERE business_id = $1`)
	args := []any{req.BusinessID}

	if req.LocationID != nil {
		args = append(args, *req.LocationID)
		sb.WriteString(` AND location_id = $` + strconv.Itoa(len(args)))
	}
	if req.From != nil {
		args = append(args, *req.From)
		sb.WriteString(` AND starts_at >= $` + strconv.Itoa(len(args)))
	}
	if req.To != nil {
		args = append(args, *req.To)
		sb.WriteString(` AND starts_at < $` + strconv.Itoa(len(args)))
	}
	sb.WriteString(` ORDER BY starts_at`)

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
		return nil, fmt.Errorf("scheduling: list appointments: %w", err)
	}
	defer rows.Close()

	var appointments []Appointment
	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scheduling: scan appointment: %w", err)
		}
		appointments = append(appointments, *appointment)
	}
	return appointments, rows.Err()
}

// Create inserts an appointment.
func (r *PGRepository) Create(ctx context.Context, a Appointment) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO appointments
		(id, business_id, location_id, department_id, practitioner_id, client_name, client_email, service_name, starts_at, ends_at, status, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())`,
		a.ID, a.BusinessID, a.LocationID, a.DepartmentID, a.PractitionerID,
		a.ClientName, a.ClientEmail, a.ServiceName, a.StartsAt, a.EndsAt,
		string(a.Status), a.Notes, a.CreatedBy)
	if err != nil {
		return fmt.Errorf("scheduling: create appointment: %w", err)
	}
	return nil
}

// UpdateStatus moves an appointment to a new status.
func (r *PGRepository) UpdateStatus(ctx context.Context, id string, status AppointmentStatus) error {
	tag, err := r.pool.Exec(ctx, `UPDATE appointments SET status = $2, updated_at = NOW() WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("scheduling: update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var status string
	if err := row.Scan(&a.ID, &a.BusinessID, &a.LocationID, &a.DepartmentID, &a.PractitionerID,
		&a.ClientName, &a.ClientEmail, &a.ServiceName, &a.StartsAt, &a.EndsAt,
		&status, &a.Notes, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Status = AppointmentStatus(status)
	return &a, nil
}

var _ Repository = (*PGRepository)(nil)
