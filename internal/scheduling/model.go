package scheduling

import "time"

// AppointmentStatus tracks the booking lifecycle.
type AppointmentStatus string

const (
	StatusBooked    AppointmentStatus = "booked"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Appointment is a booked slot at a location, optionally pinned to a department.
type Appointment struct {
	ID             string            `json:"id"`
	BusinessID     string            `json:"business_id"`
	LocationID     string            `json:"location_id"`
	DepartmentID   *string           `json:"department_id,omitempty"`
	PractitionerID *string           `json:"practitioner_id,omitempty"`
	ClientName     string            `json:"client_name"`
	ClientEmail    *string           `json:"client_email,omitempty"`
	ServiceName    string            `json:"service_name"`
	StartsAt       time.Time         `json:"starts_at"`
	EndsAt         time.Time         `json:"ends_at"`
	Status         AppointmentStatus `json:"status"`
	Notes          *string           `json:"notes,omitempty"`
	CreatedBy      string            `json:"created_by"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// CanTransitionTo reports whether the status change is allowed.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	switch s {
	case StatusBooked:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusCancelled
	default:
		return false
	}
}
