package scheduling

import "time"

type BookAppointmentRequest struct {
	BusinessID     string    `json:"business_id" validate:"required,uuid4"`
	LocationID     string    `json:"location_id" validate:"required,uuid4"`
	DepartmentID   *string   `json:"department_id,omitempty" validate:"omitempty,uuid4"`
	PractitionerID *string   `json:"practitioner_id,omitempty" validate:"omitempty,uuid4"`
	ClientName     string    `json:"client_name" validate:"required,max=200"`
	ClientEmail    *string   `json:"client_email,omitempty" validate:"omitempty,email"`
	ServiceName    string    `json:"service_name" validate:"required,max=200"`
	StartsAt       time.Time `json:"starts_at" validate:"required"`
	EndsAt         time.Time `json:"ends_at" validate:"required,gtfield=StartsAt"`
	Notes          *string   `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type ListAppointmentsRequest struct {
	BusinessID string     `json:"business_id" validate:"required,uuid4"`
	LocationID *string    `json:"location_id,omitempty" validate:"omitempty,uuid4"`
	From       *time.Time `json:"from,omitempty"`
	To         *time.Time `json:"to,omitempty"`
	Limit      int        `json:"limit" validate:"gte=0,lte=500"`
	Offset     int        `json:"offset" validate:"gte=0"`
}
