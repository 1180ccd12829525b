package rbac

import "time"

type grantRoleRequest struct {
	UserID       string     `json:"user_id" validate:"required,uuid4"`
	Role         string     `json:"role" validate:"required,max=50"`
	BusinessID   string     `json:"business_id" validate:"required,uuid4"`
	LocationID   *string    `json:"location_id,omitempty" validate:"omitempty,uuid4"`
	DepartmentID *string    `json:"department_id,omitempty" validate:"omitempty,uuid4"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	Notes        *string    `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type assignmentResponse struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	Role         string     `json:"role"`
	BusinessID   string     `json:"business_id"`
	LocationID   *string    `json:"location_id,omitempty"`
	DepartmentID *string    `json:"department_id,omitempty"`
	AssignedBy   string     `json:"assigned_by"`
	AssignedAt   time.Time  `json:"assigned_at"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
	Active       bool       `json:"active"`
}

func toAssignmentResponse(a Assignment) assignmentResponse {
	return assignmentResponse{
		ID:           a.ID,
		UserID:       a.UserID,
		Role:         string(a.Role),
		BusinessID:   a.Scope.BusinessID,
		LocationID:   a.Scope.LocationID,
		DepartmentID: a.Scope.DepartmentID,
		AssignedBy:   a.AssignedBy,
		AssignedAt:   a.AssignedAt,
		ExpiresAt:    a.ExpiresAt,
		Notes:        a.Notes,
		Active:       a.Active,
	}
}

type catalogRoleResponse struct {
	Role          string   `json:"role"`
	Level         int      `json:"level"`
	RequiredScope string   `json:"required_scope"`
	Unrestricted  bool     `json:"unrestricted"`
	Permissions   []string `json:"permissions"`
}
