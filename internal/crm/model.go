package crm

import "time"

// ProspectStatus tracks where a lead sits in the funnel.
type ProspectStatus string

const (
	ProspectNew       ProspectStatus = "new"
	ProspectContacted ProspectStatus = "contacted"
	ProspectConverted ProspectStatus = "converted"
	ProspectLost      ProspectStatus = "lost"
)

// Prospect is a potential client attached to a business.
type Prospect struct {
	ID         string         `json:"id"`
	BusinessID string         `json:"business_id"`
	LocationID *string        `json:"location_id,omitempty"`
	FullName   string         `json:"full_name"`
	Email      string         `json:"email"`
	Phone      *string        `json:"phone,omitempty"`
	Source     *string        `json:"source,omitempty"`
	Status     ProspectStatus `json:"status"`
	Notes      *string        `json:"notes,omitempty"`
	CreatedBy  string         `json:"created_by"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}
