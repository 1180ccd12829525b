package directory

import "time"

// BusinessType categorises a tenant; some types unlock extra permissions.
type BusinessType string

const (
	BusinessTypeClinic  BusinessType = "clinic"
	BusinessTypeSalon   BusinessType = "salon"
	BusinessTypeSpa     BusinessType = "spa"
	BusinessTypeFitness BusinessType = "fitness"
	BusinessTypeOther   BusinessType = "other"
)

// Business is a tenant of the platform.
type Business struct {
	ID        string
	Name      string
	Type      BusinessType
	Timezone  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location is a physical site belonging to a business.
type Location struct {
	ID         string
	BusinessID string
	Name       string
	Address    *string
	City       *string
	Country    string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Department is a unit inside a location.
type Department struct {
	ID         string
	LocationID string
	BusinessID string
	Name       string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
