package crm

type CreateProspectRequest struct {
	BusinessID string  `json:"business_id" validate:"required,uuid4"`
	LocationID *string `json:"location_id,omitempty" validate:"omitempty,uuid4"`
	FullName   string  `json:"full_name" validate:"required,max=200"`
	Email      string  `json:"email" validate:"required,email"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,e164"`
	Source     *string `json:"source,omitempty" validate:"omitempty,max=100"`
	Notes      *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type UpdateProspectStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new contacted converted lost"`
}

type ListProspectsRequest struct {
	BusinessID string  `json:"business_id" validate:"required,uuid4"`
	Status     *string `json:"status,omitempty" validate:"omitempty,oneof=new contacted converted lost"`
	Limit      int     `json:"limit" validate:"gte=0,lte=500"`
	Offset     int     `json:"offset" validate:"gte=0"`
}
