package directory

type CreateBusinessRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Type     string `json:"type" validate:"required,oneof=clinic salon spa fitness other"`
	Timezone string `json:"timezone,omitempty" validate:"omitempty,max=64"`
}

type CreateLocationRequest struct {
	BusinessID string  `json:"business_id" validate:"required,uuid4"`
	Name       string  `json:"name" validate:"required,max=200"`
	Address    *string `json:"address,omitempty" validate:"omitempty,max=200"`
	City       *string `json:"city,omitempty" validate:"omitempty,max=100"`
	Country    string  `json:"country" validate:"required,len=2"`
}

type CreateDepartmentRequest struct {
	BusinessID string `json:"business_id" validate:"required,uuid4"`
	LocationID string `json:"location_id" validate:"required,uuid4"`
	Name       string `json:"name" validate:"required,max=200"`
}
