package directory

import "context"

// ContextValidator answers structural existence checks for role-assignment
// scopes. It satisfies the rbac module's ContextValidator contract.
type ContextValidator struct {
	repo Repository
}

// NewContextValidator constructs a validator.
func NewContextValidator(repo Repository) *ContextValidator {
	return &ContextValidator{repo: repo}
}

// BusinessExists reports whether the business exists.
func (v *ContextValidator) BusinessExists(ctx context.Context, businessID string) (bool, error) {
	return v.repo.BusinessExists(ctx, businessID)
}

// LocationExists reports whether the location exists under the business.
func (v *ContextValidator) LocationExists(ctx context.Context, businessID, locationID string) (bool, error) {
	return v.repo.LocationExists(ctx, businessID, locationID)
}

// DepartmentExists reports whether the department nests under the location and business.
func (v *ContextValidator) DepartmentExists(ctx context.Context, businessID, locationID, departmentID string) (bool, error) {
	return v.repo.DepartmentExists(ctx, businessID, locationID, departmentID)
}
