package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/atrium-suite/atrium/internal/rbac"
	"github.com/atrium-suite/atrium/internal/shared"
)

// typeExtras maps business types to the permissions they unlock on top of
// role base sets. Static configuration, read-only after process start.
var typeExtras = map[BusinessType][]string{
	BusinessTypeClinic: {shared.PermIntakeView, shared.PermIntakeEdit},
	BusinessTypeSpa:    {shared.PermIntakeView},
}

// ExtrasForType returns the permission extensions for a business type.
func ExtrasForType(kind BusinessType) []string {
	return append([]string(nil), typeExtras[kind]...)
}

// ExtraPermissionsProvider resolves a business to its type-specific
// permission extensions. Wired into the rbac resolver.
type ExtraPermissionsProvider struct {
	repo Repository
}

// NewExtraPermissionsProvider constructs a provider.
func NewExtraPermissionsProvider(repo Repository) *ExtraPermissionsProvider {
	return &ExtraPermissionsProvider{repo: repo}
}

// ExtraPermissionsForBusiness looks up the business type and returns its
// extensions. A missing business yields no extras rather than an error.
func (p *ExtraPermissionsProvider) ExtraPermissionsForBusiness(ctx context.Context, businessID string) (rbac.PermissionSet, error) {
	business, err := p.repo.GetBusiness(ctx, businessID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return rbac.NewPermissionSet(), nil
		}
		return nil, fmt.Errorf("directory: extras lookup: %w", err)
	}
	return rbac.NewPermissionSet(typeExtras[business.Type]...), nil
}

var _ rbac.ExtraPermissionsProvider = (*ExtraPermissionsProvider)(nil)
