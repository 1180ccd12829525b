package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atrium-suite/atrium/internal/shared"
	_ "github.com/atrium-suite/atrium/testing"
)

type mockRepository struct {
	businesses  map[string]*Business
	locations   map[string]*Location
	departments map[string]*Department

	existsErr error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		businesses:  make(map[string]*Business),
		locations:   make(map[string]*Location),
		departments: make(map[string]*Department),
	}
}

func (m *mockRepository) GetBusiness(ctx context.Context, id string) (*Business, error) {
	b, ok := m.businesses[id]
	if !ok {
		return nil, ErrNotFound
	}
	return b, nil
}

func (m *mockRepository) CreateBusiness(ctx context.Context, b Business) error {
	m.businesses[b.ID] = &b
	return nil
}

func (m *mockRepository) ListLocations(ctx context.Context, businessID string) ([]Location, error) {
	var result []Location
	for _, l := range m.locations {
		if l.BusinessID == businessID {
			result = append(result, *l)
		}
	}
	return result, nil
}

func (m *mockRepository) CreateLocation(ctx context.Context, l Location) error {
	m.locations[l.ID] = &l
	return nil
}

func (m *mockRepository) ListDepartments(ctx context.Context, locationID string) ([]Department, error) {
	var result []Department
	for _, d := range m.departments {
		if d.LocationID == locationID {
			result = append(result, *d)
		}
	}
	return result, nil
}

func (m *mockRepository) CreateDepartment(ctx context.Context, d Department) error {
	m.departments[d.ID] = &d
	return nil
}

func (m *mockRepository) BusinessExists(ctx context.Context, businessID string) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	_, ok := m.businesses[businessID]
	return ok, nil
}

func (m *mockRepository) LocationExists(ctx context.Context, businessID, locationID string) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	l, ok := m.locations[locationID]
	return ok && l.BusinessID == businessID, nil
}

func (m *mockRepository) DepartmentExists(ctx context.Context, businessID, locationID, departmentID string) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	d, ok := m.departments[departmentID]
	if !ok || d.LocationID != locationID {
		return false, nil
	}
	l, ok := m.locations[locationID]
	return ok && l.BusinessID == businessID, nil
}

var _ Repository = (*mockRepository)(nil)

func TestCreateBusinessNormalizesName(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	business, err := svc.CreateBusiness(context.Background(), CreateBusinessRequest{
		Name: "  downtown   wellness clinic ",
		Type: "clinic",
	})
	require.NoError(t, err)
	assert.Equal(t, "Downtown Wellness Clinic", business.Name)
	assert.Equal(t, "UTC", business.Timezone)
	assert.True(t, business.IsActive)
}

func TestCreateBusinessKeepsMixedCaseNames(t *testing.T) {
	svc := NewService(newMockRepository())

	business, err := svc.CreateBusiness(context.Background(), CreateBusinessRequest{
		Name: "McKenzie PhysioWorks",
		Type: "clinic",
	})
	require.NoError(t, err)
	assert.Equal(t, "McKenzie PhysioWorks", business.Name)
}

func TestCreateLocationRequiresBusiness(t *testing.T) {
	svc := NewService(newMockRepository())

	_, err := svc.CreateLocation(context.Background(), CreateLocationRequest{
		BusinessID: "missing",
		Name:       "Main Street",
		Country:    "US",
	})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCreateDepartmentRequiresLocationNesting(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	ctx := context.Background()

	business, err := svc.CreateBusiness(ctx, CreateBusinessRequest{Name: "spa one", Type: "spa"})
	require.NoError(t, err)
	location, err := svc.CreateLocation(ctx, CreateLocationRequest{
		BusinessID: business.ID,
		Name:       "river site",
		Country:    "US",
	})
	require.NoError(t, err)

	department, err := svc.CreateDepartment(ctx, CreateDepartmentRequest{
		BusinessID: business.ID,
		LocationID: location.ID,
		Name:       "massage",
	})
	require.NoError(t, err)
	assert.Equal(t, "Massage", department.Name)

	// Wrong business for the location.
	_, err = svc.CreateDepartment(ctx, CreateDepartmentRequest{
		BusinessID: "other",
		LocationID: location.ID,
		Name:       "massage",
	})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestExtrasForType(t *testing.T) {
	assert.Contains(t, ExtrasForType(BusinessTypeClinic), shared.PermIntakeView)
	assert.Empty(t, ExtrasForType(BusinessTypeSalon))
}

func TestExtraPermissionsProvider(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	ctx := context.Background()

	clinic, err := svc.CreateBusiness(ctx, CreateBusinessRequest{Name: "clinic", Type: "clinic"})
	require.NoError(t, err)
	salon, err := svc.CreateBusiness(ctx, CreateBusinessRequest{Name: "salon", Type: "salon"})
	require.NoError(t, err)

	provider := NewExtraPermissionsProvider(repo)

	perms, err := provider.ExtraPermissionsForBusiness(ctx, clinic.ID)
	require.NoError(t, err)
	assert.True(t, perms.Has(shared.PermIntakeView))

	perms, err = provider.ExtraPermissionsForBusiness(ctx, salon.ID)
	require.NoError(t, err)
	assert.Empty(t, perms.Values())

	// Missing business yields no extras, not an error.
	perms, err = provider.ExtraPermissionsForBusiness(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, perms.Values())
}

func TestContextValidatorDelegates(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)
	ctx := context.Background()

	business, err := svc.CreateBusiness(ctx, CreateBusinessRequest{Name: "fit hub", Type: "fitness"})
	require.NoError(t, err)
	location, err := svc.CreateLocation(ctx, CreateLocationRequest{BusinessID: business.ID, Name: "east", Country: "US"})
	require.NoError(t, err)

	v := NewContextValidator(repo)

	ok, err := v.BusinessExists(ctx, business.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = v.LocationExists(ctx, business.ID, location.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = v.LocationExists(ctx, "other", location.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = v.DepartmentExists(ctx, business.ID, location.ID, "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}
