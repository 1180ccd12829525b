package directory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Service handles directory business logic.
type Service struct {
	repo  Repository
	caser cases.Caser
}

// NewService builds a Service instance.
func NewService(repo Repository) *Service {
	return &Service{
		repo:  repo,
		caser: cases.Title(language.English, cases.NoLower),
	}
}

// CreateBusiness registers a new tenant.
func (s *Service) CreateBusiness(ctx context.Context, req CreateBusinessRequest) (*Business, error) {
	business := Business{
		ID:       uuid.NewString(),
		Name:     s.normalizeName(req.Name),
		Type:     BusinessType(req.Type),
		Timezone: req.Timezone,
		IsActive: true,
	}
	if business.Timezone == "" {
		business.Timezone = "UTC"
	}
	if err := s.repo.CreateBusiness(ctx, business); err != nil {
		return nil, fmt.Errorf("create business: %w", err)
	}
	return &business, nil
}

// GetBusiness fetches a business by id.
func (s *Service) GetBusiness(ctx context.Context, id string) (*Business, error) {
	return s.repo.GetBusiness(ctx, id)
}

// CreateLocation adds a site to a business.
func (s *Service) CreateLocation(ctx context.Context, req CreateLocationRequest) (*Location, error) {
	ok, err := s.repo.BusinessExists(ctx, req.BusinessID)
	if err != nil {
		return nil, fmt.Errorf("check business: %w", err)
	}
	if !ok {
		return nil, ErrNotFound
	}

	location := Location{
		ID:         uuid.NewString(),
		BusinessID: req.BusinessID,
		Name:       s.normalizeName(req.Name),
		Address:    req.Address,
		City:       req.City,
		Country:    req.Country,
		IsActive:   true,
	}
	if err := s.repo.CreateLocation(ctx, location); err != nil {
		return nil, fmt.Errorf("create location: %w", err)
	}
	return &location, nil
}

// ListLocations returns all locations for a business.
func (s *Service) ListLocations(ctx context.Context, businessID string) ([]Location, error) {
	return s.repo.ListLocations(ctx, businessID)
}

// CreateDepartment adds a department under a location.
func (s *Service) CreateDepartment(ctx context.Context, req CreateDepartmentRequest) (*Department, error) {
	ok, err := s.repo.LocationExists(ctx, req.BusinessID, req.LocationID)
	if err != nil {
		return nil, fmt.Errorf("check location: %w", err)
	}
	if !ok {
		return nil, ErrNotFound
	}

	department := Department{
		ID:         uuid.NewString(),
		LocationID: req.LocationID,
		BusinessID: req.BusinessID,
		Name:       s.normalizeName(req.Name),
		IsActive:   true,
	}
	if err := s.repo.CreateDepartment(ctx, department); err != nil {
		return nil, fmt.Errorf("create department: %w", err)
	}
	return &department, nil
}

// ListDepartments returns all departments under a location.
func (s *Service) ListDepartments(ctx context.Context, locationID string) ([]Department, error) {
	return s.repo.ListDepartments(ctx, locationID)
}

// normalizeName collapses whitespace and title-cases fully lower-cased names
// so listings render consistently regardless of how the tenant typed them.
func (s *Service) normalizeName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name == strings.ToLower(name) {
		return s.caser.String(name)
	}
	return name
}
