package crm

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/atrium-suite/atrium/internal/rbac"
	"github.com/atrium-suite/atrium/internal/shared"
)

// Service handles prospect management with business scoped authorization.
type Service struct {
	logger *slog.Logger
	repo   Repository
	engine *rbac.Engine
	audit  *shared.AuditLogger
}

// NewService constructs a Service. audit may be nil.
func NewService(logger *slog.Logger, repo Repository, engine *rbac.Engine, audit *shared.AuditLogger) *Service {
	return &Service{logger: logger, repo: repo, engine: engine, audit: audit}
}

// Create records a new prospect. Email is normalised to lower case so the
// duplicate check is case insensitive across the business.
func (s *Service) Create(ctx context.Context, actorID string, req CreateProspectRequest) (*Prospect, error) {
	scope := rbac.BusinessScope(req.BusinessID)
	if req.LocationID != nil {
		scope = rbac.LocationScope(req.BusinessID, *req.LocationID)
	}
	if err := s.engine.RequirePermission(ctx, actorID, shared.PermProspectCreate, &scope); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	prospect := Prospect{
		ID:         uuid.NewString(),
		BusinessID: req.BusinessID,
		LocationID: req.LocationID,
		FullName:   strings.TrimSpace(req.FullName),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:      req.Phone,
		Source:     req.Source,
		Status:     ProspectNew,
		Notes:      req.Notes,
		CreatedBy:  actorID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Create(ctx, prospect); err != nil {
		return nil, err
	}
	s.record(ctx, actorID, "prospect.create", prospect.ID)
	return &prospect, nil
}

// UpdateStatus moves a prospect through the funnel.
func (s *Service) UpdateStatus(ctx context.Context, actorID, id string, status ProspectStatus) (*Prospect, error) {
	prospect, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	perm := shared.PermProspectEdit
	if status == ProspectConverted {
		perm = shared.PermProspectConvert
	}
	scope := rbac.BusinessScope(prospect.BusinessID)
	if err := s.engine.RequirePermission(ctx, actorID, perm, &scope); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	prospect.Status = status
	s.record(ctx, actorID, "prospect."+string(status), id)
	return prospect, nil
}

// List returns a business's prospects after a scoped view check.
func (s *Service) List(ctx context.Context, actorID string, req ListProspectsRequest) ([]Prospect, error) {
	scope := rbac.BusinessScope(req.BusinessID)
	if err := s.engine.RequirePermission(ctx, actorID, shared.PermProspectView, &scope); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, req)
}

// Get fetches a single prospect after a scoped view check.
func (s *Service) Get(ctx context.Context, actorID, id string) (*Prospect, error) {
	prospect, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	scope := rbac.BusinessScope(prospect.BusinessID)
	if err := s.engine.RequirePermission(ctx, actorID, shared.PermProspectView, &scope); err != nil {
		return nil, err
	}
	return prospect, nil
}

func (s *Service) record(ctx context.Context, actorID, action, entityID string) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "prospect",
		EntityID: entityID,
	})
	if err != nil {
		s.logger.Warn("audit record failed", slog.String("action", action), slog.Any("error", err))
	}
}
