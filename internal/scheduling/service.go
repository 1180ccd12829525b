package scheduling

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/atrium-suite/atrium/internal/rbac"
	"github.com/atrium-suite/atrium/internal/shared"
)

var ErrInvalidTransition = errors.New("scheduling: invalid status transition")

// Service handles appointment booking with scoped authorization.
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

// Book creates an appointment after a location scoped permission check.
func (s *Service) Book(ctx context.Context, actorID string, req BookAppointmentRequest) (*Appointment, error) {
	scope := rbac.LocationScope(req.BusinessID, req.LocationID)
	if err := s.engine.RequirePermission(ctx, actorID, shared.PermAppointmentCreate, &scope); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	appointment := Appointment{
		ID:             uuid.NewString(),
		BusinessID:     req.BusinessID,
		LocationID:     req.LocationID,
		DepartmentID:   req.DepartmentID,
		PractitionerID: req.PractitionerID,
		ClientName:     strings.TrimSpace(req.ClientName),
		ClientEmail:    req.ClientEmail,
		ServiceName:    strings.TrimSpace(req.ServiceName),
		StartsAt:       req.StartsAt.UTC(),
		EndsAt:         req.EndsAt.UTC(),
		Status:         StatusBooked,
		Notes:          req.Notes,
		CreatedBy:      actorID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, err
	}
	s.record(ctx, actorID, "appointment.book", appointment.ID)
	return &appointment, nil
}

// Transition moves an appointment through its lifecycle.
func (s *Service) Transition(ctx context.Context, actorID, id string, next AppointmentStatus) (*Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	scope := rbac.LocationScope(appointment.BusinessID, appointment.LocationID)
	if err := s.engine.RequirePermission(ctx, actorID, transitionPermission(next), &scope); err != nil {
		return nil, err
	}

	if !appointment.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, appointment.Status, next)
	}
	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}
	appointment.Status = next
	s.record(ctx, actorID, "appointment."+string(next), id)
	return appointment, nil
}

// List returns appointments visible to the actor in the requested scope.
func (s *Service) List(ctx context.Context, actorID string, req ListAppointmentsRequest) ([]Appointment, error) {
	scope := rbac.BusinessScope(req.BusinessID)
	if req.LocationID != nil {
		scope = rbac.LocationScope(req.BusinessID, *req.LocationID)
	}
	if err := s.engine.RequirePermission(ctx, actorID, shared.PermAppointmentView, &scope); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, req)
}

// Get fetches a single appointment after a scoped view check.
func (s *Service) Get(ctx context.Context, actorID, id string) (*Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	scope := rbac.LocationScope(appointment.BusinessID, appointment.LocationID)
	if err := s.engine.RequirePermission(ctx, actorID, shared.PermAppointmentView, &scope); err != nil {
		return nil, err
	}
	return appointment, nil
}

func transitionPermission(next AppointmentStatus) string {
	switch next {
	case StatusConfirmed:
		return shared.PermAppointmentConfirm
	case StatusCompleted:
		return shared.PermAppointmentComplete
	case StatusCancelled:
		return shared.PermAppointmentCancel
	default:
		return shared.PermAppointmentEdit
	}
}

func (s *Service) record(ctx context.Context, actorID, action, entityID string) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "appointment",
		EntityID: entityID,
	})
	if err != nil {
		s.logger.Warn("audit record failed", slog.String("action", action), slog.Any("error", err))
	}
}
