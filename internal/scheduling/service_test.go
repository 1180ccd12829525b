package scheduling

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atrium-suite/atrium/internal/rbac"
	_ "github.com/atrium-suite/atrium/testing"
)

type stubAssignmentStore struct {
	assignments []rbac.Assignment
}

func (s *stubAssignmentStore) FindByID(context.Context, string) (*rbac.Assignment, error) {
	return nil, rbac.ErrAssignmentNotFound
}

func (s *stubAssignmentStore) FindActiveByUser(_ context.Context, userID string) ([]rbac.Assignment, error) {
	var out []rbac.Assignment
	for _, a := range s.assignments {
		if a.UserID == userID && a.Active {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *stubAssignmentStore) FindActiveByUserRoleScope(context.Context, string, rbac.Role, rbac.Scope) (*rbac.Assignment, error) {
	return nil, rbac.ErrAssignmentNotFound
}

func (s *stubAssignmentStore) ListByUser(_ context.Context, userID string) ([]rbac.Assignment, error) {
	return s.FindActiveByUser(context.Background(), userID)
}

func (s *stubAssignmentStore) Save(_ context.Context, a *rbac.Assignment) error {
	s.assignments = append(s.assignments, *a)
	return nil
}

func (s *stubAssignmentStore) Deactivate(context.Context, string) error { return nil }
func (s *stubAssignmentStore) Reactivate(context.Context, string) error { return nil }
func (s *stubAssignmentStore) DeactivateExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}

type mockRepository struct {
	appointments map[string]Appointment
	createErr    error
}

func newMockRepository() *mockRepository {
	return &mockRepository{appointments: make(map[string]Appointment)}
}

func (m *mockRepository) Get(_ context.Context, id string) (*Appointment, error) {
	a, ok := m.appointments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (m *mockRepository) List(_ context.Context, req ListAppointmentsRequest) ([]Appointment, error) {
	var out []Appointment
	for _, a := range m.appointments {
		if a.BusinessID != req.BusinessID {
			continue
		}
		if req.LocationID != nil && a.LocationID != *req.LocationID {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (m *mockRepository) Create(_ context.Context, a Appointment) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.appointments[a.ID] = a
	return nil
}

func (m *mockRepository) UpdateStatus(_ context.Context, id string, status AppointmentStatus) error {
	a, ok := m.appointments[id]
	if !ok {
		return ErrNotFound
	}
	a.Status = status
	m.appointments[id] = a
	return nil
}

func grantRole(t *testing.T, store *stubAssignmentStore, userID string, role rbac.Role, scope rbac.Scope) {
	t.Helper()
	a, err := rbac.NewAssignment(rbac.DefaultCatalog(), rbac.NewAssignmentParams{
		UserID:     userID,
		Role:       role,
		Scope:      scope,
		AssignedBy: "system",
	})
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), a))
}

func newTestService(t *testing.T) (*Service, *mockRepository, *stubAssignmentStore) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := &stubAssignmentStore{}
	resolver := rbac.NewResolver(store, rbac.DefaultCatalog(), logger)
	engine := rbac.NewEngine(resolver, nil, logger)
	repo := newMockRepository()
	return NewService(logger, repo, engine, nil), repo, store
}

func bookRequest() BookAppointmentRequest {
	start := time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)
	return BookAppointmentRequest{
		BusinessID:  "b1",
		LocationID:  "l1",
		ClientName:  "  Ana Morales  ",
		ServiceName: "Deep Tissue Massage",
		StartsAt:    start,
		EndsAt:      start.Add(time.Hour),
	}
}

func TestBookRequiresLocationScopedPermission(t *testing.T) {
	svc, repo, store := newTestService(t)
	ctx := context.Background()

	// A receptionist at a different location of the same business.
	grantRole(t, store, "u1", rbac.RoleReceptionist, rbac.LocationScope("b1", "l2"))

	_, err := svc.Book(ctx, "u1", bookRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, rbac.ErrForbidden)
	assert.Empty(t, repo.appointments)
}

func TestBookCreatesAppointment(t *testing.T) {
	svc, repo, store := newTestService(t)
	ctx := context.Background()
	grantRole(t, store, "u1", rbac.RoleReceptionist, rbac.LocationScope("b1", "l1"))

	appointment, err := svc.Book(ctx, "u1", bookRequest())
	require.NoError(t, err)
	assert.Equal(t, StatusBooked, appointment.Status)
	assert.Equal(t, "Ana Morales", appointment.ClientName)
	assert.Equal(t, "u1", appointment.CreatedBy)
	assert.Len(t, repo.appointments, 1)
}

func TestBookAllowedForBusinessScopedRole(t *testing.T) {
	svc, _, store := newTestService(t)
	ctx := context.Background()

	// A business scope covers every location under it.
	grantRole(t, store, "owner", rbac.RoleBusinessOwner, rbac.BusinessScope("b1"))

	_, err := svc.Book(ctx, "owner", bookRequest())
	require.NoError(t, err)
}

func TestTransitionFollowsLifecycle(t *testing.T) {
	svc, repo, store := newTestService(t)
	ctx := context.Background()
	grantRole(t, store, "mgr", rbac.RoleLocationManager, rbac.LocationScope("b1", "l1"))

	appointment, err := svc.Book(ctx, "mgr", bookRequest())
	require.NoError(t, err)

	got, err := svc.Transition(ctx, "mgr", appointment.ID, StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, got.Status)

	got, err = svc.Transition(ctx, "mgr", appointment.ID, StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)

	// Completed is terminal.
	_, err = svc.Transition(ctx, "mgr", appointment.ID, StatusCancelled)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StatusCompleted, repo.appointments[appointment.ID].Status)
}

func TestTransitionPermissionMatchesTarget(t *testing.T) {
	svc, _, store := newTestService(t)
	ctx := context.Background()
	grantRole(t, store, "recep", rbac.RoleReceptionist, rbac.LocationScope("b1", "l1"))

	appointment, err := svc.Book(ctx, "recep", bookRequest())
	require.NoError(t, err)

	// Receptionists confirm and cancel but never complete.
	_, err = svc.Transition(ctx, "recep", appointment.ID, StatusConfirmed)
	require.NoError(t, err)

	_, err = svc.Transition(ctx, "recep", appointment.ID, StatusCompleted)
	assert.ErrorIs(t, err, rbac.ErrForbidden)
}

func TestTransitionUnknownAppointment(t *testing.T) {
	svc, _, store := newTestService(t)
	grantRole(t, store, "mgr", rbac.RoleLocationManager, rbac.LocationScope("b1", "l1"))

	_, err := svc.Transition(context.Background(), "mgr", "missing", StatusConfirmed)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListRequiresViewInRequestedScope(t *testing.T) {
	svc, _, store := newTestService(t)
	ctx := context.Background()
	grantRole(t, store, "recep", rbac.RoleReceptionist, rbac.LocationScope("b1", "l1"))

	l1 := "l1"
	_, err := svc.List(ctx, "recep", ListAppointmentsRequest{BusinessID: "b1", LocationID: &l1})
	require.NoError(t, err)

	// A location scoped role cannot list across the whole business.
	_, err = svc.List(ctx, "recep", ListAppointmentsRequest{BusinessID: "b1"})
	assert.ErrorIs(t, err, rbac.ErrForbidden)
}

func TestGetChecksAppointmentScope(t *testing.T) {
	svc, _, store := newTestService(t)
	ctx := context.Background()
	grantRole(t, store, "recep", rbac.RoleReceptionist, rbac.LocationScope("b1", "l1"))
	grantRole(t, store, "other", rbac.RoleReceptionist, rbac.LocationScope("b2", "l9"))

	appointment, err := svc.Book(ctx, "recep", bookRequest())
	require.NoError(t, err)

	_, err = svc.Get(ctx, "recep", appointment.ID)
	require.NoError(t, err)

	_, err = svc.Get(ctx, "other", appointment.ID)
	assert.ErrorIs(t, err, rbac.ErrForbidden)
}

func TestStatusTransitionTable(t *testing.T) {
	cases := []struct {
		from, to AppointmentStatus
		ok       bool
	}{
		{StatusBooked, StatusConfirmed, true},
		{StatusBooked, StatusCancelled, true},
		{StatusBooked, StatusCompleted, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusBooked, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusConfirmed, false},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.ok, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}
