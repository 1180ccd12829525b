package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"

	"github.com/atrium-suite/atrium/internal/rbac"
	"github.com/atrium-suite/atrium/internal/shared"
)

type stubSweeper struct {
	calls int
	err   error
}

func (s *stubSweeper) EnqueueExpireSweep(context.Context, ExpireSweepPayload) (*asynq.TaskInfo, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &asynq.TaskInfo{ID: "task-1", Queue: QueueDefault}, nil
}

type ownerStore struct {
	sweepStore
	assignment rbac.Assignment
}

func (s *ownerStore) FindActiveByUser(_ context.Context, userID string) ([]rbac.Assignment, error) {
	if userID == s.assignment.UserID {
		return []rbac.Assignment{s.assignment}, nil
	}
	return nil, nil
}

func newJobsRouter(t *testing.T, sweeper SweepEnqueuer) (chi.Router, string) {
	t.Helper()
	catalog := rbac.DefaultCatalog()
	assignment, err := rbac.NewAssignment(catalog, rbac.NewAssignmentParams{
		UserID:     "owner-1",
		Role:       rbac.RoleBusinessOwner,
		Scope:      rbac.BusinessScope("b1"),
		AssignedBy: "admin",
	})
	if err != nil {
		t.Fatalf("build assignment: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	resolver := rbac.NewResolver(&ownerStore{assignment: *assignment}, catalog, logger)
	engine := rbac.NewEngine(resolver, nil, logger)

	r := chi.NewRouter()
	h := NewHandler(nil, sweeper, rbac.Middleware{Engine: engine, Logger: logger}, logger)
	h.MountRoutes(r)
	return r, assignment.UserID
}

func sweepRequest(userID string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/sweep", nil)
	if userID != "" {
		ctx := shared.ContextWithPrincipal(req.Context(), &shared.Principal{UserID: userID})
		req = req.WithContext(ctx)
	}
	return req
}

func TestSweepEndpointEnqueues(t *testing.T) {
	sweeper := &stubSweeper{}
	router, ownerID := newJobsRouter(t, sweeper)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, sweepRequest(ownerID))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if sweeper.calls != 1 {
		t.Fatalf("expected one enqueue, got %d", sweeper.calls)
	}
	if !strings.Contains(rec.Body.String(), `"task_id":"task-1"`) {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestSweepEndpointRequiresRevokePermission(t *testing.T) {
	sweeper := &stubSweeper{}
	router, _ := newJobsRouter(t, sweeper)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, sweepRequest(""))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for anonymous caller, got %d", rec.Code)
	}
	if sweeper.calls != 0 {
		t.Fatalf("expected no enqueue, got %d", sweeper.calls)
	}
}

func TestSweepEndpointWithoutClient(t *testing.T) {
	router, ownerID := newJobsRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, sweepRequest(ownerID))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without a queue client, got %d", rec.Code)
	}
}

func TestSweepEndpointEnqueueFailure(t *testing.T) {
	sweeper := &stubSweeper{err: errors.New("redis down")}
	router, ownerID := newJobsRouter(t, sweeper)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, sweepRequest(ownerID))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on enqueue failure, got %d", rec.Code)
	}
}
