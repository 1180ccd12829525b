package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/atrium-suite/atrium/internal/jobs"
	"github.com/atrium-suite/atrium/internal/rbac"
)

// ExpireSweepJob deactivates role assignments whose expiry has passed. The
// resolver already treats expired assignments as inert, so the sweep is a
// hygiene pass that keeps the active set small and the audit trail honest.
type ExpireSweepJob struct {
	Store   rbac.Store
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewExpireSweepJob wires dependencies for the sweep handler.
func NewExpireSweepJob(store rbac.Store, logger *slog.Logger, metrics *jobmetrics.Metrics) *ExpireSweepJob {
	return &ExpireSweepJob{
		Store:   store,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes expiry sweep tasks.
func (j *ExpireSweepJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Store == nil {
		return errors.New("expire sweep: handler not configured")
	}
	var payload ExpireSweepPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	now := j.clock()
	if payload.AsOf != "" {
		parsed, err := time.Parse(time.RFC3339, payload.AsOf)
		if err != nil {
			return asynq.SkipRetry
		}
		now = parsed
	}

	tracker := j.Metrics.Track(TaskRBACExpireSweep)
	swept, err := j.Store.DeactivateExpired(ctx, now)
	if err != nil {
		j.logger().Error("expire sweep failed", slog.Any("error", err))
		return tracker.End(err)
	}
	j.Metrics.AddSweptAssignments(swept)
	if swept > 0 {
		j.logger().Info("deactivated expired assignments", slog.Int64("count", swept))
	}
	return tracker.End(nil)
}

func (j *ExpireSweepJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
