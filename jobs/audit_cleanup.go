package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/atrium-suite/atrium/internal/jobs"
	"github.com/atrium-suite/atrium/internal/shared"
)

const defaultAuditRetentionDays = 365

// AuditCleanupJob prunes audit entries past the retention window.
type AuditCleanupJob struct {
	Audit   *shared.AuditLogger
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewAuditCleanupJob wires dependencies for the cleanup handler.
func NewAuditCleanupJob(audit *shared.AuditLogger, logger *slog.Logger, metrics *jobmetrics.Metrics) *AuditCleanupJob {
	return &AuditCleanupJob{Audit: audit, Logger: logger, Metrics: metrics}
}

// Handle processes audit cleanup tasks.
func (j *AuditCleanupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Audit == nil {
		return errors.New("audit cleanup: handler not configured")
	}
	var payload AuditCleanupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	days := payload.RetentionDays
	if days <= 0 {
		days = defaultAuditRetentionDays
	}

	tracker := j.Metrics.Track(TaskAuditCleanup)
	err := j.Audit.Cleanup(ctx, time.Duration(days)*24*time.Hour)
	if err != nil && j.Logger != nil {
		j.Logger.Error("audit cleanup failed", slog.Any("error", err))
	}
	return tracker.End(err)
}
