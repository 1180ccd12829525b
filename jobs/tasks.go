package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskRBACExpireSweep deactivates role assignments whose expiry passed.
	TaskRBACExpireSweep = "rbac:expire_sweep"
	// TaskAuditCleanup prunes audit log entries beyond retention.
	TaskAuditCleanup = "audit:cleanup"
)

// ExpireSweepPayload parameterises the expiry sweep. Empty means "now".
type ExpireSweepPayload struct {
	AsOf string `json:"as_of,omitempty"`
}

// NewExpireSweepTask constructs the expiry sweep task.
func NewExpireSweepTask(payload ExpireSweepPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRBACExpireSweep, data), nil
}

// AuditCleanupPayload parameterises audit retention.
type AuditCleanupPayload struct {
	RetentionDays int `json:"retention_days,omitempty"`
}

// NewAuditCleanupTask constructs the audit cleanup task.
func NewAuditCleanupTask(payload AuditCleanupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAuditCleanup, data), nil
}
