// Package tasks defines the background task types and payloads exchanged
// with the worker through Asynq.
package tasks

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"rpg-sheets/internal/domain"
)

// Task type names.
const (
	TypeAuditRecord = "audit:record"
	TypeAuditPurge  = "audit:purge"
)

// AuditRecordPayload carries one mutation audit entry to the worker.
type AuditRecordPayload struct {
	Entry domain.AuditEntry
}

// NewAuditRecordTask builds an audit persistence task.
func NewAuditRecordTask(entry domain.AuditEntry) (*asynq.Task, error) {
	payload, err := json.Marshal(AuditRecordPayload{Entry: entry})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeAuditRecord, payload), nil
}

// NewAuditPurgeTask builds the periodic retention sweep task. It carries no
// payload; the retention window lives in worker configuration.
func NewAuditPurgeTask() *asynq.Task {
	return asynq.NewTask(TypeAuditPurge, nil)
}

// AsynqAuditor enqueues audit entries on the task queue. It implements the
// service layer's Auditor port; enqueue failures are logged and swallowed so
// auditing can never fail a mutation.
type AsynqAuditor struct {
	client *asynq.Client
}

// NewAsynqAuditor creates an AsynqAuditor.
func NewAsynqAuditor(client *asynq.Client) *AsynqAuditor {
	if client == nil {
		panic("asynq client cannot be nil for AsynqAuditor")
	}
	return &AsynqAuditor{client: client}
}

// Record enqueues the entry for background persistence.
func (a *AsynqAuditor) Record(ctx context.Context, entry domain.AuditEntry) {
	task, err := NewAuditRecordTask(entry)
	if err != nil {
		logrus.WithError(err).Error("Failed to build audit record task")
		return
	}
	if _, err := a.client.EnqueueContext(ctx, task, asynq.Queue("low")); err != nil {
		logrus.WithError(err).WithField("kind", entry.Kind).Warn("Failed to enqueue audit record task")
	}
}
