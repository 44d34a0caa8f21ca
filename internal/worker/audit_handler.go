package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"rpg-sheets/internal/repository"
	"rpg-sheets/internal/tasks"
)

// AuditHandler processes audit record and purge tasks.
type AuditHandler struct {
	auditRepo repository.AuditRepository
	retention time.Duration
}

// NewAuditHandler creates an AuditHandler.
func NewAuditHandler(auditRepo repository.AuditRepository, retention time.Duration) *AuditHandler {
	if auditRepo == nil {
		panic("AuditRepository cannot be nil for AuditHandler")
	}
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}
	return &AuditHandler{auditRepo: auditRepo, retention: retention}
}

// ProcessRecord persists one audit entry. Implements asynq.Handler.
func (h *AuditHandler) ProcessRecord(ctx context.Context, t *asynq.Task) error {
	var payload tasks.AuditRecordPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		// A payload that cannot decode will never decode; do not retry.
		return fmt.Errorf("unmarshal audit payload: %v: %w", err, asynq.SkipRetry)
	}

	if err := h.auditRepo.Save(ctx, &payload.Entry); err != nil {
		return fmt.Errorf("persist audit entry: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"kind":         payload.Entry.Kind,
		"character_id": payload.Entry.CharacterID,
	}).Debug("Audit entry persisted")
	return nil
}

// ProcessPurge deletes audit entries older than the retention window.
func (h *AuditHandler) ProcessPurge(ctx context.Context, _ *asynq.Task) error {
	cutoff := time.Now().Add(-h.retention)
	deleted, err := h.auditRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("purge audit entries: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"deleted": deleted,
		"cutoff":  cutoff.Format(time.RFC3339),
	}).Info("Audit retention sweep completed")
	return nil
}
