package repository

import (
	"context"
	"time"

	"rpg-sheets/internal/domain"
)

// AuditRepository stores mutation audit entries.
type AuditRepository interface {
	// Save persists one audit entry.
	Save(ctx context.Context, entry *domain.AuditEntry) error

	// DeleteOlderThan removes entries created before cutoff and returns how
	// many rows were deleted.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
