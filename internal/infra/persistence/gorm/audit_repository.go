package gormpersistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"rpg-sheets/internal/domain"
)

// GormAuditRepository is the GORM implementation of
// repository.AuditRepository.
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a GormAuditRepository.
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	if db == nil {
		panic("database connection cannot be nil for GormAuditRepository")
	}
	return &GormAuditRepository{db: db}
}

// Save persists one audit entry.
func (r *GormAuditRepository) Save(ctx context.Context, entry *domain.AuditEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("gorm: save audit entry (kind: %s): %w", entry.Kind, err)
	}
	return nil
}

// DeleteOlderThan removes audit entries created before cutoff.
func (r *GormAuditRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&domain.AuditEntry{})
	if result.Error != nil {
		return 0, fmt.Errorf("gorm: purge audit entries before %s: %w", cutoff.Format(time.RFC3339), result.Error)
	}
	return result.RowsAffected, nil
}
