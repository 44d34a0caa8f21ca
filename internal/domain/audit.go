package domain

import "time"

// Audit entry kinds, one per mutation path.
const (
	AuditCharacterCreated = "character_created"
	AuditCharacterUpdated = "character_updated"
	AuditPointsAwarded    = "points_awarded"
)

// AuditEntry records a committed character mutation for operators. Entries
// are written by a background worker, never on the request path, and are
// purged after the configured retention window.
type AuditEntry struct {
	ID          uint      `gorm:"primaryKey"`
	Kind        string    `gorm:"type:varchar(64);index;not null"`
	CharacterID uint      `gorm:"index"`
	ActorID     uint      `gorm:"index"`
	Detail      string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index"`
}
