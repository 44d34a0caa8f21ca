// Package domain defines the persisted data structures (database models).
package domain

import "time"

// Role distinguishes the two account kinds. Players own at most one
// character; game masters see and mutate the whole roster.
type Role string

const (
	RolePlayer     Role = "Player"
	RoleGameMaster Role = "GameMaster"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RolePlayer || r == RoleGameMaster
}

// User represents an account. Immutable after registration.
type User struct {
	ID           uint      `gorm:"primaryKey"`
	Username     string    `gorm:"type:varchar(191);uniqueIndex:idx_username;not null"`
	Password     string    `gorm:"type:text;not null"` // bcrypt hash, never exposed outward
	Role         Role      `gorm:"type:varchar(32);not null"`
	RegisteredAt time.Time `gorm:"autoCreateTime"`
}
