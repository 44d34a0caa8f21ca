package repository

import (
	"context"

	"rpg-sheets/internal/domain"
)

// CharacterRepository stores and retrieves character records.
type CharacterRepository interface {
	// FindByID looks a character up by primary key. Returns
	// ErrCharacterNotFound when absent.
	FindByID(ctx context.Context, id uint) (*domain.Character, error)

	// FindByUserID returns the character owned by the given user. Returns
	// ErrCharacterNotFound when the user has none.
	FindByUserID(ctx context.Context, userID uint) (*domain.Character, error)

	// FindAll returns every character.
	FindAll(ctx context.Context) ([]domain.Character, error)

	// Save inserts the character when ID is zero, updates it otherwise.
	Save(ctx context.Context, character *domain.Character) error

	// AddExperience atomically adds amount to both XP counters of one
	// character at the storage layer (no read-modify-write, so concurrent
	// awards cannot lose updates) and returns the reloaded row. Returns
	// ErrCharacterNotFound when no row matched.
	AddExperience(ctx context.Context, id uint, amount int64) (*domain.Character, error)

	// AddExperienceToAll atomically adds amount to both XP counters of every
	// character and returns the reloaded rows.
	AddExperienceToAll(ctx context.Context, amount int64) ([]domain.Character, error)
}
