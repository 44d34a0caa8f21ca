// Package repository declares the persistence ports the services depend on.
package repository

import (
	"context"

	"rpg-sheets/internal/domain"
)

// UserRepository stores and retrieves user accounts.
type UserRepository interface {
	// FindByUsername looks a user up by exact username. Returns
	// ErrUserNotFound when absent.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindByID looks a user up by primary key. Returns ErrUserNotFound when
	// absent.
	FindByID(ctx context.Context, id uint) (*domain.User, error)

	// FindAllUsernames returns every registered username.
	FindAllUsernames(ctx context.Context) ([]string, error)

	// Save inserts the user when ID is zero, updates it otherwise. Returns
	// ErrDuplicateEntry on a unique-constraint violation.
	Save(ctx context.Context, user *domain.User) error
}
