package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"rpg-sheets/internal/domain"
	"rpg-sheets/internal/repository"
)

// GormCharacterRepository is the GORM implementation of
// repository.CharacterRepository.
type GormCharacterRepository struct {
	db *gorm.DB
}

// NewGormCharacterRepository creates a GormCharacterRepository.
func NewGormCharacterRepository(db *gorm.DB) *GormCharacterRepository {
	if db == nil {
		panic("database connection cannot be nil for GormCharacterRepository")
	}
	return &GormCharacterRepository{db: db}
}

// FindByID looks a character up by primary key.
func (r *GormCharacterRepository) FindByID(ctx context.Context, id uint) (*domain.Character, error) {
	var character domain.Character
	err := r.db.WithContext(ctx).First(&character, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCharacterNotFound
		}
		return nil, fmt.Errorf("gorm: find character by id %d: %w", id, err)
	}
	return &character, nil
}

// FindByUserID returns the character owned by the given user.
func (r *GormCharacterRepository) FindByUserID(ctx context.Context, userID uint) (*domain.Character, error) {
	var character domain.Character
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&character).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCharacterNotFound
		}
		return nil, fmt.Errorf("gorm: find character by user id %d: %w", userID, err)
	}
	return &character, nil
}

// FindAll returns every character ordered by id.
func (r *GormCharacterRepository) FindAll(ctx context.Context) ([]domain.Character, error) {
	var characters []domain.Character
	err := r.db.WithContext(ctx).Order("id").Find(&characters).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find all characters: %w", err)
	}
	return characters, nil
}

// Save inserts or updates the character depending on whether its ID is set.
func (r *GormCharacterRepository) Save(ctx context.Context, character *domain.Character) error {
	err := r.db.WithContext(ctx).Save(character).Error
	if err != nil {
		if isDuplicateEntryError(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: save character (id: %d, name: %s): %w", character.ID, character.Name, err)
	}
	return nil
}

// AddExperience increments both XP counters in a single UPDATE so concurrent
// awards against the same row cannot lose updates, then reloads the row for
// the caller.
func (r *GormCharacterRepository) AddExperience(ctx context.Context, id uint, amount int64) (*domain.Character, error) {
	result := r.db.WithContext(ctx).Model(&domain.Character{}).Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"current_xp": gorm.Expr("current_xp + ?", amount),
			"total_xp":   gorm.Expr("total_xp + ?", amount),
		})
	if result.Error != nil {
		return nil, fmt.Errorf("gorm: add experience to character %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, repository.ErrCharacterNotFound
	}
	return r.FindByID(ctx, id)
}

// AddExperienceToAll increments both XP counters of every character in one
// UPDATE and returns the reloaded rows.
func (r *GormCharacterRepository) AddExperienceToAll(ctx context.Context, amount int64) ([]domain.Character, error) {
	err := r.db.WithContext(ctx).Model(&domain.Character{}).Where("1 = 1").
		UpdateColumns(map[string]interface{}{
			"current_xp": gorm.Expr("current_xp + ?", amount),
			"total_xp":   gorm.Expr("total_xp + ?", amount),
		}).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: add experience to all characters: %w", err)
	}
	return r.FindAll(ctx)
}
