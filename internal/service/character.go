package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"rpg-sheets/internal/domain"
	"rpg-sheets/internal/dto"
	"rpg-sheets/internal/imagex"
	"rpg-sheets/internal/repository"
)

// Broadcaster is the push port the mutation service publishes on after each
// committed write. Delivery is best-effort; the service never waits on it.
type Broadcaster interface {
	CharacterCreated(view *dto.CharacterView)
	CharacterUpdated(view *dto.CharacterView)
	PointsAwarded(characterID uint, currentXP, totalXP int64)
}

// Auditor records committed mutations for operators. A nil auditor disables
// recording; mutations still succeed.
type Auditor interface {
	Record(ctx context.Context, entry domain.AuditEntry)
}

// CharacterService is the sole writer of character state. Every successful
// mutation is mirrored to connected clients through the Broadcaster.
type CharacterService struct {
	characterRepo repository.CharacterRepository
	userRepo      repository.UserRepository
	broadcaster   Broadcaster
	auditor       Auditor
}

// NewCharacterService creates a CharacterService.
func NewCharacterService(characterRepo repository.CharacterRepository, userRepo repository.UserRepository, broadcaster Broadcaster, auditor Auditor) *CharacterService {
	if characterRepo == nil {
		panic("CharacterRepository cannot be nil for CharacterService")
	}
	if userRepo == nil {
		panic("UserRepository cannot be nil for CharacterService")
	}
	if broadcaster == nil {
		panic("Broadcaster cannot be nil for CharacterService")
	}
	return &CharacterService{
		characterRepo: characterRepo,
		userRepo:      userRepo,
		broadcaster:   broadcaster,
		auditor:       auditor,
	}
}

// Create inserts a new character for an existing owner. Experience counters
// and level always start at zero no matter what the input carries. On success
// a character-created event goes out with the full new record.
func (s *CharacterService) Create(ctx context.Context, ownerID uint, in dto.CharacterInput) error {
	logCtx := logrus.WithFields(logrus.Fields{"owner_id": ownerID, "name": in.Name})

	owner, err := s.userRepo.FindByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			logCtx.Warn("Create character failed: owner not found")
			return ErrUserNotFound
		}
		logCtx.WithError(err).Error("Database error looking up character owner")
		return ErrInternalServer
	}

	realm, err := domain.RealmFromDisplay(in.Realm)
	if err != nil {
		logCtx.WithError(err).Warn("Create character failed: realm not in the enumerated set")
		return ErrInvalidRealm
	}

	var portrait []byte
	if in.Portrait != "" {
		portrait, err = imagex.Compress(in.Portrait)
		if err != nil {
			logCtx.WithError(err).Warn("Create character failed: portrait not decodable")
			return ErrInvalidPortrait
		}
	}

	character := &domain.Character{
		UserID:               owner.ID,
		Name:                 in.Name,
		IdentificationNumber: in.IdentificationNumber,
		Realm:                realm,
		Aptitude:             in.Aptitude,
		CurrentXP:            0,
		TotalXP:              0,
		Portrait:             portrait,
		Sheet:                in.Sheet,
		Age:                  in.Age,
		Level:                0,
	}

	if err := s.characterRepo.Save(ctx, character); err != nil {
		logCtx.WithError(err).Error("Database error creating character")
		return ErrInternalServer
	}

	logCtx.WithField("character_id", character.ID).Info("Character created")
	s.audit(ctx, domain.AuditEntry{
		Kind:        domain.AuditCharacterCreated,
		CharacterID: character.ID,
		ActorID:     ownerID,
		Detail:      fmt.Sprintf("name=%s realm=%s", character.Name, character.Realm),
	})

	view, err := viewOf(character)
	if err != nil {
		// The write committed; a view that cannot be built only loses the
		// push, clients catch up on the next fetch.
		logCtx.WithError(err).Error("Failed to build character view for broadcast")
		return nil
	}
	s.broadcaster.CharacterCreated(view)
	return nil
}

// Update overwrites name, sheet payload, level and, when a new one is
// supplied, the portrait. Realm, aptitude, age and identification number are
// deliberately not revisable here; that asymmetry with Create is part of the
// contract.
func (s *CharacterService) Update(ctx context.Context, characterID uint, in dto.CharacterInput) error {
	logCtx := logrus.WithField("character_id", characterID)

	character, err := s.characterRepo.FindByID(ctx, characterID)
	if err != nil {
		if errors.Is(err, repository.ErrCharacterNotFound) {
			logCtx.Warn("Update character failed: character not found")
			return ErrCharacterNotFound
		}
		logCtx.WithError(err).Error("Database error looking up character")
		return ErrInternalServer
	}

	character.Name = in.Name
	character.Sheet = in.Sheet
	character.Level = in.Level
	if in.Portrait != "" {
		portrait, err := imagex.Compress(in.Portrait)
		if err != nil {
			logCtx.WithError(err).Warn("Update character failed: portrait not decodable")
			return ErrInvalidPortrait
		}
		character.Portrait = portrait
	}

	if err := s.characterRepo.Save(ctx, character); err != nil {
		logCtx.WithError(err).Error("Database error updating character")
		return ErrInternalServer
	}

	logCtx.Info("Character updated")
	s.audit(ctx, domain.AuditEntry{
		Kind:        domain.AuditCharacterUpdated,
		CharacterID: character.ID,
		ActorID:     character.UserID,
		Detail:      fmt.Sprintf("name=%s level=%d", character.Name, character.Level),
	})

	view, err := viewOf(character)
	if err != nil {
		logCtx.WithError(err).Error("Failed to build character view for broadcast")
		return nil
	}
	s.broadcaster.CharacterUpdated(view)
	return nil
}

// AwardExperience adds amount to both XP counters of one character, or of
// every character when everyone is set. Each affected character gets its own
// points-awarded event carrying the new counters.
func (s *CharacterService) AwardExperience(ctx context.Context, characterID uint, amount int64, everyone bool) error {
	logCtx := logrus.WithFields(logrus.Fields{"character_id": characterID, "amount": amount, "everyone": everyone})

	if everyone {
		characters, err := s.characterRepo.AddExperienceToAll(ctx, amount)
		if err != nil {
			logCtx.WithError(err).Error("Database error awarding experience to all characters")
			return ErrInternalServer
		}
		for i := range characters {
			c := &characters[i]
			s.audit(ctx, domain.AuditEntry{
				Kind:        domain.AuditPointsAwarded,
				CharacterID: c.ID,
				Detail:      fmt.Sprintf("amount=%d everyone=true", amount),
			})
			s.broadcaster.PointsAwarded(c.ID, c.CurrentXP, c.TotalXP)
		}
		logCtx.WithField("affected", len(characters)).Info("Experience awarded to all characters")
		return nil
	}

	character, err := s.characterRepo.AddExperience(ctx, characterID, amount)
	if err != nil {
		if errors.Is(err, repository.ErrCharacterNotFound) {
			logCtx.Warn("Award experience failed: character not found")
			return ErrCharacterNotFound
		}
		logCtx.WithError(err).Error("Database error awarding experience")
		return ErrInternalServer
	}

	logCtx.WithFields(logrus.Fields{"current_xp": character.CurrentXP, "total_xp": character.TotalXP}).
		Info("Experience awarded")
	s.audit(ctx, domain.AuditEntry{
		Kind:        domain.AuditPointsAwarded,
		CharacterID: character.ID,
		Detail:      fmt.Sprintf("amount=%d", amount),
	})
	s.broadcaster.PointsAwarded(character.ID, character.CurrentXP, character.TotalXP)
	return nil
}

// AwardExperienceBatch applies distinct per-character amounts. Rows are
// updated one by one; a character missing mid-batch fails the call but rows
// already written stay written (at-least-one-unit durability, matching the
// award contract).
func (s *CharacterService) AwardExperienceBatch(ctx context.Context, awards []dto.ExperienceAward) error {
	for _, award := range awards {
		character, err := s.characterRepo.AddExperience(ctx, award.CharacterID, award.Amount)
		if err != nil {
			logCtx := logrus.WithFields(logrus.Fields{"character_id": award.CharacterID, "amount": award.Amount})
			if errors.Is(err, repository.ErrCharacterNotFound) {
				logCtx.Warn("Batch award: character not found")
				return ErrCharacterNotFound
			}
			logCtx.WithError(err).Error("Database error in batch award")
			return ErrInternalServer
		}
		s.audit(ctx, domain.AuditEntry{
			Kind:        domain.AuditPointsAwarded,
			CharacterID: character.ID,
			Detail:      fmt.Sprintf("amount=%d batch=true", award.Amount),
		})
		s.broadcaster.PointsAwarded(character.ID, character.CurrentXP, character.TotalXP)
	}
	logrus.WithField("count", len(awards)).Info("Batch experience award applied")
	return nil
}

// FetchOne returns the character owned by the given user, portrait expanded
// and realm mapped to display text.
func (s *CharacterService) FetchOne(ctx context.Context, ownerID uint) (*dto.CharacterView, error) {
	character, err := s.characterRepo.FindByUserID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrCharacterNotFound) {
			return nil, ErrCharacterNotFound
		}
		logrus.WithError(err).WithField("owner_id", ownerID).Error("Database error fetching character")
		return nil, ErrInternalServer
	}
	view, err := viewOf(character)
	if err != nil {
		logrus.WithError(err).WithField("character_id", character.ID).Error("Failed to build character view")
		return nil, ErrInternalServer
	}
	return view, nil
}

// FetchAll returns every character with the same per-field transformation as
// FetchOne, for game-master consumption.
func (s *CharacterService) FetchAll(ctx context.Context) ([]dto.CharacterView, error) {
	characters, err := s.characterRepo.FindAll(ctx)
	if err != nil {
		logrus.WithError(err).Error("Database error fetching all characters")
		return nil, ErrInternalServer
	}
	views := make([]dto.CharacterView, 0, len(characters))
	for i := range characters {
		view, err := viewOf(&characters[i])
		if err != nil {
			logrus.WithError(err).WithField("character_id", characters[i].ID).Error("Failed to build character view")
			return nil, ErrInternalServer
		}
		views = append(views, *view)
	}
	return views, nil
}

func (s *CharacterService) audit(ctx context.Context, entry domain.AuditEntry) {
	if s.auditor != nil {
		s.auditor.Record(ctx, entry)
	}
}

// viewOf maps a stored character to its wire form.
func viewOf(c *domain.Character) (*dto.CharacterView, error) {
	view := &dto.CharacterView{
		ID:                   c.ID,
		Name:                 c.Name,
		IdentificationNumber: c.IdentificationNumber,
		Realm:                c.Realm.Display(),
		Aptitude:             c.Aptitude,
		CurrentXP:            c.CurrentXP,
		TotalXP:              c.TotalXP,
		Sheet:                c.Sheet,
		Age:                  c.Age,
		Level:                c.Level,
	}
	if len(c.Portrait) > 0 {
		portrait, err := imagex.Decompress(c.Portrait)
		if err != nil {
			return nil, fmt.Errorf("decompress portrait of character %d: %w", c.ID, err)
		}
		view.Portrait = portrait
	}
	return view, nil
}
