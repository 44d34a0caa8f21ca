package service_test

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rpg-sheets/internal/domain"
	"rpg-sheets/internal/dto"
	"rpg-sheets/internal/imagex"
	"rpg-sheets/internal/repository"
	"rpg-sheets/internal/repository/mocks"
	"rpg-sheets/internal/service"
)

// recordingBroadcaster captures every push so tests can assert on what would
// have gone over the wire.
type recordingBroadcaster struct {
	created []dto.CharacterView
	updated []dto.CharacterView
	awarded []awardedEvent
}

type awardedEvent struct {
	characterID uint
	currentXP   int64
	totalXP     int64
}

func (b *recordingBroadcaster) CharacterCreated(view *dto.CharacterView) {
	b.created = append(b.created, *view)
}

func (b *recordingBroadcaster) CharacterUpdated(view *dto.CharacterView) {
	b.updated = append(b.updated, *view)
}

func (b *recordingBroadcaster) PointsAwarded(characterID uint, currentXP, totalXP int64) {
	b.awarded = append(b.awarded, awardedEvent{characterID, currentXP, totalXP})
}

func newCharacterServiceForTest(t *testing.T) (*service.CharacterService, *mocks.CharacterRepository, *mocks.UserRepository, *recordingBroadcaster) {
	t.Helper()
	mockCharacterRepo := new(mocks.CharacterRepository)
	mockUserRepo := new(mocks.UserRepository)
	broadcaster := &recordingBroadcaster{}
	svc := service.NewCharacterService(mockCharacterRepo, mockUserRepo, broadcaster, nil)
	return svc, mockCharacterRepo, mockUserRepo, broadcaster
}

// --- Create ---

func TestCharacterService_Create_ZeroesProgressFields(t *testing.T) {
	svc, mockCharacterRepo, mockUserRepo, broadcaster := newCharacterServiceForTest(t)
	ctx := context.Background()

	mockUserRepo.On("FindByID", ctx, uint(7)).Return(&domain.User{ID: 7, Username: "alice"}, nil).Once()
	mockCharacterRepo.On("Save", ctx, mock.MatchedBy(func(c *domain.Character) bool {
		assert.Equal(t, uint(7), c.UserID)
		assert.Equal(t, "Thorne", c.Name)
		assert.Equal(t, domain.RealmFadalor, c.Realm)
		assert.Zero(t, c.CurrentXP, "progress fields start at zero regardless of input")
		assert.Zero(t, c.TotalXP)
		assert.Zero(t, c.Level)
		return true
	})).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Character).ID = 42
		}).
		Return(nil).
		Once()

	err := svc.Create(ctx, 7, dto.CharacterInput{
		Name:  "Thorne",
		Realm: "Fadalór",
		Age:   30,
		Level: 99, // must be ignored
	})

	require.NoError(t, err)
	require.Len(t, broadcaster.created, 1)
	view := broadcaster.created[0]
	assert.Equal(t, uint(42), view.ID)
	assert.Equal(t, "Thorne", view.Name)
	assert.Equal(t, "Fadalór", view.Realm)
	assert.Zero(t, view.CurrentXP)
	assert.Zero(t, view.TotalXP)
	assert.Zero(t, view.Level)

	mockUserRepo.AssertExpectations(t)
	mockCharacterRepo.AssertExpectations(t)
}

func TestCharacterService_Create_OwnerMissing(t *testing.T) {
	svc, mockCharacterRepo, mockUserRepo, broadcaster := newCharacterServiceForTest(t)
	ctx := context.Background()

	mockUserRepo.On("FindByID", ctx, uint(99)).Return(nil, repository.ErrUserNotFound).Once()

	err := svc.Create(ctx, 99, dto.CharacterInput{Name: "Ghost", Realm: "Indrún"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrUserNotFound))
	assert.Empty(t, broadcaster.created, "nothing may be broadcast when the write never happened")
	mockCharacterRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCharacterService_Create_InvalidRealm(t *testing.T) {
	svc, mockCharacterRepo, mockUserRepo, _ := newCharacterServiceForTest(t)
	ctx := context.Background()

	mockUserRepo.On("FindByID", ctx, uint(7)).Return(&domain.User{ID: 7}, nil).Once()

	err := svc.Create(ctx, 7, dto.CharacterInput{Name: "Nowhere Man", Realm: "Atlantis"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrInvalidRealm))
	mockCharacterRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCharacterService_Create_PortraitStoredCompressed(t *testing.T) {
	svc, mockCharacterRepo, mockUserRepo, broadcaster := newCharacterServiceForTest(t)
	ctx := context.Background()

	portrait := base64.StdEncoding.EncodeToString([]byte("tiny png bytes"))
	input := dto.CharacterInput{
		Name:     "Mira",
		Realm:    "Trondór",
		Portrait: "data:image/png;base64," + portrait,
	}

	mockUserRepo.On("FindByID", ctx, uint(7)).Return(&domain.User{ID: 7}, nil).Once()
	mockCharacterRepo.On("Save", ctx, mock.MatchedBy(func(c *domain.Character) bool {
		// Stored bytes are gzip, not the base64 text.
		decoded, err := imagex.Decompress(c.Portrait)
		assert.NoError(t, err)
		assert.Equal(t, portrait, decoded)
		return true
	})).Return(nil).Once()

	require.NoError(t, svc.Create(ctx, 7, input))

	require.Len(t, broadcaster.created, 1)
	assert.Equal(t, portrait, broadcaster.created[0].Portrait,
		"broadcast portrait must be bare base64 with the data-URL prefix gone")
}

func TestCharacterService_Create_InvalidPortrait(t *testing.T) {
	svc, mockCharacterRepo, mockUserRepo, _ := newCharacterServiceForTest(t)
	ctx := context.Background()

	mockUserRepo.On("FindByID", ctx, uint(7)).Return(&domain.User{ID: 7}, nil).Once()

	err := svc.Create(ctx, 7, dto.CharacterInput{Name: "Mira", Realm: "Indrún", Portrait: "%%% not base64 %%%"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrInvalidPortrait))
	mockCharacterRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// --- Update ---

func TestCharacterService_Update_TouchesOnlyRevisableFields(t *testing.T) {
	svc, mockCharacterRepo, _, broadcaster := newCharacterServiceForTest(t)
	ctx := context.Background()

	stored := &domain.Character{
		ID:                   42,
		UserID:               7,
		Name:                 "Thorne",
		IdentificationNumber: 1234,
		Realm:                domain.RealmFadalor,
		Aptitude:             "Warden",
		CurrentXP:            50,
		TotalXP:              120,
		Sheet:                `{"str":10}`,
		Age:                  30,
		Level:                2,
	}
	mockCharacterRepo.On("FindByID", ctx, uint(42)).Return(stored, nil).Once()
	mockCharacterRepo.On("Save", ctx, mock.MatchedBy(func(c *domain.Character) bool {
		assert.Equal(t, "Thorne the Grey", c.Name)
		assert.Equal(t, `{"str":11}`, c.Sheet)
		assert.Equal(t, 3, c.Level)
		// Everything else keeps its stored value even though the input
		// carries different ones.
		assert.Equal(t, int64(1234), c.IdentificationNumber)
		assert.Equal(t, domain.RealmFadalor, c.Realm)
		assert.Equal(t, "Warden", c.Aptitude)
		assert.Equal(t, 30, c.Age)
		assert.Equal(t, int64(50), c.CurrentXP)
		assert.Equal(t, int64(120), c.TotalXP)
		return true
	})).Return(nil).Once()

	err := svc.Update(ctx, 42, dto.CharacterInput{
		Name:                 "Thorne the Grey",
		Sheet:                `{"str":11}`,
		Level:                3,
		IdentificationNumber: 9999,
		Realm:                "Indrún",
		Aptitude:             "Trickster",
		Age:                  99,
	})

	require.NoError(t, err)
	require.Len(t, broadcaster.updated, 1)
	assert.Equal(t, "Thorne the Grey", broadcaster.updated[0].Name)
	mockCharacterRepo.AssertExpectations(t)
}

func TestCharacterService_Update_EmptyPortraitKeepsStoredOne(t *testing.T) {
	svc, mockCharacterRepo, _, _ := newCharacterServiceForTest(t)
	ctx := context.Background()

	existing, err := imagex.Compress(base64.StdEncoding.EncodeToString([]byte("old portrait")))
	require.NoError(t, err)
	stored := &domain.Character{ID: 42, Name: "Thorne", Realm: domain.RealmFadalor, Portrait: existing}

	mockCharacterRepo.On("FindByID", ctx, uint(42)).Return(stored, nil).Once()
	mockCharacterRepo.On("Save", ctx, mock.MatchedBy(func(c *domain.Character) bool {
		assert.Equal(t, existing, c.Portrait, "absent portrait input must keep the stored bytes")
		return true
	})).Return(nil).Once()

	require.NoError(t, svc.Update(ctx, 42, dto.CharacterInput{Name: "Thorne"}))
	mockCharacterRepo.AssertExpectations(t)
}

func TestCharacterService_Update_NotFound(t *testing.T) {
	svc, mockCharacterRepo, _, broadcaster := newCharacterServiceForTest(t)
	ctx := context.Background()

	mockCharacterRepo.On("FindByID", ctx, uint(404)).Return(nil, repository.ErrCharacterNotFound).Once()

	err := svc.Update(ctx, 404, dto.CharacterInput{Name: "Nobody"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrCharacterNotFound))
	assert.Empty(t, broadcaster.updated)
}

// --- AwardExperience ---

func TestCharacterService_AwardExperience_Single(t *testing.T) {
	svc, mockCharacterRepo, _, broadcaster := newCharacterServiceForTest(t)
	ctx := context.Background()

	mockCharacterRepo.On("AddExperience", ctx, uint(42), int64(50)).
		Return(&domain.Character{ID: 42, CurrentXP: 50, TotalXP: 50}, nil).Once()

	require.NoError(t, svc.AwardExperience(ctx, 42, 50, false))

	require.Len(t, broadcaster.awarded, 1)
	assert.Equal(t, awardedEvent{characterID: 42, currentXP: 50, totalXP: 50}, broadcaster.awarded[0])
	mockCharacterRepo.AssertExpectations(t)
}

func TestCharacterService_AwardExperience_Additive(t *testing.T) {
	// Two awards in sequence; the second event must carry the summed
	// counters the repository reports, not recomputed ones.
	svc, mockCharacterRepo, _, broadcaster := newCharacterServiceForTest(t)
	ctx := context.Background()

	mockCharacterRepo.On("AddExperience", ctx, uint(42), int64(50)).
		Return(&domain.Character{ID: 42, CurrentXP: 50, TotalXP: 50}, nil).Once()
	mockCharacterRepo.On("AddExperience", ctx, uint(42), int64(25)).
		Return(&domain.Character{ID: 42, CurrentXP: 75, TotalXP: 75}, nil).Once()

	require.NoError(t, svc.AwardExperience(ctx, 42, 50, false))
	require.NoError(t, svc.AwardExperience(ctx, 42, 25, false))

	require.Len(t, broadcaster.awarded, 2)
	assert.Equal(t, awardedEvent{42, 75, 75}, broadcaster.awarded[1])
}

func TestCharacterService_AwardExperience_Everyone(t *testing.T) {
	svc, mockCharacterRepo, _, broadcaster := newCharacterServiceForTest(t)
	ctx := context.Background()

	mockCharacterRepo.On("AddExperienceToAll", ctx, int64(10)).
		Return([]domain.Character{
			{ID: 1, CurrentXP: 10, TotalXP: 10},
			{ID: 2, CurrentXP: 110, TotalXP: 210},
		}, nil).Once()

	require.NoError(t, svc.AwardExperience(ctx, 0, 10, true))

	require.Len(t, broadcaster.awarded, 2, "one event per affected character")
	assert.Equal(t, awardedEvent{1, 10, 10}, broadcaster.awarded[0])
	assert.Equal(t, awardedEvent{2, 110, 210}, broadcaster.awarded[1])
	mockCharacterRepo.AssertNotCalled(t, "AddExperience", mock.Anything, mock.Anything, mock.Anything)
}

func TestCharacterService_AwardExperience_NotFound(t *testing.T) {
	svc, mockCharacterRepo, _, broadcaster := newCharacterServiceForTest(t)
	ctx := context.Background()

	mockCharacterRepo.On("AddExperience", ctx, uint(404), int64(50)).
		Return(nil, repository.ErrCharacterNotFound).Once()

	err := svc.AwardExperience(ctx, 404, 50, false)

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrCharacterNotFound))
	assert.Empty(t, broadcaster.awarded)
}

func TestCharacterService_AwardExperienceBatch(t *testing.T) {
	svc, mockCharacterRepo, _, broadcaster := newCharacterServiceForTest(t)
	ctx := context.Background()

	mockCharacterRepo.On("AddExperience", ctx, uint(1), int64(10)).
		Return(&domain.Character{ID: 1, CurrentXP: 10, TotalXP: 10}, nil).Once()
	mockCharacterRepo.On("AddExperience", ctx, uint(2), int64(20)).
		Return(&domain.Character{ID: 2, CurrentXP: 20, TotalXP: 20}, nil).Once()

	err := svc.AwardExperienceBatch(ctx, []dto.ExperienceAward{
		{CharacterID: 1, Amount: 10},
		{CharacterID: 2, Amount: 20},
	})

	require.NoError(t, err)
	assert.Len(t, broadcaster.awarded, 2)
	mockCharacterRepo.AssertExpectations(t)
}

func TestCharacterService_AwardExperienceBatch_PartialFailureKeepsEarlierRows(t *testing.T) {
	svc, mockCharacterRepo, _, broadcaster := newCharacterServiceForTest(t)
	ctx := context.Background()

	mockCharacterRepo.On("AddExperience", ctx, uint(1), int64(10)).
		Return(&domain.Character{ID: 1, CurrentXP: 10, TotalXP: 10}, nil).Once()
	mockCharacterRepo.On("AddExperience", ctx, uint(404), int64(20)).
		Return(nil, repository.ErrCharacterNotFound).Once()

	err := svc.AwardExperienceBatch(ctx, []dto.ExperienceAward{
		{CharacterID: 1, Amount: 10},
		{CharacterID: 404, Amount: 20},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrCharacterNotFound))
	// The first row was committed and announced before the failure.
	assert.Len(t, broadcaster.awarded, 1)
}

// --- Fetch ---

func TestCharacterService_FetchOne_ExpandsPortraitAndRealm(t *testing.T) {
	svc, mockCharacterRepo, _, _ := newCharacterServiceForTest(t)
	ctx := context.Background()

	portrait := base64.StdEncoding.EncodeToString([]byte("stored png"))
	compressed, err := imagex.Compress(portrait)
	require.NoError(t, err)

	mockCharacterRepo.On("FindByUserID", ctx, uint(7)).Return(&domain.Character{
		ID:        42,
		UserID:    7,
		Name:      "Thorne",
		Realm:     domain.RealmLargoGelido,
		CurrentXP: 50,
		TotalXP:   120,
		Portrait:  compressed,
	}, nil).Once()

	view, err := svc.FetchOne(ctx, 7)

	require.NoError(t, err)
	assert.Equal(t, "Largo Gélido", view.Realm)
	assert.Equal(t, portrait, view.Portrait)
	assert.Equal(t, int64(50), view.CurrentXP)
	assert.Equal(t, int64(120), view.TotalXP)
}

func TestCharacterService_FetchOne_NotFound(t *testing.T) {
	svc, mockCharacterRepo, _, _ := newCharacterServiceForTest(t)
	ctx := context.Background()

	mockCharacterRepo.On("FindByUserID", ctx, uint(7)).Return(nil, repository.ErrCharacterNotFound).Once()

	_, err := svc.FetchOne(ctx, 7)

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrCharacterNotFound))
}

func TestCharacterService_FetchAll(t *testing.T) {
	svc, mockCharacterRepo, _, _ := newCharacterServiceForTest(t)
	ctx := context.Background()

	mockCharacterRepo.On("FindAll", ctx).Return([]domain.Character{
		{ID: 1, Name: "Thorne", Realm: domain.RealmFadalor},
		{ID: 2, Name: "Mira", Realm: domain.RealmYataiGuarani},
	}, nil).Once()

	views, err := svc.FetchAll(ctx)

	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "Fadalór", views[0].Realm)
	assert.Equal(t, "Yatai Guarani", views[1].Realm)
}

func TestCharacterService_FetchAll_RepositoryError(t *testing.T) {
	svc, mockCharacterRepo, _, _ := newCharacterServiceForTest(t)
	ctx := context.Background()

	mockCharacterRepo.On("FindAll", ctx).Return(nil, errors.New("connection refused")).Once()

	_, err := svc.FetchAll(ctx)

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrInternalServer),
		"storage failures must degrade to the internal sentinel, not leak driver errors")
}
