package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"rpg-sheets/internal/domain"
	"rpg-sheets/internal/repository"
	"rpg-sheets/internal/repository/mocks"
	"rpg-sheets/internal/service"
)

// --- Register ---

func TestAuthService_Register_Success(t *testing.T) {
	// Arrange
	mockUserRepo := new(mocks.UserRepository)
	authService, err := service.NewAuthService(mockUserRepo, "very-secret-key", 8)
	require.NoError(t, err)

	ctx := context.Background()
	username := "alice"
	password := "StrongPass123"

	mockUserRepo.On("FindByUsername", ctx, username).
		Return(nil, repository.ErrUserNotFound).
		Once()

	// The service clears Password on the same pointer after Save returns,
	// so capture the record by value inside Run and assert on the copy;
	// matching on the mutable fields would see the post-call state.
	var saved domain.User
	mockUserRepo.On("Save", ctx, mock.MatchedBy(func(user *domain.User) bool {
		return user.Username == username
	})).
		Run(func(args mock.Arguments) {
			userArg := args.Get(1).(*domain.User)
			userArg.ID = 5
			userArg.RegisteredAt = time.Now().Add(-time.Second)
			saved = *userArg
		}).
		Return(nil).
		Once()

	// Act
	registeredUser, err := authService.Register(ctx, username, password, "")

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, domain.RolePlayer, saved.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.Password), []byte(password)),
		"stored password must be the bcrypt hash of the input")
	require.NotNil(t, registeredUser)
	assert.Equal(t, uint(5), registeredUser.ID)
	assert.Equal(t, username, registeredUser.Username)
	assert.Equal(t, domain.RolePlayer, registeredUser.Role, "empty role must default to Player")
	assert.Empty(t, registeredUser.Password, "password hash must not leak back to the caller")

	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Register_GameMasterRole(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService, _ := service.NewAuthService(mockUserRepo, "secret", 8)
	ctx := context.Background()

	mockUserRepo.On("FindByUsername", ctx, "bob").Return(nil, repository.ErrUserNotFound).Once()
	mockUserRepo.On("Save", ctx, mock.AnythingOfType("*domain.User")).Return(nil).Once()

	user, err := authService.Register(ctx, "bob", "password", domain.RoleGameMaster)

	require.NoError(t, err)
	assert.Equal(t, domain.RoleGameMaster, user.Role)
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Register_InvalidRole(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService, _ := service.NewAuthService(mockUserRepo, "secret", 8)

	_, err := authService.Register(context.Background(), "carol", "password", domain.Role("Wizard"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrInvalidRole))
	mockUserRepo.AssertNotCalled(t, "FindByUsername", mock.Anything, mock.Anything)
	mockUserRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAuthService_Register_UsernameTaken(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService, _ := service.NewAuthService(mockUserRepo, "secret", 8)
	ctx := context.Background()
	username := "existingUser"

	existingUser := &domain.User{ID: 10, Username: username}
	mockUserRepo.On("FindByUsername", ctx, username).Return(existingUser, nil).Once()

	_, err := authService.Register(ctx, username, "password", domain.RolePlayer)

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrRegistrationFailed))

	mockUserRepo.AssertExpectations(t)
	mockUserRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAuthService_Register_SaveFails_DuplicateEntry(t *testing.T) {
	// The eager check can pass and the insert still race a concurrent
	// registration into the unique constraint.
	mockUserRepo := new(mocks.UserRepository)
	authService, _ := service.NewAuthService(mockUserRepo, "secret", 8)
	ctx := context.Background()
	username := "racer"

	mockUserRepo.On("FindByUsername", ctx, username).Return(nil, repository.ErrUserNotFound).Once()
	mockUserRepo.On("Save", ctx, mock.AnythingOfType("*domain.User")).Return(repository.ErrDuplicateEntry).Once()

	_, err := authService.Register(ctx, username, "password", domain.RolePlayer)

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrRegistrationFailed))
	mockUserRepo.AssertExpectations(t)
}

// --- Login ---

func TestAuthService_Login_Success(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	jwtSecret := "test-secret"
	authService, _ := service.NewAuthService(mockUserRepo, jwtSecret, 8)
	ctx := context.Background()
	username := "alice"
	password := "password123"
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	userInDb := &domain.User{ID: 1, Username: username, Password: string(hashedPassword), Role: domain.RolePlayer}

	mockUserRepo.On("FindByUsername", ctx, username).Return(userInDb, nil).Once()

	token, err := authService.Login(ctx, username, password)

	assert.NoError(t, err)
	require.NotEmpty(t, token)

	// The token must carry the identity claims the middleware and the
	// WebSocket handshake rely on.
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return []byte(jwtSecret), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(1), claims["user_id"])
	assert.Equal(t, username, claims["user_name"])
	assert.Equal(t, "Player", claims["role"])
	exp := int64(claims["exp"].(float64))
	iat := int64(claims["iat"].(float64))
	assert.Equal(t, int64(8*3600), exp-iat, "token lifetime must be eight hours")

	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService, _ := service.NewAuthService(mockUserRepo, "test-secret", 8)
	ctx := context.Background()

	mockUserRepo.On("FindByUsername", ctx, "nonexistent").Return(nil, repository.ErrUserNotFound).Once()

	token, err := authService.Login(ctx, "nonexistent", "password")

	require.Error(t, err)
	assert.Empty(t, token)
	assert.True(t, errors.Is(err, service.ErrAuthenticationFailed))
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_Login_IncorrectPassword(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService, _ := service.NewAuthService(mockUserRepo, "test-secret", 8)
	ctx := context.Background()
	username := "alice"
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.DefaultCost)
	userInDb := &domain.User{ID: 1, Username: username, Password: string(hashedPassword)}

	mockUserRepo.On("FindByUsername", ctx, username).Return(userInDb, nil).Once()

	token, err := authService.Login(ctx, username, "wrong")

	require.Error(t, err)
	assert.Empty(t, token)
	assert.True(t, errors.Is(err, service.ErrAuthenticationFailed),
		"wrong password and unknown user must be indistinguishable to the caller")
	mockUserRepo.AssertExpectations(t)
}

// --- ListUsers ---

func TestAuthService_ListUsers(t *testing.T) {
	mockUserRepo := new(mocks.UserRepository)
	authService, _ := service.NewAuthService(mockUserRepo, "secret", 8)
	ctx := context.Background()

	mockUserRepo.On("FindAllUsernames", ctx).Return([]string{"alice", "bob"}, nil).Once()

	users, err := authService.ListUsers(ctx)

	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, users)
	mockUserRepo.AssertExpectations(t)
}
