package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"rpg-sheets/internal/dto"
	"rpg-sheets/internal/middleware"
	"rpg-sheets/internal/service"
)

// CharacterHandler wires the character endpoints to the CharacterService.
type CharacterHandler struct {
	characterService *service.CharacterService
}

// NewCharacterHandler creates a CharacterHandler.
func NewCharacterHandler(characterService *service.CharacterService) *CharacterHandler {
	if characterService == nil {
		panic("CharacterService cannot be nil for CharacterHandler")
	}
	return &CharacterHandler{characterService: characterService}
}

// Create handles POST /api/characters. The owner defaults to the
// authenticated user; an ownerId query parameter overrides it so a game
// master can create on a player's behalf.
func (h *CharacterHandler) Create(c *gin.Context) {
	var req dto.CharacterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.CreateCharacter: invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input")
		return
	}

	ownerID := authenticatedUserID(c)
	if raw := c.Query("ownerId"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			ErrorResponse(c, http.StatusBadRequest, "Invalid ownerId")
			return
		}
		ownerID = uint(parsed)
	}

	if err := h.characterService.Create(c.Request.Context(), ownerID, req); err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"message": "Character created successfully"})
}

// Update handles PUT /api/characters/:characterId.
func (h *CharacterHandler) Update(c *gin.Context) {
	characterID, ok := pathID(c, "characterId")
	if !ok {
		return
	}

	var req dto.CharacterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.UpdateCharacter: invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input")
		return
	}

	if err := h.characterService.Update(c.Request.Context(), characterID, req); err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"message": "Character updated successfully"})
}

// AwardExperience handles PUT /api/characters/:characterId/experience with
// amount and everyone query parameters.
func (h *CharacterHandler) AwardExperience(c *gin.Context) {
	characterID, ok := pathID(c, "characterId")
	if !ok {
		return
	}

	amount, err := strconv.ParseInt(c.Query("amount"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid amount")
		return
	}
	everyone := c.Query("everyone") == "true"

	if err := h.characterService.AwardExperience(c.Request.Context(), characterID, amount, everyone); err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"message": "Experience awarded successfully"})
}

// AwardExperienceBatch handles POST /api/characters/experience/batch with a
// list of per-character amounts.
func (h *CharacterHandler) AwardExperienceBatch(c *gin.Context) {
	var req []dto.ExperienceAward
	if err := c.ShouldBindJSON(&req); err != nil || len(req) == 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: non-empty award list required")
		return
	}

	if err := h.characterService.AwardExperienceBatch(c.Request.Context(), req); err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"message": "Experience awarded successfully"})
}

// FetchMine handles GET /api/characters/me, returning the authenticated
// user's character.
func (h *CharacterHandler) FetchMine(c *gin.Context) {
	view, err := h.characterService.FetchOne(c.Request.Context(), authenticatedUserID(c))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, view)
}

// FetchAll handles GET /api/characters, for game masters.
func (h *CharacterHandler) FetchAll(c *gin.Context) {
	views, err := h.characterService.FetchAll(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, views)
}

func authenticatedUserID(c *gin.Context) uint {
	userIDAny, _ := c.Get(middleware.ContextUserID)
	userID, _ := userIDAny.(uint)
	return userID
}

func pathID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		logrus.Warnf("Invalid %s path parameter: %s", name, raw)
		ErrorResponse(c, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return uint(parsed), true
}
