package dto

// Broadcast event types. Every connected session receives every event;
// filtering happens client-side. EventCharacterDeleted is part of the
// protocol although no server path currently emits it.
const (
	EventCharacterCreated = "character-created"
	EventCharacterUpdated = "character-updated"
	EventCharacterDeleted = "character-deleted"
	EventPointsAwarded    = "points-awarded"
)

// Event is the envelope pushed over the broadcast channel. Character is set
// for created/updated, CharacterID for deleted and points-awarded, and the
// XP counters only for points-awarded.
type Event struct {
	Type        string         `json:"type"`
	Character   *CharacterView `json:"character,omitempty"`
	CharacterID uint           `json:"characterId,omitempty"`
	CurrentXP   int64          `json:"currentXp,omitempty"`
	TotalXP     int64          `json:"totalXp,omitempty"`
}
