// Package dto holds the wire shapes shared by the HTTP handlers, the
// broadcast hub and the Go client.
package dto

// CharacterView is the outward form of a character: realm as display text,
// portrait as bare base64 (no data-URL prefix), sheet verbatim.
type CharacterView struct {
	ID                   uint   `json:"id"`
	Name                 string `json:"name"`
	IdentificationNumber int64  `json:"identificationNumber"`
	Realm                string `json:"realm"`
	Aptitude             string `json:"aptitude"`
	CurrentXP            int64  `json:"currentXp"`
	TotalXP              int64  `json:"totalXp"`
	Portrait             string `json:"portrait,omitempty"`
	Sheet                string `json:"sheet,omitempty"`
	Age                  int    `json:"age"`
	Level                int    `json:"level"`
}

// CharacterInput is the request body for create and update. Create consumes
// every field except Level (experience and level always start at zero);
// update consumes only Name, Sheet, Level and Portrait-if-supplied.
type CharacterInput struct {
	Name                 string `json:"name" binding:"required"`
	IdentificationNumber int64  `json:"identificationNumber"`
	Realm                string `json:"realm"`
	Aptitude             string `json:"aptitude"`
	Portrait             string `json:"portrait"`
	Sheet                string `json:"sheet"`
	Age                  int    `json:"age"`
	Level                int    `json:"level"`
}

// ExperienceAward is one entry of a batch award request.
type ExperienceAward struct {
	CharacterID uint  `json:"characterId" binding:"required"`
	Amount      int64 `json:"amount"`
}
