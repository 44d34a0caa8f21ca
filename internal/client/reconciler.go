// Package client is the Go consumer of the broadcast channel: a reconnecting
// WebSocket connection plus a role-aware local view of character state.
package client

import (
	"sync"

	"rpg-sheets/internal/domain"
	"rpg-sheets/internal/dto"
)

// Reconciler keeps a local snapshot fresh by merging pushed events, without
// any server round-trip. Players track "my character"; game masters track
// the whole roster. Merges are keyed by character id, which makes repeated
// delivery of the same event idempotent.
type Reconciler struct {
	role domain.Role

	mu     sync.RWMutex
	own    *dto.CharacterView
	roster []dto.CharacterView
}

// NewReconciler creates a Reconciler for the given role.
func NewReconciler(role domain.Role) *Reconciler {
	return &Reconciler{role: role}
}

// SetOwn seeds the player's local character snapshot, typically from the
// initial fetch.
func (r *Reconciler) SetOwn(view *dto.CharacterView) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if view == nil {
		r.own = nil
		return
	}
	copied := *view
	r.own = &copied
}

// SetRoster seeds the game master's roster snapshot.
func (r *Reconciler) SetRoster(views []dto.CharacterView) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roster = append(r.roster[:0:0], views...)
}

// Own returns a copy of the player's character snapshot.
func (r *Reconciler) Own() (dto.CharacterView, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.own == nil {
		return dto.CharacterView{}, false
	}
	return *r.own, true
}

// Roster returns a copy of the roster snapshot.
func (r *Reconciler) Roster() []dto.CharacterView {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]dto.CharacterView(nil), r.roster...)
}

// Apply merges one pushed event into the local snapshot.
func (r *Reconciler) Apply(event dto.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch event.Type {
	case dto.EventCharacterCreated:
		if r.role != domain.RoleGameMaster || event.Character == nil {
			return
		}
		// De-duplicate by id so a repeated event replaces instead of
		// appending twice.
		for i := range r.roster {
			if r.roster[i].ID == event.Character.ID {
				r.roster[i] = *event.Character
				return
			}
		}
		r.roster = append(r.roster, *event.Character)

	case dto.EventCharacterUpdated:
		if event.Character == nil {
			return
		}
		if r.role == domain.RoleGameMaster {
			for i := range r.roster {
				if r.roster[i].ID == event.Character.ID {
					r.roster[i] = *event.Character
					return
				}
			}
			return
		}
		if r.own != nil && r.own.ID == event.Character.ID {
			copied := *event.Character
			r.own = &copied
		}

	case dto.EventCharacterDeleted:
		if r.role == domain.RoleGameMaster {
			for i := range r.roster {
				if r.roster[i].ID == event.CharacterID {
					r.roster = append(r.roster[:i], r.roster[i+1:]...)
					return
				}
			}
			return
		}
		if r.own != nil && r.own.ID == event.CharacterID {
			r.own = nil
		}

	case dto.EventPointsAwarded:
		// Patch only the two XP counters; everything else stays untouched.
		if r.role == domain.RoleGameMaster {
			for i := range r.roster {
				if r.roster[i].ID == event.CharacterID {
					r.roster[i].CurrentXP = event.CurrentXP
					r.roster[i].TotalXP = event.TotalXP
					return
				}
			}
			return
		}
		if r.own != nil && r.own.ID == event.CharacterID {
			r.own.CurrentXP = event.CurrentXP
			r.own.TotalXP = event.TotalXP
		}
	}
}
