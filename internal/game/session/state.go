// Package session holds the per-game mutable snapshot and the registry of
// live sessions.
package session

import (
	"encoding/json"

	"github.com/cory-johannsen/mazmorra/internal/game/character"
	"github.com/cory-johannsen/mazmorra/internal/game/world"
)

// Status is the terminal status of a session.
type Status string

// Session statuses. Victory and Death are terminal.
const (
	StatusPlaying Status = "playing"
	StatusVictory Status = "victory"
	StatusDeath   Status = "death"
)

// Role tags a history entry.
type Role string

// History roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one entry of the chronological history.
type Message struct {
	Role       Role   `json:"role"`
	Content    string `json:"content"`
	PlayerName string `json:"playerName,omitempty"`
}

// EntityState is the session-scoped copy of an entity's combat stats.
type EntityState struct {
	HP     int `json:"hp"`
	MaxHP  int `json:"maxHp"`
	Damage int `json:"damage"`
}

// State is the full mutable snapshot of one game.
//
// Invariant: once GameStatus is victory or death it never changes again.
type State struct {
	ID            string                  `json:"id"`
	Code          string                  `json:"code"`
	CurrentRoomID string                  `json:"currentRoomId"`
	WorldState    world.Flags             `json:"worldState"`
	Players       []*character.Player     `json:"players"`
	Entities      map[string]*EntityState `json:"entities"`
	InCombat      bool                    `json:"inCombat"`
	GameStatus    Status                  `json:"gameStatus"`
	History       []Message               `json:"history"`
}

// New creates a fresh session in startRoom. Combat stats of every entity are
// copied from the templates once, here; the templates are never read again
// for hp.
//
// Postcondition: WorldState is empty, GameStatus is playing.
func New(id, code, startRoom string, entities []*world.Entity) *State {
	s := &State{
		ID:            id,
		Code:          code,
		CurrentRoomID: startRoom,
		WorldState:    world.Flags{},
		Players:       []*character.Player{},
		Entities:      make(map[string]*EntityState, len(entities)),
		GameStatus:    StatusPlaying,
		History:       []Message{},
	}
	for _, e := range entities {
		if e.Stats == nil {
			continue
		}
		s.Entities[e.ID] = &EntityState{HP: e.Stats.HP, MaxHP: e.Stats.MaxHP, Damage: e.Stats.Damage}
	}
	return s
}

// IsGameOver reports whether the session reached a terminal status.
func (s *State) IsGameOver() bool {
	return s.GameStatus == StatusVictory || s.GameStatus == StatusDeath
}

// MarshalJSON adds the derived isGameOver field.
func (s State) MarshalJSON() ([]byte, error) {
	type alias State
	return json.Marshal(struct {
		alias
		IsGameOver bool `json:"isGameOver"`
	}{alias(s), s.IsGameOver()})
}

// Player returns the player with the given id.
func (s *State) Player(id string) (*character.Player, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// LivingPlayers returns the players with hp > 0 in join order.
func (s *State) LivingPlayers() []*character.Player {
	var out []*character.Player
	for _, p := range s.Players {
		if p.Alive() {
			out = append(out, p)
		}
	}
	return out
}

// Entity returns the session-scoped combat stats of an entity.
func (s *State) Entity(id string) (*EntityState, bool) {
	e, ok := s.Entities[id]
	return e, ok
}

// AddPlayer appends p to the roster.
//
// Postcondition: Returns ErrPlayerExists if a player with p.ID is present.
func (s *State) AddPlayer(p *character.Player) error {
	if _, exists := s.Player(p.ID); exists {
		return ErrPlayerExists
	}
	s.Players = append(s.Players, p)
	return nil
}

// AppendHistory records a history entry.
func (s *State) AppendHistory(m Message) {
	s.History = append(s.History, m)
}

// RecentHistory returns at most n of the newest history entries, oldest first.
// n <= 0 returns the whole history.
func (s *State) RecentHistory(n int) []Message {
	if n <= 0 || n >= len(s.History) {
		return append([]Message(nil), s.History...)
	}
	return append([]Message(nil), s.History[len(s.History)-n:]...)
}

// Clone returns a deep copy of s. The resolver works on clones so a caller's
// snapshot is never mutated.
func (s *State) Clone() *State {
	c := *s
	c.WorldState = s.WorldState.Clone()
	c.Players = make([]*character.Player, len(s.Players))
	for i, p := range s.Players {
		c.Players[i] = p.Clone()
	}
	c.Entities = make(map[string]*EntityState, len(s.Entities))
	for id, e := range s.Entities {
		ec := *e
		c.Entities[id] = &ec
	}
	if s.History != nil {
		c.History = append(make([]Message, 0, len(s.History)), s.History...)
	}
	return &c
}
