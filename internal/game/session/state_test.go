package session

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/mazmorra/internal/game/character"
	"github.com/cory-johannsen/mazmorra/internal/game/world"
)

func templates() []*world.Entity {
	return []*world.Entity{
		{ID: "guard", IsEnemy: true, Stats: &world.CombatStats{HP: 20, MaxHP: 20, Damage: 6}},
		{ID: "corpse"},
	}
}

func TestNew_CopiesTemplateStats(t *testing.T) {
	tmpl := templates()
	s := New("s1", "ABC123", "start", tmpl)

	assert.Equal(t, "start", s.CurrentRoomID)
	assert.Equal(t, StatusPlaying, s.GameStatus)
	assert.False(t, s.IsGameOver())
	assert.Empty(t, s.WorldState)
	require.Len(t, s.Entities, 1)

	guard, ok := s.Entity("guard")
	require.True(t, ok)
	guard.HP = 3
	assert.Equal(t, 20, tmpl[0].Stats.HP, "session hp must not write back to the template")

	_, ok = s.Entity("corpse")
	assert.False(t, ok)
}

func TestState_CloneIsDeep(t *testing.T) {
	s := New("s1", "", "start", templates())
	require.NoError(t, s.AddPlayer(&character.Player{ID: "p1", Name: "Ana", HP: 10, MaxHP: 10, Inventory: []string{}}))
	s.AppendHistory(Message{Role: RoleUser, Content: "hola"})

	c := s.Clone()
	c.WorldState.Set("x")
	c.Players[0].HP = 1
	c.Players[0].Inventory = append(c.Players[0].Inventory, "Llave")
	c.Entities["guard"].HP = 0
	c.AppendHistory(Message{Role: RoleSystem, Content: "fin"})

	assert.False(t, s.WorldState.Has("x"))
	assert.Equal(t, 10, s.Players[0].HP)
	assert.Empty(t, s.Players[0].Inventory)
	assert.Equal(t, 20, s.Entities["guard"].HP)
	assert.Len(t, s.History, 1)
}

func TestState_AddPlayerTwice(t *testing.T) {
	s := New("s1", "", "start", nil)
	require.NoError(t, s.AddPlayer(&character.Player{ID: "p1"}))
	assert.ErrorIs(t, s.AddPlayer(&character.Player{ID: "p1"}), ErrPlayerExists)
}

func TestState_LivingPlayers(t *testing.T) {
	s := New("s1", "", "start", nil)
	s.Players = []*character.Player{
		{ID: "a", HP: 0, MaxHP: 10},
		{ID: "b", HP: 4, MaxHP: 10},
	}
	living := s.LivingPlayers()
	require.Len(t, living, 1)
	assert.Equal(t, "b", living[0].ID)
}

func TestState_RecentHistory(t *testing.T) {
	s := New("s1", "", "start", nil)
	for _, c := range []string{"a", "b", "c"} {
		s.AppendHistory(Message{Role: RoleUser, Content: c})
	}
	assert.Len(t, s.RecentHistory(0), 3)
	assert.Len(t, s.RecentHistory(10), 3)
	recent := s.RecentHistory(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "b", recent[0].Content)
	assert.Equal(t, "c", recent[1].Content)
}

func TestState_MarshalJSON_IncludesIsGameOver(t *testing.T) {
	s := New("s1", "CODE", "start", nil)
	s.GameStatus = StatusDeath
	data, err := json.Marshal(s)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, true, out["isGameOver"])
	assert.Equal(t, "death", out["gameStatus"])
	assert.Equal(t, "start", out["currentRoomId"])
}
