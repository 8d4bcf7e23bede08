package turn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/mazmorra/content"
	"github.com/cory-johannsen/mazmorra/internal/game/session"
	"github.com/cory-johannsen/mazmorra/internal/game/turn"
	"github.com/cory-johannsen/mazmorra/internal/game/world"
	"github.com/cory-johannsen/mazmorra/internal/scripting"
)

// The default dungeon played start to finish with its Lua hooks.
func TestEmbeddedDungeon_Playthrough(t *testing.T) {
	zones, err := world.LoadZonesFromFS(content.FS, content.ZonesDir)
	require.NoError(t, err)
	w, err := world.NewManager(zones)
	require.NoError(t, err)

	scripts := scripting.NewManager(0, zaptest.NewLogger(t))
	require.NoError(t, scripts.LoadAll(content.FS, content.ScriptsDir))
	defer scripts.Close()

	d := &scriptedDice{rolls: []int{10, 4, 1, 10, 4, 1, 10, 1}}
	r := turn.NewResolver(w, d, scripts, zaptest.NewLogger(t))
	s := newState(t, w, newPlayer("p1", 9))
	require.Equal(t, "start", s.CurrentRoomID)

	play := func(text string) turn.Result {
		t.Helper()
		res := r.Resolve(s, []turn.Action{act("p1", text)})
		s = res.NewState
		return res
	}

	play("atacar al guardia")
	play("atacar al guardia")
	res := play("atacar al guardia")
	assert.True(t, s.WorldState.Has("guardia_orco_muerto"))
	assert.True(t, s.WorldState.Has("llave_disponible"))
	assert.False(t, s.InCombat)
	assert.Contains(t, res.FactLines, "La Llave de la Celda tintinea al caer del cinto del guardia.")

	play("voy al norte")
	assert.Equal(t, "start", s.CurrentRoomID, "door still locked")

	res = play("coger la llave")
	assert.True(t, s.WorldState.Has("puerta_celda_abierta"))
	assert.Equal(t, []string{"Llave de la Celda"}, s.Players[0].Inventory)
	assert.Len(t, res.FactLines, 2, "pickup fact plus the door hook fact")

	play("voy al norte")
	assert.Equal(t, "hallway", s.CurrentRoomID)
	assert.True(t, s.WorldState.Has("pasillo_visitado"))

	play("salir al exterior")
	assert.Equal(t, "hallway", s.CurrentRoomID, "gate still closed")

	play("coger la manivela")
	assert.True(t, s.WorldState.Has("porton_abierto"))

	play("salir al exterior")
	assert.Equal(t, "victory_room", s.CurrentRoomID)
	assert.Equal(t, session.StatusVictory, s.GameStatus)
}
