package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestFlags_SetOnlyOnce(t *testing.T) {
	f := Flags{}
	assert.False(t, f.Has("puerta"))
	assert.True(t, f.Set("puerta"))
	assert.False(t, f.Set("puerta"))
	assert.True(t, f.Has("puerta"))
}

func TestFlags_CloneIsIndependent(t *testing.T) {
	f := Flags{"a": true, "b": false}
	c := f.Clone()
	c.Set("z")
	assert.False(t, f.Has("z"))
	assert.Equal(t, []string{"a"}, c.Names()[:1])
	_, hasFalse := c["b"]
	assert.False(t, hasFalse, "false entries are equivalent to absent and are not copied")
}

func TestFlags_Names_Sorted_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		names := rapid.SliceOf(rapid.StringMatching(`[a-z_]{1,8}`)).Draw(rt, "names")
		f := Flags{}
		for _, n := range names {
			f.Set(n)
		}
		got := f.Names()
		for i := 1; i < len(got); i++ {
			assert.Less(rt, got[i-1], got[i])
		}
		for _, n := range names {
			assert.True(rt, f.Has(n))
		}
	})
}

func TestVisibility(t *testing.T) {
	guard := Visibility{MissingFlag: "guardia_orco_muerto"}
	corpse := Visibility{RequiredFlag: "guardia_orco_muerto"}

	flags := Flags{}
	assert.True(t, guard.VisibleIn(flags))
	assert.False(t, corpse.VisibleIn(flags))

	flags.Set("guardia_orco_muerto")
	assert.False(t, guard.VisibleIn(flags))
	assert.True(t, corpse.VisibleIn(flags))

	both := Visibility{RequiredFlag: "disponible", MissingFlag: "tomado"}
	assert.False(t, both.VisibleIn(Flags{}))
	assert.True(t, both.VisibleIn(Flags{"disponible": true}))
	assert.False(t, both.VisibleIn(Flags{"disponible": true, "tomado": true}))
}

func TestExit_Passable(t *testing.T) {
	open := Exit{Direction: "Sur", TargetRoom: "start"}
	gated := Exit{Direction: "Norte", TargetRoom: "hallway", Condition: "puerta"}
	assert.True(t, open.Passable(Flags{}))
	assert.False(t, gated.Passable(Flags{}))
	assert.True(t, gated.Passable(Flags{"puerta": true}))
}

func TestRoom_VisibleEntitiesAndItems(t *testing.T) {
	room := &Room{
		ID: "start",
		Entities: []*Entity{
			{ID: "guard", Visibility: Visibility{MissingFlag: DeathFlag("guard")}},
			{ID: "corpse", Visibility: Visibility{RequiredFlag: DeathFlag("guard")}},
		},
		Items: []*Item{
			{ID: "key", Takeable: true, Visibility: Visibility{RequiredFlag: "key_drop", MissingFlag: TakenFlag("key")}},
		},
	}
	flags := Flags{}
	assert.Len(t, room.VisibleEntities(flags), 1)
	assert.Equal(t, "guard", room.VisibleEntities(flags)[0].ID)
	assert.Empty(t, room.VisibleItems(flags))

	flags.Set(DeathFlag("guard"))
	flags.Set("key_drop")
	assert.Equal(t, "corpse", room.VisibleEntities(flags)[0].ID)
	assert.Len(t, room.VisibleItems(flags), 1)

	flags.Set(TakenFlag("key"))
	assert.Empty(t, room.VisibleItems(flags))
}

func TestFlagNames(t *testing.T) {
	assert.Equal(t, "guardia_orco_muerto", DeathFlag("guardia_orco"))
	assert.Equal(t, "llave_tomado", TakenFlag("llave"))
}

func TestZone_Validate(t *testing.T) {
	valid := func() *Zone {
		return &Zone{
			ID:          "z",
			StartRoom:   "a",
			VictoryRoom: "b",
			Rooms: map[string]*Room{
				"a": {ID: "a", Exits: []Exit{{Direction: "Norte", TargetRoom: "b"}}},
				"b": {ID: "b"},
			},
		}
	}
	assert.NoError(t, valid().Validate())

	z := valid()
	z.ID = ""
	assert.Error(t, z.Validate())

	z = valid()
	z.StartRoom = "missing"
	assert.Error(t, z.Validate())

	z = valid()
	z.VictoryRoom = "missing"
	assert.Error(t, z.Validate())

	z = valid()
	z.Rooms["a"].Exits = []Exit{{Direction: "Norte", TargetRoom: "nowhere"}}
	assert.Error(t, z.Validate())

	z = valid()
	z.Rooms["a"].Exits = []Exit{{Direction: "Norte"}}
	assert.Error(t, z.Validate())

	z = valid()
	z.Rooms["a"].ID = "other"
	assert.Error(t, z.Validate())
}
