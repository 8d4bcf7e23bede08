package character_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/mazmorra/internal/game/character"
)

func TestBuild_AppliesRaceBaseAndBonus(t *testing.T) {
	p, err := character.Build(character.Spec{
		ID:    "p1",
		Name:  " Grok ",
		Race:  "orco",
		Bonus: character.Attributes{Fuerza: 3, Presencia: 2},
	}, character.DefaultRules())
	require.NoError(t, err)

	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "Grok", p.Name)
	assert.Equal(t, character.Orco, p.Race)
	assert.Equal(t, character.Attributes{Fuerza: 12, Agilidad: 4, Intelecto: 1, Presencia: 8}, p.Attributes)
	assert.Equal(t, 100, p.HP)
	assert.Equal(t, 100, p.MaxHP)
	assert.NotNil(t, p.Inventory)
	assert.Empty(t, p.Inventory)
}

func TestBuild_Errors(t *testing.T) {
	rules := character.DefaultRules()
	full := character.Attributes{Intelecto: 5}

	_, err := character.Build(character.Spec{ID: "p", Name: "", Race: "Elfo", Bonus: full}, rules)
	assert.ErrorIs(t, err, character.ErrEmptyName)

	_, err = character.Build(character.Spec{ID: "p", Name: "X", Race: "Goblin", Bonus: full}, rules)
	assert.ErrorIs(t, err, character.ErrUnknownRace)

	_, err = character.Build(character.Spec{ID: "p", Name: "X", Race: "Elfo", Bonus: character.Attributes{Fuerza: 2}}, rules)
	assert.ErrorIs(t, err, character.ErrPointBudget)

	_, err = character.Build(character.Spec{ID: "p", Name: "X", Race: "Elfo", Bonus: character.Attributes{Fuerza: 6, Agilidad: -1}}, rules)
	assert.ErrorIs(t, err, character.ErrPointBudget)
}

func TestBuild_AttributesSum_Property(t *testing.T) {
	races := character.AllRaces()
	rapid.Check(t, func(rt *rapid.T) {
		race := races[rapid.IntRange(0, len(races)-1).Draw(rt, "race")]
		f := rapid.IntRange(0, 5).Draw(rt, "fuerza")
		a := rapid.IntRange(0, 5-f).Draw(rt, "agilidad")
		i := rapid.IntRange(0, 5-f-a).Draw(rt, "intelecto")
		bonus := character.Attributes{Fuerza: f, Agilidad: a, Intelecto: i, Presencia: 5 - f - a - i}

		p, err := character.Build(character.Spec{ID: "p", Name: "Hero", Race: string(race.Name), Bonus: bonus}, character.DefaultRules())
		require.NoError(rt, err)
		assert.Equal(rt, race.BaseAttributes.Sum()+5, p.Attributes.Sum())
	})
}

func TestPlayer_DamageClamp_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		maxHP := rapid.IntRange(1, 200).Draw(rt, "maxHP")
		p := &character.Player{HP: maxHP, MaxHP: maxHP}
		steps := rapid.SliceOf(rapid.IntRange(0, 50)).Draw(rt, "steps")
		for _, s := range steps {
			p.ApplyDamage(s)
			assert.GreaterOrEqual(rt, p.HP, 0)
			assert.LessOrEqual(rt, p.HP, p.MaxHP)
		}
		assert.Equal(rt, p.HP > 0, p.Alive())
	})
}

func TestPlayer_CloneIsDeep(t *testing.T) {
	p := &character.Player{ID: "p", Inventory: []string{"Llave"}}
	c := p.Clone()
	c.Inventory[0] = "Candelabro"
	c.Inventory = append(c.Inventory, "Manivela")
	assert.Equal(t, []string{"Llave"}, p.Inventory)
}

func TestLookupRace(t *testing.T) {
	r, err := character.LookupRace("ENANO")
	require.NoError(t, err)
	assert.Equal(t, character.Enano, r.Name)
	assert.Equal(t, 8, r.BaseAttributes.Fuerza)
	assert.Len(t, character.AllRaces(), 4)
}
