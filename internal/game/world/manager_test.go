package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testZone(t *testing.T) *Zone {
	t.Helper()
	z, err := LoadZoneFromBytes([]byte(validZoneYAML))
	require.NoError(t, err)
	return z
}

func TestNewManager(t *testing.T) {
	m, err := NewManager([]*Zone{testZone(t)})
	require.NoError(t, err)
	assert.Equal(t, 1, m.ZoneCount())
	assert.Equal(t, 2, m.RoomCount())
	assert.Equal(t, "cell", m.StartRoom())
	assert.Equal(t, "outside", m.VictoryRoom())

	r, ok := m.GetRoom("outside")
	require.True(t, ok)
	assert.Equal(t, "Outside", r.Name)

	_, ok = m.GetRoom("nowhere")
	assert.False(t, ok)
}

func TestNewManager_Errors(t *testing.T) {
	_, err := NewManager(nil)
	assert.Error(t, err)

	_, err = NewManager([]*Zone{testZone(t), testZone(t)})
	assert.Error(t, err, "duplicate zone id")

	other := testZone(t)
	other.ID = "other"
	_, err = NewManager([]*Zone{testZone(t), other})
	assert.Error(t, err, "duplicate room id across zones")
}

func TestManager_CombatEntities(t *testing.T) {
	m, err := NewManager([]*Zone{testZone(t)})
	require.NoError(t, err)
	ents := m.CombatEntities()
	require.Len(t, ents, 1)
	assert.Equal(t, "guard", ents[0].ID)
}
