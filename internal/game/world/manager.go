package world

import (
	"fmt"
	"sync"
)

// Manager provides thread-safe read access to the loaded dungeon.
// It indexes rooms across all zones for O(1) lookup by room ID.
type Manager struct {
	mu          sync.RWMutex
	zones       map[string]*Zone
	rooms       map[string]*Room
	startRoom   string
	victoryRoom string
}

// NewManager creates a Manager from the given zones.
//
// Precondition: the first zone's start and victory rooms are the global ones.
// Postcondition: Returns a Manager with all rooms indexed by ID, or an error on
// duplicate zone/room IDs or when no zone is supplied.
func NewManager(zones []*Zone) (*Manager, error) {
	if len(zones) == 0 {
		return nil, fmt.Errorf("world: at least one zone is required")
	}
	m := &Manager{
		zones: make(map[string]*Zone, len(zones)),
		rooms: make(map[string]*Room),
	}
	for _, z := range zones {
		if _, exists := m.zones[z.ID]; exists {
			return nil, fmt.Errorf("duplicate zone ID: %q", z.ID)
		}
		m.zones[z.ID] = z
		for id, room := range z.Rooms {
			if existing, exists := m.rooms[id]; exists {
				return nil, fmt.Errorf("duplicate room ID %q: in zone %q and %q", id, existing.ZoneID, z.ID)
			}
			m.rooms[id] = room
		}
	}
	m.startRoom = zones[0].StartRoom
	m.victoryRoom = zones[0].VictoryRoom
	return m, nil
}

// GetRoom returns the room with the given ID.
//
// Postcondition: Returns (room, true) if found, or (nil, false) otherwise.
func (m *Manager) GetRoom(id string) (*Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[id]
	return r, ok
}

// StartRoom returns the ID of the room new sessions begin in.
func (m *Manager) StartRoom() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.startRoom
}

// VictoryRoom returns the ID of the room that ends the game in victory.
// Empty means the dungeon has no victory room.
func (m *Manager) VictoryRoom() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.victoryRoom
}

// CombatEntities returns every entity with combat stats across all rooms.
// Sessions copy these stats once at creation.
func (m *Manager) CombatEntities() []*Entity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Entity
	for _, r := range m.rooms {
		for _, e := range r.Entities {
			if e.Stats != nil {
				out = append(out, e)
			}
		}
	}
	return out
}

// RoomCount returns the total number of rooms across all zones.
func (m *Manager) RoomCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// ZoneCount returns the number of loaded zones.
func (m *Manager) ZoneCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.zones)
}
