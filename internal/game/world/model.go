// Package world provides the static dungeon model: zones, rooms, entities,
// items and exits, plus the flat flag map that records narrative progress.
package world

import (
	"fmt"
	"sort"
)

// Flag name suffixes used for engine-managed flags.
const (
	deathSuffix = "_muerto"
	takenSuffix = "_tomado"
)

// DeathFlag returns the flag set when the entity with the given id dies.
func DeathFlag(entityID string) string { return entityID + deathSuffix }

// TakenFlag returns the flag set when the item with the given id is picked up.
func TakenFlag(itemID string) string { return itemID + takenSuffix }

// Flags is the per-session world state: named booleans recording persistent
// world facts (doors opened, guards killed, items taken).
//
// Invariant: flags are only ever set to true; an absent key means false.
type Flags map[string]bool

// Has reports whether name is set.
func (f Flags) Has(name string) bool {
	return f[name]
}

// Set marks name as true.
//
// Postcondition: Returns true iff the flag was not set before the call.
func (f Flags) Set(name string) bool {
	if f[name] {
		return false
	}
	f[name] = true
	return true
}

// Clone returns an independent copy of f.
func (f Flags) Clone() Flags {
	out := make(Flags, len(f))
	for k, v := range f {
		if v {
			out[k] = true
		}
	}
	return out
}

// Names returns the set flags in lexical order.
func (f Flags) Names() []string {
	names := make([]string, 0, len(f))
	for k, v := range f {
		if v {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return names
}

// Visibility gates the presence of an entity or item on world flags.
type Visibility struct {
	// RequiredFlag, when non-empty, must be set for the object to be present.
	RequiredFlag string
	// MissingFlag, when non-empty, hides the object once it is set.
	MissingFlag string
}

// VisibleIn reports whether the object is present under flags.
func (v Visibility) VisibleIn(flags Flags) bool {
	if v.RequiredFlag != "" && !flags.Has(v.RequiredFlag) {
		return false
	}
	if v.MissingFlag != "" && flags.Has(v.MissingFlag) {
		return false
	}
	return true
}

// CombatStats are the template combat values of an entity. Sessions copy
// them at creation and never write back.
type CombatStats struct {
	HP     int
	MaxHP  int
	Damage int
}

// Social marks an entity as a target for persuasion and intimidation.
type Social struct {
	// IntimidateFlag is set when an intimidation attempt succeeds.
	IntimidateFlag string
	// PersuadeFlag is set when any other social attempt succeeds.
	PersuadeFlag string
}

// Entity is a creature or fixture described in a room.
type Entity struct {
	ID          string
	Name        string
	Description string
	Race        string
	IsEnemy     bool
	// Stats is nil for entities that never fight.
	Stats *CombatStats
	// DropsFlag is set when the entity dies, e.g. to make a key available.
	DropsFlag string
	Social    *Social
	Visibility
}

// Item is an object lying in a room.
type Item struct {
	ID          string
	Name        string
	Description string
	Takeable    bool
	Visibility
}

// Exit is a passage from one room to another.
type Exit struct {
	// Direction is the label players type, e.g. "Norte".
	Direction string
	// TargetRoom is the ID of the destination room.
	TargetRoom string
	// Condition, when non-empty, is the flag that must be set to pass.
	Condition string
	// LockedMessage is shown when Condition is not met.
	LockedMessage string
}

// Passable reports whether the exit can be traversed under flags.
func (e Exit) Passable(flags Flags) bool {
	return e.Condition == "" || flags.Has(e.Condition)
}

// Room is an immutable room template.
type Room struct {
	ID          string
	ZoneID      string
	Name        string
	Description string
	Entities    []*Entity
	Items       []*Item
	Exits       []Exit
}

// VisibleEntities returns the entities present under flags, in template order.
func (r *Room) VisibleEntities(flags Flags) []*Entity {
	var out []*Entity
	for _, e := range r.Entities {
		if e.VisibleIn(flags) {
			out = append(out, e)
		}
	}
	return out
}

// VisibleItems returns the items present under flags, in template order.
func (r *Room) VisibleItems(flags Flags) []*Item {
	var out []*Item
	for _, it := range r.Items {
		if it.VisibleIn(flags) {
			out = append(out, it)
		}
	}
	return out
}

// Zone groups the rooms of one dungeon.
type Zone struct {
	ID          string
	Name        string
	Description string
	// StartRoom is where new sessions begin.
	StartRoom string
	// VictoryRoom ends the game with a victory when the party enters it.
	VictoryRoom string
	Rooms       map[string]*Room
}

// Validate checks zone invariants.
//
// Postcondition: Returns nil if valid, or an error describing the first violation.
func (z *Zone) Validate() error {
	if z.ID == "" {
		return fmt.Errorf("zone ID must not be empty")
	}
	if z.StartRoom == "" {
		return fmt.Errorf("zone %q: start_room must not be empty", z.ID)
	}
	if len(z.Rooms) == 0 {
		return fmt.Errorf("zone %q: must contain at least one room", z.ID)
	}
	if _, ok := z.Rooms[z.StartRoom]; !ok {
		return fmt.Errorf("zone %q: start_room %q not found in rooms", z.ID, z.StartRoom)
	}
	if z.VictoryRoom != "" {
		if _, ok := z.Rooms[z.VictoryRoom]; !ok {
			return fmt.Errorf("zone %q: victory_room %q not found in rooms", z.ID, z.VictoryRoom)
		}
	}
	for id, room := range z.Rooms {
		if room.ID != id {
			return fmt.Errorf("zone %q: room key %q does not match room ID %q", z.ID, id, room.ID)
		}
		for _, exit := range room.Exits {
			if exit.TargetRoom == "" {
				return fmt.Errorf("zone %q: room %q: exit %q has empty target", z.ID, id, exit.Direction)
			}
			if _, ok := z.Rooms[exit.TargetRoom]; !ok {
				return fmt.Errorf("zone %q: room %q: exit %q targets unknown room %q", z.ID, id, exit.Direction, exit.TargetRoom)
			}
		}
	}
	return nil
}
