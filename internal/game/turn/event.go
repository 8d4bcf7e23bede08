package turn

import (
	"github.com/cory-johannsen/mazmorra/internal/game/session"
)

// EventType classifies a structured event.
type EventType string

// Event types consumed by the narration and transport layers.
const (
	EventDamage     EventType = "damage"
	EventHeal       EventType = "heal"
	EventItemGain   EventType = "item_gain"
	EventItemLoss   EventType = "item_loss"
	EventRoomChange EventType = "room_change"
	EventFlagSet    EventType = "flag_set"
	EventInfo       EventType = "info"
	EventAbsurd     EventType = "absurd"
)

// Event is one typed outcome of a turn.
type Event struct {
	Type        EventType `json:"type"`
	TargetID    string    `json:"targetId,omitempty"`
	Value       any       `json:"value,omitempty"`
	Description string    `json:"description"`
}

// DiceRoll records one check for display: the modified total against its DC.
type DiceRoll struct {
	Label   string `json:"label"`
	Value   int    `json:"value"`
	DC      int    `json:"dc"`
	Success bool   `json:"success"`
}

// Action is one player's free-text input for a turn.
type Action struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	ActionText string `json:"actionText"`
}

// Outcome records how one action was classified. Skipped actions (dead or
// unknown players) have no Outcome.
type Outcome struct {
	PlayerID string
	Intent   string
}

// Result is everything a turn produced.
//
// Invariant: NewState is never the snapshot passed to Resolve.
type Result struct {
	FactLines []string       `json:"factLines"`
	NewState  *session.State `json:"newState"`
	Events    []Event        `json:"events"`
	DiceRolls []DiceRoll     `json:"diceRolls"`
	Outcomes  []Outcome      `json:"-"`
}

// emitter collects the fact lines, events and dice records of one turn in
// emission order.
type emitter struct {
	facts    []string
	events   []Event
	rolls    []DiceRoll
	outcomes []Outcome
}

func newEmitter() *emitter {
	return &emitter{
		facts:  []string{},
		events: []Event{},
		rolls:  []DiceRoll{},
	}
}

func (e *emitter) fact(line string) {
	e.facts = append(e.facts, line)
}

func (e *emitter) event(ev Event) {
	e.events = append(e.events, ev)
}

func (e *emitter) roll(r DiceRoll) {
	e.rolls = append(e.rolls, r)
}

func (e *emitter) result(s *session.State) Result {
	return Result{
		FactLines: e.facts,
		NewState:  s,
		Events:    e.events,
		DiceRolls: e.rolls,
		Outcomes:  e.outcomes,
	}
}
