package character

import (
	"errors"
	"fmt"
	"strings"
)

// Creation defaults matching the character creation form.
const (
	DefaultAttributePoints = 5
	DefaultStartingHP      = 100
)

var (
	// ErrUnknownRace is returned for a race name that is not playable.
	ErrUnknownRace = errors.New("unknown race")
	// ErrPointBudget is returned when bonus points are negative or not fully spent.
	ErrPointBudget = errors.New("attribute points must be spent exactly")
	// ErrEmptyName is returned when the character has no name.
	ErrEmptyName = errors.New("character name must not be empty")
)

// Spec describes a character as submitted by the creation form.
type Spec struct {
	ID    string
	Name  string
	Race  string
	Bonus Attributes
}

// Rules bounds character creation.
type Rules struct {
	AttributePoints int
	StartingHP      int
}

// DefaultRules returns the creation rules of the original form.
func DefaultRules() Rules {
	return Rules{AttributePoints: DefaultAttributePoints, StartingHP: DefaultStartingHP}
}

// Build constructs a Player from spec: race base attributes plus bonus points.
//
// Precondition: spec.ID must be non-empty.
// Postcondition: Returns a Player with HP == MaxHP == rules.StartingHP and an
// empty inventory, or an error wrapping ErrEmptyName, ErrUnknownRace or ErrPointBudget.
func Build(spec Spec, rules Rules) (*Player, error) {
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		return nil, ErrEmptyName
	}
	race, err := LookupRace(spec.Race)
	if err != nil {
		return nil, err
	}
	b := spec.Bonus
	if b.Fuerza < 0 || b.Agilidad < 0 || b.Intelecto < 0 || b.Presencia < 0 {
		return nil, fmt.Errorf("%w: negative bonus", ErrPointBudget)
	}
	if b.Sum() != rules.AttributePoints {
		return nil, fmt.Errorf("%w: spent %d of %d", ErrPointBudget, b.Sum(), rules.AttributePoints)
	}
	hp := rules.StartingHP
	if hp < 1 {
		hp = 1
	}
	return &Player{
		ID:         spec.ID,
		Name:       name,
		Race:       race.Name,
		Attributes: race.BaseAttributes.Add(b),
		HP:         hp,
		MaxHP:      hp,
		Inventory:  []string{},
	}, nil
}
