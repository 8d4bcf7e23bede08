// Package character defines races, attributes and the player character model.
package character

// Attributes are the four integer stats of a character.
type Attributes struct {
	Fuerza    int `json:"fuerza"`
	Agilidad  int `json:"agilidad"`
	Intelecto int `json:"intelecto"`
	Presencia int `json:"presencia"`
}

// Add returns the component-wise sum of a and b.
func (a Attributes) Add(b Attributes) Attributes {
	return Attributes{
		Fuerza:    a.Fuerza + b.Fuerza,
		Agilidad:  a.Agilidad + b.Agilidad,
		Intelecto: a.Intelecto + b.Intelecto,
		Presencia: a.Presencia + b.Presencia,
	}
}

// Sum returns the total of all four stats.
func (a Attributes) Sum() int {
	return a.Fuerza + a.Agilidad + a.Intelecto + a.Presencia
}

// Player is a character taking part in a session.
//
// Invariant: 0 <= HP <= MaxHP.
type Player struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Race       RaceType   `json:"race"`
	Attributes Attributes `json:"attributes"`
	HP         int        `json:"hp"`
	MaxHP      int        `json:"maxHp"`
	// Inventory holds item names in pickup order; duplicates are kept.
	Inventory []string `json:"inventory"`
}

// Alive reports whether the player can still act.
func (p *Player) Alive() bool { return p.HP > 0 }

// ApplyDamage reduces HP by amount, flooring at zero.
//
// Precondition: amount >= 0.
// Postcondition: 0 <= HP <= MaxHP.
func (p *Player) ApplyDamage(amount int) {
	p.HP -= amount
	if p.HP < 0 {
		p.HP = 0
	}
}

// Clone returns a deep copy of p.
func (p *Player) Clone() *Player {
	c := *p
	if p.Inventory != nil {
		c.Inventory = append(make([]string, 0, len(p.Inventory)), p.Inventory...)
	}
	return &c
}
