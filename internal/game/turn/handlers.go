package turn

import (
	"fmt"

	"github.com/cory-johannsen/mazmorra/internal/game/character"
	"github.com/cory-johannsen/mazmorra/internal/game/command"
	"github.com/cory-johannsen/mazmorra/internal/game/world"
	"github.com/cory-johannsen/mazmorra/internal/scripting"
)

// Difficulty classes and damage constants.
const (
	// AttackDC is the armor class every enemy is attacked against.
	AttackDC = 12
	// MinAttackDamage is the floor of a successful player hit.
	MinAttackDamage = 2
	// AttackDamageDie is the die added to half strength on a hit.
	AttackDamageDie = 6

	// IntimidateDC applies to intimidation attempts.
	IntimidateDC = 12
	// SocialDC applies to talking, deceiving and any other social verb.
	SocialDC = 15
	// ConvinceDC applies to persuasion attempts.
	ConvinceDC = 18
)

// socialDC returns the difficulty class for an approach.
func socialDC(a command.Approach) int {
	switch a {
	case command.ApproachIntimidate:
		return IntimidateDC
	case command.ApproachConvince:
		return ConvinceDC
	default:
		return SocialDC
	}
}

func (r *Resolver) resolveAbsurd(t *turnCtx, p *character.Player, raw string) {
	t.event(Event{Type: EventAbsurd, TargetID: p.ID, Description: "Acción físicamente imposible"})
	t.fact(fmt.Sprintf("%s intenta algo ridículo: %q. Fracasa sin remedio.", p.Name, raw))
}

// resolveCombat attacks the first living enemy in room.
//
// Postcondition: any attempt against a target sets InCombat and records a DiceRoll.
func (r *Resolver) resolveCombat(t *turnCtx, room *world.Room, p *character.Player) {
	enemies := t.livingEnemies(room)
	if len(enemies) == 0 {
		t.fact(p.Name + " lanza golpes al aire: no hay enemigos.")
		return
	}
	target := enemies[0]
	es := t.entityState(target)

	total := r.dice.D(20) + p.Attributes.Fuerza
	success := total >= AttackDC
	t.roll(DiceRoll{Label: "Ataque de " + p.Name, Value: total, DC: AttackDC, Success: success})
	t.state.InCombat = true

	if !success {
		t.fact(fmt.Sprintf("%s intenta atacar a %s pero FALLA (%d vs DC %d).", p.Name, target.Name, total, AttackDC))
		return
	}

	dmg := max(MinAttackDamage, p.Attributes.Fuerza/2+r.dice.D(AttackDamageDie))
	es.HP = max(0, es.HP-dmg)
	t.event(Event{Type: EventDamage, TargetID: target.ID, Value: dmg, Description: fmt.Sprintf("%s recibe %d de daño", target.Name, dmg)})
	t.fact(fmt.Sprintf("%s ataca a %s y ACIERTA (%d vs DC %d). Daño: %d. HP: %d.", p.Name, target.Name, total, AttackDC, dmg, es.HP))

	if es.HP == 0 {
		t.setFlag(world.DeathFlag(target.ID))
		t.setFlag(target.DropsFlag)
		t.fact(target.Name + " ha muerto.")
		r.hooks.Trigger(room.ZoneID, scripting.HookEntityKilled, binding{t}, target.ID, p.Name)
	}
}

// resolveSocial addresses the first living entity of room that reacts to
// social approaches.
func (r *Resolver) resolveSocial(t *turnCtx, room *world.Room, p *character.Player, text string) {
	var target *world.Entity
	for _, e := range room.VisibleEntities(t.state.WorldState) {
		if e.Social != nil && !t.state.WorldState.Has(world.DeathFlag(e.ID)) {
			target = e
			break
		}
	}
	if target == nil {
		t.fact(p.Name + " habla solo: no hay nadie que escuche.")
		return
	}

	approach := command.SocialApproach(text)
	dc := socialDC(approach)
	total := r.dice.D(20) + p.Attributes.Presencia
	success := total >= dc
	t.roll(DiceRoll{Label: "Elocuencia de " + p.Name, Value: total, DC: dc, Success: success})

	if !success {
		t.state.InCombat = true
		t.fact(fmt.Sprintf("%s intenta hablar, pero %s se ríe de su debilidad (%d vs DC %d) y se pone agresivo.",
			p.Name, target.Name, total, dc))
		return
	}
	if approach == command.ApproachIntimidate {
		t.setFlag(target.Social.IntimidateFlag)
		t.fact(fmt.Sprintf("%s intimida a %s, que retrocede asustado (%d vs DC %d).", p.Name, target.Name, total, dc))
		return
	}
	t.setFlag(target.Social.PersuadeFlag)
	t.fact(fmt.Sprintf("%s convence a %s (%d vs DC %d).", p.Name, target.Name, total, dc))
}

// resolveMovement moves the party through the exit named in text. An exit
// whose direction appears in text wins; a bare exit request takes the first
// exit of the room.
func (r *Resolver) resolveMovement(t *turnCtx, room *world.Room, p *character.Player, text string) {
	var exit *world.Exit
	for i := range room.Exits {
		if command.Mentions(text, room.Exits[i].Direction) {
			exit = &room.Exits[i]
			break
		}
	}
	if exit == nil && command.WantsAnyExit(text) && len(room.Exits) > 0 {
		exit = &room.Exits[0]
	}
	if exit == nil {
		t.fact(p.Name + " busca una salida pero no sabe a dónde ir.")
		return
	}
	if !exit.Passable(t.state.WorldState) {
		t.fact(fmt.Sprintf("%s intenta ir hacia %s, pero no puede pasar.", p.Name, exit.Direction))
		t.fact(exit.LockedMessage)
		return
	}

	t.state.CurrentRoomID = exit.TargetRoom
	t.event(Event{Type: EventRoomChange, TargetID: p.ID, Value: exit.TargetRoom, Description: "Moviendo a " + exit.TargetRoom})
	t.fact(fmt.Sprintf("%s se mueve hacia %s.", p.Name, exit.Direction))

	zoneID := room.ZoneID
	if next, ok := r.world.GetRoom(exit.TargetRoom); ok {
		zoneID = next.ZoneID
	}
	r.hooks.Trigger(zoneID, scripting.HookRoomEntered, binding{t}, exit.TargetRoom)
}

// resolvePickup gives p the first visible, untaken item of room named in text.
//
// Postcondition: on success the item's taken flag is set, so it cannot be
// picked up again.
func (r *Resolver) resolvePickup(t *turnCtx, room *world.Room, p *character.Player, text string) {
	var item *world.Item
	for _, it := range room.VisibleItems(t.state.WorldState) {
		if t.state.WorldState.Has(world.TakenFlag(it.ID)) {
			continue
		}
		if command.Mentions(text, it.Name) || command.Mentions(text, it.ID) {
			item = it
			break
		}
	}
	if item == nil {
		t.fact(p.Name + " intenta agarrar algo que no está o es inalcanzable.")
		return
	}
	if !item.Takeable {
		t.fact(fmt.Sprintf("%s intenta llevarse %s, pero no se puede mover.", p.Name, item.Name))
		return
	}

	p.Inventory = append(p.Inventory, item.Name)
	t.setFlag(world.TakenFlag(item.ID))
	t.event(Event{Type: EventItemGain, TargetID: p.ID, Value: item.Name, Description: "Obtuvo " + item.Name})
	t.fact(fmt.Sprintf("%s recoge %s.", p.Name, item.Name))
	r.hooks.Trigger(room.ZoneID, scripting.HookItemTaken, binding{t}, item.ID, p.Name)
}

func (r *Resolver) resolveObserve(t *turnCtx, room *world.Room, p *character.Player, raw string) {
	t.fact(fmt.Sprintf("%s observa: %q. Sin impacto mecánico. Ambiente de %s.", p.Name, raw, room.Name))
}
