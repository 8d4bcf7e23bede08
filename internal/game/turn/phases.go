package turn

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/mazmorra/internal/game/session"
	"github.com/cory-johannsen/mazmorra/internal/game/world"
)

// EnemyHitThreshold is the natural d20 an enemy needs to hit.
const EnemyHitThreshold = 8

// retaliate lets every living enemy in the current room strike a random
// living player. It runs only while InCombat is set.
//
// Postcondition: every player's hp stays in [0, MaxHP].
func (r *Resolver) retaliate(t *turnCtx) {
	if !t.state.InCombat {
		return
	}
	room, ok := r.world.GetRoom(t.state.CurrentRoomID)
	if !ok {
		return
	}
	for _, enemy := range t.livingEnemies(room) {
		living := t.state.LivingPlayers()
		if len(living) == 0 {
			return
		}
		target := living[r.dice.Pick(len(living))]
		es := t.entityState(enemy)

		roll := r.dice.D(20)
		hit := roll >= EnemyHitThreshold
		t.roll(DiceRoll{Label: "Ataque de " + enemy.Name, Value: roll, DC: EnemyHitThreshold, Success: hit})
		if !hit {
			t.fact(fmt.Sprintf("%s lanza un golpe torpe que %s esquiva.", enemy.Name, target.Name))
			continue
		}

		dmgDie := es.Damage
		if dmgDie < 1 {
			dmgDie = world.DefaultEnemyDamage
		}
		dmg := r.dice.D(dmgDie)
		target.ApplyDamage(dmg)
		t.event(Event{Type: EventDamage, TargetID: target.ID, Value: dmg, Description: fmt.Sprintf("%s recibe %d de daño", target.Name, dmg)})
		t.fact(fmt.Sprintf("%s ataca a %s y DAÑA (%d de daño). HP: %d.", enemy.Name, target.Name, dmg, target.HP))
		if !target.Alive() {
			t.fact(fmt.Sprintf("¡%s ha caído ante %s!", target.Name, enemy.Name))
		}
	}
}

// endOfTurn runs the combat, death and victory checks. Each check is
// idempotent and none changes a terminal status.
func (r *Resolver) endOfTurn(t *turnCtx) {
	r.checkCombatOver(t)
	r.checkDeath(t)
	r.checkVictory(t)
}

func (r *Resolver) checkCombatOver(t *turnCtx) {
	if !t.state.InCombat {
		return
	}
	room, ok := r.world.GetRoom(t.state.CurrentRoomID)
	if ok && len(t.livingEnemies(room)) > 0 {
		return
	}
	t.state.InCombat = false
	t.event(Event{Type: EventInfo, Value: "combat_ended", Description: "El combate ha terminado"})
	t.fact("El combate ha terminado: no quedan enemigos en pie.")
}

func (r *Resolver) checkDeath(t *turnCtx) {
	if t.state.IsGameOver() || len(t.state.Players) == 0 || len(t.state.LivingPlayers()) > 0 {
		return
	}
	t.state.GameStatus = session.StatusDeath
	t.fact("Todo el grupo ha caído. La mazmorra reclama sus cuerpos.")
	t.state.AppendHistory(session.Message{Role: session.RoleSystem, Content: "Derrota: todos los jugadores han muerto."})
	r.logger.Info("game over", zap.String("session", t.state.ID), zap.String("status", string(session.StatusDeath)))
}

func (r *Resolver) checkVictory(t *turnCtx) {
	victory := r.world.VictoryRoom()
	if t.state.IsGameOver() || victory == "" || t.state.CurrentRoomID != victory {
		return
	}
	t.state.GameStatus = session.StatusVictory
	t.fact("El grupo alcanza la libertad. ¡Victoria!")
	t.state.AppendHistory(session.Message{Role: session.RoleSystem, Content: "Victoria: el grupo ha escapado."})
	r.logger.Info("game over", zap.String("session", t.state.ID), zap.String("status", string(session.StatusVictory)))
}

// EndOfTurn runs only the end-of-turn checks on a copy of state. Running it
// on its own output yields the same state.
func (r *Resolver) EndOfTurn(state *session.State) Result {
	t := &turnCtx{emitter: newEmitter(), state: state.Clone()}
	r.endOfTurn(t)
	return t.result(t.state)
}
