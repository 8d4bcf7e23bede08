// Package turn resolves one batch of player actions against a session
// snapshot and reports what happened as fact lines, typed events and dice
// records.
package turn

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/mazmorra/internal/game/character"
	"github.com/cory-johannsen/mazmorra/internal/game/command"
	"github.com/cory-johannsen/mazmorra/internal/game/session"
	"github.com/cory-johannsen/mazmorra/internal/game/world"
)

// Dice is the subset of *dice.Roller the resolver uses.
type Dice interface {
	// D returns a value in [1, sides].
	D(sides int) int
	// Pick returns an index in [0, n).
	Pick(n int) int
}

// Resolver applies player actions to session snapshots.
//
// Resolver holds no per-session state; the caller serializes calls for the
// same session.
type Resolver struct {
	world  *world.Manager
	dice   Dice
	hooks  Hooks
	logger *zap.Logger
}

// NewResolver creates a Resolver.
//
// Precondition: w, d and logger must be non-nil. A nil hooks uses NopHooks.
func NewResolver(w *world.Manager, d Dice, hooks Hooks, logger *zap.Logger) *Resolver {
	if w == nil || d == nil || logger == nil {
		panic("turn.NewResolver: world, dice and logger must not be nil")
	}
	if hooks == nil {
		hooks = NopHooks{}
	}
	return &Resolver{world: w, dice: d, hooks: hooks, logger: logger}
}

// turnCtx is the working set of one Resolve call.
type turnCtx struct {
	*emitter
	state *session.State
}

// setFlag sets name and emits a flag_set event the first time.
func (t *turnCtx) setFlag(name string) {
	if name == "" {
		return
	}
	if t.state.WorldState.Set(name) {
		t.event(Event{Type: EventFlagSet, TargetID: name, Value: true, Description: "flag " + name})
	}
}

// Resolve runs one turn: every action in caller order, then enemy
// retaliation, then the end-of-turn checks.
//
// Precondition: state must be non-nil.
// Postcondition: state is not modified; Result.NewState is a new snapshot.
// A game-over state, an empty batch, or a batch with no action from a living
// player yields an unchanged copy and empty lists.
func (r *Resolver) Resolve(state *session.State, actions []Action) Result {
	t := &turnCtx{emitter: newEmitter(), state: state.Clone()}
	if state.IsGameOver() || len(actions) == 0 {
		return t.result(t.state)
	}

	processed := 0
	for _, a := range actions {
		p, ok := t.state.Player(a.PlayerID)
		if !ok || !p.Alive() {
			r.logger.Debug("skipping action",
				zap.String("session", t.state.ID),
				zap.String("player", a.PlayerID),
				zap.Bool("known", ok),
			)
			continue
		}
		r.resolveAction(t, p, a.ActionText)
		processed++
	}
	if processed == 0 {
		return t.result(t.state)
	}

	r.retaliate(t)
	r.endOfTurn(t)

	r.logger.Info("turn resolved",
		zap.String("session", t.state.ID),
		zap.Int("actions", len(actions)),
		zap.Int("facts", len(t.facts)),
		zap.Int("events", len(t.events)),
		zap.String("status", string(t.state.GameStatus)),
	)
	return t.result(t.state)
}

func (r *Resolver) resolveAction(t *turnCtx, p *character.Player, raw string) {
	text := command.Normalize(raw)
	intent := command.ClassifyNormalized(text)
	r.logger.Debug("resolving action",
		zap.String("player", p.ID),
		zap.String("intent", intent.String()),
	)
	t.state.AppendHistory(session.Message{Role: session.RoleUser, Content: raw, PlayerName: p.Name})
	t.outcomes = append(t.outcomes, Outcome{PlayerID: p.ID, Intent: intent.String()})

	room, ok := r.world.GetRoom(t.state.CurrentRoomID)
	if !ok {
		r.logger.Warn("session in unknown room", zap.String("room", t.state.CurrentRoomID))
		t.fact(p.Name + " no encuentra suelo bajo sus pies: la sala no existe.")
		return
	}

	switch intent {
	case command.IntentAbsurd:
		r.resolveAbsurd(t, p, raw)
	case command.IntentCombat:
		r.resolveCombat(t, room, p)
	case command.IntentSocial:
		r.resolveSocial(t, room, p, text)
	case command.IntentMovement:
		r.resolveMovement(t, room, p, text)
	case command.IntentPickup:
		r.resolvePickup(t, room, p, text)
	default:
		r.resolveObserve(t, room, p, raw)
	}
}

// entityState returns the session copy of e's combat stats, creating it from
// the template when the session predates the entity.
func (t *turnCtx) entityState(e *world.Entity) *session.EntityState {
	if es, ok := t.state.Entity(e.ID); ok {
		return es
	}
	es := &session.EntityState{HP: world.DefaultEnemyHP, MaxHP: world.DefaultEnemyHP, Damage: world.DefaultEnemyDamage}
	if e.Stats != nil {
		es = &session.EntityState{HP: e.Stats.HP, MaxHP: e.Stats.MaxHP, Damage: e.Stats.Damage}
	}
	t.state.Entities[e.ID] = es
	return es
}

// livingEnemies returns the visible enemies of room with no death flag and
// positive hp, in template order.
func (t *turnCtx) livingEnemies(room *world.Room) []*world.Entity {
	var out []*world.Entity
	for _, e := range room.VisibleEntities(t.state.WorldState) {
		if !e.IsEnemy || t.state.WorldState.Has(world.DeathFlag(e.ID)) {
			continue
		}
		if t.entityState(e).HP > 0 {
			out = append(out, e)
		}
	}
	return out
}
