package gameserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/mazmorra/internal/game/character"
	"github.com/cory-johannsen/mazmorra/internal/game/session"
	"github.com/cory-johannsen/mazmorra/internal/game/turn"
	"github.com/cory-johannsen/mazmorra/internal/game/world"
	"github.com/cory-johannsen/mazmorra/internal/narration"
	"github.com/cory-johannsen/mazmorra/internal/observability"
)

// joinCodeLen is the length of a session's lobby code.
const joinCodeLen = 6

// GameOverNarrative answers turns submitted to a finished session.
const GameOverNarrative = "La partida ha terminado. Los muertos no actúan y los libres no vuelven."

// JoinRequest describes a character joining a session.
type JoinRequest struct {
	Name  string               `json:"name" binding:"required"`
	Race  string               `json:"race" binding:"required"`
	Bonus character.Attributes `json:"bonus"`
}

// TurnOutcome is the resolved and narrated result of one turn.
type TurnOutcome struct {
	Narrative string          `json:"narrative"`
	FactLines []string        `json:"factLines"`
	Events    []turn.Event    `json:"events"`
	DiceRolls []turn.DiceRoll `json:"diceRolls"`
	Session   *session.State  `json:"session"`
	Fallback  bool            `json:"narrationFallback"`
}

// GameService orchestrates sessions, the turn resolver and the narrator.
// It is the authoritative caller of the resolver: turns for one session are
// serialized by session.Manager.Update.
type GameService struct {
	world        *world.Manager
	sessions     *session.Manager
	resolver     *turn.Resolver
	narrator     narration.Narrator
	metrics      *observability.Metrics
	rules        character.Rules
	historyLimit int
	logger       *zap.Logger
}

// NewGameService creates a GameService.
//
// Precondition: every argument except narrator must be non-nil; a nil
// narrator narrates with the raw fact lines.
// Postcondition: Returns a ready GameService.
func NewGameService(
	worldMgr *world.Manager,
	sessMgr *session.Manager,
	resolver *turn.Resolver,
	narrator narration.Narrator,
	metrics *observability.Metrics,
	rules character.Rules,
	historyLimit int,
	logger *zap.Logger,
) *GameService {
	if narrator == nil {
		narrator = narration.Static{}
	}
	return &GameService{
		world:        worldMgr,
		sessions:     sessMgr,
		resolver:     resolver,
		narrator:     narrator,
		metrics:      metrics,
		rules:        rules,
		historyLimit: historyLimit,
		logger:       logger,
	}
}

// CreateSession starts a new game in the dungeon's start room.
//
// Postcondition: The session is registered and has a joinCodeLen lobby code.
func (s *GameService) CreateSession() (*session.State, error) {
	id := uuid.NewString()
	code := strings.ToUpper(strings.ReplaceAll(id, "-", "")[:joinCodeLen])
	st := session.New(id, code, s.world.StartRoom(), s.world.CombatEntities())
	if err := s.sessions.Create(st); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	s.metrics.SessionsActive.Set(float64(s.sessions.Count()))
	s.logger.Info("session created",
		zap.String("session", id),
		zap.String("code", code),
	)
	return st.Clone(), nil
}

// GetSession returns a snapshot of session id.
func (s *GameService) GetSession(id string) (*session.State, error) {
	return s.sessions.Get(id)
}

// FindSessionByCode returns a snapshot of the session with the lobby code.
func (s *GameService) FindSessionByCode(code string) (*session.State, error) {
	return s.sessions.FindByCode(strings.ToUpper(strings.TrimSpace(code)))
}

// JoinSession builds a character and adds it to session id.
//
// Postcondition: Returns an error wrapping session.ErrNotFound,
// session.ErrPlayerExists (name taken), or a character creation error.
func (s *GameService) JoinSession(id string, req JoinRequest) (*character.Player, *session.State, error) {
	p, err := character.Build(character.Spec{
		ID:    uuid.NewString(),
		Name:  req.Name,
		Race:  req.Race,
		Bonus: req.Bonus,
	}, s.rules)
	if err != nil {
		return nil, nil, err
	}

	st, err := s.sessions.Update(id, func(cur *session.State) (*session.State, error) {
		for _, existing := range cur.Players {
			if strings.EqualFold(existing.Name, p.Name) {
				return nil, fmt.Errorf("%w: name %q", session.ErrPlayerExists, p.Name)
			}
		}
		if err := cur.AddPlayer(p); err != nil {
			return nil, err
		}
		return cur, nil
	})
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info("player joined",
		zap.String("session", id),
		zap.String("player", p.ID),
		zap.String("name", p.Name),
		zap.String("race", string(p.Race)),
	)
	return p.Clone(), st, nil
}

// SubmitTurn resolves actions against session id, narrates the result and
// commits the new snapshot. Narration failures fall back to the fact lines
// and never fail the turn.
//
// The narrator is called while the session is locked, so the next turn of the
// same session always sees this turn's narration in its history. Reads of
// that session wait up to narrator.timeout; other sessions are unaffected.
//
// Postcondition: On success the stored session equals TurnOutcome.Session.
func (s *GameService) SubmitTurn(ctx context.Context, id string, actions []turn.Action) (*TurnOutcome, error) {
	var out *TurnOutcome
	_, err := s.sessions.Update(id, func(cur *session.State) (*session.State, error) {
		wasOver := cur.IsGameOver()
		res := s.resolver.Resolve(cur, actions)
		next := res.NewState

		var narrative string
		var fellBack bool
		switch {
		case wasOver:
			narrative = GameOverNarrative
		case len(res.FactLines) > 0:
			room, _ := s.world.GetRoom(next.CurrentRoomID)
			narrative, fellBack = narration.Narrate(ctx, s.narrator, narration.Request{
				Players:   next.Players,
				Room:      room,
				Flags:     next.WorldState.Names(),
				FactLines: res.FactLines,
				History:   next.RecentHistory(s.historyLimit),
			}, s.logger)
			next.AppendHistory(session.Message{Role: session.RoleAssistant, Content: narrative})
		}

		s.observeTurn(res, fellBack, !wasOver && next.IsGameOver())
		out = &TurnOutcome{
			Narrative: narrative,
			FactLines: res.FactLines,
			Events:    res.Events,
			DiceRolls: res.DiceRolls,
			Session:   next,
			Fallback:  fellBack,
		}
		return next, nil
	})
	if err != nil {
		return nil, err
	}
	out.Session = out.Session.Clone()
	return out, nil
}

func (s *GameService) observeTurn(res turn.Result, fellBack, finished bool) {
	s.metrics.TurnsResolved.Inc()
	for _, o := range res.Outcomes {
		s.metrics.Actions.WithLabelValues(o.Intent).Inc()
	}
	for _, r := range res.DiceRolls {
		s.metrics.ObserveDiceCheck(r.Success)
	}
	if fellBack {
		s.metrics.NarrationFallbacks.Inc()
	}
	if finished {
		s.metrics.GamesFinished.WithLabelValues(string(res.NewState.GameStatus)).Inc()
	}
}

// RemoveSession drops session id from memory.
func (s *GameService) RemoveSession(id string) error {
	if err := s.sessions.Remove(id); err != nil {
		return err
	}
	s.metrics.SessionsActive.Set(float64(s.sessions.Count()))
	s.logger.Info("session removed", zap.String("session", id))
	return nil
}
