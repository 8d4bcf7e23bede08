package gameserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/mazmorra/content"
	"github.com/cory-johannsen/mazmorra/internal/game/character"
	"github.com/cory-johannsen/mazmorra/internal/game/session"
	"github.com/cory-johannsen/mazmorra/internal/game/turn"
	"github.com/cory-johannsen/mazmorra/internal/game/world"
	"github.com/cory-johannsen/mazmorra/internal/gameserver"
	"github.com/cory-johannsen/mazmorra/internal/narration"
	"github.com/cory-johannsen/mazmorra/internal/observability"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// constDice answers every roll and pick with the same value.
type constDice int

func (c constDice) D(int) int { return int(c) }

func (c constDice) Pick(n int) int { return int(c) % n }

type stubNarrator struct {
	text string
	err  error
}

func (s stubNarrator) Narrate(context.Context, narration.Request) (string, error) {
	return s.text, s.err
}

type fixture struct {
	svc     *gameserver.GameService
	router  *gin.Engine
	metrics *observability.Metrics
}

func newFixture(t *testing.T, d turn.Dice, n narration.Narrator, rules character.Rules) *fixture {
	t.Helper()
	logger := zaptest.NewLogger(t)
	zones, err := world.LoadZonesFromFS(content.FS, content.ZonesDir)
	require.NoError(t, err)
	w, err := world.NewManager(zones)
	require.NoError(t, err)

	m := observability.NewMetrics()
	svc := gameserver.NewGameService(
		w,
		session.NewManager(),
		turn.NewResolver(w, d, nil, logger),
		n,
		m,
		rules,
		20,
		logger,
	)
	return &fixture{
		svc:     svc,
		router:  gameserver.NewRouter(gameserver.NewHandler(svc, m, logger), logger),
		metrics: m,
	}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if s, ok := body.(string); ok {
		buf.WriteString(s)
	} else if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (f *fixture) createSession(t *testing.T) *session.State {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	return decode[gameserver.SessionResponse](t, rec).Session
}

func (f *fixture) join(t *testing.T, sessionID, name string) *character.Player {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/sessions/"+sessionID+"/players", gameserver.JoinRequest{
		Name:  name,
		Race:  "Humano",
		Bonus: character.Attributes{Agilidad: 5},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[gameserver.JoinResponse](t, rec).Player
}

func TestCreateSession(t *testing.T) {
	f := newFixture(t, constDice(10), stubNarrator{text: "ok"}, character.DefaultRules())
	s := f.createSession(t)

	assert.NotEmpty(t, s.ID)
	assert.Len(t, s.Code, 6)
	assert.Equal(t, strings.ToUpper(s.Code), s.Code)
	assert.Equal(t, "start", s.CurrentRoomID)
	assert.Equal(t, session.StatusPlaying, s.GameStatus)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SessionsActive))
}

func TestGetSession_NotFound(t *testing.T) {
	f := newFixture(t, constDice(10), stubNarrator{text: "ok"}, character.DefaultRules())
	rec := f.do(t, http.MethodGet, "/api/sessions/missing", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decode[gameserver.ErrorResponse](t, rec)
	assert.NotEmpty(t, body.Narrative)
	assert.Contains(t, body.Error, "session not found")
}

func TestLobby_FindsByCodeCaseInsensitive(t *testing.T) {
	f := newFixture(t, constDice(10), stubNarrator{text: "ok"}, character.DefaultRules())
	s := f.createSession(t)

	rec := f.do(t, http.MethodGet, "/api/lobby/"+strings.ToLower(s.Code), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, s.ID, decode[gameserver.SessionResponse](t, rec).Session.ID)

	rec = f.do(t, http.MethodGet, "/api/lobby/ZZZZZZ", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestJoinSession(t *testing.T) {
	f := newFixture(t, constDice(10), stubNarrator{text: "ok"}, character.DefaultRules())
	s := f.createSession(t)

	p := f.join(t, s.ID, "Ana")
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, 100, p.HP)
	assert.Equal(t, character.Attributes{Fuerza: 5, Agilidad: 10, Intelecto: 5, Presencia: 5}, p.Attributes)

	rec := f.do(t, http.MethodGet, "/api/sessions/"+s.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[gameserver.SessionResponse](t, rec).Session
	require.Len(t, got.Players, 1)
	assert.Equal(t, "Ana", got.Players[0].Name)
}

func TestJoinSession_Errors(t *testing.T) {
	f := newFixture(t, constDice(10), stubNarrator{text: "ok"}, character.DefaultRules())
	s := f.createSession(t)
	f.join(t, s.ID, "Ana")
	path := "/api/sessions/" + s.ID + "/players"

	tests := []struct {
		name string
		body any
		want int
	}{
		{"duplicate name", gameserver.JoinRequest{Name: "ana", Race: "Elfo", Bonus: character.Attributes{Fuerza: 5}}, http.StatusConflict},
		{"unknown race", gameserver.JoinRequest{Name: "Bo", Race: "Goblin", Bonus: character.Attributes{Fuerza: 5}}, http.StatusBadRequest},
		{"points not spent", gameserver.JoinRequest{Name: "Bo", Race: "Elfo", Bonus: character.Attributes{Fuerza: 2}}, http.StatusBadRequest},
		{"malformed json", `{"name":`, http.StatusBadRequest},
		{"missing name", `{"race":"Elfo"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, path, tt.body)
			assert.Equal(t, tt.want, rec.Code)
			assert.NotEmpty(t, decode[gameserver.ErrorResponse](t, rec).Narrative)
		})
	}

	rec := f.do(t, http.MethodPost, "/api/sessions/missing/players",
		gameserver.JoinRequest{Name: "Bo", Race: "Elfo", Bonus: character.Attributes{Fuerza: 5}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitTurn_Narrated(t *testing.T) {
	f := newFixture(t, constDice(10), stubNarrator{text: "La celda huele a derrota."}, character.DefaultRules())
	s := f.createSession(t)
	p := f.join(t, s.ID, "Ana")

	rec := f.do(t, http.MethodPost, "/api/sessions/"+s.ID+"/turns", gameserver.TurnRequest{
		Actions: []turn.Action{{PlayerID: p.ID, PlayerName: p.Name, ActionText: "Miro a mi alrededor"}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decode[gameserver.TurnOutcome](t, rec)

	assert.Equal(t, "La celda huele a derrota.", out.Narrative)
	assert.False(t, out.Fallback)
	require.Len(t, out.FactLines, 1)
	assert.Contains(t, out.FactLines[0], "Ana observa")
	require.Len(t, out.Session.History, 2)
	assert.Equal(t, session.RoleUser, out.Session.History[0].Role)
	assert.Equal(t, session.RoleAssistant, out.Session.History[1].Role)
	assert.Equal(t, out.Narrative, out.Session.History[1].Content)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.TurnsResolved))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Actions.WithLabelValues("observe")))
}

func TestSubmitTurn_NarratorFailureFallsBack(t *testing.T) {
	f := newFixture(t, constDice(10), stubNarrator{err: errors.New("rate limited")}, character.DefaultRules())
	s := f.createSession(t)
	p := f.join(t, s.ID, "Ana")

	rec := f.do(t, http.MethodPost, "/api/sessions/"+s.ID+"/turns", gameserver.TurnRequest{
		Actions: []turn.Action{{PlayerID: p.ID, PlayerName: p.Name, ActionText: "quiero volar"}},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode[gameserver.TurnOutcome](t, rec)

	assert.True(t, out.Fallback)
	assert.Equal(t, narration.Fallback(out.FactLines), out.Narrative)
	assert.Empty(t, out.DiceRolls)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.NarrationFallbacks))
}

func TestSubmitTurn_DeathEndsGame(t *testing.T) {
	rules := character.Rules{AttributePoints: 5, StartingHP: 1}
	f := newFixture(t, constDice(8), stubNarrator{text: "Fin."}, rules)
	s := f.createSession(t)
	p := f.join(t, s.ID, "Ana")
	turnPath := "/api/sessions/" + s.ID + "/turns"
	attack := gameserver.TurnRequest{
		Actions: []turn.Action{{PlayerID: p.ID, PlayerName: p.Name, ActionText: "atacar al guardia"}},
	}

	rec := f.do(t, http.MethodPost, turnPath, attack)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode[gameserver.TurnOutcome](t, rec)
	assert.Equal(t, session.StatusDeath, out.Session.GameStatus)
	assert.Equal(t, 0, out.Session.Players[0].HP)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.GamesFinished.WithLabelValues("death")))
	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.DiceChecks.WithLabelValues("success")), "player attack and guard strike both hit")

	rec = f.do(t, http.MethodPost, turnPath, attack)
	require.Equal(t, http.StatusOK, rec.Code)
	after := decode[gameserver.TurnOutcome](t, rec)
	assert.Equal(t, gameserver.GameOverNarrative, after.Narrative)
	assert.Empty(t, after.FactLines)
	assert.Equal(t, out.Session.History, after.Session.History)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.GamesFinished.WithLabelValues("death")))
}

func TestSubmitTurn_BadRequests(t *testing.T) {
	f := newFixture(t, constDice(10), stubNarrator{text: "ok"}, character.DefaultRules())
	s := f.createSession(t)

	rec := f.do(t, http.MethodPost, "/api/sessions/"+s.ID+"/turns", `{"actions": "nope"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/sessions/missing/turns", gameserver.TurnRequest{Actions: []turn.Action{}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteSession(t *testing.T) {
	f := newFixture(t, constDice(10), stubNarrator{text: "ok"}, character.DefaultRules())
	s := f.createSession(t)

	rec := f.do(t, http.MethodDelete, "/api/sessions/"+s.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0.0, testutil.ToFloat64(f.metrics.SessionsActive))

	rec = f.do(t, http.MethodGet, "/api/sessions/"+s.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRacesHealthAndMetrics(t *testing.T) {
	f := newFixture(t, constDice(10), stubNarrator{text: "ok"}, character.DefaultRules())

	rec := f.do(t, http.MethodGet, "/api/races", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[gameserver.RacesResponse](t, rec).Races, 4)

	rec = f.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	f.createSession(t)
	rec = f.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "mazmorra_sessions_active 1")
}

func TestRequestLogger_SetsRequestID(t *testing.T) {
	f := newFixture(t, constDice(10), stubNarrator{text: "ok"}, character.DefaultRules())

	rec := f.do(t, http.MethodGet, "/api/races", nil)
	assert.NotEmpty(t, rec.Header().Get(gameserver.RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/api/races", nil)
	req.Header.Set(gameserver.RequestIDHeader, "abc")
	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Header().Get(gameserver.RequestIDHeader))
}
