package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/mazmorra/internal/config"
	"github.com/cory-johannsen/mazmorra/internal/game/dice"
)

func defaultConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func TestProvideWorld_Embedded(t *testing.T) {
	w, err := provideWorld(defaultConfig(t), zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, "start", w.StartRoom())
	assert.Equal(t, "victory_room", w.VictoryRoom())
}

func TestProvideWorld_MissingDir(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Game.ContentDir = t.TempDir()
	_, err := provideWorld(cfg, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestProvideScripts_Embedded(t *testing.T) {
	m, cleanup, err := provideScripts(defaultConfig(t), zaptest.NewLogger(t))
	require.NoError(t, err)
	defer cleanup()
	assert.True(t, m.HasZone("prision"))
}

func TestProvideDiceSource(t *testing.T) {
	cfg := defaultConfig(t)
	logger := zaptest.NewLogger(t)
	_, seeded := provideDiceSource(cfg, logger).(*dice.SeededSource)
	assert.False(t, seeded)

	cfg.Game.Seed = 42
	src, seeded := provideDiceSource(cfg, logger).(*dice.SeededSource)
	require.True(t, seeded)
	assert.Equal(t, int64(42), src.Seed())
}

func TestInitializeApp_ServesRoutes(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Server.GinMode = "test"
	a, cleanup, err := initializeApp(cfg)
	require.NoError(t, err)
	defer cleanup()
	require.NotNil(t, a.Lifecycle)

	for _, path := range []string{"/health", "/api/races", "/metrics"} {
		rec := httptest.NewRecorder()
		a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sessions", nil))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestInitializeApp_RejectsUnknownNarrator(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Narrator.Provider = "oraculo"
	_, _, err := initializeApp(cfg)
	assert.Error(t, err)
}
