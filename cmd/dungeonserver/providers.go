package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/cory-johannsen/mazmorra/content"
	"github.com/cory-johannsen/mazmorra/internal/config"
	"github.com/cory-johannsen/mazmorra/internal/game/character"
	"github.com/cory-johannsen/mazmorra/internal/game/dice"
	"github.com/cory-johannsen/mazmorra/internal/game/session"
	"github.com/cory-johannsen/mazmorra/internal/game/turn"
	"github.com/cory-johannsen/mazmorra/internal/game/world"
	"github.com/cory-johannsen/mazmorra/internal/gameserver"
	"github.com/cory-johannsen/mazmorra/internal/narration"
	"github.com/cory-johannsen/mazmorra/internal/observability"
	"github.com/cory-johannsen/mazmorra/internal/scripting"
	"github.com/cory-johannsen/mazmorra/internal/server"
)

// providerSet wires the dungeon server from a loaded Config.
var providerSet = wire.NewSet(
	provideLogger,
	provideWorld,
	provideScripts,
	provideDiceSource,
	dice.NewLoggedRoller,
	wire.Bind(new(turn.Dice), new(*dice.Roller)),
	wire.Bind(new(turn.Hooks), new(*scripting.Manager)),
	turn.NewResolver,
	provideNarrator,
	observability.NewMetrics,
	session.NewManager,
	provideGameService,
	gameserver.NewHandler,
	provideRouter,
	provideLifecycle,
	wire.Struct(new(app), "*"),
)

// app is the assembled server.
type app struct {
	Lifecycle *server.Lifecycle
	Router    *gin.Engine
	Logger    *zap.Logger
}

func provideLogger(cfg config.Config) (*zap.Logger, func(), error) {
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing logger: %w", err)
	}
	return logger, func() { _ = logger.Sync() }, nil
}

// provideWorld loads zones from game.content_dir, or the embedded dungeon
// when it is empty.
func provideWorld(cfg config.Config, logger *zap.Logger) (*world.Manager, error) {
	start := time.Now()
	var (
		zones []*world.Zone
		err   error
	)
	if cfg.Game.ContentDir == "" {
		zones, err = world.LoadZonesFromFS(content.FS, content.ZonesDir)
	} else {
		zones, err = world.LoadZonesFromDir(cfg.Game.ContentDir)
	}
	if err != nil {
		return nil, fmt.Errorf("loading zones: %w", err)
	}
	w, err := world.NewManager(zones)
	if err != nil {
		return nil, fmt.Errorf("creating world manager: %w", err)
	}
	logger.Info("world loaded",
		zap.Int("zones", w.ZoneCount()),
		zap.Int("rooms", w.RoomCount()),
		zap.String("start_room", w.StartRoom()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return w, nil
}

func provideScripts(cfg config.Config, logger *zap.Logger) (*scripting.Manager, func(), error) {
	m := scripting.NewManager(cfg.Game.ScriptInstructionLimit, logger)
	var err error
	if cfg.Game.ScriptDir == "" {
		err = m.LoadAll(content.FS, content.ScriptsDir)
	} else {
		err = m.LoadAll(os.DirFS(cfg.Game.ScriptDir), ".")
	}
	if err != nil {
		m.Close()
		return nil, nil, fmt.Errorf("loading scripts: %w", err)
	}
	return m, m.Close, nil
}

func provideDiceSource(cfg config.Config, logger *zap.Logger) dice.Source {
	if cfg.Game.Seed != 0 {
		logger.Info("dice seeded", zap.Int64("seed", cfg.Game.Seed))
		return dice.NewSeededSource(cfg.Game.Seed)
	}
	return dice.NewCryptoSource()
}

func provideNarrator(cfg config.Config, logger *zap.Logger) (narration.Narrator, error) {
	n, err := narration.New(cfg.Narrator)
	if err != nil {
		return nil, fmt.Errorf("creating narrator: %w", err)
	}
	logger.Info("narrator ready",
		zap.String("provider", cfg.Narrator.Provider),
		zap.String("model", cfg.Narrator.Model),
	)
	return n, nil
}

func provideGameService(
	cfg config.Config,
	w *world.Manager,
	sessions *session.Manager,
	resolver *turn.Resolver,
	narrator narration.Narrator,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *gameserver.GameService {
	rules := character.Rules{
		AttributePoints: cfg.Game.AttributePoints,
		StartingHP:      cfg.Game.StartingHP,
	}
	return gameserver.NewGameService(w, sessions, resolver, narrator, metrics, rules, cfg.Game.HistoryLimit, logger)
}

func provideRouter(cfg config.Config, h *gameserver.Handler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(cfg.Server.GinMode)
	return gameserver.NewRouter(h, logger)
}

func provideLifecycle(cfg config.Config, router *gin.Engine, logger *zap.Logger) *server.Lifecycle {
	lc := server.NewLifecycle(logger, cfg.Server.ShutdownTimeout)
	lc.Add("http", &server.HTTPService{Server: &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}})
	return lc
}
