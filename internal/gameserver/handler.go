package gameserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cory-johannsen/mazmorra/internal/game/character"
	"github.com/cory-johannsen/mazmorra/internal/game/session"
	"github.com/cory-johannsen/mazmorra/internal/game/turn"
	"github.com/cory-johannsen/mazmorra/internal/observability"
)

// In-fiction messages returned alongside every error response.
const (
	narrativeNotFound   = "Gritas en la oscuridad, pero esta mazmorra no existe. Ni siquiera el eco te responde."
	narrativeBadRequest = "El destino no entiende lo que pretendes. Vuelve a intentarlo con palabras de mortal."
	narrativeConflict   = "Ese nombre ya está grabado en los muros de esta celda. Elige otro."
	narrativeInternal   = "El abismo consume tus palabras... (Error del servidor)"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Narrative string `json:"narrative"`
	Error     string `json:"error"`
}

// SessionResponse wraps a session snapshot.
type SessionResponse struct {
	Session *session.State `json:"session"`
}

// JoinResponse is returned when a character joins.
type JoinResponse struct {
	Player  *character.Player `json:"player"`
	Session *session.State    `json:"session"`
}

// TurnRequest is the batch of actions for one turn.
type TurnRequest struct {
	Actions []turn.Action `json:"actions" binding:"required"`
}

// RacesResponse lists the playable races.
type RacesResponse struct {
	Races []*character.Race `json:"races"`
}

// Handler exposes a GameService over HTTP.
type Handler struct {
	svc     *GameService
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewHandler creates a Handler.
//
// Precondition: svc, metrics and logger must be non-nil.
func NewHandler(svc *GameService, metrics *observability.Metrics, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, metrics: metrics, logger: logger}
}

// NewRouter builds the gin engine with logging, recovery and all routes.
//
// Postcondition: Returns an engine ready to be served.
func NewRouter(h *Handler, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(logger), gin.Recovery())
	h.Register(r)
	return r
}

// Register mounts the routes on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/health", h.health)
	r.GET("/metrics", gin.WrapH(h.metrics.Handler()))

	api := r.Group("/api")
	api.GET("/races", h.listRaces)
	api.GET("/lobby/:code", h.lobby)
	api.POST("/sessions", h.createSession)
	api.GET("/sessions/:id", h.getSession)
	api.DELETE("/sessions/:id", h.deleteSession)
	api.POST("/sessions/:id/players", h.joinSession)
	api.POST("/sessions/:id/turns", h.submitTurn)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) listRaces(c *gin.Context) {
	c.JSON(http.StatusOK, RacesResponse{Races: character.AllRaces()})
}

func (h *Handler) lobby(c *gin.Context) {
	st, err := h.svc.FindSessionByCode(c.Param("code"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, SessionResponse{Session: st})
}

func (h *Handler) createSession(c *gin.Context) {
	st, err := h.svc.CreateSession()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, SessionResponse{Session: st})
}

func (h *Handler) getSession(c *gin.Context) {
	st, err := h.svc.GetSession(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, SessionResponse{Session: st})
}

func (h *Handler) deleteSession(c *gin.Context) {
	if err := h.svc.RemoveSession(c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) joinSession(c *gin.Context) {
	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	p, st, err := h.svc.JoinSession(c.Param("id"), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, JoinResponse{Player: p, Session: st})
}

func (h *Handler) submitTurn(c *gin.Context) {
	var req TurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	out, err := h.svc.SubmitTurn(c.Request.Context(), c.Param("id"), req.Actions)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, ErrorResponse{Narrative: narrativeBadRequest, Error: err.Error()})
}

// fail maps err onto a status code and an in-fiction message.
func (h *Handler) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	status, narrative := classifyError(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("unexpected game service error", zap.Error(err))
	}
	c.JSON(status, ErrorResponse{Narrative: narrative, Error: err.Error()})
}

func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound, narrativeNotFound
	case errors.Is(err, session.ErrPlayerExists):
		return http.StatusConflict, narrativeConflict
	case errors.Is(err, character.ErrUnknownRace),
		errors.Is(err, character.ErrPointBudget),
		errors.Is(err, character.ErrEmptyName):
		return http.StatusBadRequest, narrativeBadRequest
	default:
		return http.StatusInternalServerError, narrativeInternal
	}
}
