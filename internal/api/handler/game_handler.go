package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ringside/blackjack-api/internal/core/ports"
)

// IdempotencyKeyHeader is the request header carrying a save idempotency key.
const IdempotencyKeyHeader = "Idempotency-Key"

// GameHandler handles HTTP requests for rounds and the game history.
type GameHandler struct {
	rounds  ports.RoundService
	history ports.HistoryService
}

func NewGameHandler(rounds ports.RoundService, history ports.HistoryService) *GameHandler {
	return &GameHandler{rounds: rounds, history: history}
}

// Start handles POST /api/game/start.
//
// @Summary      Start a round
// @Description  Shuffles a fresh deck and deals two cards each. The dealer's second card is concealed.
// @Tags         game
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  roundResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/game/start [post]
func (h *GameHandler) Start(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	view, err := h.rounds.Start(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRoundResponse(view))
}

// Hit handles POST /api/game/hit.
//
// @Summary      Hit
// @Description  Draws one card for the player from the submitted round state.
// @Tags         game
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      roundRequest  true  "Current round state"
// @Success      200   {object}  roundResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/game/hit [post]
func (h *GameHandler) Hit(c echo.Context) error {
	userID, in, err := h.bindRound(c)
	if err != nil {
		return err
	}

	view, err := h.rounds.Hit(c.Request().Context(), toRoundInput(in, userID))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRoundResponse(view))
}

// Stand handles POST /api/game/stand.
//
// @Summary      Stand
// @Description  Plays the dealer out (stands on all 17s) and settles the round.
// @Tags         game
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      roundRequest  true  "Current round state"
// @Success      200   {object}  roundResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/game/stand [post]
func (h *GameHandler) Stand(c echo.Context) error {
	userID, in, err := h.bindRound(c)
	if err != nil {
		return err
	}

	view, err := h.rounds.Stand(c.Request().Context(), toRoundInput(in, userID))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRoundResponse(view))
}

func (h *GameHandler) bindRound(c echo.Context) (int64, roundRequest, error) {
	var req roundRequest
	userID, err := ctxUserID(c)
	if err != nil {
		return 0, req, err
	}
	if err := c.Bind(&req); err != nil {
		return 0, req, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return 0, req, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return userID, req, nil
}

// Save handles POST /api/game/save.
//
// @Summary      Save a finished round
// @Tags         game
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string           false  "Replays the first save made with this key"
// @Param        body             body      saveGameRequest  true   "Finished round"
// @Success      201              {object}  saveGameResponse
// @Success      200              {object}  saveGameResponse  "Replayed save"
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Failure      503              {object}  errorResponse
// @Router       /api/game/save [post]
func (h *GameHandler) Save(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req saveGameRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	key := c.Request().Header.Get(IdempotencyKeyHeader)
	res, err := h.history.Save(c.Request().Context(), toSaveInput(req, userID, key))
	if err != nil {
		return err
	}

	status := http.StatusCreated
	if res.Replayed {
		status = http.StatusOK
	}
	return c.JSON(status, saveGameResponse{Success: true, RecordID: res.RecordID, Replayed: res.Replayed})
}

// History handles GET /api/game/history.
//
// @Summary      Recent games
// @Tags         game
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Number of records (default 10, max 100)"
// @Success      200    {array}   gameRecordResponse
// @Failure      400    {object}  errorResponse
// @Failure      401    {object}  errorResponse
// @Router       /api/game/history [get]
func (h *GameHandler) History(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
	}

	records, err := h.history.History(c.Request().Context(), userID, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toGameRecordResponses(records))
}

// Stats handles GET /api/game/stats.
//
// @Summary      Lifetime statistics
// @Tags         game
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Stats
// @Failure      401  {object}  errorResponse
// @Router       /api/game/stats [get]
func (h *GameHandler) Stats(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	stats, err := h.history.Stats(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
